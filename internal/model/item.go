package model

import "time"

// Item is a lost or found report.
type Item struct {
	ID                int64             `json:"id"`
	Title             string            `json:"title"`
	Category          Category          `json:"category"`
	Status            Status            `json:"status"`
	Date              string            `json:"date"`
	Location          string            `json:"location"`
	Description       string            `json:"description,omitempty"`
	MediaLocator      string            `json:"media_locator,omitempty"`
	ContactPreference ContactPreference `json:"contact_preference,omitempty"`
	OwnerID           string            `json:"owner_id"`
	CreatedAt         time.Time         `json:"created_at"`

	// Joined fields (only populated when contact details may be shown).
	OwnerName  string `json:"owner_name,omitempty"`
	OwnerEmail string `json:"owner_email,omitempty"`
}

// HideContact clears the joined owner contact fields.
func (i *Item) HideContact() {
	i.OwnerName = ""
	i.OwnerEmail = ""
}

// Status is an item's place in the recovery lifecycle.
type Status string

// Item statuses.
const (
	StatusLost     Status = "lost"
	StatusFound    Status = "found"
	StatusReturned Status = "returned"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusLost, StatusFound, StatusReturned:
		return true
	}
	return false
}

// Category groups items for browsing.
type Category string

// Item categories.
const (
	CategoryElectronics Category = "electronics"
	CategoryIDCards     Category = "id_cards"
	CategoryBooks       Category = "books"
	CategoryAccessories Category = "accessories"
	CategoryOthers      Category = "others"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryElectronics,
	CategoryIDCards,
	CategoryBooks,
	CategoryAccessories,
	CategoryOthers,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ReportType is what the reporter declares: they lost something or found it.
type ReportType string

// Report types.
const (
	ReportLost  ReportType = "lost"
	ReportFound ReportType = "found"
)

// InitialStatus maps a report type to the status a new item starts in.
func (r ReportType) InitialStatus() (Status, bool) {
	switch r {
	case ReportLost:
		return StatusLost, true
	case ReportFound:
		return StatusFound, true
	}
	return "", false
}

// ContactPreference is how the reporter wants to be reached.
type ContactPreference string

// Contact preferences.
const (
	ContactEmail ContactPreference = "email"
	ContactInApp ContactPreference = "in_app"
)

// Valid reports whether p is a known contact preference.
func (p ContactPreference) Valid() bool {
	return p == ContactEmail || p == ContactInApp
}

// DateLayout is the format of Item.Date.
const DateLayout = "2006-01-02"

// Draft is the user-supplied part of a new item. It has no status and no
// owner; both are derived by the service.
type Draft struct {
	Title             string            `json:"title"`
	Category          Category          `json:"category"`
	Date              string            `json:"date"`
	Location          string            `json:"location"`
	Description       string            `json:"description"`
	MediaLocator      string            `json:"media_locator"`
	ContactPreference ContactPreference `json:"contact_preference"`
	ReportType        ReportType        `json:"report_type"`
}

// Filter selects items. Zero-valued fields do not filter.
type Filter struct {
	Status   Status
	Category Category
	Text     string
	OwnerID  string
	Limit    int
}
