// Package service implements the registry's use cases. Every operation takes
// the acting account explicitly; a nil actor is an anonymous caller.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/media"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/policy"
)

// ItemRepository persists items.
type ItemRepository interface {
	Insert(ctx context.Context, item *model.Item) (*model.Item, error)
	Get(ctx context.Context, id int64) (*model.Item, error)
	Query(ctx context.Context, f model.Filter) ([]model.Item, error)
	UpdateStatus(ctx context.Context, id int64, status model.Status) (*model.Item, error)
	Delete(ctx context.Context, id int64) error
}

// UploadRepository records who uploaded each media locator.
type UploadRepository interface {
	Record(ctx context.Context, locator, accountID string) error
	Uploader(ctx context.Context, locator string) (string, error)
	Forget(ctx context.Context, locator string) error
}

// locatorResolver is implemented by media stores that can check a locator
// without touching the blob.
type locatorResolver interface {
	Resolve(locator string) (string, error)
}

// MaxTitleLength bounds item titles.
const MaxTitleLength = 200

// ItemService runs the item lifecycle.
type ItemService struct {
	Items   ItemRepository
	Uploads UploadRepository
	Media   media.Store
}

// ItemView is a single item as seen by a particular actor.
type ItemView struct {
	model.Item
	RevealContact bool           `json:"reveal_contact"`
	CanManage     bool           `json:"can_manage"`
	NextStatuses  []model.Status `json:"next_statuses,omitempty"`
}

// Create stores a new item owned by actor. The status comes from the
// draft's report type.
func (s *ItemService) Create(ctx context.Context, actor *model.Account, draft model.Draft) (*model.Item, error) {
	if actor == nil {
		return nil, fmt.Errorf("creating item: %w", apperr.ErrAuth)
	}

	item, err := s.itemFromDraft(draft)
	if err != nil {
		return nil, err
	}
	if item.MediaLocator != "" {
		if err := s.checkUploader(ctx, actor, item.MediaLocator); err != nil {
			return nil, err
		}
	}
	item.OwnerID = actor.ID

	created, err := s.Items.Insert(ctx, item)
	if err != nil {
		return nil, err
	}

	slog.Info("item created", "account", actor.ID, "item", created.ID, "status", created.Status)
	created.HideContact()
	return created, nil
}

func (s *ItemService) itemFromDraft(d model.Draft) (*model.Item, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return nil, apperr.Invalid("title", "title required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, apperr.Invalid("title", "title must be at most %d characters", MaxTitleLength)
	}
	if !d.Category.Valid() {
		return nil, apperr.Invalid("category", "unknown category %q", d.Category)
	}
	status, ok := d.ReportType.InitialStatus()
	if !ok {
		return nil, apperr.Invalid("report_type", "report type must be %q or %q", model.ReportLost, model.ReportFound)
	}
	contact := model.ContactPreference(strings.TrimSpace(string(d.ContactPreference)))
	if contact == "" {
		contact = model.ContactEmail
	}
	if !contact.Valid() {
		return nil, apperr.Invalid("contact_preference", "contact preference must be %q or %q", model.ContactEmail, model.ContactInApp)
	}
	date := strings.TrimSpace(d.Date)
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, apperr.Invalid("date", "date must be formatted as YYYY-MM-DD")
	}

	locator := strings.TrimSpace(d.MediaLocator)
	if locator != "" {
		if r, ok := s.Media.(locatorResolver); ok {
			if _, err := r.Resolve(locator); err != nil {
				return nil, apperr.Invalid("media_locator", "media locator was not issued by this registry")
			}
		}
	}

	return &model.Item{
		Title:             title,
		Category:          d.Category,
		Status:            status,
		Date:              date,
		Location:          strings.TrimSpace(d.Location),
		Description:       strings.TrimSpace(d.Description),
		MediaLocator:      locator,
		ContactPreference: contact,
	}, nil
}

// checkUploader accepts a locator only from the account that uploaded it.
// A locator already attached to an item is rejected by the repository.
func (s *ItemService) checkUploader(ctx context.Context, actor *model.Account, locator string) error {
	uploader, err := s.Uploads.Uploader(ctx, locator)
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.Invalid("media_locator", "media locator was not uploaded by you")
	}
	if err != nil {
		return err
	}
	if uploader != actor.ID {
		return apperr.Invalid("media_locator", "media locator was not uploaded by you")
	}
	return nil
}

// List returns matching items, newest first. Owner contact details are
// never included in listings.
func (s *ItemService) List(ctx context.Context, f model.Filter) ([]model.Item, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Invalid("status", "unknown status %q", f.Status)
	}
	if f.Category != "" && !f.Category.Valid() {
		return nil, apperr.Invalid("category", "unknown category %q", f.Category)
	}
	if f.Limit < 0 {
		return nil, apperr.Invalid("limit", "limit must not be negative")
	}

	items, err := s.Items.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].HideContact()
	}
	return items, nil
}

// Get returns one item. Contact details are included only for signed-in
// actors.
func (s *ItemService) Get(ctx context.Context, actor *model.Account, id int64) (*ItemView, error) {
	item, err := s.Items.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &ItemView{Item: *item, RevealContact: policy.RevealContact(actor)}
	if !view.RevealContact {
		view.HideContact()
	}
	if policy.CanMutate(actor, item, policy.OpUpdateStatus) {
		view.CanManage = true
		view.NextStatuses = policy.NextStatuses(item.Status, actor.Role)
	}
	return view, nil
}

// TransitionStatus moves an item to requested if actor may mutate it and
// the lifecycle allows the change. On any error the item is unchanged.
// Concurrent transitions on one item are last-write-wins.
func (s *ItemService) TransitionStatus(ctx context.Context, actor *model.Account, id int64, requested model.Status) (*model.Item, error) {
	if actor == nil {
		return nil, fmt.Errorf("changing item status: %w", apperr.ErrAuth)
	}

	item, err := s.Items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutate(actor, item, policy.OpUpdateStatus) {
		return nil, fmt.Errorf("changing status of item %d: %w", id, apperr.ErrForbidden)
	}
	if err := policy.Transition(item.Status, requested, actor.Role); err != nil {
		return nil, err
	}

	updated, err := s.Items.UpdateStatus(ctx, id, requested)
	if err != nil {
		return nil, err
	}

	slog.Info("item status changed", "account", actor.ID, "item", id, "from", item.Status, "to", updated.Status)
	updated.HideContact()
	return updated, nil
}

// Delete removes an item. Its blob is removed first; a failed blob removal
// is logged and never blocks the record delete, whose result is returned.
func (s *ItemService) Delete(ctx context.Context, actor *model.Account, id int64) error {
	if actor == nil {
		return fmt.Errorf("deleting item: %w", apperr.ErrAuth)
	}

	item, err := s.Items.Get(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanMutate(actor, item, policy.OpDelete) {
		return fmt.Errorf("deleting item %d: %w", id, apperr.ErrForbidden)
	}

	if item.MediaLocator != "" {
		s.removeMedia(ctx, item)
		if err := s.Uploads.Forget(ctx, item.MediaLocator); err != nil {
			slog.Error("failed to forget media upload", "item", id, "locator", item.MediaLocator, "error", err)
		}
	}

	if err := s.Items.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("item deleted", "account", actor.ID, "item", id, "owner", item.OwnerID)
	return nil
}

func (s *ItemService) removeMedia(ctx context.Context, item *model.Item) {
	if s.Media == nil {
		slog.Warn("no media store configured, leaving blob behind", "item", item.ID, "locator", item.MediaLocator)
		return
	}
	if err := s.Media.Remove(ctx, item.MediaLocator); err != nil {
		slog.Error("failed to remove item media, deleting record anyway",
			"item", item.ID, "locator", item.MediaLocator, "error", err)
		return
	}
	slog.Info("item media removed", "item", item.ID, "locator", item.MediaLocator)
}

// UploadMedia normalises an image and stores it, returning the locator to
// put on a draft. Upload happens before the item exists; a blob whose item
// is never created is left behind.
func (s *ItemService) UploadMedia(ctx context.Context, actor *model.Account, data []byte, filename string) (string, error) {
	if actor == nil {
		return "", fmt.Errorf("uploading media: %w", apperr.ErrAuth)
	}
	if s.Media == nil {
		return "", &apperr.StorageError{Op: "upload", Err: fmt.Errorf("no media store configured")}
	}

	normalized, err := imaging.Normalize(data)
	if err != nil {
		return "", err
	}

	name := strings.TrimSuffix(filename, filepath.Ext(filename)) + imaging.Extension
	locator, err := s.Media.Upload(ctx, normalized, name)
	if err != nil {
		slog.Error("failed to upload media", "account", actor.ID, "error", err)
		return "", err
	}

	if err := s.Uploads.Record(ctx, locator, actor.ID); err != nil {
		if rerr := s.Media.Remove(ctx, locator); rerr != nil {
			slog.Error("failed to remove unrecorded media", "locator", locator, "error", rerr)
		}
		return "", err
	}

	slog.Info("media uploaded", "account", actor.ID, "locator", locator, "bytes", len(normalized))
	return locator, nil
}

// Dashboard lists the actor's own items.
func (s *ItemService) Dashboard(ctx context.Context, actor *model.Account) ([]model.Item, error) {
	if actor == nil {
		return nil, fmt.Errorf("listing own items: %w", apperr.ErrAuth)
	}
	return s.List(ctx, model.Filter{OwnerID: actor.ID})
}

// AdminList lists every item with its owner's contact details.
func (s *ItemService) AdminList(ctx context.Context, actor *model.Account) ([]model.Item, error) {
	if actor == nil {
		return nil, fmt.Errorf("listing all items: %w", apperr.ErrAuth)
	}
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("listing all items: %w", apperr.ErrForbidden)
	}
	return s.Items.Query(ctx, model.Filter{})
}
