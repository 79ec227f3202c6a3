package policy

import "github.com/erazemk/najdeno/internal/model"

// Operation is a mutating action on an item.
type Operation string

// Operations.
const (
	OpUpdateStatus Operation = "update_status"
	OpDelete       Operation = "delete"
)

// CanMutate reports whether actor may perform op on item. A nil actor may
// not mutate anything.
func CanMutate(actor *model.Account, item *model.Item, op Operation) bool {
	if actor == nil || item == nil {
		return false
	}
	switch op {
	case OpUpdateStatus, OpDelete:
		return actor.Role == model.RoleAdmin || (actor.ID != "" && actor.ID == item.OwnerID)
	}
	return false
}

// RevealContact reports whether the owner's contact details may be shown.
func RevealContact(actor *model.Account) bool {
	return actor != nil
}
