package policy

import (
	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/model"
)

// ownerTransitions lists the status changes open to an item's owner.
var ownerTransitions = map[model.Status][]model.Status{
	model.StatusLost:     {model.StatusFound},
	model.StatusFound:    {model.StatusReturned},
	model.StatusReturned: {model.StatusFound},
}

// Transition validates a change from current to requested for an actor with
// role. Admins may force any item to returned; everything else follows the
// owner table. Anything outside it is a TransitionError.
func Transition(current, requested model.Status, role model.Role) error {
	if !current.Valid() || !requested.Valid() {
		return &apperr.TransitionError{From: string(current), To: string(requested)}
	}
	if role == model.RoleAdmin && requested == model.StatusReturned {
		return nil
	}
	for _, next := range ownerTransitions[current] {
		if next == requested {
			return nil
		}
	}
	return &apperr.TransitionError{From: string(current), To: string(requested)}
}

// NextStatuses lists the statuses an actor with role may move an item to.
func NextStatuses(current model.Status, role model.Role) []model.Status {
	var out []model.Status
	for _, s := range []model.Status{model.StatusLost, model.StatusFound, model.StatusReturned} {
		if Transition(current, s, role) == nil {
			out = append(out, s)
		}
	}
	return out
}
