package policy

import (
	"testing"

	"github.com/erazemk/najdeno/internal/model"
)

func TestCanMutate(t *testing.T) {
	owner := &model.Account{ID: "owner", Role: model.RoleUser}
	stranger := &model.Account{ID: "stranger", Role: model.RoleUser}
	admin := &model.Account{ID: "admin", Role: model.RoleAdmin}
	item := &model.Item{ID: 1, OwnerID: "owner"}

	tests := []struct {
		name  string
		actor *model.Account
		op    Operation
		want  bool
	}{
		{"owner updates", owner, OpUpdateStatus, true},
		{"owner deletes", owner, OpDelete, true},
		{"admin updates", admin, OpUpdateStatus, true},
		{"admin deletes", admin, OpDelete, true},
		{"stranger updates", stranger, OpUpdateStatus, false},
		{"stranger deletes", stranger, OpDelete, false},
		{"anonymous updates", nil, OpUpdateStatus, false},
		{"unknown op", owner, Operation("rename"), false},
	}

	for _, tt := range tests {
		if got := CanMutate(tt.actor, item, tt.op); got != tt.want {
			t.Errorf("%s: CanMutate = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCanMutateEmptyIDs(t *testing.T) {
	actor := &model.Account{Role: model.RoleUser}
	if CanMutate(actor, &model.Item{ID: 2}, OpDelete) {
		t.Error("an empty actor id must not match an empty owner id")
	}
}

func TestCanMutateNilItem(t *testing.T) {
	if CanMutate(&model.Account{ID: "a", Role: model.RoleAdmin}, nil, OpDelete) {
		t.Error("expected nil item to be denied")
	}
}

func TestRevealContact(t *testing.T) {
	if RevealContact(nil) {
		t.Error("anonymous actors must not see contact details")
	}
	if !RevealContact(&model.Account{ID: "a"}) {
		t.Error("signed-in actors see contact details")
	}
}
