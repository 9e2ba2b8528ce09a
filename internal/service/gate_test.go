package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erazemk/sredstva/internal/model"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name  string
		actor *model.Actor
		role  string
		ok    bool
	}{
		{"nil actor", nil, model.RoleAdmin, false},
		{"inactive admin", &model.Actor{Role: model.RoleAdmin}, model.RoleAdmin, false},
		{"active admin", &model.Actor{Role: model.RoleAdmin, Active: true}, model.RoleAdmin, true},
		{"staff for admin", &model.Actor{Role: model.RoleStaff, Active: true}, model.RoleAdmin, false},
		{"admin for staff", &model.Actor{Role: model.RoleAdmin, Active: true}, model.RoleStaff, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, tt.role)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrUnauthorized)
			}
		})
	}
}

func TestAuthenticated(t *testing.T) {
	assert.ErrorIs(t, Authenticated(nil), ErrUnauthorized)
	assert.ErrorIs(t, Authenticated(&model.Actor{Role: model.RoleStaff}), ErrUnauthorized)
	assert.NoError(t, Authenticated(&model.Actor{Role: model.RoleStaff, Active: true}))
}
