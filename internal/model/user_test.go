package model

import (
	"strings"
	"testing"
)

func TestValidRole(t *testing.T) {
	tests := []struct {
		role     string
		expected bool
	}{
		{RoleAdmin, true},
		{RoleStaff, true},
		{"manager", false},
		{"Admin", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidRole(tt.role); got != tt.expected {
			t.Errorf("ValidRole(%q) = %v, want %v", tt.role, got, tt.expected)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"1234567", true},
		{"12345678", false},
		{"a-valid-password", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"", true},
		{"nobody", true},
		{"@example.com", true},
		{"user@", true},
		{"user@example.com", false},
	}

	for _, tt := range tests {
		err := ValidateEmail(tt.email)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
		}
	}
}

func TestValidateEmailCountsCharacters(t *testing.T) {
	// 50 three-byte characters plus the domain: 62 characters, 162 bytes.
	email := strings.Repeat("ก", 50) + "@example.com"
	if err := ValidateEmail(email); err != nil {
		t.Errorf("ValidateEmail(%q): %v", email, err)
	}

	tooLong := strings.Repeat("ก", MaxEmailLength) + "@x.y"
	if err := ValidateEmail(tooLong); err == nil {
		t.Error("expected error for email over the character limit")
	}
}

func TestActorInactiveWhenDeleted(t *testing.T) {
	u := &User{ID: 3, Email: "a@b.c", Role: RoleStaff, Active: true}
	if !u.Actor().Active {
		t.Error("expected active actor")
	}

	u.DeletedAt = &u.CreatedAt
	if u.Actor().Active {
		t.Error("expected soft-deleted user to yield an inactive actor")
	}
}
