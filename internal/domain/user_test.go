package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"lowercases domain", "chef@EXAMPLE.COM", "chef@example.com"},
		{"keeps local part", "Chef@example.com", "Chef@example.com"},
		{"already normalized", "chef@example.com", "chef@example.com"},
		{"no at sign", "not-an-email", "not-an-email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeEmail(tt.in))
		})
	}
}

func TestUser_IsAdmin(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected bool
	}{
		{"superuser", User{IsSuperuser: true}, true},
		{"staff", User{IsStaff: true}, true},
		{"regular", User{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.IsAdmin())
		})
	}
}

func TestUser_DisplayName(t *testing.T) {
	u := &User{Email: "chef@example.com"}
	assert.Equal(t, "chef@example.com", u.DisplayName())

	u.Name = "Chef"
	assert.Equal(t, "Chef", u.DisplayName())
}
