package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pantryapp/pantry-server/internal/domain"
	"github.com/pantryapp/pantry-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	u := &domain.User{
		ID:           "user-1",
		Email:        "chef@example.com",
		PasswordHash: "$argon2id$fake",
		Name:         "Chef",
		IsActive:     true,
		IsSuperuser:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}

	if got.Email != u.Email {
		t.Errorf("Email: got %q, want %q", got.Email, u.Email)
	}
	if got.PasswordHash != u.PasswordHash {
		t.Errorf("PasswordHash: got %q, want %q", got.PasswordHash, u.PasswordHash)
	}
	if !got.IsActive {
		t.Error("IsActive: got false, want true")
	}
	if !got.IsSuperuser {
		t.Error("IsSuperuser: got false, want true")
	}
	if got.IsStaff {
		t.Error("IsStaff: got true, want false")
	}
	if !got.LastLoginAt.IsZero() {
		t.Errorf("LastLoginAt: got %v, want zero", got.LastLoginAt)
	}
	if got.CreatedAt.Unix() != now.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, now)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestUser(t, s, "user-1", "chef@example.com")

	now := time.Now()
	dup := &domain.User{
		ID:        "user-2",
		Email:     "CHEF@example.com", // differs only in case
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.CreateUser(ctx, dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestUser(t, s, "user-1", "chef@example.com")

	got, err := s.GetUserByEmail(ctx, "Chef@Example.COM")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("ID: got %q, want %q", got.ID, "user-1")
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser(t, s, "user-1", "chef@example.com")

	u.Name = "Head Chef"
	u.LastLoginAt = time.Now()
	u.Touch()

	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Name != "Head Chef" {
		t.Errorf("Name: got %q, want %q", got.Name, "Head Chef")
	}
	if got.LastLoginAt.IsZero() {
		t.Error("LastLoginAt: got zero, want set")
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	u := &domain.User{
		ID:        "ghost",
		Email:     "ghost@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.UpdateUser(context.Background(), u)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCountUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	count, err := s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 users, got %d", count)
	}

	makeTestUser(t, s, "user-1", "one@example.com")
	makeTestUser(t, s, "user-2", "two@example.com")

	count, err = s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 users, got %d", count)
	}
}
