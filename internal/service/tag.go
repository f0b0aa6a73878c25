package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pantryapp/pantry-server/internal/domain"
	domainerrors "github.com/pantryapp/pantry-server/internal/errors"
	"github.com/pantryapp/pantry-server/internal/store"
)

// TagService orchestrates tag operations. Tags are user-owned: they come
// into existence by being attached to a recipe and can be renamed or
// deleted directly, always within the owner's scope.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// RenameTagRequest contains the new name for a tag.
type RenameTagRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// List returns all of the user's tags, reverse-alphabetical.
func (s *TagService) List(ctx context.Context, ownerID string) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Get returns a single tag owned by the user.
func (s *TagService) Get(ctx context.Context, tagID, ownerID string) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, tagID, ownerID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

// Rename changes a tag's name. Renaming to the tag's current name is a
// no-op; renaming onto another of the user's tags is a conflict.
func (s *TagService) Rename(ctx context.Context, tagID, ownerID string, req RenameTagRequest) (*domain.Tag, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	tag, err := s.store.GetTag(ctx, tagID, ownerID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}

	if tag.Name == req.Name {
		return tag, nil
	}

	tag.Name = req.Name
	tag.Touch()

	if err := s.store.UpdateTag(ctx, tag); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflictf("a tag named %q already exists", req.Name)
		}
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}

	return tag, nil
}

// Delete removes a tag owned by the user. Recipes that carried it simply
// lose the association.
func (s *TagService) Delete(ctx context.Context, tagID, ownerID string) error {
	if err := s.store.DeleteTag(ctx, tagID, ownerID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("tag not found")
		}
		return fmt.Errorf("delete tag: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Tag deleted", "tag_id", tagID, "owner_id", ownerID)
	}

	return nil
}
