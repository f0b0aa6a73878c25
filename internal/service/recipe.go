package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pantryapp/pantry-server/internal/domain"
	domainerrors "github.com/pantryapp/pantry-server/internal/errors"
	"github.com/pantryapp/pantry-server/internal/id"
	"github.com/pantryapp/pantry-server/internal/store"
	"github.com/shopspring/decimal"
)

// RecipeService orchestrates recipe operations. Every operation takes the
// acting user's ID and is scoped to it: recipes belonging to other users
// are indistinguishable from recipes that don't exist.
type RecipeService struct {
	store  store.Store
	logger *slog.Logger
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(store store.Store, logger *slog.Logger) *RecipeService {
	return &RecipeService{
		store:  store,
		logger: logger,
	}
}

// CreateRecipeRequest contains the data for a new recipe. Price travels as
// a decimal string so clients never lose cents to float rounding.
type CreateRecipeRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description"`
	Minutes     int      `json:"minutes" validate:"gte=0"`
	Price       string   `json:"price"`
	Link        string   `json:"link" validate:"omitempty,max=255"`
	Tags        []string `json:"tags" validate:"dive,required,max=255"`
}

// ReplaceRecipeRequest contains a full replacement of a recipe's fields.
// Omitted tags leave the current associations in place.
type ReplaceRecipeRequest struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description"`
	Minutes     int       `json:"minutes" validate:"gte=0"`
	Price       string    `json:"price"`
	Link        string    `json:"link" validate:"omitempty,max=255"`
	Tags        *[]string `json:"tags" validate:"omitempty,dive,required,max=255"`
}

// UpdateRecipeRequest contains a partial update. Nil fields are left
// unchanged; a non-nil empty Tags slice detaches every tag.
type UpdateRecipeRequest struct {
	Title       *string   `json:"title" validate:"omitempty,max=255"`
	Description *string   `json:"description"`
	Minutes     *int      `json:"minutes" validate:"omitempty,gte=0"`
	Price       *string   `json:"price"`
	Link        *string   `json:"link" validate:"omitempty,max=255"`
	Tags        *[]string `json:"tags" validate:"omitempty,dive,required,max=255"`
}

// parsePrice converts the wire price string to a decimal, rejecting
// malformed and negative values. An empty string means zero.
func parsePrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domainerrors.Validation("price must be a valid decimal number")
	}
	if price.IsNegative() {
		return decimal.Zero, domainerrors.Validation("price must not be negative")
	}
	return price, nil
}

// List returns all recipes owned by the user, newest first.
func (s *RecipeService) List(ctx context.Context, ownerID string) ([]*domain.Recipe, error) {
	recipes, err := s.store.ListRecipes(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Get returns a single recipe owned by the user.
func (s *RecipeService) Get(ctx context.Context, recipeID, ownerID string) (*domain.Recipe, error) {
	recipe, err := s.store.GetRecipe(ctx, recipeID, ownerID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return recipe, nil
}

// Create makes a new recipe for the user and attaches the requested tags,
// creating any that the user doesn't have yet.
func (s *RecipeService) Create(ctx context.Context, ownerID string, req CreateRecipeRequest) (*domain.Recipe, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	recipeID, err := id.Generate("recipe")
	if err != nil {
		return nil, fmt.Errorf("generate recipe ID: %w", err)
	}

	now := time.Now()
	recipe := &domain.Recipe{
		ID:          recipeID,
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Minutes:     req.Minutes,
		Price:       price,
		Link:        req.Link,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.store.CreateRecipe(ctx, recipe, req.Tags)
	if err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Recipe created",
			"recipe_id", recipeID,
			"owner_id", ownerID,
			"tags", len(created.Tags),
		)
	}

	return created, nil
}

// Replace overwrites every field of a recipe owned by the user. When tags
// are provided the tag set is reconciled to the named tags; omitting them
// keeps the current associations.
func (s *RecipeService) Replace(ctx context.Context, recipeID, ownerID string, req ReplaceRecipeRequest) (*domain.Recipe, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	recipe, err := s.store.GetRecipe(ctx, recipeID, ownerID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	recipe.Title = req.Title
	recipe.Description = req.Description
	recipe.Minutes = req.Minutes
	recipe.Price = price
	recipe.Link = req.Link
	recipe.Touch()

	updated, err := s.store.UpdateRecipe(ctx, recipe, req.Tags)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	return updated, nil
}

// Update applies a partial update to a recipe owned by the user.
func (s *RecipeService) Update(ctx context.Context, recipeID, ownerID string, req UpdateRecipeRequest) (*domain.Recipe, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	recipe, err := s.store.GetRecipe(ctx, recipeID, ownerID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	if req.Title != nil {
		recipe.Title = *req.Title
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	}
	if req.Minutes != nil {
		recipe.Minutes = *req.Minutes
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		recipe.Price = price
	}
	if req.Link != nil {
		recipe.Link = *req.Link
	}
	recipe.Touch()

	updated, err := s.store.UpdateRecipe(ctx, recipe, req.Tags)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	return updated, nil
}

// Delete removes a recipe owned by the user. Tag rows attached to it are
// kept; only the associations go away.
func (s *RecipeService) Delete(ctx context.Context, recipeID, ownerID string) error {
	if err := s.store.DeleteRecipe(ctx, recipeID, ownerID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("recipe not found")
		}
		return fmt.Errorf("delete recipe: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Recipe deleted", "recipe_id", recipeID, "owner_id", ownerID)
	}

	return nil
}
