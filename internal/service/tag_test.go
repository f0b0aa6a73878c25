package service

import (
	"context"
	"testing"

	domainerrors "github.com/pantryapp/pantry-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagService_List_ReverseAlphabetical(t *testing.T) {
	recipes, tags, owner, other := setupRecipeTest(t)
	ctx := context.Background()

	_, err := recipes.Create(ctx, owner.ID, CreateRecipeRequest{
		Title: "Everything bowl",
		Tags:  []string{"dessert", "vegan", "quick"},
	})
	require.NoError(t, err)

	_, err = recipes.Create(ctx, other.ID, CreateRecipeRequest{
		Title: "Other bowl",
		Tags:  []string{"zesty"},
	})
	require.NoError(t, err)

	list, err := tags.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "vegan", list[0].Name)
	assert.Equal(t, "quick", list[1].Name)
	assert.Equal(t, "dessert", list[2].Name)
}

func TestTagService_Get_OtherUsersTagIsNotFound(t *testing.T) {
	recipes, tags, owner, other := setupRecipeTest(t)
	ctx := context.Background()

	recipe, err := recipes.Create(ctx, owner.ID, CreateRecipeRequest{
		Title: "Curry",
		Tags:  []string{"dinner"},
	})
	require.NoError(t, err)

	tagID := recipe.Tags[0].ID

	got, err := tags.Get(ctx, tagID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "dinner", got.Name)

	_, err = tags.Get(ctx, tagID, other.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestTagService_Rename(t *testing.T) {
	recipes, tags, owner, _ := setupRecipeTest(t)
	ctx := context.Background()

	recipe, err := recipes.Create(ctx, owner.ID, CreateRecipeRequest{
		Title: "Curry",
		Tags:  []string{"dinner"},
	})
	require.NoError(t, err)

	renamed, err := tags.Rename(ctx, recipe.Tags[0].ID, owner.ID, RenameTagRequest{Name: "supper"})
	require.NoError(t, err)
	assert.Equal(t, "supper", renamed.Name)

	// The recipe sees the new name too.
	got, err := recipes.Get(ctx, recipe.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"supper"}, got.TagNames())
}

func TestTagService_Rename_SameNameIsNoop(t *testing.T) {
	recipes, tags, owner, _ := setupRecipeTest(t)
	ctx := context.Background()

	recipe, err := recipes.Create(ctx, owner.ID, CreateRecipeRequest{
		Title: "Curry",
		Tags:  []string{"dinner"},
	})
	require.NoError(t, err)

	renamed, err := tags.Rename(ctx, recipe.Tags[0].ID, owner.ID, RenameTagRequest{Name: "dinner"})
	require.NoError(t, err)
	assert.Equal(t, "dinner", renamed.Name)
}

func TestTagService_Rename_Conflict(t *testing.T) {
	recipes, tags, owner, _ := setupRecipeTest(t)
	ctx := context.Background()

	recipe, err := recipes.Create(ctx, owner.ID, CreateRecipeRequest{
		Title: "Curry",
		Tags:  []string{"dinner", "spicy"},
	})
	require.NoError(t, err)

	var spicyID string
	for _, tag := range recipe.Tags {
		if tag.Name == "spicy" {
			spicyID = tag.ID
		}
	}
	require.NotEmpty(t, spicyID)

	_, err = tags.Rename(ctx, spicyID, owner.ID, RenameTagRequest{Name: "dinner"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestTagService_Rename_Validation(t *testing.T) {
	recipes, tags, owner, _ := setupRecipeTest(t)
	ctx := context.Background()

	recipe, err := recipes.Create(ctx, owner.ID, CreateRecipeRequest{
		Title: "Curry",
		Tags:  []string{"dinner"},
	})
	require.NoError(t, err)

	_, err = tags.Rename(ctx, recipe.Tags[0].ID, owner.ID, RenameTagRequest{})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestTagService_Delete(t *testing.T) {
	recipes, tags, owner, other := setupRecipeTest(t)
	ctx := context.Background()

	recipe, err := recipes.Create(ctx, owner.ID, CreateRecipeRequest{
		Title: "Curry",
		Tags:  []string{"dinner"},
	})
	require.NoError(t, err)

	tagID := recipe.Tags[0].ID

	// Another user can't delete it.
	err = tags.Delete(ctx, tagID, other.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	require.NoError(t, tags.Delete(ctx, tagID, owner.ID))

	// Recipe survives without the tag.
	got, err := recipes.Get(ctx, recipe.ID, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}
