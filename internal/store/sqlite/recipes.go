package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pantryapp/pantry-server/internal/domain"
	"github.com/pantryapp/pantry-server/internal/store"
	"github.com/shopspring/decimal"
)

// recipeColumns is the ordered list of columns selected in recipe queries.
// Must match the scan order in scanRecipe.
const recipeColumns = `id, owner_id, title, description, minutes, price, link, created_at, updated_at`

// scanRecipe scans a sql.Row (or sql.Rows via its Scan method) into a domain.Recipe.
// Tags are left nil; the caller loads them separately.
func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*domain.Recipe, error) {
	var r domain.Recipe

	var (
		price     string
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&r.ID,
		&r.OwnerID,
		&r.Title,
		&r.Description,
		&r.Minutes,
		&price,
		&r.Link,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// CreateRecipe inserts a new recipe and attaches the named tags in a single
// transaction. Tag names that don't exist for the owner are created; names
// that do are reused. Either everything lands or nothing does.
func (s *Store) CreateRecipe(ctx context.Context, recipe *domain.Recipe, tagNames []string) (*domain.Recipe, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recipes (
			id, owner_id, title, description, minutes, price, link, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recipe.ID,
		recipe.OwnerID,
		recipe.Title,
		recipe.Description,
		recipe.Minutes,
		recipe.Price.String(),
		recipe.Link,
		formatTime(recipe.CreatedAt),
		formatTime(recipe.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert recipe: %w", err)
	}

	if err := setRecipeTagsTx(ctx, tx, recipe.ID, recipe.OwnerID, tagNames); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return s.GetRecipe(ctx, recipe.ID, recipe.OwnerID)
}

// GetRecipe retrieves a recipe by ID, scoped to the owner, with tags loaded.
// Returns store.ErrNotFound if the recipe does not exist or belongs to
// a different user.
func (s *Store) GetRecipe(ctx context.Context, id, ownerID string) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ? AND owner_id = ?`, id, ownerID)

	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	tags, err := s.getRecipeTags(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	r.Tags = tags

	return r, nil
}

// ListRecipes returns all recipes belonging to the owner, newest first,
// with tags loaded.
func (s *Store) ListRecipes(ctx context.Context, ownerID string) ([]*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE owner_id = ? ORDER BY rowid DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []*domain.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if recipes == nil {
		return []*domain.Recipe{}, nil
	}

	// Load tags for all recipes in one query.
	byRecipe, err := s.getOwnerRecipeTags(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, r := range recipes {
		if tags, ok := byRecipe[r.ID]; ok {
			r.Tags = tags
		} else {
			r.Tags = []domain.Tag{}
		}
	}

	return recipes, nil
}

// UpdateRecipe performs a full row update on an existing recipe, scoped to
// the owner. When tagNames is non-nil the recipe's tag set is replaced with
// the named tags (creating missing ones); nil leaves associations untouched.
// The whole operation runs in one transaction.
// Returns store.ErrNotFound if the recipe does not exist or belongs to
// a different user.
func (s *Store) UpdateRecipe(ctx context.Context, recipe *domain.Recipe, tagNames *[]string) (*domain.Recipe, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE recipes SET
			title = ?,
			description = ?,
			minutes = ?,
			price = ?,
			link = ?,
			updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		recipe.Title,
		recipe.Description,
		recipe.Minutes,
		recipe.Price.String(),
		recipe.Link,
		formatTime(recipe.UpdatedAt),
		recipe.ID,
		recipe.OwnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, store.ErrNotFound
	}

	if tagNames != nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM recipe_tags WHERE recipe_id = ?`, recipe.ID); err != nil {
			return nil, fmt.Errorf("delete recipe_tags: %w", err)
		}
		if err := setRecipeTagsTx(ctx, tx, recipe.ID, recipe.OwnerID, *tagNames); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return s.GetRecipe(ctx, recipe.ID, recipe.OwnerID)
}

// DeleteRecipe performs a hard delete of a recipe, scoped to the owner.
// Associations in recipe_tags are removed by the foreign key cascade; the
// tag rows themselves are kept.
// Returns store.ErrNotFound if the recipe does not exist or belongs to
// a different user.
func (s *Store) DeleteRecipe(ctx context.Context, id, ownerID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// setRecipeTagsTx resolves each tag name to a tag row (creating missing
// ones) and inserts the recipe_tags associations, all inside the caller's
// transaction. Duplicate names in the input collapse to one association.
func setRecipeTagsTx(ctx context.Context, tx *sql.Tx, recipeID, ownerID string, tagNames []string) error {
	now := formatTime(time.Now().UTC())
	seen := make(map[string]bool, len(tagNames))

	for _, name := range tagNames {
		if seen[name] {
			continue
		}
		seen[name] = true

		tag, err := findOrCreateTagTx(ctx, tx, ownerID, name)
		if err != nil {
			return fmt.Errorf("resolve tag %q: %w", name, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO recipe_tags (recipe_id, tag_id, created_at)
			VALUES (?, ?, ?)`,
			recipeID,
			tag.ID,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert recipe_tag: %w", err)
		}
	}

	return nil
}

// getRecipeTags returns the tags attached to a recipe, ordered by name.
func (s *Store) getRecipeTags(ctx context.Context, recipeID string) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.owner_id, t.name, t.created_at, t.updated_at
		FROM tags t
		JOIN recipe_tags rt ON rt.tag_id = t.id
		WHERE rt.recipe_id = ?
		ORDER BY t.name ASC`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("query recipe tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tags, nil
}

// getOwnerRecipeTags returns all tag attachments for the owner's recipes,
// keyed by recipe ID, with each recipe's tags ordered by name.
func (s *Store) getOwnerRecipeTags(ctx context.Context, ownerID string) (map[string][]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rt.recipe_id, t.id, t.owner_id, t.name, t.created_at, t.updated_at
		FROM tags t
		JOIN recipe_tags rt ON rt.tag_id = t.id
		JOIN recipes r ON r.id = rt.recipe_id
		WHERE r.owner_id = ?
		ORDER BY t.name ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query owner recipe tags: %w", err)
	}
	defer rows.Close()

	byRecipe := make(map[string][]domain.Tag)
	for rows.Next() {
		var recipeID string
		var t domain.Tag
		var createdAt, updatedAt string

		if err := rows.Scan(&recipeID, &t.ID, &t.OwnerID, &t.Name, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}

		byRecipe[recipeID] = append(byRecipe[recipeID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return byRecipe, nil
}
