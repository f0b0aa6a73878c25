package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pantryapp/pantry-server/internal/domain"
	"github.com/pantryapp/pantry-server/internal/id"
	"github.com/pantryapp/pantry-server/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, owner_id, name, created_at, updated_at`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Name,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// ListTags returns all tags belonging to the owner, ordered by name descending.
func (s *Store) ListTags(ctx context.Context, ownerID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE owner_id = ? ORDER BY name DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}

// GetTag retrieves a tag by ID, scoped to the owner.
// Returns store.ErrNotFound if the tag does not exist or belongs to
// a different user.
func (s *Store) GetTag(ctx context.Context, id, ownerID string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ? AND owner_id = ?`, id, ownerID)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTag performs a full row update on an existing tag, scoped to the owner.
// Returns store.ErrNotFound if the tag does not exist or belongs to
// a different user, and store.ErrAlreadyExists if the new name collides
// with another tag of the same owner.
func (s *Store) UpdateTag(ctx context.Context, tag *domain.Tag) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tags SET
			name = ?,
			updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		tag.Name,
		formatTime(tag.UpdatedAt),
		tag.ID,
		tag.OwnerID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
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

// DeleteTag performs a hard delete of a tag, scoped to the owner.
// Associations in recipe_tags are removed by the foreign key cascade.
// Returns store.ErrNotFound if the tag does not exist or belongs to
// a different user.
func (s *Store) DeleteTag(ctx context.Context, id, ownerID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tags WHERE id = ? AND owner_id = ?`, id, ownerID)
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

// findOrCreateTagTx finds an existing tag by (owner, name) or creates a new
// one, inside the caller's transaction. If the insert loses a race against a
// concurrent create of the same name, the UNIQUE constraint fires and the tag
// is looked up once more instead of failing.
func findOrCreateTagTx(ctx context.Context, tx *sql.Tx, ownerID, name string) (*domain.Tag, error) {
	lookup := func() (*domain.Tag, error) {
		row := tx.QueryRowContext(ctx,
			`SELECT `+tagColumns+` FROM tags WHERE owner_id = ? AND name = ?`, ownerID, name)
		t, err := scanTag(row)
		if err == sql.ErrNoRows {
			return nil, store.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return t, nil
	}

	// Try to find existing tag first.
	existing, err := lookup()
	if err == nil {
		return existing, nil
	}
	if err != store.ErrNotFound {
		return nil, err
	}

	// Tag doesn't exist, create it.
	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag id: %w", err)
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO tags (id, owner_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		tagID,
		ownerID,
		name,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Race: another writer created it between lookup and insert.
			return lookup()
		}
		return nil, err
	}

	return &domain.Tag{
		ID:        tagID,
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
