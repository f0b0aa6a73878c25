// Package store defines the persistence interface for the Pantry server.
package store

import (
	"context"

	"github.com/pantryapp/pantry-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	CountUsers(ctx context.Context) (int, error)

	// Auth Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Recipes. All operations are scoped to the owner: a recipe that
	// exists but belongs to a different user behaves as if it does not
	// exist at all.
	CreateRecipe(ctx context.Context, recipe *domain.Recipe, tagNames []string) (*domain.Recipe, error)
	GetRecipe(ctx context.Context, id, ownerID string) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, ownerID string) ([]*domain.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *domain.Recipe, tagNames *[]string) (*domain.Recipe, error)
	DeleteRecipe(ctx context.Context, id, ownerID string) error

	// Tags. Also owner-scoped. Tags are created implicitly by attaching
	// names to recipes; there is no direct create operation.
	ListTags(ctx context.Context, ownerID string) ([]*domain.Tag, error)
	GetTag(ctx context.Context, id, ownerID string) (*domain.Tag, error)
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	DeleteTag(ctx context.Context, id, ownerID string) error
}
