// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/hisab-app/hisab/internal/models"
)

// ErrNotFound is returned when the requested record does not exist or has
// been soft-deleted.
var ErrNotFound = errors.New("not found")

// Store defines the interface for event and user storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user account.
	// The user.ID and user.CreatedAt fields are populated by the store.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateEvent persists a new event aggregate.
	// The event.ID and event.CreatedAt fields are populated by the store,
	// as are IDs of participants and items that arrive without one.
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent retrieves a live event by ID, including participants, items,
	// and the persisted report. Soft-deleted events return ErrNotFound.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// ListEvents retrieves all live events owned by a user, newest first.
	ListEvents(ctx context.Context, ownerID string) ([]*models.Event, error)

	// UpdateEvent replaces the stored aggregate with the given one.
	// The whole aggregate is rewritten; there is no partial update.
	UpdateEvent(ctx context.Context, event *models.Event) error

	// DeleteEvent soft-deletes an event. Reads of a deleted event return
	// ErrNotFound; the row is kept.
	DeleteEvent(ctx context.Context, eventID string) error

	// Close releases any resources held by the store.
	Close() error
}
