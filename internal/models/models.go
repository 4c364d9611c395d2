package models

import (
	"time"
)

// Model is implemented by entities that are stored in the local database.
// Favourites are the only such entity; weather and track state are never persisted.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error // called before every insert and update
}

// Repository is the CRUD surface shared by the SQLite stores.
//
// Get and Delete report shared.ErrNotFound for unknown or soft-deleted rows.
// List accepts store-specific criteria such as "query" and "limit".
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
