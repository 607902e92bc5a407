// Package store persists diagram documents for the HTTP API.
//
// The codec core is transient and persistence-free; a document here is an
// opaque envelope around diagram text. Two backends are provided:
// [MemoryStore] for tests and single-process use, and [MongoStore] for
// deployments.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no document exists for a given ID.
var ErrNotFound = errors.New("diagram not found")

// Document is a stored diagram. Source holds the diagram text verbatim;
// documents containing grammar the codec does not cover are stored and
// served unchanged.
type Document struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Source      string    `json:"source" bson:"source"`
	Tags        []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the persistence interface for diagram documents.
type Store interface {
	// List returns all documents ordered by creation time.
	List(ctx context.Context) ([]Document, error)

	// Get returns the document with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (Document, error)

	// Create inserts a new document.
	Create(ctx context.Context, doc Document) error

	// Update replaces an existing document, or returns ErrNotFound.
	Update(ctx context.Context, doc Document) error

	// Delete removes a document, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
