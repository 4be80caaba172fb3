// Package store archives extraction runs to MongoDB.
//
// Each run saves the full hierarchy document together with the repository
// it was extracted from and a timestamp, so past graphs can be listed and
// compared across extractions.
package store

import (
	"context"
	"time"

	"github.com/njfio/issuegraph/pkg/hierarchy"
)

// Run is one archived extraction.
type Run struct {
	Repo        string              `bson:"repo" json:"repo"`
	RootIssue   int                 `bson:"root_issue" json:"root_issue"`
	ExtractedAt time.Time           `bson:"extracted_at" json:"extracted_at"`
	Document    *hierarchy.Document `bson:"document" json:"document"`
}

// Archive is the interface for run storage backends.
type Archive interface {
	// Save stores one extraction run.
	Save(ctx context.Context, run *Run) error

	// Latest returns the most recent run for a repo and root issue.
	// Returns nil, nil when no run exists.
	Latest(ctx context.Context, repo string, rootIssue int) (*Run, error)

	// List returns up to limit runs for a repo, newest first.
	List(ctx context.Context, repo string, limit int) ([]Run, error)

	// Close releases the backend connection.
	Close(ctx context.Context) error
}
