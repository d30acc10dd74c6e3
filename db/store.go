package db

import "context"

// Collection names. Each one is a top-level server collection in remote mode
// and an independent JSON file in local mode.
const (
	TasksCollection         = "tasks"
	ContributionsCollection = "contributions"
)

// Store is the four-operation contract both backends implement. Callers
// depend only on this interface; the backend is chosen once per process by
// the connection manager.
//
// Reads favor availability: Load degrades to an empty collection wherever
// feasible. Writes favor not losing data silently: Upsert, Delete and
// PatchField propagate backend failures to the caller.
type Store interface {
	// Load decodes the full named collection into out, which must be a
	// pointer to a slice. An absent collection yields an empty slice.
	Load(ctx context.Context, collection string, out any) error

	// Upsert writes doc under id, replacing any existing record with the
	// same id. The collection never holds two records with one id.
	Upsert(ctx context.Context, collection, id string, doc any) error

	// Delete removes the record with the given id and reports whether a
	// record was actually removed, where the backend can tell.
	Delete(ctx context.Context, collection, id string) (bool, error)

	// PatchField sets a single field on the record with the given id.
	// A missing id is a silent no-op.
	PatchField(ctx context.Context, collection, id, field string, value any) error
}
