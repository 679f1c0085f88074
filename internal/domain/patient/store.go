package patient

import "context"

// Store loads and durably persists the full patient collection. Load
// returns an empty collection when no prior data exists; it never
// fails on "not found". Save replaces the stored collection wholesale
// and is atomic from the caller's perspective.
type Store interface {
	Load(ctx context.Context) ([]*Patient, error)
	Save(ctx context.Context, patients []*Patient) error
}
