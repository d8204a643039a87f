package catalog

import (
	"log/slog"

	"github.com/S-yujin/Gildam/internal/types"
)

// Repository holds the cleaned place catalog, loaded once at startup and
// read-only for the process lifetime.
type Repository interface {
	Places() []types.Place
}

type RepositoryImpl struct {
	places []types.Place
}

var _ Repository = (*RepositoryImpl)(nil)

// NewRepository loads the catalog CSV and returns an immutable snapshot.
func NewRepository(csvPath string, logger *slog.Logger) (*RepositoryImpl, error) {
	places, err := Load(csvPath, logger)
	if err != nil {
		return nil, err
	}
	return &RepositoryImpl{places: places}, nil
}

// NewRepositoryFromPlaces wraps an already cleaned place list. Used by tests
// and by callers that ingest from a source other than the CSV file.
func NewRepositoryFromPlaces(places []types.Place) *RepositoryImpl {
	return &RepositoryImpl{places: places}
}

// Places returns the catalog snapshot. Callers must not mutate the returned
// slice; a copy is handed out to keep the snapshot immutable.
func (r *RepositoryImpl) Places() []types.Place {
	out := make([]types.Place, len(r.places))
	copy(out, r.places)
	return out
}
