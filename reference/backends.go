package reference

import (
	"context"
	_ "embed"
	"io"

	"bailbridge-backend/models"
	"bailbridge-backend/storage"

	"github.com/rotisserie/eris"
)

//go:embed data/bns_sections.csv
var sampleDataset []byte

// SampleDataset returns the bundled section dataset
func SampleDataset() []byte {
	out := make([]byte, len(sampleDataset))
	copy(out, sampleDataset)
	return out
}

// EmbeddedLoader serves the bundled dataset
type EmbeddedLoader struct{}

// Load returns the bundled dataset lines
func (EmbeddedLoader) Load(ctx context.Context, _ string) ([]string, error) {
	return SplitLines(string(sampleDataset)), nil
}

// StorageLoader reads the dataset object from object storage
type StorageLoader struct {
	store storage.Storage
	key   string
}

// NewStorageLoader creates a loader for key in store
func NewStorageLoader(store storage.Storage, key string) *StorageLoader {
	if key == "" {
		key = DefaultObjectKey
	}
	return &StorageLoader{store: store, key: key}
}

// Load downloads and splits the dataset object
func (l *StorageLoader) Load(ctx context.Context, _ string) ([]string, error) {
	rc, err := l.store.Download(ctx, l.key)
	if err != nil {
		return nil, eris.Wrapf(err, "reference: download %s", l.key)
	}
	defer rc.Close() //nolint:errcheck

	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, eris.Wrap(err, "reference: read dataset object")
	}

	return SplitLines(string(body)), nil
}

// SectionLister lists stored dataset rows in order
type SectionLister interface {
	List(ctx context.Context) ([]models.PenalSection, error)
}

// RepositoryLoader reads the dataset rows from Postgres
type RepositoryLoader struct {
	repo SectionLister
}

// NewRepositoryLoader creates a loader over a section repository
func NewRepositoryLoader(repo SectionLister) *RepositoryLoader {
	return &RepositoryLoader{repo: repo}
}

// Load returns stored rows in position order
func (l *RepositoryLoader) Load(ctx context.Context, _ string) ([]string, error) {
	sections, err := l.repo.List(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "reference: list sections")
	}

	lines := make([]string, len(sections))
	for i, s := range sections {
		lines[i] = s.Line
	}
	return lines, nil
}
