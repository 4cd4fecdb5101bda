// Package reference loads the penal-code section dataset used to ground
// bail eligibility prompts and selects the rows relevant to a case.
package reference

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// Source names a dataset backend
type Source string

const (
	SourceHTTP     Source = "http"
	SourceStorage  Source = "storage"
	SourcePostgres Source = "postgres"
	SourceEmbedded Source = "embedded"
)

// DefaultPath is the static resource path of the dataset on the serving origin
const DefaultPath = "/bns_sections.csv"

// DefaultObjectKey is the storage key of the dataset object
const DefaultObjectKey = "reference/bns_sections.csv"

// ErrNoOrigin is returned when an HTTP loader has neither a base URL nor a request origin
var ErrNoOrigin = eris.New("reference: no origin to fetch dataset from")

// Loader fetches the raw dataset lines. origin is the scheme and host of the
// inbound request; loaders that do not read over HTTP ignore it.
type Loader interface {
	Load(ctx context.Context, origin string) ([]string, error)
}

// SplitLines splits a dataset body on line feeds. Order is preserved and
// lines are not trimmed, so CRLF input keeps its trailing carriage return.
func SplitLines(body string) []string {
	return strings.Split(body, "\n")
}
