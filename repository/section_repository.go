package repository

import (
	"context"

	"bailbridge-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"
)

// SectionsTable is the table holding the penal-code section dataset
const SectionsTable = "penal_sections"

const sectionsSchemaSQL = `
CREATE TABLE IF NOT EXISTS penal_sections (
    position INTEGER PRIMARY KEY,
    line TEXT NOT NULL
)`

// DB is the subset of pgxpool.Pool used by the repositories
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SectionRepository handles database operations for the section dataset
type SectionRepository struct {
	db DB
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(db DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// EnsureSchema creates the sections table if it does not exist
func (r *SectionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, sectionsSchemaSQL); err != nil {
		return eris.Wrap(err, "repository: create penal_sections table")
	}
	return nil
}

// List returns every stored section in dataset order
func (r *SectionRepository) List(ctx context.Context) ([]models.PenalSection, error) {
	rows, err := r.db.Query(ctx, `SELECT position, line FROM penal_sections ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "repository: query penal sections")
	}
	defer rows.Close()

	var sections []models.PenalSection
	for rows.Next() {
		var section models.PenalSection
		if err := rows.Scan(&section.Position, &section.Line); err != nil {
			return nil, eris.Wrap(err, "repository: scan penal section")
		}
		sections = append(sections, section)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "repository: iterate penal sections")
	}

	return sections, nil
}

// ReplaceAll swaps the stored dataset for lines inside one transaction
func (r *SectionRepository) ReplaceAll(ctx context.Context, lines []string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "repository: begin transaction")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM penal_sections`); err != nil {
		_ = tx.Rollback(ctx)
		return 0, eris.Wrap(err, "repository: clear penal sections")
	}

	rows := make([][]any, len(lines))
	for i, line := range lines {
		rows[i] = []any{i, line}
	}

	var n int64
	if len(rows) > 0 {
		n, err = tx.CopyFrom(ctx, pgx.Identifier{SectionsTable}, []string{"position", "line"}, pgx.CopyFromRows(rows))
		if err != nil {
			_ = tx.Rollback(ctx)
			return 0, eris.Wrapf(err, "repository: COPY INTO %s", SectionsTable)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "repository: commit penal sections")
	}

	return n, nil
}
