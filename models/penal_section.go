package models

// PenalSection is one stored line of the penal-code section dataset.
// Position preserves the line's order in the source file.
type PenalSection struct {
	Position int    `json:"position"`
	Line     string `json:"line"`
}
