// internal/intake/selection-state/models.go
package selectionstate

import (
	"context"

	"eligibility-intake/internal/models"
)

// ProgramSource loads the program list of one institution.
type ProgramSource interface {
	Programs(ctx context.Context, institution string) ([]models.Program, error)
}

// ProgramSourceFunc adapts a function to ProgramSource.
type ProgramSourceFunc func(ctx context.Context, institution string) ([]models.Program, error)

func (f ProgramSourceFunc) Programs(ctx context.Context, institution string) ([]models.Program, error) {
	return f(ctx, institution)
}

// FacultyBox is one faculty checkbox of an institution group.
type FacultyBox struct {
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

// ProgramChip is one selectable program of an institution group.
type ProgramChip struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Faculty  string `json:"faculty"`
	Selected bool   `json:"selected"`
}

// Group is the rendered state of one checked institution.
type Group struct {
	Institution string        `json:"institution"`
	Label       string        `json:"label"`
	Loaded      bool          `json:"loaded"`
	Faculties   []FacultyBox  `json:"faculties"`
	Programs    []ProgramChip `json:"programs"`
}
