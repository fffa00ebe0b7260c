// internal/intake/session/models.go
package session

import (
	formbuilder "eligibility-intake/internal/intake/form-builder"
	requestorchestrator "eligibility-intake/internal/intake/request-orchestrator"
	selectionstate "eligibility-intake/internal/intake/selection-state"
)

// EventKind names a user interaction.
type EventKind string

const (
	KindToggleInstitution EventKind = "toggle_institution"
	KindToggleFaculty     EventKind = "toggle_faculty"
	KindToggleProgram     EventKind = "toggle_program"
	KindToggleElective    EventKind = "toggle_elective"
	KindSetUnits          EventKind = "set_units"
	KindSetScore          EventKind = "set_score"
	KindSetPsychometric   EventKind = "set_psychometric"
)

// Event is one interaction consumed by Session.Dispatch. Only the fields
// relevant to Kind are read.
type Event struct {
	Kind        EventKind `json:"kind" yaml:"kind"`
	Institution string    `json:"institution,omitempty" yaml:"institution,omitempty"`
	Faculty     string    `json:"faculty,omitempty" yaml:"faculty,omitempty"`
	Program     string    `json:"program,omitempty" yaml:"program,omitempty"`
	Subject     string    `json:"subject,omitempty" yaml:"subject,omitempty"`
	Checked     bool      `json:"checked" yaml:"checked"`
	Value       string    `json:"value,omitempty" yaml:"value,omitempty"`
}

// InstitutionOption is one entry of the institution checklist.
type InstitutionOption struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// View is a serializable snapshot of a whole session.
type View struct {
	ID           string                            `json:"id"`
	Institutions []InstitutionOption               `json:"institutions"`
	Psychometric string                            `json:"psychometric"`
	Form         formbuilder.FormView              `json:"form"`
	Groups       []selectionstate.Group            `json:"groups"`
	Errors       requestorchestrator.ErrorRegion   `json:"errors"`
	Results      requestorchestrator.ResultsRegion `json:"results"`
}
