// internal/intake/request-orchestrator/models.go
package requestorchestrator

import (
	"context"
	"sync"

	formbuilder "eligibility-intake/internal/intake/form-builder"
	resultrenderer "eligibility-intake/internal/intake/result-renderer"
	"eligibility-intake/internal/models"
)

const (
	StatusBlocked      = "blocked"
	StatusNetworkError = "network_error"
	StatusServerError  = "server_error"
	StatusOK           = "ok"
)

// Computer submits a profile to the eligibility service.
type Computer interface {
	Compute(ctx context.Context, req models.EligibilityRequest) ([]byte, error)
}

// Source is the session state a submission is assembled from.
type Source interface {
	Institutions() []string
	Psychometric() string
	MandatoryRows() []*formbuilder.Row
	ElectiveRows() []*formbuilder.Row
	SelectedProgramIDs() []string
}

// Display receives the end state of a submission.
type Display interface {
	Clear()
	ShowErrors(messages []string)
	ShowResults(cards []resultrenderer.Card)
}

// Outcome describes what a submission did.
type Outcome struct {
	Status  string                     `json:"status"`
	Errors  []string                   `json:"errors"`
	Cards   []resultrenderer.Card      `json:"cards"`
	Request *models.EligibilityRequest `json:"request,omitempty"`
}

// ErrorRegion holds ordered error messages. It is visible iff non-empty.
type ErrorRegion struct {
	Messages []string `json:"messages"`
}

func (r ErrorRegion) Visible() bool { return len(r.Messages) > 0 }

// ResultsRegion holds the rendered result cards.
type ResultsRegion struct {
	Cards []resultrenderer.Card `json:"cards"`
}

// Regions is the default Display: one error region and one results region.
type Regions struct {
	mu      sync.RWMutex
	errors  ErrorRegion
	results ResultsRegion
}

func (r *Regions) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = ErrorRegion{}
	r.results = ResultsRegion{}
}

func (r *Regions) ShowErrors(messages []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = ErrorRegion{Messages: append([]string(nil), messages...)}
}

func (r *Regions) ShowResults(cards []resultrenderer.Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = ResultsRegion{Cards: append([]resultrenderer.Card(nil), cards...)}
}

func (r *Regions) Errors() ErrorRegion {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return ErrorRegion{Messages: append([]string(nil), r.errors.Messages...)}
}

func (r *Regions) Results() ResultsRegion {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return ResultsRegion{Cards: append([]resultrenderer.Card(nil), r.results.Cards...)}
}
