// internal/intake/session/session.go
package session

import (
	"context"
	"sync"
	"time"

	apperrors "eligibility-intake/internal/common/errors"
	"eligibility-intake/internal/common/logger"
	formbuilder "eligibility-intake/internal/intake/form-builder"
	requestorchestrator "eligibility-intake/internal/intake/request-orchestrator"
	selectionstate "eligibility-intake/internal/intake/selection-state"
	"eligibility-intake/internal/models"
	"eligibility-intake/internal/remote"
)

// Session is the state of one applicant working through the form. It owns
// the form, the selection state and both display regions.
type Session struct {
	ID string

	mu           sync.Mutex
	schema       models.SubjectSchema
	catalog      []string
	names        map[string]string
	form         *formbuilder.Form
	selection    *selectionstate.Manager
	psychometric string
	display      *requestorchestrator.Regions
	lastActive   time.Time
	logger       logger.Logger
}

// Bootstrap loads the subject schema and the institution list and builds an
// empty session.
func Bootstrap(ctx context.Context, svc remote.Service, names map[string]string, log logger.Logger) (*Session, error) {
	schema, err := svc.Subjects(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := svc.Institutions(ctx)
	if err != nil {
		return nil, err
	}

	log = logger.Component(log, "session")
	s := &Session{
		schema:     schema,
		catalog:    catalog,
		names:      names,
		form:       formbuilder.NewForm(schema, log),
		selection:  selectionstate.NewManager(svc, names, log),
		display:    &requestorchestrator.Regions{},
		lastActive: time.Now(),
		logger:     log,
	}
	log.Info("session bootstrapped", map[string]interface{}{
		"institutions": len(catalog),
		"mandatory":    len(schema.Mandatory),
		"electives":    len(schema.Electives),
	})
	return s, nil
}

// Dispatch applies one event.
func (s *Session) Dispatch(ctx context.Context, ev Event) error {
	s.touch()

	switch ev.Kind {
	case KindToggleInstitution:
		if !s.inCatalog(ev.Institution) {
			return apperrors.NewUnknownInstitutionError(ev.Institution)
		}
		return s.selection.ToggleInstitution(ctx, ev.Institution, ev.Checked)
	case KindToggleFaculty:
		return s.selection.ToggleFaculty(ev.Institution, ev.Faculty, ev.Checked)
	case KindToggleProgram:
		return s.selection.ToggleProgram(ev.Program, ev.Checked)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case KindToggleElective:
		return s.form.ToggleElective(ev.Subject, ev.Checked)
	case KindSetUnits, KindSetScore:
		row, ok := s.form.Row(ev.Subject)
		if !ok {
			return apperrors.NewUnknownSubjectError(ev.Subject)
		}
		if ev.Kind == KindSetUnits {
			row.SetUnits(ev.Value)
		} else {
			row.SetScore(ev.Value)
		}
		return nil
	case KindSetPsychometric:
		s.psychometric = ev.Value
		return nil
	default:
		return apperrors.NewUnknownEventError(string(ev.Kind))
	}
}

// DispatchAll applies events in order and stops at the first failure.
func (s *Session) DispatchAll(ctx context.Context, events []Event) error {
	for _, ev := range events {
		if err := s.Dispatch(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// Submit runs a submission against the session's current state and leaves
// the outcome in its display regions.
func (s *Session) Submit(ctx context.Context, orch *requestorchestrator.Orchestrator) requestorchestrator.Outcome {
	s.touch()
	return orch.Submit(ctx, s.snapshot(), s.display)
}

// Reset returns the session to its freshly bootstrapped state.
func (s *Session) Reset() {
	s.selection.Reset()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = formbuilder.NewForm(s.schema, s.logger)
	s.psychometric = ""
	s.display.Clear()
}

func (s *Session) inCatalog(id string) bool {
	for _, c := range s.catalog {
		if c == id {
			return true
		}
	}
	return false
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// LastActive is the time of the last event or submission.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Catalog is the institution list loaded at bootstrap.
func (s *Session) Catalog() []string {
	out := make([]string, len(s.catalog))
	copy(out, s.catalog)
	return out
}

func (s *Session) Schema() models.SubjectSchema { return s.schema }

func (s *Session) Institutions() []string       { return s.selection.ActiveInstitutions() }
func (s *Session) SelectedProgramIDs() []string { return s.selection.SelectedProgramIDs() }

func (s *Session) Psychometric() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.psychometric
}

func (s *Session) MandatoryRows() []*formbuilder.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.MandatoryRows()
}

func (s *Session) ElectiveRows() []*formbuilder.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.ElectiveRows()
}

// Display exposes the error and results regions.
func (s *Session) Display() *requestorchestrator.Regions { return s.display }

// View renders the whole session.
func (s *Session) View() View {
	active := s.selection.ActiveInstitutions()
	options := make([]InstitutionOption, 0, len(s.catalog))
	for _, id := range s.catalog {
		checked := false
		for _, a := range active {
			if a == id {
				checked = true
				break
			}
		}
		options = append(options, InstitutionOption{
			ID:      id,
			Label:   models.InstitutionName(id, s.names),
			Checked: checked,
		})
	}

	s.mu.Lock()
	form := s.form.View()
	psychometric := s.psychometric
	s.mu.Unlock()

	return View{
		ID:           s.ID,
		Institutions: options,
		Psychometric: psychometric,
		Form:         form,
		Groups:       s.selection.Groups(),
		Errors:       s.display.Errors(),
		Results:      s.display.Results(),
	}
}

// snapshot freezes the submission inputs so later events cannot change a
// submission already in flight.
func (s *Session) snapshot() *snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &snapshot{
		institutions: s.selection.ActiveInstitutions(),
		psychometric: s.psychometric,
		mandatory:    copyRows(s.form.MandatoryRows()),
		electives:    copyRows(s.form.ElectiveRows()),
		programIDs:   s.selection.SelectedProgramIDs(),
	}
}

type snapshot struct {
	institutions []string
	psychometric string
	mandatory    []*formbuilder.Row
	electives    []*formbuilder.Row
	programIDs   []string
}

func (p *snapshot) Institutions() []string            { return p.institutions }
func (p *snapshot) Psychometric() string              { return p.psychometric }
func (p *snapshot) MandatoryRows() []*formbuilder.Row { return p.mandatory }
func (p *snapshot) ElectiveRows() []*formbuilder.Row  { return p.electives }
func (p *snapshot) SelectedProgramIDs() []string      { return p.programIDs }

func copyRows(rows []*formbuilder.Row) []*formbuilder.Row {
	out := make([]*formbuilder.Row, 0, len(rows))
	for _, r := range rows {
		c := *r
		out = append(out, &c)
	}
	return out
}
