// internal/intake/selection-state/manager.go
package selectionstate

import (
	"context"
	"sync"

	apperrors "eligibility-intake/internal/common/errors"
	"eligibility-intake/internal/common/logger"
	"eligibility-intake/internal/models"
)

// Manager owns the institution, faculty and program selection of one session.
//
// Program lists are fetched at most once per institution and never evicted
// until Reset. The lock is not held while a fetch is in flight; each fetch is
// tagged with a sequence number and its result is dropped when a newer fetch
// for the same institution has started since.
type Manager struct {
	mu     sync.Mutex
	source ProgramSource
	names  map[string]string
	logger logger.Logger

	programCache     map[string][]models.Program
	facultySelection map[string]map[string]bool
	selected         []string
	active           []string
	generation       map[string]uint64
	seq              uint64
}

func NewManager(source ProgramSource, names map[string]string, log logger.Logger) *Manager {
	m := &Manager{
		source: source,
		names:  names,
		logger: logger.Component(log, "selection-state"),
	}
	m.reset()
	return m
}

func (m *Manager) reset() {
	m.programCache = make(map[string][]models.Program)
	m.facultySelection = make(map[string]map[string]bool)
	m.selected = []string{}
	m.active = []string{}
	m.generation = make(map[string]uint64)
}

// Reset drops every cached list and selection. Fetches still in flight are
// discarded when they complete.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
	m.logger.Debug("selection state reset", nil)
}

// ToggleInstitution checks or unchecks an institution. Checking fetches its
// program list unless it is cached already. Unchecking only hides the group;
// the cached list and faculty selection are retained.
func (m *Manager) ToggleInstitution(ctx context.Context, id string, checked bool) error {
	m.mu.Lock()
	if !checked {
		m.active = remove(m.active, id)
		m.mu.Unlock()
		m.logger.Debug("institution unchecked", map[string]interface{}{"institution": id})
		return nil
	}

	if !contains(m.active, id) {
		m.active = append(m.active, id)
	}
	if _, ok := m.programCache[id]; ok {
		m.mu.Unlock()
		return nil
	}
	m.seq++
	gen := m.seq
	m.generation[id] = gen
	m.mu.Unlock()

	programs, err := m.source.Programs(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generation[id] != gen {
		m.logger.Debug("stale program list discarded", map[string]interface{}{
			"institution": id,
			"generation":  gen,
		})
		return nil
	}
	delete(m.generation, id)

	if err != nil {
		m.active = remove(m.active, id)
		m.logger.Warn("failed to load programs", map[string]interface{}{
			"institution": id,
			"error":       err,
		})
		return err
	}
	if programs == nil {
		programs = []models.Program{}
	}
	m.programCache[id] = programs
	if _, ok := m.facultySelection[id]; !ok {
		m.facultySelection[id] = make(map[string]bool)
	}
	m.logger.Info("programs cached", map[string]interface{}{
		"institution": id,
		"count":       len(programs),
	})
	return nil
}

// ToggleInstitutions checks institutions one after another in the given
// order, so groups appear in that order. The first failure stops the batch.
func (m *Manager) ToggleInstitutions(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := m.ToggleInstitution(ctx, id, true); err != nil {
			return err
		}
	}
	return nil
}

// ToggleFaculty checks or unchecks a faculty of a loaded institution.
func (m *Manager) ToggleFaculty(institution, faculty string, checked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	programs, ok := m.programCache[institution]
	if !ok {
		return apperrors.NewUnknownInstitutionError(institution)
	}
	name := models.Program{Faculty: faculty}.FacultyKey()
	if name == "" || !contains(faculties(programs), name) {
		return apperrors.NewUnknownFacultyError(institution, faculty)
	}

	if checked {
		m.facultySelection[institution][name] = true
	} else {
		delete(m.facultySelection[institution], name)
	}
	m.logger.Debug("faculty toggled", map[string]interface{}{
		"institution": institution,
		"faculty":     name,
		"checked":     checked,
	})
	return nil
}

// ToggleProgram adds or removes a program from the global selection. Only
// programs from a fetched list can be selected.
func (m *Manager) ToggleProgram(id string, checked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !checked {
		m.selected = remove(m.selected, id)
		return nil
	}
	if !m.known(id) {
		return apperrors.NewUnknownProgramError(id)
	}
	if !contains(m.selected, id) {
		m.selected = append(m.selected, id)
	}
	return nil
}

func (m *Manager) known(id string) bool {
	for _, programs := range m.programCache {
		for _, p := range programs {
			if p.ID == id {
				return true
			}
		}
	}
	return false
}

// VisiblePrograms returns the cached programs of institution whose faculty is
// checked, in fetch order.
func (m *Manager) VisiblePrograms(institution string) []models.Program {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible(institution)
}

func (m *Manager) visible(institution string) []models.Program {
	out := []models.Program{}
	selection := m.facultySelection[institution]
	if len(selection) == 0 {
		return out
	}
	for _, p := range m.programCache[institution] {
		if key := p.FacultyKey(); key != "" && selection[key] {
			out = append(out, p)
		}
	}
	return out
}

// Faculties lists the distinct non-blank faculties of a loaded institution
// in order of first appearance.
func (m *Manager) Faculties(institution string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return faculties(m.programCache[institution])
}

func faculties(programs []models.Program) []string {
	out := []string{}
	for _, p := range programs {
		if key := p.FacultyKey(); key != "" && !contains(out, key) {
			out = append(out, key)
		}
	}
	return out
}

// SelectedProgramIDs returns the global selection in selection order.
func (m *Manager) SelectedProgramIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.selected))
	copy(out, m.selected)
	return out
}

// ActiveInstitutions returns the checked institutions in check order.
func (m *Manager) ActiveInstitutions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.active))
	copy(out, m.active)
	return out
}

// Groups renders the checked institutions.
func (m *Manager) Groups() []Group {
	m.mu.Lock()
	defer m.mu.Unlock()

	groups := make([]Group, 0, len(m.active))
	for _, id := range m.active {
		programs, loaded := m.programCache[id]
		group := Group{
			Institution: id,
			Label:       models.InstitutionName(id, m.names),
			Loaded:      loaded,
			Faculties:   []FacultyBox{},
			Programs:    []ProgramChip{},
		}
		for _, name := range faculties(programs) {
			group.Faculties = append(group.Faculties, FacultyBox{
				Name:    name,
				Checked: m.facultySelection[id][name],
			})
		}
		for _, p := range m.visible(id) {
			group.Programs = append(group.Programs, ProgramChip{
				ID:       p.ID,
				Name:     p.Name,
				Faculty:  p.FacultyKey(),
				Selected: contains(m.selected, p.ID),
			})
		}
		groups = append(groups, group)
	}
	return groups
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
