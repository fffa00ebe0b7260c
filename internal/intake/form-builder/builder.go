// internal/intake/form-builder/builder.go
package formbuilder

import (
	apperrors "eligibility-intake/internal/common/errors"
	"eligibility-intake/internal/common/logger"
	"eligibility-intake/internal/models"
)

// BuildMandatoryRows returns one always-visible row per definition, in schema
// order. Duplicate names keep only the first definition.
func BuildMandatoryRows(defs []models.SubjectDefinition) []*Row {
	rows := make([]*Row, 0, len(defs))
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if seen[def.Name] {
			continue
		}
		seen[def.Name] = true
		def.Mandatory = true
		rows = append(rows, newRow(def))
	}
	return rows
}

// ChipSet is the set of elective toggles together with the rows they have
// inserted, kept in activation order.
type ChipSet struct {
	chips []*Chip
	rows  []*Row
}

// BuildElectiveChips returns one inactive chip per elective definition.
func BuildElectiveChips(defs []models.SubjectDefinition) *ChipSet {
	set := &ChipSet{chips: make([]*Chip, 0, len(defs))}
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if seen[def.Name] {
			continue
		}
		seen[def.Name] = true
		def.Mandatory = false
		set.chips = append(set.chips, &Chip{Definition: def})
	}
	return set
}

func (s *ChipSet) chip(name string) *Chip {
	for _, c := range s.chips {
		if c.Definition.Name == name {
			return c
		}
	}
	return nil
}

// Toggle activates or deactivates the chip for name. Activating an active chip
// and deactivating an inactive one are no-ops. Deactivation drops the row and
// every value entered in it.
func (s *ChipSet) Toggle(name string, on bool) (*Row, error) {
	c := s.chip(name)
	if c == nil {
		return nil, apperrors.NewUnknownSubjectError(name)
	}

	if on {
		if c.Active {
			return s.row(name), nil
		}
		c.Active = true
		row := newRow(c.Definition)
		s.rows = append(s.rows, row)
		return row, nil
	}

	if !c.Active {
		return nil, nil
	}
	c.Active = false
	for i, r := range s.rows {
		if r.Name() == name {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			break
		}
	}
	return nil, nil
}

func (s *ChipSet) row(name string) *Row {
	for _, r := range s.rows {
		if r.Name() == name {
			return r
		}
	}
	return nil
}

// Chips returns the chips in schema order.
func (s *ChipSet) Chips() []Chip {
	out := make([]Chip, len(s.chips))
	for i, c := range s.chips {
		out[i] = *c
	}
	return out
}

// Rows returns the inserted elective rows in document order.
func (s *ChipSet) Rows() []*Row {
	out := make([]*Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Form is the complete subject form of one session.
type Form struct {
	mandatory []*Row
	chips     *ChipSet
	logger    logger.Logger
}

// NewForm materializes the form for a subject schema.
func NewForm(schema models.SubjectSchema, log logger.Logger) *Form {
	f := &Form{
		mandatory: BuildMandatoryRows(schema.Mandatory),
		chips:     BuildElectiveChips(schema.Electives),
		logger:    logger.Component(log, "form-builder"),
	}
	f.logger.Debug("form built", map[string]interface{}{
		"mandatoryRows": len(f.mandatory),
		"electiveChips": len(f.chips.chips),
	})
	return f
}

// ToggleElective opts an elective in or out.
func (f *Form) ToggleElective(name string, on bool) error {
	if f.isMandatory(name) {
		// mandatory subjects already have their row
		return apperrors.NewUnknownSubjectError(name)
	}
	if _, err := f.chips.Toggle(name, on); err != nil {
		return err
	}
	f.logger.Debug("elective toggled", map[string]interface{}{"subject": name, "active": on})
	return nil
}

func (f *Form) isMandatory(name string) bool {
	for _, r := range f.mandatory {
		if r.Name() == name {
			return true
		}
	}
	return false
}

// Row returns the visible row for a subject, mandatory or elective.
func (f *Form) Row(name string) (*Row, bool) {
	for _, r := range f.mandatory {
		if r.Name() == name {
			return r, true
		}
	}
	if r := f.chips.row(name); r != nil {
		return r, true
	}
	return nil, false
}

// MandatoryRows returns the mandatory rows in schema order.
func (f *Form) MandatoryRows() []*Row {
	out := make([]*Row, len(f.mandatory))
	copy(out, f.mandatory)
	return out
}

// ElectiveRows returns the opted-in elective rows in document order.
func (f *Form) ElectiveRows() []*Row {
	return f.chips.Rows()
}

// Chips returns the elective chips in schema order.
func (f *Form) Chips() []Chip {
	return f.chips.Chips()
}

func (f *Form) View() FormView {
	view := FormView{
		Mandatory: make([]RowView, 0, len(f.mandatory)),
		Chips:     make([]ChipView, 0, len(f.chips.chips)),
		Electives: make([]RowView, 0, len(f.chips.rows)),
	}
	for _, r := range f.mandatory {
		view.Mandatory = append(view.Mandatory, r.View())
	}
	for _, c := range f.chips.chips {
		view.Chips = append(view.Chips, ChipView{Name: c.Definition.Name, Label: c.Definition.Label(), Active: c.Active})
	}
	for _, r := range f.chips.rows {
		view.Electives = append(view.Electives, r.View())
	}
	return view
}
