// internal/intake/form-builder/models.go
package formbuilder

import (
	"strconv"

	"eligibility-intake/internal/models"
)

// ScoreHints are soft limits a frontend may show next to the score field.
// They are never enforced by the row itself.
type ScoreHints struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Row is the input widget for one subject: a unit selector and a free-entry
// score field. Both hold raw, unchecked strings.
type Row struct {
	Definition models.SubjectDefinition
	units      string
	score      string
}

// RowView is the serializable state of a row.
type RowView struct {
	Name        string     `json:"name"`
	Label       string     `json:"label"`
	Mandatory   bool       `json:"mandatory"`
	UnitOptions []string   `json:"unit_options"`
	Units       string     `json:"units"`
	Score       string     `json:"score"`
	Hints       ScoreHints `json:"hints"`
}

// Chip is the opt-in toggle for one elective subject.
type Chip struct {
	Definition models.SubjectDefinition
	Active     bool
}

// ChipView is the serializable state of a chip.
type ChipView struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// FormView is the serializable state of the whole form.
type FormView struct {
	Mandatory []RowView  `json:"mandatory"`
	Chips     []ChipView `json:"chips"`
	Electives []RowView  `json:"electives"`
}

func newRow(def models.SubjectDefinition) *Row {
	return &Row{Definition: def}
}

// UnitOptions lists the selector choices: empty first, then each allowed unit.
func (r *Row) UnitOptions() []string {
	opts := make([]string, 0, len(r.Definition.AllowedUnits)+1)
	opts = append(opts, "")
	for _, u := range r.Definition.AllowedUnits {
		opts = append(opts, strconv.Itoa(u))
	}
	return opts
}

func (r *Row) SetUnits(raw string) { r.units = raw }
func (r *Row) SetScore(raw string) { r.score = raw }
func (r *Row) Units() string       { return r.units }
func (r *Row) Score() string       { return r.score }
func (r *Row) Name() string        { return r.Definition.Name }
func (r *Row) Label() string       { return r.Definition.Label() }

// Hints returns the score field hints.
func (r *Row) Hints() ScoreHints {
	return ScoreHints{Min: 0, Max: 100, Step: 1}
}

func (r *Row) View() RowView {
	return RowView{
		Name:        r.Name(),
		Label:       r.Label(),
		Mandatory:   r.Definition.Mandatory,
		UnitOptions: r.UnitOptions(),
		Units:       r.units,
		Score:       r.score,
		Hints:       r.Hints(),
	}
}
