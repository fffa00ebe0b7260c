// internal/intake/subject-validation/validator.go
package subjectvalidation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"eligibility-intake/internal/common/logger"
	"eligibility-intake/internal/common/metrics"
	formbuilder "eligibility-intake/internal/intake/form-builder"
	"eligibility-intake/internal/models"
)

// Entry is a validated subject triple.
type Entry = models.SubjectEntry

const (
	SectionMandatory = "mandatory"
	SectionElective  = "elective"
)

// ReadSubjects turns rows into validated entries and ordered error messages.
//
// With required set every row must carry a unit level from its allowed set
// and a score in [0, 100]; units and score are checked separately, so a row
// can contribute both a units message and a score message.
// Without it, rows with either field blank are skipped and the remaining rows
// must be jointly valid. A row yields an entry only when both fields are valid.
func ReadSubjects(rows []*formbuilder.Row, required bool) ([]Entry, []string) {
	entries := make([]Entry, 0, len(rows))
	var errs []string

	for _, row := range rows {
		label := row.Label()
		rawUnits := strings.TrimSpace(row.Units())
		rawScore := strings.TrimSpace(row.Score())

		if !required {
			if rawUnits == "" || rawScore == "" {
				continue
			}
			units, unitsOK := parseUnits(rawUnits, row.Definition)
			score, scoreOK := parseScore(rawScore)
			if !unitsOK || !scoreOK {
				errs = append(errs, fmt.Sprintf("%s – invalid values.", label))
				continue
			}
			entries = append(entries, Entry{Name: row.Name(), Units: units, Score: score})
			continue
		}

		units, unitsOK := parseUnits(rawUnits, row.Definition)
		switch {
		case rawUnits == "":
			errs = append(errs, fmt.Sprintf("no unit count selected for %s", label))
		case !unitsOK:
			errs = append(errs, fmt.Sprintf("invalid unit count for %s", label))
		}

		score, scoreOK := parseScore(rawScore)
		switch {
		case rawScore == "":
			errs = append(errs, fmt.Sprintf("no score entered for %s", label))
		case !scoreOK:
			errs = append(errs, fmt.Sprintf("score for %s must be between 0 and 100", label))
		}

		if !unitsOK || !scoreOK {
			continue
		}
		entries = append(entries, Entry{Name: row.Name(), Units: units, Score: score})
	}

	return entries, errs
}

func parseUnits(raw string, def models.SubjectDefinition) (int, bool) {
	if raw == "" {
		return 0, false
	}
	units, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return units, def.AllowsUnits(units)
}

func parseScore(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, false
	}
	if score < 0 || score > 100 {
		return 0, false
	}
	return score, true
}

// Engine reads both row groups of a form and reports what it found.
type Engine struct {
	logger logger.Logger
}

func NewEngine(log logger.Logger) *Engine {
	return &Engine{logger: logger.Component(log, "subject-validation")}
}

// Read validates one group of rows under the given section name.
func (e *Engine) Read(section string, rows []*formbuilder.Row, required bool) Result {
	entries, errs := ReadSubjects(rows, required)
	if len(errs) > 0 {
		metrics.ValidationErrorsTotal.WithLabelValues(section).Add(float64(len(errs)))
	}
	e.logger.Debug("subjects read", map[string]interface{}{
		"section":  section,
		"rows":     len(rows),
		"entries":  len(entries),
		"errors":   len(errs),
		"required": required,
	})
	return Result{Entries: entries, Errors: errs}
}
