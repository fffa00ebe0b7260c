package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// EligibilityRequest is the POST /compute body.
type EligibilityRequest struct {
	Institutions      []string       `json:"institutions"`
	PsychometricTotal int            `json:"psychometric_total"`
	Subjects          []SubjectEntry `json:"subjects"`
	ProgramIDs        []string       `json:"program_ids"` // empty means all programs
}

// EligibilityResult is the verdict for one program.
type EligibilityResult struct {
	Institution  string   `json:"institution"`
	ProgramID    string   `json:"program_id"`
	ProgramName  string   `json:"program_name"`
	Passed       bool     `json:"passed"`
	D            Metric   `json:"D"`
	P            Metric   `json:"P"`
	S            Metric   `json:"S"`
	Threshold    Metric   `json:"threshold"`
	Explanations []string `json:"explanations"`
}

// Metric is an optional number from the eligibility service. Absent, null
// and non-numeric values never fail the surrounding document: Valid is set
// only for JSON numbers, while Present and Raw keep any non-null scalar so it
// can still be shown as sent.
type Metric struct {
	Value   float64
	Raw     string
	Valid   bool
	Present bool
}

// Num builds a valid Metric, mostly for tests and fakes.
func Num(v float64) Metric {
	return Metric{Value: v, Raw: strconv.FormatFloat(v, 'f', -1, 64), Valid: true, Present: true}
}

// Text builds a present, non-numeric Metric.
func Text(raw string) Metric {
	return Metric{Raw: raw, Present: true}
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	*m = Metric{}
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case 'n', '{', '[':
		// null, objects and arrays count as absent
		return nil
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil || strings.TrimSpace(text) == "" {
			return nil
		}
		*m = Text(text)
		return nil
	case 't', 'f':
		*m = Text(string(raw))
		return nil
	}

	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*m = Text(string(raw))
		return nil
	}
	*m = Metric{Value: v, Raw: string(raw), Valid: true, Present: true}
	return nil
}

func (m Metric) MarshalJSON() ([]byte, error) {
	switch {
	case m.Valid && m.Raw != "":
		return []byte(m.Raw), nil
	case m.Valid:
		return []byte(strconv.FormatFloat(m.Value, 'f', -1, 64)), nil
	case m.Present:
		return json.Marshal(m.Raw)
	}
	return []byte("null"), nil
}

// Fixed formats the value with the given number of decimals, or "-".
func (m Metric) Fixed(decimals int) string {
	if !m.Valid {
		return "-"
	}
	return strconv.FormatFloat(m.Value, 'f', decimals, 64)
}

// Verbatim returns the value as the service sent it, or "-" when absent.
// Non-numeric values are returned as text.
func (m Metric) Verbatim() string {
	switch {
	case m.Valid && m.Raw == "":
		return strconv.FormatFloat(m.Value, 'f', -1, 64)
	case m.Valid, m.Present:
		return m.Raw
	}
	return "-"
}
