package models

import (
	"encoding/json"
	"strings"
)

// SubjectDefinition describes one matriculation subject as served by GET /subjects.
type SubjectDefinition struct {
	Name         string `json:"name"`
	DisplayName  string `json:"display_name,omitempty"`
	AllowedUnits []int  `json:"allowed_units"`
	Mandatory    bool   `json:"-"`
}

// Label is the human-facing name, falling back to the internal name.
func (d SubjectDefinition) Label() string {
	if strings.TrimSpace(d.DisplayName) == "" {
		return d.Name
	}
	return d.DisplayName
}

// AllowsUnits reports whether units is one of the allowed credit-unit levels.
func (d SubjectDefinition) AllowsUnits(units int) bool {
	for _, u := range d.AllowedUnits {
		if u == units {
			return true
		}
	}
	return false
}

// SubjectSchema is the full subject catalog for a session. It is immutable
// once loaded.
type SubjectSchema struct {
	Mandatory []SubjectDefinition `json:"mandatory"`
	Electives []SubjectDefinition `json:"electives"`
}

// UnmarshalJSON decodes the catalog and marks list membership on each definition.
func (s *SubjectSchema) UnmarshalJSON(data []byte) error {
	var raw struct {
		Mandatory []SubjectDefinition `json:"mandatory"`
		Electives []SubjectDefinition `json:"electives"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for i := range raw.Mandatory {
		raw.Mandatory[i].Mandatory = true
	}
	for i := range raw.Electives {
		raw.Electives[i].Mandatory = false
	}
	s.Mandatory = raw.Mandatory
	s.Electives = raw.Electives
	return nil
}

// Lookup finds a definition by internal name in either list.
func (s SubjectSchema) Lookup(name string) (SubjectDefinition, bool) {
	for _, d := range s.Mandatory {
		if d.Name == name {
			return d, true
		}
	}
	for _, d := range s.Electives {
		if d.Name == name {
			return d, true
		}
	}
	return SubjectDefinition{}, false
}

// SubjectEntry is a validated (name, units, score) triple sent to /compute.
type SubjectEntry struct {
	Name  string  `json:"name"`
	Units int     `json:"units"`
	Score float64 `json:"score"`
}
