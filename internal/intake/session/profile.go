// internal/intake/session/profile.go
package session

import (
	"fmt"
	"sort"

	"eligibility-intake/internal/common/validation"

	"gopkg.in/yaml.v3"
)

// SubjectValues are the raw values typed into one subject row.
type SubjectValues struct {
	Units string `yaml:"units"`
	Score string `yaml:"score"`
}

// Profile is an applicant's answers stored as YAML, replayed into a session
// as events.
//
//	institutions: [technion, huji]
//	psychometric: 650
//	subjects:
//	  math: {units: 5, score: 92}
//	electives: [physics]
//	faculties:
//	  technion: [Computer Science]
//	programs: [tech-cs]
type Profile struct {
	Institutions []string                 `yaml:"institutions"`
	Psychometric string                   `yaml:"psychometric"`
	Subjects     map[string]SubjectValues `yaml:"subjects"`
	Electives    []string                 `yaml:"electives"`
	Faculties    map[string][]string      `yaml:"faculties"`
	Programs     []string                 `yaml:"programs"`
}

// ParseProfile decodes and shape-checks a YAML profile.
func ParseProfile(data []byte) (*Profile, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("parse profile: empty document")
	}
	if err := validation.ValidateDocument(validation.SchemaProfile, doc); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}

// Events lists the interactions that reproduce the profile: institutions in
// listed order, then faculties, programs, electives, subject values and the
// psychometric score. Map-keyed sections are replayed in key order.
func (p *Profile) Events() []Event {
	var events []Event

	for _, inst := range p.Institutions {
		events = append(events, Event{Kind: KindToggleInstitution, Institution: inst, Checked: true})
	}

	for _, inst := range sortedKeys(p.Faculties) {
		for _, faculty := range p.Faculties[inst] {
			events = append(events, Event{Kind: KindToggleFaculty, Institution: inst, Faculty: faculty, Checked: true})
		}
	}

	for _, id := range p.Programs {
		events = append(events, Event{Kind: KindToggleProgram, Program: id, Checked: true})
	}

	for _, name := range p.Electives {
		events = append(events, Event{Kind: KindToggleElective, Subject: name, Checked: true})
	}

	names := make([]string, 0, len(p.Subjects))
	for name := range p.Subjects {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := p.Subjects[name]
		events = append(events,
			Event{Kind: KindSetUnits, Subject: name, Value: v.Units},
			Event{Kind: KindSetScore, Subject: name, Value: v.Score},
		)
	}

	if p.Psychometric != "" {
		events = append(events, Event{Kind: KindSetPsychometric, Value: p.Psychometric})
	}
	return events
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
