package models

import "strings"

// Program is one degree track offered by an institution.
type Program struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Institution string `json:"institution"`
	Faculty     string `json:"faculty"`
}

// FacultyKey is the trimmed faculty name; empty means the program takes no
// part in faculty grouping.
func (p Program) FacultyKey() string {
	return strings.TrimSpace(p.Faculty)
}

var defaultInstitutionNames = map[string]string{
	"technion": "Technion",
	"huji":     "Hebrew University",
	"bgu":      "Ben-Gurion University",
	"tau":      "Tel Aviv University",
}

// InstitutionName maps an institution identifier to its display name.
// overrides win over the built-in table; unknown ids map to themselves.
func InstitutionName(id string, overrides map[string]string) string {
	if name, ok := overrides[id]; ok && strings.TrimSpace(name) != "" {
		return name
	}
	if name, ok := defaultInstitutionNames[strings.ToLower(id)]; ok {
		return name
	}
	return id
}
