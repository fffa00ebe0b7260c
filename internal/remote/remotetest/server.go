// Package remotetest runs an in-process fake of the eligibility service for tests.
package remotetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"eligibility-intake/internal/models"
)

// Server is a fake eligibility service backed by httptest.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	subjects     models.SubjectSchema
	institutions []string
	programs     map[string][]models.Program
	calls        map[string]int
	computed     []models.EligibilityRequest

	// ComputeHandler overrides the default /compute behavior when set.
	ComputeHandler http.HandlerFunc
}

// DefaultSubjects is a small technion-like catalog.
func DefaultSubjects() models.SubjectSchema {
	return models.SubjectSchema{
		Mandatory: []models.SubjectDefinition{
			{Name: "math", DisplayName: "Mathematics", AllowedUnits: []int{3, 4, 5}, Mandatory: true},
			{Name: "english", DisplayName: "English", AllowedUnits: []int{4, 5}, Mandatory: true},
			{Name: "hebrew", AllowedUnits: []int{2}, Mandatory: true},
		},
		Electives: []models.SubjectDefinition{
			{Name: "physics", DisplayName: "Physics", AllowedUnits: []int{4, 5}},
			{Name: "cs", DisplayName: "Computer Science", AllowedUnits: []int{5}},
		},
	}
}

// DefaultPrograms returns program lists for technion and huji.
func DefaultPrograms() map[string][]models.Program {
	return map[string][]models.Program{
		"technion": {
			{ID: "tech-cs", Name: "Computer Science", Institution: "technion", Faculty: "Computer Science"},
			{ID: "tech-ee", Name: "Electrical Engineering", Institution: "technion", Faculty: "Electrical Engineering"},
			{ID: "tech-ds", Name: "Data Science", Institution: "technion", Faculty: " Computer Science "},
			{ID: "tech-arch", Name: "Architecture", Institution: "technion", Faculty: "Architecture"},
			{ID: "tech-misc", Name: "Undeclared", Institution: "technion", Faculty: "  "},
		},
		"huji": {
			{ID: "huji-law", Name: "Law", Institution: "huji", Faculty: "Law"},
			{ID: "huji-med", Name: "Medicine", Institution: "huji", Faculty: "Medicine"},
		},
	}
}

// NewServer starts a fake service with the default catalog.
func NewServer() *Server {
	s := &Server{
		subjects:     DefaultSubjects(),
		institutions: []string{"technion", "huji"},
		programs:     DefaultPrograms(),
		calls:        make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/subjects", s.count("/subjects", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, s.subjects)
	}))
	mux.HandleFunc("/institutions", s.count("/institutions", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, s.institutions)
	}))
	mux.HandleFunc("/programs", s.count("/programs", func(w http.ResponseWriter, r *http.Request) {
		inst := r.URL.Query().Get("institution")
		s.mu.Lock()
		progs, ok := s.programs[inst]
		s.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, map[string]string{"detail": "Unsupported institution: " + inst})
			return
		}
		writeJSON(w, progs)
	}))
	mux.HandleFunc("/compute", s.count("/compute", s.compute))

	s.Server = httptest.NewServer(mux)
	return s
}

func (s *Server) count(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[endpoint]++
		s.mu.Unlock()
		next(w, r)
	}
}

func (s *Server) compute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req models.EligibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(err.Error()))
		return
	}

	s.mu.Lock()
	s.computed = append(s.computed, req)
	handler := s.ComputeHandler
	s.mu.Unlock()

	if handler != nil {
		handler(w, r)
		return
	}

	passed := req.PsychometricTotal >= 600
	explanation := "psychometric below threshold"
	if passed {
		explanation = "psychometric meets threshold"
	}

	results := []models.EligibilityResult{}
	for _, inst := range req.Institutions {
		s.mu.Lock()
		progs := s.programs[inst]
		s.mu.Unlock()
		for _, p := range progs {
			if len(req.ProgramIDs) > 0 && !contains(req.ProgramIDs, p.ID) {
				continue
			}
			results = append(results, models.EligibilityResult{
				Institution:  inst,
				ProgramID:    p.ID,
				ProgramName:  p.Name,
				Passed:       passed,
				D:            models.Num(101.25),
				P:            models.Num(float64(req.PsychometricTotal)),
				S:            models.Num(95.125),
				Threshold:    models.Num(600),
				Explanations: []string{explanation},
			})
		}
	}
	writeJSON(w, results)
}

// SetPrograms replaces the program list of one institution.
func (s *Server) SetPrograms(institution string, programs []models.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs[institution] = programs
}

// SetSubjects replaces the subject catalog.
func (s *Server) SetSubjects(schema models.SubjectSchema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects = schema
}

// Calls returns how many times endpoint was hit.
func (s *Server) Calls(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[endpoint]
}

// ComputeRequests returns the decoded /compute bodies in arrival order.
func (s *Server) ComputeRequests() []models.EligibilityRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.EligibilityRequest, len(s.computed))
	copy(out, s.computed)
	return out
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
