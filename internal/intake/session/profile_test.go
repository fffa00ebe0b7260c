// internal/intake/session/profile_test.go
package session

import (
	"context"
	"testing"

	"eligibility-intake/internal/common/logger"
	requestorchestrator "eligibility-intake/internal/intake/request-orchestrator"
	"eligibility-intake/internal/remote/remotetest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProfile = `
institutions: [technion, huji]
psychometric: 650
subjects:
  math: {units: 5, score: 92.5}
  english: {units: 4, score: 88}
  hebrew: {units: 2, score: "70"}
  physics: {units: 5, score: 81}
electives: [physics]
faculties:
  technion: [Computer Science]
programs: [tech-cs]
`

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(sampleProfile))
	require.NoError(t, err)

	assert.Equal(t, []string{"technion", "huji"}, p.Institutions)
	assert.Equal(t, "650", p.Psychometric)
	assert.Equal(t, SubjectValues{Units: "5", Score: "92.5"}, p.Subjects["math"])
	assert.Equal(t, SubjectValues{Units: "2", Score: "70"}, p.Subjects["hebrew"])
}

func TestParseProfile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty", doc: ""},
		{name: "not yaml", doc: "institutions: [unclosed"},
		{name: "missing institutions", doc: "psychometric: 650"},
		{name: "wrong type", doc: "institutions: technion"},
		{name: "subject not a mapping", doc: "institutions: [technion]\nsubjects:\n  math: 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfile([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestProfile_Events(t *testing.T) {
	p, err := ParseProfile([]byte(sampleProfile))
	require.NoError(t, err)

	expected := []Event{
		{Kind: KindToggleInstitution, Institution: "technion", Checked: true},
		{Kind: KindToggleInstitution, Institution: "huji", Checked: true},
		{Kind: KindToggleFaculty, Institution: "technion", Faculty: "Computer Science", Checked: true},
		{Kind: KindToggleProgram, Program: "tech-cs", Checked: true},
		{Kind: KindToggleElective, Subject: "physics", Checked: true},
		{Kind: KindSetUnits, Subject: "english", Value: "4"},
		{Kind: KindSetScore, Subject: "english", Value: "88"},
		{Kind: KindSetUnits, Subject: "hebrew", Value: "2"},
		{Kind: KindSetScore, Subject: "hebrew", Value: "70"},
		{Kind: KindSetUnits, Subject: "math", Value: "5"},
		{Kind: KindSetScore, Subject: "math", Value: "92.5"},
		{Kind: KindSetUnits, Subject: "physics", Value: "5"},
		{Kind: KindSetScore, Subject: "physics", Value: "81"},
		{Kind: KindSetPsychometric, Value: "650"},
	}
	if diff := cmp.Diff(expected, p.Events()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestProfile_Replay(t *testing.T) {
	srv := remotetest.NewServer()
	defer srv.Close()
	s := bootstrap(t, srv)
	ctx := context.Background()

	p, err := ParseProfile([]byte(sampleProfile))
	require.NoError(t, err)
	require.NoError(t, s.DispatchAll(ctx, p.Events()))

	orch := requestorchestrator.NewOrchestrator(nil, createTestService(t, srv), nil, nil, logger.NewTestLogger(t))
	outcome := s.Submit(ctx, orch)

	require.Equal(t, requestorchestrator.StatusOK, outcome.Status, outcome.Errors)
	sent := srv.ComputeRequests()[0]
	assert.Equal(t, 650, sent.PsychometricTotal)
	assert.Equal(t, []string{"tech-cs"}, sent.ProgramIDs)
	assert.Len(t, sent.Subjects, 4)
	require.Len(t, outcome.Cards, 1)
	assert.Equal(t, "Technion – Computer Science (tech-cs)", outcome.Cards[0].Title)
}
