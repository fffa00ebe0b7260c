// internal/intake/selection-state/manager_test.go
package selectionstate

import (
	"context"
	"errors"
	"sync"
	"testing"

	apperrors "eligibility-intake/internal/common/errors"
	"eligibility-intake/internal/common/logger"
	"eligibility-intake/internal/models"
	"eligibility-intake/internal/remote/remotetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	mu       sync.Mutex
	programs map[string][]models.Program
	calls    map[string]int
	order    []string
}

func newCountingSource() *countingSource {
	return &countingSource{
		programs: remotetest.DefaultPrograms(),
		calls:    make(map[string]int),
	}
}

func (s *countingSource) Programs(ctx context.Context, institution string) ([]models.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[institution]++
	s.order = append(s.order, institution)
	programs, ok := s.programs[institution]
	if !ok {
		return nil, errors.New("unsupported institution: " + institution)
	}
	return programs, nil
}

func ids(programs []models.Program) []string {
	out := make([]string, 0, len(programs))
	for _, p := range programs {
		out = append(out, p.ID)
	}
	return out
}

func newTestManager(t *testing.T, source ProgramSource) *Manager {
	return NewManager(source, nil, logger.NewTestLogger(t))
}

func TestToggleInstitution_FetchesOnce(t *testing.T) {
	source := newCountingSource()
	m := newTestManager(t, source)
	ctx := context.Background()

	require.NoError(t, m.ToggleInstitution(ctx, "technion", true))
	require.NoError(t, m.ToggleInstitution(ctx, "technion", false))
	assert.Empty(t, m.ActiveInstitutions())

	require.NoError(t, m.ToggleInstitution(ctx, "technion", true))
	assert.Equal(t, 1, source.calls["technion"])
	assert.Equal(t, []string{"technion"}, m.ActiveInstitutions())
}

func TestToggleInstitution_UncheckRetainsFacultySelection(t *testing.T) {
	m := newTestManager(t, newCountingSource())
	ctx := context.Background()

	require.NoError(t, m.ToggleInstitution(ctx, "technion", true))
	require.NoError(t, m.ToggleFaculty("technion", "Architecture", true))
	require.NoError(t, m.ToggleInstitution(ctx, "technion", false))
	assert.Empty(t, m.Groups())

	require.NoError(t, m.ToggleInstitution(ctx, "technion", true))
	assert.Equal(t, []string{"tech-arch"}, ids(m.VisiblePrograms("technion")))
}

func TestToggleInstitution_FetchFailure(t *testing.T) {
	m := newTestManager(t, newCountingSource())

	err := m.ToggleInstitution(context.Background(), "nowhere", true)

	assert.Error(t, err)
	assert.Empty(t, m.ActiveInstitutions())
	assert.Empty(t, m.Faculties("nowhere"))
}

func TestToggleInstitutions_SequentialOrder(t *testing.T) {
	source := newCountingSource()
	m := newTestManager(t, source)

	require.NoError(t, m.ToggleInstitutions(context.Background(), []string{"huji", "technion"}))

	assert.Equal(t, []string{"huji", "technion"}, source.order)
	groups := m.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "huji", groups[0].Institution)
	assert.Equal(t, "Hebrew University", groups[0].Label)
	assert.Equal(t, "technion", groups[1].Institution)
}

func TestToggleInstitutions_StopsOnFirstError(t *testing.T) {
	source := newCountingSource()
	m := newTestManager(t, source)

	err := m.ToggleInstitutions(context.Background(), []string{"technion", "nowhere", "huji"})

	assert.Error(t, err)
	assert.Equal(t, []string{"technion", "nowhere"}, source.order)
	assert.Equal(t, []string{"technion"}, m.ActiveInstitutions())
}

func TestFaculties_FirstAppearanceOrder(t *testing.T) {
	m := newTestManager(t, newCountingSource())
	require.NoError(t, m.ToggleInstitution(context.Background(), "technion", true))

	assert.Equal(t, []string{"Computer Science", "Electrical Engineering", "Architecture"}, m.Faculties("technion"))
}

func TestVisiblePrograms(t *testing.T) {
	m := newTestManager(t, newCountingSource())
	ctx := context.Background()
	require.NoError(t, m.ToggleInstitutions(ctx, []string{"technion", "huji"}))

	assert.Empty(t, m.VisiblePrograms("technion"))
	assert.Empty(t, m.VisiblePrograms("huji"))

	require.NoError(t, m.ToggleFaculty("technion", " Computer Science", true))
	assert.Equal(t, []string{"tech-cs", "tech-ds"}, ids(m.VisiblePrograms("technion")))
	assert.Empty(t, m.VisiblePrograms("huji"))

	require.NoError(t, m.ToggleFaculty("technion", "Architecture", true))
	assert.Equal(t, []string{"tech-cs", "tech-ds", "tech-arch"}, ids(m.VisiblePrograms("technion")))

	require.NoError(t, m.ToggleFaculty("technion", "Computer Science", false))
	assert.Equal(t, []string{"tech-arch"}, ids(m.VisiblePrograms("technion")))

	require.NoError(t, m.ToggleFaculty("technion", "Architecture", false))
	assert.Empty(t, m.VisiblePrograms("technion"))
}

func TestToggleFaculty_Errors(t *testing.T) {
	m := newTestManager(t, newCountingSource())
	require.NoError(t, m.ToggleInstitution(context.Background(), "technion", true))

	err := m.ToggleFaculty("huji", "Law", true)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnknownInstitution))

	err = m.ToggleFaculty("technion", "Law", true)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnknownFaculty))

	err = m.ToggleFaculty("technion", "   ", true)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnknownFaculty))
}

func TestToggleProgram(t *testing.T) {
	m := newTestManager(t, newCountingSource())
	require.NoError(t, m.ToggleInstitution(context.Background(), "technion", true))

	err := m.ToggleProgram("huji-law", true)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnknownProgram))
	assert.Equal(t, []string{}, m.SelectedProgramIDs())

	require.NoError(t, m.ToggleProgram("tech-ee", true))
	require.NoError(t, m.ToggleProgram("tech-cs", true))
	require.NoError(t, m.ToggleProgram("tech-ee", true))
	assert.Equal(t, []string{"tech-ee", "tech-cs"}, m.SelectedProgramIDs())

	require.NoError(t, m.ToggleProgram("tech-ee", false))
	require.NoError(t, m.ToggleProgram("never-selected", false))
	assert.Equal(t, []string{"tech-cs"}, m.SelectedProgramIDs())
}

func TestSelectionSurvivesFacultyChanges(t *testing.T) {
	m := newTestManager(t, newCountingSource())
	ctx := context.Background()
	require.NoError(t, m.ToggleInstitution(ctx, "technion", true))
	require.NoError(t, m.ToggleFaculty("technion", "Computer Science", true))
	require.NoError(t, m.ToggleProgram("tech-cs", true))

	require.NoError(t, m.ToggleFaculty("technion", "Computer Science", false))
	assert.Empty(t, m.VisiblePrograms("technion"))
	assert.Equal(t, []string{"tech-cs"}, m.SelectedProgramIDs())

	require.NoError(t, m.ToggleInstitution(ctx, "technion", false))
	assert.Equal(t, []string{"tech-cs"}, m.SelectedProgramIDs())

	require.NoError(t, m.ToggleInstitution(ctx, "technion", true))
	require.NoError(t, m.ToggleFaculty("technion", "Computer Science", true))
	groups := m.Groups()
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Programs, 2)
	assert.True(t, groups[0].Programs[0].Selected)
	assert.False(t, groups[0].Programs[1].Selected)
}

func TestGroups(t *testing.T) {
	m := NewManager(newCountingSource(), map[string]string{"technion": "Technion IIT"}, logger.NewNoOpLogger())
	require.NoError(t, m.ToggleInstitution(context.Background(), "technion", true))
	require.NoError(t, m.ToggleFaculty("technion", "Electrical Engineering", true))

	groups := m.Groups()

	require.Len(t, groups, 1)
	assert.Equal(t, "Technion IIT", groups[0].Label)
	assert.True(t, groups[0].Loaded)
	assert.Equal(t, []FacultyBox{
		{Name: "Computer Science"},
		{Name: "Electrical Engineering", Checked: true},
		{Name: "Architecture"},
	}, groups[0].Faculties)
	assert.Equal(t, []ProgramChip{
		{ID: "tech-ee", Name: "Electrical Engineering", Faculty: "Electrical Engineering"},
	}, groups[0].Programs)
}

func TestStaleFetchDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	source := ProgramSourceFunc(func(ctx context.Context, institution string) ([]models.Program, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(started)
			<-release
			return []models.Program{{ID: "old", Name: "Old", Faculty: "Stale"}}, nil
		}
		return []models.Program{{ID: "new", Name: "New", Faculty: "Fresh"}}, nil
	})
	m := newTestManager(t, source)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- m.ToggleInstitution(ctx, "technion", true)
	}()
	<-started

	require.NoError(t, m.ToggleInstitution(ctx, "technion", false))
	require.NoError(t, m.ToggleInstitution(ctx, "technion", true))

	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"Fresh"}, m.Faculties("technion"))
	assert.Equal(t, []string{"technion"}, m.ActiveInstitutions())
}

func TestReset(t *testing.T) {
	source := newCountingSource()
	m := newTestManager(t, source)
	ctx := context.Background()
	require.NoError(t, m.ToggleInstitution(ctx, "technion", true))
	require.NoError(t, m.ToggleFaculty("technion", "Architecture", true))
	require.NoError(t, m.ToggleProgram("tech-arch", true))

	m.Reset()

	assert.Empty(t, m.ActiveInstitutions())
	assert.Equal(t, []string{}, m.SelectedProgramIDs())
	assert.Empty(t, m.Faculties("technion"))

	require.NoError(t, m.ToggleInstitution(ctx, "technion", true))
	assert.Equal(t, 2, source.calls["technion"])
	assert.Empty(t, m.VisiblePrograms("technion"))
}

func TestEndToEndSelection(t *testing.T) {
	m := newTestManager(t, newCountingSource())
	ctx := context.Background()

	require.NoError(t, m.ToggleInstitutions(ctx, []string{"technion", "huji"}))
	require.NoError(t, m.ToggleFaculty("technion", "Computer Science", true))

	visible := m.VisiblePrograms("technion")
	assert.Equal(t, []string{"tech-cs", "tech-ds"}, ids(visible))
	assert.Empty(t, m.VisiblePrograms("huji"))

	for _, p := range visible {
		require.NoError(t, m.ToggleProgram(p.ID, true))
	}

	assert.Equal(t, []string{"tech-cs", "tech-ds"}, m.SelectedProgramIDs())
}
