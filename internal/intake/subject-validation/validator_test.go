// internal/intake/subject-validation/validator_test.go
package subjectvalidation

import (
	"testing"

	"eligibility-intake/internal/common/logger"
	formbuilder "eligibility-intake/internal/intake/form-builder"
	"eligibility-intake/internal/models"

	"github.com/stretchr/testify/assert"
)

func mathDef() models.SubjectDefinition {
	return models.SubjectDefinition{Name: "math", DisplayName: "Mathematics", AllowedUnits: []int{3, 4, 5}, Mandatory: true}
}

func physicsDef() models.SubjectDefinition {
	return models.SubjectDefinition{Name: "physics", DisplayName: "Physics", AllowedUnits: []int{4, 5}}
}

func row(def models.SubjectDefinition, units, score string) *formbuilder.Row {
	r := formbuilder.BuildMandatoryRows([]models.SubjectDefinition{def})[0]
	r.SetUnits(units)
	r.SetScore(score)
	return r
}

func TestReadSubjects_Required(t *testing.T) {
	tests := []struct {
		name            string
		units           string
		score           string
		expectedEntries []Entry
		expectedErrors  []string
	}{
		{
			name:            "valid row",
			units:           "5",
			score:           "92.5",
			expectedEntries: []Entry{{Name: "math", Units: 5, Score: 92.5}},
		},
		{
			name:           "missing units",
			units:          "",
			score:          "90",
			expectedErrors: []string{"no unit count selected for Mathematics"},
		},
		{
			name:           "units outside allowed set",
			units:          "2",
			score:          "90",
			expectedErrors: []string{"invalid unit count for Mathematics"},
		},
		{
			name:           "non-numeric units",
			units:          "five",
			score:          "90",
			expectedErrors: []string{"invalid unit count for Mathematics"},
		},
		{
			name:           "missing score",
			units:          "4",
			score:          "  ",
			expectedErrors: []string{"no score entered for Mathematics"},
		},
		{
			name:           "score above range",
			units:          "4",
			score:          "101",
			expectedErrors: []string{"score for Mathematics must be between 0 and 100"},
		},
		{
			name:           "negative score",
			units:          "4",
			score:          "-1",
			expectedErrors: []string{"score for Mathematics must be between 0 and 100"},
		},
		{
			name:           "comma decimal separator",
			units:          "4",
			score:          "90,5",
			expectedErrors: []string{"score for Mathematics must be between 0 and 100"},
		},
		{
			name:           "NaN score",
			units:          "4",
			score:          "NaN",
			expectedErrors: []string{"score for Mathematics must be between 0 and 100"},
		},
		{
			name:            "bounds are inclusive",
			units:           "3",
			score:           "0",
			expectedEntries: []Entry{{Name: "math", Units: 3, Score: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, errs := ReadSubjects([]*formbuilder.Row{row(mathDef(), tt.units, tt.score)}, true)

			if tt.expectedEntries == nil {
				assert.Empty(t, entries)
			} else {
				assert.Equal(t, tt.expectedEntries, entries)
			}
			assert.Equal(t, tt.expectedErrors, errs)
		})
	}
}

func TestReadSubjects_RequiredRowReportsEachField(t *testing.T) {
	tests := []struct {
		name           string
		units          string
		score          string
		expectedErrors []string
	}{
		{
			name:  "both blank",
			units: "",
			score: "",
			expectedErrors: []string{
				"no unit count selected for Mathematics",
				"no score entered for Mathematics",
			},
		},
		{
			name:  "units blank and score out of range",
			units: "",
			score: "140",
			expectedErrors: []string{
				"no unit count selected for Mathematics",
				"score for Mathematics must be between 0 and 100",
			},
		},
		{
			name:  "units not allowed and score blank",
			units: "2",
			score: "",
			expectedErrors: []string{
				"invalid unit count for Mathematics",
				"no score entered for Mathematics",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, errs := ReadSubjects([]*formbuilder.Row{row(mathDef(), tt.units, tt.score)}, true)

			assert.Empty(t, entries)
			assert.Equal(t, tt.expectedErrors, errs)
		})
	}
}

func TestReadSubjects_Optional(t *testing.T) {
	tests := []struct {
		name            string
		units           string
		score           string
		expectedEntries []Entry
		expectedErrors  []string
	}{
		{name: "both blank is skipped", units: "", score: ""},
		{name: "units only is skipped", units: "5", score: ""},
		{name: "score only is skipped", units: "", score: "80"},
		{
			name:            "valid pair",
			units:           "5",
			score:           "80",
			expectedEntries: []Entry{{Name: "physics", Units: 5, Score: 80}},
		},
		{
			name:           "invalid units",
			units:          "3",
			score:          "80",
			expectedErrors: []string{"Physics – invalid values."},
		},
		{
			name:           "invalid score",
			units:          "5",
			score:          "abc",
			expectedErrors: []string{"Physics – invalid values."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, errs := ReadSubjects([]*formbuilder.Row{row(physicsDef(), tt.units, tt.score)}, false)

			if tt.expectedEntries == nil {
				assert.Empty(t, entries)
			} else {
				assert.Equal(t, tt.expectedEntries, entries)
			}
			assert.Equal(t, tt.expectedErrors, errs)
		})
	}
}

func TestReadSubjects_DocumentOrder(t *testing.T) {
	english := models.SubjectDefinition{Name: "english", DisplayName: "English", AllowedUnits: []int{4, 5}}
	hebrew := models.SubjectDefinition{Name: "hebrew", AllowedUnits: []int{2}}

	rows := []*formbuilder.Row{
		row(mathDef(), "", ""),
		row(english, "5", "88"),
		row(hebrew, "2", "200"),
		row(mathDef(), "9", "50"),
	}

	entries, errs := ReadSubjects(rows, true)

	assert.Equal(t, []Entry{{Name: "english", Units: 5, Score: 88}}, entries)
	assert.Equal(t, []string{
		"no unit count selected for Mathematics",
		"no score entered for Mathematics",
		"score for hebrew must be between 0 and 100",
		"invalid unit count for Mathematics",
	}, errs)
}

func TestReadSubjects_EmptyRows(t *testing.T) {
	entries, errs := ReadSubjects(nil, true)

	assert.NotNil(t, entries)
	assert.Empty(t, entries)
	assert.Nil(t, errs)
}

func TestEngine_Read(t *testing.T) {
	engine := NewEngine(logger.NewTestLogger(t))

	result := engine.Read(SectionElective, []*formbuilder.Row{
		row(physicsDef(), "5", "70"),
		row(physicsDef(), "4", "-3"),
	}, false)

	assert.Equal(t, []Entry{{Name: "physics", Units: 5, Score: 70}}, result.Entries)
	assert.Equal(t, []string{"Physics – invalid values."}, result.Errors)
}
