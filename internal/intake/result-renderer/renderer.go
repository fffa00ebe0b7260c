// internal/intake/result-renderer/renderer.go
package resultrenderer

import (
	"encoding/json"
	"fmt"

	"eligibility-intake/internal/models"
)

// Renderer turns verdicts into cards. Names maps institution ids to display
// names and may be nil.
type Renderer struct {
	Names map[string]string
}

func NewRenderer(names map[string]string) *Renderer {
	return &Renderer{Names: names}
}

// Render builds one card per result in server order. An empty list renders
// the placeholder card. D is shown with 2 decimals and S with 3; P and the
// threshold are shown as the service sent them. Missing values show "-".
func (r *Renderer) Render(results []models.EligibilityResult) []Card {
	if len(results) == 0 {
		return []Card{PlaceholderCard()}
	}

	cards := make([]Card, 0, len(results))
	for _, res := range results {
		status := StatusFail
		if res.Passed {
			status = StatusPass
		}
		explanations := make([]string, len(res.Explanations))
		copy(explanations, res.Explanations)

		cards = append(cards, Card{
			Status:       status,
			Passed:       res.Passed,
			Title:        fmt.Sprintf("%s – %s (%s)", models.InstitutionName(res.Institution, r.Names), res.ProgramName, res.ProgramID),
			D:            res.D.Fixed(2),
			P:            res.P.Verbatim(),
			S:            res.S.Fixed(3),
			Threshold:    res.Threshold.Verbatim(),
			Explanations: explanations,
		})
	}
	return cards
}

// Render renders with the built-in institution names.
func Render(results []models.EligibilityResult) []Card {
	return NewRenderer(nil).Render(results)
}

// DecodeResults parses a /compute body. Anything that is not a JSON array of
// objects yields nil.
func DecodeResults(body []byte) []models.EligibilityResult {
	var results []models.EligibilityResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil
	}
	return results
}
