// internal/intake/result-renderer/models.go
package resultrenderer

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"

	PlaceholderText = "no results"
)

// Card is the display form of one program verdict, or the placeholder shown
// when there is nothing to display.
type Card struct {
	Placeholder  bool     `json:"placeholder,omitempty"`
	Text         string   `json:"text,omitempty"`
	Status       string   `json:"status,omitempty"`
	Passed       bool     `json:"passed"`
	Title        string   `json:"title,omitempty"`
	D            string   `json:"d,omitempty"`
	P            string   `json:"p,omitempty"`
	S            string   `json:"s,omitempty"`
	Threshold    string   `json:"threshold,omitempty"`
	Explanations []string `json:"explanations,omitempty"`
}

// PlaceholderCard is the single card shown for an empty result set.
func PlaceholderCard() Card {
	return Card{Placeholder: true, Text: PlaceholderText}
}
