// internal/intake/subject-validation/models.go
package subjectvalidation

// Result is the outcome of reading one group of rows.
type Result struct {
	Entries []Entry  `json:"entries"`
	Errors  []string `json:"errors"`
}
