package models

// Teacher is an instructor on the roster. Reference data, immutable for
// the duration of a run.
type Teacher struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	Department          string `json:"department"`
	NeedsAccessibleRoom bool   `json:"needsAccessibleRoom"`
}
