package models

// StudentGroup is a cohort attending sessions together.
type StudentGroup struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	Size                  int    `json:"size"`
	Department            string `json:"department"`
	AccessibilityRequired bool   `json:"accessibilityRequired"`
}
