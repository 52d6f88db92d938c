package interviews

import "time"

// Interview is a generated mock-interview record owned by a user. Records are
// immutable after creation; re-generation produces a new record.
type Interview struct {
	ID         string    `json:"id"`
	Role       string    `json:"role"`
	Type       string    `json:"type"`
	Level      string    `json:"level"`
	Techstack  []string  `json:"techstack"`
	Questions  []string  `json:"questions"`
	UserID     string    `json:"userId"`
	Finalized  bool      `json:"finalized"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Interview type values. Mixed leans on both question styles.
const (
	TypeBehavioral = "Behavioral"
	TypeTechnical  = "Technical"
	TypeMixed      = "Mixed"
)
