package feedback

import "time"

// CategoryNames is the fixed scoring rubric. The model must return exactly
// these five categories; anything else is a contract violation.
var CategoryNames = []string{
	"Communication Skills",
	"Technical Knowledge",
	"Problem-Solving",
	"Cultural & Role Fit",
	"Confidence & Clarity",
}

// CategoryScore is one scored rubric entry.
type CategoryScore struct {
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// Feedback is the AI-scored assessment of one interview transcript.
type Feedback struct {
	ID                  string          `json:"id"`
	InterviewID         string          `json:"interviewId"`
	UserID              string          `json:"userId"`
	TotalScore          int             `json:"totalScore"`
	CategoryScores      []CategoryScore `json:"categoryScores"`
	Strengths           []string        `json:"strengths"`
	AreasForImprovement []string        `json:"areasForImprovement"`
	FinalAssessment     string          `json:"finalAssessment"`
	CreatedAt           time.Time       `json:"createdAt"`
}

// TranscriptMessage is one finalized speech-to-text entry from a session.
type TranscriptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
