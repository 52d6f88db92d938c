package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"interview-backend/internal/llm"
	"interview-backend/internal/shared/metrics"
	"interview-backend/internal/shared/storage/db"
	"interview-backend/internal/shared/telemetry"
)

const scoringSystemPrompt = "You are a professional interviewer analyzing a mock interview. Your task is to evaluate the candidate based on structured categories"

// MissingParamsError is the Result.Error value for requests rejected before
// any model call. Handlers key status codes off it.
const MissingParamsError = "Missing required parameters"

// CreateParams are the inputs for feedback generation.
type CreateParams struct {
	InterviewID string              `json:"interviewId"`
	UserID      string              `json:"userId"`
	Transcript  []TranscriptMessage `json:"transcript"`
	// FeedbackID, when set, overwrites that record instead of creating one.
	FeedbackID string `json:"feedbackId,omitempty"`
}

// Result is the uniform outcome of a feedback generation attempt.
type Result struct {
	Success    bool   `json:"success"`
	FeedbackID string `json:"feedbackId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Service scores transcripts via the structured-generation model and persists
// feedback records.
type Service struct {
	Repo Repo
	LLM  llm.Client
}

// NewService constructs a Service.
func NewService(repo Repo, client llm.Client) *Service {
	return &Service{Repo: repo, LLM: client}
}

// Create scores the transcript and upserts a feedback record. Failures are
// returned as a Result rather than propagated; no retries are attempted.
func (s *Service) Create(ctx context.Context, params CreateParams) Result {
	if params.InterviewID == "" || params.UserID == "" || len(params.Transcript) == 0 {
		return Result{Success: false, Error: MissingParamsError}
	}

	metrics.IncFeedbackStarted()

	raw, err := s.LLM.GenerateObject(ctx, buildScoringPrompt(params.Transcript), scoringSystemPrompt, responseSchema)
	if err != nil {
		metrics.IncFeedbackFailed()
		telemetry.Error("feedback.generate", map[string]any{
			"error":        err.Error(),
			"interview_id": params.InterviewID,
		})
		return Result{Success: false, Error: err.Error()}
	}

	generated, err := decodeGenerated(raw)
	if err != nil {
		metrics.IncFeedbackFailed()
		telemetry.Error("feedback.contract", map[string]any{
			"error":        err.Error(),
			"interview_id": params.InterviewID,
		})
		return Result{Success: false, Error: ErrGenerationFormat.Error()}
	}

	id := params.FeedbackID
	if id == "" {
		id = uuid.NewString()
	}

	fb := Feedback{
		ID:                  id,
		InterviewID:         params.InterviewID,
		UserID:              params.UserID,
		TotalScore:          generated.TotalScore,
		CategoryScores:      generated.CategoryScores,
		Strengths:           generated.Strengths,
		AreasForImprovement: generated.AreasForImprovement,
		FinalAssessment:     generated.FinalAssessment,
		CreatedAt:           time.Now().UTC(),
	}

	if err := s.Repo.Upsert(ctx, fb); err != nil {
		metrics.IncFeedbackFailed()
		if db.IsUnavailable(err) {
			return Result{Success: false, Error: db.ErrStoreUnavailable.Error()}
		}
		return Result{Success: false, Error: err.Error()}
	}

	metrics.IncFeedbackCompleted()
	telemetry.Info("feedback.created", map[string]any{
		"feedback_id":  fb.ID,
		"interview_id": fb.InterviewID,
		"total_score":  fb.TotalScore,
	})
	return Result{Success: true, FeedbackID: fb.ID}
}

// GetByInterviewAndUser returns the canonical feedback for the pair. Read
// failures degrade to ErrNotFound unless the store is unreachable.
func (s *Service) GetByInterviewAndUser(ctx context.Context, interviewID, userID string) (Feedback, error) {
	if interviewID == "" || userID == "" {
		return Feedback{}, ErrNotFound
	}
	fb, err := s.Repo.GetByInterviewAndUser(ctx, interviewID, userID)
	if err != nil {
		if db.IsUnavailable(err) {
			return Feedback{}, db.ErrStoreUnavailable
		}
		return Feedback{}, ErrNotFound
	}
	return fb, nil
}

// buildScoringPrompt serializes the transcript into the line-oriented block
// the scoring prompt expects.
func buildScoringPrompt(transcript []TranscriptMessage) string {
	var lines strings.Builder
	for _, msg := range transcript {
		fmt.Fprintf(&lines, "- %s: %s\n", msg.Role, msg.Content)
	}

	var b strings.Builder
	b.WriteString("You are an AI interviewer analyzing a mock interview. Your task is to evaluate the candidate based on structured categories. Be thorough and detailed in your analysis. Don't be lenient with the candidate. If there are mistakes or areas for improvement, point them out.\n\n")
	b.WriteString("Transcript:\n")
	b.WriteString(lines.String())
	b.WriteString("\nPlease score the candidate from 0 to 100 in the following areas. Do not add categories other than the ones provided:\n")
	b.WriteString("- **Communication Skills**: Clarity, articulation, structured responses.\n")
	b.WriteString("- **Technical Knowledge**: Understanding of key concepts for the role.\n")
	b.WriteString("- **Problem-Solving**: Ability to analyze problems and propose solutions.\n")
	b.WriteString("- **Cultural & Role Fit**: Alignment with company values and job role.\n")
	b.WriteString("- **Confidence & Clarity**: Confidence in responses, engagement, and clarity.\n")
	return b.String()
}

// decodeGenerated enforces the scoring contract: exactly the five fixed
// categories, each appearing once, with all scores clamped into [0,100].
func decodeGenerated(raw json.RawMessage) (generatedFeedback, error) {
	var generated generatedFeedback
	if err := json.Unmarshal(raw, &generated); err != nil {
		return generatedFeedback{}, err
	}

	if len(generated.CategoryScores) != len(CategoryNames) {
		return generatedFeedback{}, fmt.Errorf("expected %d categories, got %d", len(CategoryNames), len(generated.CategoryScores))
	}
	seen := make(map[string]bool, len(CategoryNames))
	for _, cs := range generated.CategoryScores {
		if !isKnownCategory(cs.Name) {
			return generatedFeedback{}, fmt.Errorf("unknown category %q", cs.Name)
		}
		if seen[cs.Name] {
			return generatedFeedback{}, fmt.Errorf("duplicate category %q", cs.Name)
		}
		seen[cs.Name] = true
	}

	generated.TotalScore = clampScore(generated.TotalScore)
	for i := range generated.CategoryScores {
		generated.CategoryScores[i].Score = clampScore(generated.CategoryScores[i].Score)
	}
	return generated, nil
}

func isKnownCategory(name string) bool {
	for _, known := range CategoryNames {
		if name == known {
			return true
		}
	}
	return false
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
