package interviews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"interview-backend/internal/llm"
	"interview-backend/internal/shared/metrics"
	"interview-backend/internal/shared/storage/db"
	"interview-backend/internal/shared/telemetry"
)

// questionTemperature controls sampling for question generation.
const questionTemperature = 0.7

// GenerateParams are the inputs for question generation. All fields are
// required.
type GenerateParams struct {
	Type      string `json:"type"`
	Role      string `json:"role"`
	Level     string `json:"level"`
	Techstack string `json:"techstack"`
	Amount    int    `json:"amount"`
	UserID    string `json:"userid"`
}

// Service generates interview questions and serves interview reads.
type Service struct {
	Repo Repo
	LLM  llm.Client

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService constructs a Service.
func NewService(repo Repo, client llm.Client) *Service {
	return &Service{
		Repo: repo,
		LLM:  client,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate produces interview questions via the model and persists a new
// finalized interview, returning its ID. No retries: a malformed model
// response fails with ErrGenerationFormat and nothing is saved.
func (s *Service) Generate(ctx context.Context, params GenerateParams) (string, error) {
	if err := validateGenerateParams(params); err != nil {
		return "", err
	}

	metrics.IncGenerationStarted()
	start := time.Now()

	text, err := s.LLM.GenerateText(ctx, buildQuestionsPrompt(params), questionTemperature)
	if err != nil {
		metrics.IncGenerationFailed()
		return "", fmt.Errorf("generate questions: %w", err)
	}

	questions, err := parseQuestions(text)
	if err != nil {
		metrics.IncGenerationFailed()
		telemetry.Error("interviews.parse_questions", map[string]any{
			"error": err.Error(),
			"role":  params.Role,
		})
		return "", ErrGenerationFormat
	}

	interview := Interview{
		ID:         uuid.NewString(),
		Role:       params.Role,
		Type:       params.Type,
		Level:      params.Level,
		Techstack:  splitTechstack(params.Techstack),
		Questions:  questions,
		UserID:     params.UserID,
		Finalized:  true,
		CoverImage: s.pickCover(),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, interview); err != nil {
		metrics.IncGenerationFailed()
		if db.IsUnavailable(err) {
			return "", db.ErrStoreUnavailable
		}
		return "", fmt.Errorf("save interview: %w", err)
	}

	metrics.IncGenerationCompleted()
	metrics.ObserveGenerationDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	telemetry.Info("interviews.generated", map[string]any{
		"interview_id": interview.ID,
		"user_id":      interview.UserID,
		"questions":    len(questions),
	})
	return interview.ID, nil
}

// GetByID returns an interview visible to the caller: the owner sees their
// own records, everyone else only finalized ones.
func (s *Service) GetByID(ctx context.Context, id, callerID string) (Interview, error) {
	if id == "" {
		return Interview{}, ErrNotFound
	}
	interview, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Interview{}, readError(err, "interviews.get")
	}
	if interview.UserID != callerID && !interview.Finalized {
		return Interview{}, ErrNotFound
	}
	return interview, nil
}

// ListByUser returns the caller's interviews, newest first. Per-query read
// failures degrade to an empty list.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Interview, error) {
	if userID == "" {
		return []Interview{}, nil
	}
	list, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		if db.IsUnavailable(err) {
			return nil, db.ErrStoreUnavailable
		}
		telemetry.Error("interviews.list", map[string]any{"error": err.Error(), "user_id": userID})
		return []Interview{}, nil
	}
	if list == nil {
		list = []Interview{}
	}
	return list, nil
}

// ListLatest returns other users' finalized interviews for the practice pool.
func (s *Service) ListLatest(ctx context.Context, userID string, limit int) ([]Interview, error) {
	if userID == "" {
		return []Interview{}, nil
	}
	list, err := s.Repo.ListLatest(ctx, userID, limit)
	if err != nil {
		if db.IsUnavailable(err) {
			return nil, db.ErrStoreUnavailable
		}
		telemetry.Error("interviews.list_latest", map[string]any{"error": err.Error(), "user_id": userID})
		return []Interview{}, nil
	}
	if list == nil {
		list = []Interview{}
	}
	return list, nil
}

func (s *Service) pickCover() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return randomCover(s.rng)
}

func validateGenerateParams(params GenerateParams) error {
	switch {
	case strings.TrimSpace(params.Type) == "",
		strings.TrimSpace(params.Role) == "",
		strings.TrimSpace(params.Level) == "",
		strings.TrimSpace(params.Techstack) == "",
		strings.TrimSpace(params.UserID) == "",
		params.Amount < 1:
		return ErrValidation
	}
	return nil
}

// buildQuestionsPrompt embeds the parameters and the strict output-format
// instruction. The questions feed a voice assistant, so characters that break
// speech synthesis are prohibited outright.
func buildQuestionsPrompt(params GenerateParams) string {
	var b strings.Builder
	b.WriteString("Prepare questions for a job interview.\n")
	fmt.Fprintf(&b, "The job role is %s.\n", params.Role)
	fmt.Fprintf(&b, "The job experience level is %s.\n", params.Level)
	fmt.Fprintf(&b, "The tech stack used in the job is: %s.\n", params.Techstack)
	fmt.Fprintf(&b, "The focus between behavioural and technical questions should lean towards: %s.\n", params.Type)
	fmt.Fprintf(&b, "The amount of questions required is: %d.\n", params.Amount)
	b.WriteString("Please return only the questions, without any additional text.\n")
	b.WriteString(`The questions are going to be read by a voice assistant so do not use "/" or "*" or any other special characters which might break the voice assistant.` + "\n")
	b.WriteString("Return the questions formatted like this:\n")
	b.WriteString(`["Question 1", "Question 2", "Question 3"]`)
	return b.String()
}

// parseQuestions requires a non-empty JSON array of non-empty strings.
func parseQuestions(text string) ([]string, error) {
	trimmed := strings.TrimSpace(text)
	if fenced := strings.TrimPrefix(trimmed, "```json"); fenced != trimmed {
		trimmed = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(fenced), "```"))
	} else if fenced := strings.TrimPrefix(trimmed, "```"); fenced != trimmed {
		trimmed = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(fenced), "```"))
	}

	var questions []string
	if err := json.Unmarshal([]byte(trimmed), &questions); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("empty question list")
	}
	for i, q := range questions {
		if strings.TrimSpace(q) == "" {
			return nil, fmt.Errorf("blank question at index %d", i)
		}
	}
	return questions, nil
}

func splitTechstack(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func readError(err error, op string) error {
	if db.IsUnavailable(err) {
		return db.ErrStoreUnavailable
	}
	if !errors.Is(err, ErrNotFound) {
		telemetry.Error(op, map[string]any{"error": err.Error()})
	}
	return ErrNotFound
}
