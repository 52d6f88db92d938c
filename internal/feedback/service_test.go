package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

type fakeLLM struct {
	object    json.RawMessage
	objectErr error

	lastPrompt string
	lastSystem string
	lastSchema json.RawMessage
	calls      int
}

func (f *fakeLLM) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeLLM) GenerateObject(ctx context.Context, prompt, system string, schema json.RawMessage) (json.RawMessage, error) {
	f.calls++
	f.lastPrompt = prompt
	f.lastSystem = system
	f.lastSchema = schema
	return f.object, f.objectErr
}

func scoredObject(totalScore int) json.RawMessage {
	payload := map[string]any{
		"totalScore": totalScore,
		"categoryScores": []map[string]any{
			{"name": "Communication Skills", "score": 80, "comment": "clear answers"},
			{"name": "Technical Knowledge", "score": 75, "comment": "solid fundamentals"},
			{"name": "Problem-Solving", "score": 70, "comment": "methodical"},
			{"name": "Cultural & Role Fit", "score": 85, "comment": "good alignment"},
			{"name": "Confidence & Clarity", "score": 78, "comment": "composed"},
		},
		"strengths":           []string{"structured thinking"},
		"areasForImprovement": []string{"deeper system design detail"},
		"finalAssessment":     "A capable candidate.",
	}
	raw, _ := json.Marshal(payload)
	return raw
}

func sampleTranscript() []TranscriptMessage {
	return []TranscriptMessage{
		{Role: "assistant", Content: "Tell me about yourself"},
		{Role: "user", Content: "I build backend services in Go"},
	}
}

func TestCreateStoresFeedback(t *testing.T) {
	repo := NewMemoryRepo()
	model := &fakeLLM{object: scoredObject(77)}
	svc := NewService(repo, model)

	result := svc.Create(context.Background(), CreateParams{
		InterviewID: "i1",
		UserID:      "u1",
		Transcript:  sampleTranscript(),
	})

	if !result.Success {
		t.Fatalf("Create failed: %s", result.Error)
	}
	if result.FeedbackID == "" {
		t.Fatalf("expected non-empty feedbackId")
	}

	saved, err := repo.GetByInterviewAndUser(context.Background(), "i1", "u1")
	if err != nil {
		t.Fatalf("GetByInterviewAndUser: %v", err)
	}
	if saved.TotalScore != 77 {
		t.Fatalf("totalScore = %d, want 77", saved.TotalScore)
	}
	if len(saved.CategoryScores) != 5 {
		t.Fatalf("categories = %d, want 5", len(saved.CategoryScores))
	}
}

func TestCreateTranscriptSerialization(t *testing.T) {
	model := &fakeLLM{object: scoredObject(70)}
	svc := NewService(NewMemoryRepo(), model)

	svc.Create(context.Background(), CreateParams{
		InterviewID: "i1",
		UserID:      "u1",
		Transcript:  sampleTranscript(),
	})

	want := "- assistant: Tell me about yourself\n- user: I build backend services in Go\n"
	if !strings.Contains(model.lastPrompt, want) {
		t.Fatalf("prompt missing transcript block:\n%s", model.lastPrompt)
	}
	if model.lastSystem != scoringSystemPrompt {
		t.Fatalf("system prompt = %q", model.lastSystem)
	}
	if len(model.lastSchema) == 0 {
		t.Fatalf("expected response schema to be passed")
	}
}

func TestCreateMissingParameters(t *testing.T) {
	tests := []struct {
		name   string
		params CreateParams
	}{
		{"no interview", CreateParams{UserID: "u1", Transcript: sampleTranscript()}},
		{"no user", CreateParams{InterviewID: "i1", Transcript: sampleTranscript()}},
		{"empty transcript", CreateParams{InterviewID: "i1", UserID: "u1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			model := &fakeLLM{object: scoredObject(70)}
			svc := NewService(NewMemoryRepo(), model)

			result := svc.Create(context.Background(), tc.params)
			if result.Success {
				t.Fatalf("expected failure")
			}
			if result.Error != MissingParamsError {
				t.Fatalf("error = %q", result.Error)
			}
			if model.calls != 0 {
				t.Fatalf("expected no model call on invalid input")
			}
		})
	}
}

func TestCreateRejectsBadCategoryContract(t *testing.T) {
	fourCategories := func() json.RawMessage {
		var payload map[string]any
		json.Unmarshal(scoredObject(70), &payload)
		scores := payload["categoryScores"].([]any)
		payload["categoryScores"] = scores[:4]
		raw, _ := json.Marshal(payload)
		return raw
	}
	unknownCategory := func() json.RawMessage {
		raw := scoredObject(70)
		return json.RawMessage(strings.Replace(string(raw), "Communication Skills", "Charisma", 1))
	}
	duplicateCategory := func() json.RawMessage {
		raw := scoredObject(70)
		return json.RawMessage(strings.Replace(string(raw), "Technical Knowledge", "Communication Skills", 1))
	}

	tests := []struct {
		name   string
		object json.RawMessage
	}{
		{"four categories", fourCategories()},
		{"unknown category", unknownCategory()},
		{"duplicate category", duplicateCategory()},
		{"not json", json.RawMessage("scores look great")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := NewMemoryRepo()
			svc := NewService(repo, &fakeLLM{object: tc.object})

			result := svc.Create(context.Background(), CreateParams{
				InterviewID: "i1",
				UserID:      "u1",
				Transcript:  sampleTranscript(),
			})
			if result.Success {
				t.Fatalf("expected failure")
			}
			if repo.Len() != 0 {
				t.Fatalf("nothing should be saved on a contract violation")
			}
		})
	}
}

func TestCreateClampsScores(t *testing.T) {
	raw := scoredObject(150)
	raw = json.RawMessage(strings.Replace(string(raw), `"score":80`, `"score":-5`, 1))

	repo := NewMemoryRepo()
	svc := NewService(repo, &fakeLLM{object: raw})

	result := svc.Create(context.Background(), CreateParams{
		InterviewID: "i1",
		UserID:      "u1",
		Transcript:  sampleTranscript(),
	})
	if !result.Success {
		t.Fatalf("Create failed: %s", result.Error)
	}

	saved, err := repo.GetByInterviewAndUser(context.Background(), "i1", "u1")
	if err != nil {
		t.Fatalf("GetByInterviewAndUser: %v", err)
	}
	if saved.TotalScore != 100 {
		t.Fatalf("totalScore = %d, want 100", saved.TotalScore)
	}
	for _, cs := range saved.CategoryScores {
		if cs.Score < 0 || cs.Score > 100 {
			t.Fatalf("score %d out of range for %s", cs.Score, cs.Name)
		}
	}
}

func TestCreateUpsertsByFeedbackID(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, &fakeLLM{object: scoredObject(70)})
	params := CreateParams{
		InterviewID: "i1",
		UserID:      "u1",
		Transcript:  sampleTranscript(),
		FeedbackID:  "f1",
	}

	first := svc.Create(context.Background(), params)
	second := svc.Create(context.Background(), params)

	if !first.Success || !second.Success {
		t.Fatalf("expected both attempts to succeed")
	}
	if first.FeedbackID != "f1" || second.FeedbackID != "f1" {
		t.Fatalf("expected stable feedbackId, got %q then %q", first.FeedbackID, second.FeedbackID)
	}
	if repo.Len() != 1 {
		t.Fatalf("expected a single record, got %d", repo.Len())
	}
}

func TestCreateModelFailure(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, &fakeLLM{objectErr: errors.New("model unavailable")})

	result := svc.Create(context.Background(), CreateParams{
		InterviewID: "i1",
		UserID:      "u1",
		Transcript:  sampleTranscript(),
	})
	if result.Success {
		t.Fatalf("expected failure")
	}
	if result.Error != "model unavailable" {
		t.Fatalf("error = %q", result.Error)
	}
	if repo.Len() != 0 {
		t.Fatalf("nothing should be saved when the model fails")
	}
}
