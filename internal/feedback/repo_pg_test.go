package feedback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func feedbackColumns() []string {
	return []string{"id", "interview_id", "user_id", "total_score", "category_scores", "strengths", "areas_for_improvement", "final_assessment", "created_at"}
}

func TestPGRepoUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	fb := Feedback{
		ID:          "f1",
		InterviewID: "i1",
		UserID:      "u1",
		TotalScore:  82,
		CategoryScores: []CategoryScore{
			{Name: "Communication Skills", Score: 82, Comment: "clear"},
		},
		Strengths:           []string{"structure"},
		AreasForImprovement: []string{"depth"},
		FinalAssessment:     "Good.",
		CreatedAt:           time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO feedback").
		WithArgs(
			fb.ID,
			fb.InterviewID,
			fb.UserID,
			fb.TotalScore,
			[]byte(`[{"name":"Communication Skills","score":82,"comment":"clear"}]`),
			[]byte(`["structure"]`),
			[]byte(`["depth"]`),
			fb.FinalAssessment,
			fb.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Upsert(context.Background(), fb); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByInterviewAndUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	created := time.Now().UTC()
	rows := sqlmock.NewRows(feedbackColumns()).
		AddRow(
			"f1", "i1", "u1", 82,
			[]byte(`[{"name":"Communication Skills","score":82,"comment":"clear"}]`),
			[]byte(`["structure"]`),
			[]byte(`["depth"]`),
			"Good.",
			created,
		)

	mock.ExpectQuery("SELECT (.+) FROM feedback").
		WithArgs("i1", "u1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.GetByInterviewAndUser(context.Background(), "i1", "u1")
	if err != nil {
		t.Fatalf("GetByInterviewAndUser: %v", err)
	}
	if got.ID != "f1" || got.TotalScore != 82 {
		t.Fatalf("unexpected feedback: %+v", got)
	}
	if len(got.CategoryScores) != 1 || got.CategoryScores[0].Name != "Communication Skills" {
		t.Fatalf("categoryScores = %v", got.CategoryScores)
	}
}

func TestPGRepoGetByInterviewAndUserNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM feedback").
		WithArgs("i1", "u1").
		WillReturnRows(sqlmock.NewRows(feedbackColumns()))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByInterviewAndUser(context.Background(), "i1", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
