package feedback

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Upsert inserts the feedback record or overwrites the row with the same ID.
func (r *PGRepo) Upsert(ctx context.Context, fb Feedback) error {
	const query = `
INSERT INTO feedback (
    id,
    interview_id,
    user_id,
    total_score,
    category_scores,
    strengths,
    areas_for_improvement,
    final_assessment,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
    interview_id = EXCLUDED.interview_id,
    user_id = EXCLUDED.user_id,
    total_score = EXCLUDED.total_score,
    category_scores = EXCLUDED.category_scores,
    strengths = EXCLUDED.strengths,
    areas_for_improvement = EXCLUDED.areas_for_improvement,
    final_assessment = EXCLUDED.final_assessment,
    created_at = EXCLUDED.created_at`

	categories, err := json.Marshal(fb.CategoryScores)
	if err != nil {
		return err
	}
	strengths, err := json.Marshal(fb.Strengths)
	if err != nil {
		return err
	}
	areas, err := json.Marshal(fb.AreasForImprovement)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		fb.ID,
		fb.InterviewID,
		fb.UserID,
		fb.TotalScore,
		categories,
		strengths,
		areas,
		fb.FinalAssessment,
		fb.CreatedAt,
	)
	return err
}

// GetByInterviewAndUser returns the newest feedback for the pair.
func (r *PGRepo) GetByInterviewAndUser(ctx context.Context, interviewID, userID string) (Feedback, error) {
	const query = `
SELECT id, interview_id, user_id, total_score, category_scores, strengths, areas_for_improvement, final_assessment, created_at
FROM feedback
WHERE interview_id = $1 AND user_id = $2
ORDER BY created_at DESC
LIMIT 1`

	var fb Feedback
	var categories, strengths, areas []byte
	err := r.DB.QueryRowContext(ctx, query, interviewID, userID).Scan(
		&fb.ID,
		&fb.InterviewID,
		&fb.UserID,
		&fb.TotalScore,
		&categories,
		&strengths,
		&areas,
		&fb.FinalAssessment,
		&fb.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Feedback{}, ErrNotFound
		}
		return Feedback{}, err
	}
	if err := json.Unmarshal(categories, &fb.CategoryScores); err != nil {
		return Feedback{}, err
	}
	if err := json.Unmarshal(strengths, &fb.Strengths); err != nil {
		return Feedback{}, err
	}
	if err := json.Unmarshal(areas, &fb.AreasForImprovement); err != nil {
		return Feedback{}, err
	}
	return fb, nil
}

var _ Repo = (*PGRepo)(nil)
