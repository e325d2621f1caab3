package repository

import (
	"context"
	"encoding/json"
	"errors"

	"ioiscore/internal/common/db"
	"ioiscore/internal/score/model"
)

var ErrScoreNotFound = errors.New("submission score not found")

// ScoreRepository persists computed submission scores. Each score is one
// row keyed by submission id with the subtask breakdown as a JSON document,
// written in a single statement so a failed scoring pass leaves nothing
// behind.
type ScoreRepository interface {
	Get(ctx context.Context, submissionID int64) (model.SubmissionScore, error)
	Put(ctx context.Context, tx db.Transaction, score model.SubmissionScore) error
	ListByUserProblem(ctx context.Context, userID, problemID int64) ([]model.SubmissionScore, error)
	ListByProblem(ctx context.Context, problemID int64) ([]model.SubmissionScore, error)
}

type MySQLScoreRepository struct {
	db db.Database
}

func NewScoreRepository(database db.Database) ScoreRepository {
	return &MySQLScoreRepository{db: database}
}

func (r *MySQLScoreRepository) Get(ctx context.Context, submissionID int64) (model.SubmissionScore, error) {
	query := `
		SELECT submission_id, user_id, problem_id, score, verdict, subtask_results, submitted_at
		FROM submission_score
		WHERE submission_id = ?`
	row := r.db.QueryRow(ctx, query, submissionID)

	s, err := scanScore(row)
	if err != nil {
		if db.IsNoRows(err) {
			return model.SubmissionScore{}, ErrScoreNotFound
		}
		return model.SubmissionScore{}, err
	}
	return s, nil
}

func (r *MySQLScoreRepository) Put(ctx context.Context, tx db.Transaction, score model.SubmissionScore) error {
	breakdown, err := json.Marshal(score.SubtaskResults)
	if err != nil {
		return err
	}
	query := `
		REPLACE INTO submission_score (submission_id, user_id, problem_id, score, verdict, subtask_results, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = db.GetQuerier(r.db, tx).Exec(ctx, query,
		score.SubmissionID, score.UserID, score.ProblemID,
		score.Score, string(score.Verdict), string(breakdown), score.SubmittedAt)
	return err
}

func (r *MySQLScoreRepository) ListByUserProblem(ctx context.Context, userID, problemID int64) ([]model.SubmissionScore, error) {
	query := `
		SELECT submission_id, user_id, problem_id, score, verdict, subtask_results, submitted_at
		FROM submission_score
		WHERE user_id = ? AND problem_id = ?
		ORDER BY submitted_at ASC, submission_id ASC`
	rows, err := r.db.Query(ctx, query, userID, problemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScores(rows)
}

func (r *MySQLScoreRepository) ListByProblem(ctx context.Context, problemID int64) ([]model.SubmissionScore, error) {
	query := `
		SELECT submission_id, user_id, problem_id, score, verdict, subtask_results, submitted_at
		FROM submission_score
		WHERE problem_id = ?
		ORDER BY submitted_at ASC, submission_id ASC`
	rows, err := r.db.Query(ctx, query, problemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScores(rows)
}

type scoreScanner interface {
	Scan(dest ...interface{}) error
}

func scanScore(s scoreScanner) (model.SubmissionScore, error) {
	var (
		score     model.SubmissionScore
		breakdown string
	)
	if err := s.Scan(&score.SubmissionID, &score.UserID, &score.ProblemID,
		&score.Score, &score.Verdict, &breakdown, &score.SubmittedAt); err != nil {
		return model.SubmissionScore{}, err
	}
	if breakdown != "" {
		if err := json.Unmarshal([]byte(breakdown), &score.SubtaskResults); err != nil {
			return model.SubmissionScore{}, err
		}
	}
	return score, nil
}

func collectScores(rows db.Rows) ([]model.SubmissionScore, error) {
	var scores []model.SubmissionScore
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}
