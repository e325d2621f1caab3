package repository

import (
	"context"
	"errors"

	"ioiscore/internal/common/db"
	"ioiscore/internal/score/model"
)

var (
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrJudgeResultNotFound = errors.New("judge result not found")
)

// JudgeRepository reads judged submissions and writes the aggregated score
// back onto the judge result row once scoring completes.
type JudgeRepository interface {
	GetSubmission(ctx context.Context, submissionID int64) (model.Submission, error)
	GetJudgeResult(ctx context.Context, submissionID int64) (model.JudgeResult, error)
	ListTestCaseResults(ctx context.Context, submissionID int64) ([]model.TestCaseResult, error)
	UpdateJudgeResult(ctx context.Context, tx db.Transaction, submissionID int64, verdict model.Verdict, score, timeUsed, memoryUsed int) error
}

type MySQLJudgeRepository struct {
	db db.Database
}

func NewJudgeRepository(database db.Database) JudgeRepository {
	return &MySQLJudgeRepository{db: database}
}

func (r *MySQLJudgeRepository) GetSubmission(ctx context.Context, submissionID int64) (model.Submission, error) {
	query := `
		SELECT id, user_id, problem_id, language, source_key, created_at
		FROM submission
		WHERE id = ?`
	row := r.db.QueryRow(ctx, query, submissionID)

	var s model.Submission
	if err := row.Scan(&s.ID, &s.UserID, &s.ProblemID, &s.Language, &s.SourceKey, &s.SubmittedAt); err != nil {
		if db.IsNoRows(err) {
			return model.Submission{}, ErrSubmissionNotFound
		}
		return model.Submission{}, err
	}
	return s, nil
}

func (r *MySQLJudgeRepository) GetJudgeResult(ctx context.Context, submissionID int64) (model.JudgeResult, error) {
	query := `
		SELECT id, submission_id, verdict, score, time_used_ms, memory_used_kb, created_at
		FROM judge_result
		WHERE submission_id = ?
		ORDER BY id DESC
		LIMIT 1`
	row := r.db.QueryRow(ctx, query, submissionID)

	var jr model.JudgeResult
	if err := row.Scan(&jr.ID, &jr.SubmissionID, &jr.Verdict, &jr.Score, &jr.TimeUsed, &jr.MemoryUsed, &jr.CreatedAt); err != nil {
		if db.IsNoRows(err) {
			return model.JudgeResult{}, ErrJudgeResultNotFound
		}
		return model.JudgeResult{}, err
	}
	return jr, nil
}

func (r *MySQLJudgeRepository) ListTestCaseResults(ctx context.Context, submissionID int64) ([]model.TestCaseResult, error) {
	query := `
		SELECT test_case_id, verdict, fraction, time_used_ms, memory_used_kb
		FROM test_case_result
		WHERE submission_id = ?
		ORDER BY test_case_id ASC`
	rows, err := r.db.Query(ctx, query, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.TestCaseResult
	for rows.Next() {
		var tcr model.TestCaseResult
		if err := rows.Scan(&tcr.TestCaseID, &tcr.Verdict, &tcr.Fraction, &tcr.TimeUsed, &tcr.MemoryUsed); err != nil {
			return nil, err
		}
		results = append(results, tcr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *MySQLJudgeRepository) UpdateJudgeResult(ctx context.Context, tx db.Transaction, submissionID int64, verdict model.Verdict, score, timeUsed, memoryUsed int) error {
	query := `
		UPDATE judge_result
		SET verdict = ?, score = ?, time_used_ms = ?, memory_used_kb = ?
		WHERE submission_id = ?`
	// A no-op update reports zero affected rows, so re-scoring the same
	// submission stays idempotent and is not treated as not-found.
	_, err := db.GetQuerier(r.db, tx).Exec(ctx, query, string(verdict), score, timeUsed, memoryUsed, submissionID)
	return err
}
