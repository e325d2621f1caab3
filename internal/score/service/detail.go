package service

import (
	"context"
	"errors"
	"io"

	"github.com/klauspost/compress/zstd"

	"ioiscore/internal/score/engine"
	"ioiscore/internal/score/model"
	"ioiscore/internal/score/repository"
	appErr "ioiscore/pkg/errors"
)

// SubmissionDetail is the full per-submission view: identity, judge
// outcome, per-test-case results and the per-subtask breakdown.
type SubmissionDetail struct {
	Submission      model.Submission       `json:"submission"`
	JudgeResult     model.JudgeResult      `json:"judge_result"`
	TestCaseResults []model.TestCaseResult `json:"test_case_results"`
	SubtaskResults  []model.SubtaskResult  `json:"subtask_results"`
	Config          model.ProblemConfig    `json:"config"`
}

// GetSubmissionDetail assembles the detail view. Source code is only
// fetched from object storage when includeCode is set; everything else is
// identical either way.
func (s *ScoreService) GetSubmissionDetail(ctx context.Context, submissionID int64, includeCode bool) (SubmissionDetail, error) {
	if submissionID <= 0 {
		return SubmissionDetail{}, appErr.ValidationError("submission_id", "must be positive")
	}
	submission, err := s.judgeRepo.GetSubmission(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			return SubmissionDetail{}, appErr.New(appErr.SubmissionNotFound)
		}
		return SubmissionDetail{}, appErr.Wrap(err, appErr.DatabaseError)
	}
	judgeResult, err := s.judgeRepo.GetJudgeResult(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrJudgeResultNotFound) {
			return SubmissionDetail{}, appErr.New(appErr.JudgeResultNotFound)
		}
		return SubmissionDetail{}, appErr.Wrap(err, appErr.DatabaseError)
	}
	results, err := s.judgeRepo.ListTestCaseResults(ctx, submissionID)
	if err != nil {
		return SubmissionDetail{}, appErr.Wrap(err, appErr.DatabaseError)
	}
	cfg, err := s.GetProblemConfig(ctx, submission.ProblemID)
	if err != nil {
		return SubmissionDetail{}, err
	}

	detail := SubmissionDetail{
		Submission:      submission,
		JudgeResult:     judgeResult,
		TestCaseResults: results,
		Config:          cfg,
	}
	if len(results) > 0 {
		if scored, err := engine.ScoreSubmission(cfg, results); err == nil {
			detail.SubtaskResults = scored.SubtaskResults
		}
	}

	if includeCode {
		source, err := s.fetchSource(ctx, submission.SourceKey)
		if err != nil {
			return SubmissionDetail{}, err
		}
		detail.Submission.SourceCode = source
	}
	return detail, nil
}

// fetchSource reads the zstd-compressed source object and decompresses it.
func (s *ScoreService) fetchSource(ctx context.Context, sourceKey string) (string, error) {
	if sourceKey == "" {
		return "", nil
	}
	if s.storage == nil {
		return "", appErr.New(appErr.SourceFetchFailed).WithMessage("object storage is not configured")
	}
	object, err := s.storage.GetObject(ctx, s.sourceBucket, sourceKey)
	if err != nil {
		return "", appErr.Wrap(err, appErr.SourceFetchFailed)
	}
	defer object.Close()

	reader, err := zstd.NewReader(object)
	if err != nil {
		return "", appErr.Wrap(err, appErr.SourceFetchFailed)
	}
	defer reader.Close()

	source, err := io.ReadAll(reader)
	if err != nil {
		return "", appErr.Wrap(err, appErr.SourceFetchFailed)
	}
	return string(source), nil
}
