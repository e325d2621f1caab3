package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"ioiscore/internal/common/db"
	"ioiscore/internal/common/storage"
	scorecache "ioiscore/internal/score/cache"
	"ioiscore/internal/score/engine"
	"ioiscore/internal/score/model"
	"ioiscore/internal/score/repository"
	appErr "ioiscore/pkg/errors"
	"ioiscore/pkg/utils/contextkey"
	"ioiscore/pkg/utils/logger"
)

const defaultSourceBucket = "submissions"

// Config wires the score service's collaborators.
type Config struct {
	DB            db.Database
	ConfigRepo    repository.ConfigRepository
	JudgeRepo     repository.JudgeRepository
	ScoreRepo     repository.ScoreRepository
	DirectoryRepo repository.DirectoryRepository
	Storage       storage.ObjectStorage
	Leaderboard   *scorecache.LeaderboardCache

	// SourceBucket holds compressed submission sources.
	SourceBucket string
	// DefaultPageSize applies when a leaderboard request omits page_size.
	DefaultPageSize int
	// MaxPageSize caps page_size from untrusted callers.
	MaxPageSize int
}

// ScoreService implements IOI-style scoring over judged submissions.
type ScoreService struct {
	db            db.Database
	configRepo    repository.ConfigRepository
	judgeRepo     repository.JudgeRepository
	scoreRepo     repository.ScoreRepository
	directoryRepo repository.DirectoryRepository
	storage       storage.ObjectStorage
	leaderboard   *scorecache.LeaderboardCache

	sourceBucket    string
	defaultPageSize int
	maxPageSize     int

	// scoring is keyed by submission id so concurrent recompute requests
	// for the same submission coalesce into one pass.
	scoring singleflight.Group
}

// NewScoreService creates a score service.
func NewScoreService(cfg Config) (*ScoreService, error) {
	if cfg.ConfigRepo == nil {
		return nil, fmt.Errorf("config repository is required")
	}
	if cfg.JudgeRepo == nil {
		return nil, fmt.Errorf("judge repository is required")
	}
	if cfg.ScoreRepo == nil {
		return nil, fmt.Errorf("score repository is required")
	}
	if cfg.DirectoryRepo == nil {
		return nil, fmt.Errorf("directory repository is required")
	}
	if cfg.SourceBucket == "" {
		cfg.SourceBucket = defaultSourceBucket
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 50
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 200
	}
	return &ScoreService{
		db:              cfg.DB,
		configRepo:      cfg.ConfigRepo,
		judgeRepo:       cfg.JudgeRepo,
		scoreRepo:       cfg.ScoreRepo,
		directoryRepo:   cfg.DirectoryRepo,
		storage:         cfg.Storage,
		leaderboard:     cfg.Leaderboard,
		sourceBucket:    cfg.SourceBucket,
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
	}, nil
}

// ConfigureProblem validates and stores a problem's scoring configuration
// as one atomic snapshot.
func (s *ScoreService) ConfigureProblem(ctx context.Context, cfg model.ProblemConfig) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if cfg.FullScore <= 0 {
		cfg.FullScore = model.DefaultFullScore
	}
	if err := s.configRepo.Put(ctx, cfg); err != nil {
		return appErr.Wrap(err, appErr.ConfigSaveFailed)
	}
	logger.Info(ctx, "problem config updated",
		zap.Int64("problem_id", cfg.ProblemID),
		zap.Bool("subtask_enabled", cfg.SubtaskEnabled),
		zap.Int("subtasks", len(cfg.Subtasks)))
	return nil
}

// GetProblemConfig returns the stored configuration, or the default
// single-score configuration for a problem that was never configured.
func (s *ScoreService) GetProblemConfig(ctx context.Context, problemID int64) (model.ProblemConfig, error) {
	if problemID <= 0 {
		return model.ProblemConfig{}, appErr.ValidationError("problem_id", "must be positive")
	}
	cfg, err := s.configRepo.Get(ctx, problemID)
	if err != nil {
		if errors.Is(err, repository.ErrConfigNotFound) {
			return model.DefaultProblemConfig(problemID), nil
		}
		return model.ProblemConfig{}, appErr.Wrap(err, appErr.DatabaseError)
	}
	return cfg, nil
}

// CalculateSubmissionScore recomputes and persists the score for one
// submission. Concurrent calls for the same submission id share a single
// scoring pass. A failed pass persists nothing and any previously stored
// score stays authoritative.
func (s *ScoreService) CalculateSubmissionScore(ctx context.Context, submissionID int64) (model.SubmissionScore, error) {
	if submissionID <= 0 {
		return model.SubmissionScore{}, appErr.ValidationError("submission_id", "must be positive")
	}
	v, err, shared := s.scoring.Do(strconv.FormatInt(submissionID, 10), func() (interface{}, error) {
		return s.scoreOnce(ctx, submissionID)
	})
	if err != nil {
		return model.SubmissionScore{}, err
	}
	if shared {
		logger.Debug(ctx, "scoring pass coalesced", zap.Int64("submission_id", submissionID))
	}
	return v.(model.SubmissionScore), nil
}

func (s *ScoreService) scoreOnce(ctx context.Context, submissionID int64) (model.SubmissionScore, error) {
	submission, err := s.judgeRepo.GetSubmission(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			return model.SubmissionScore{}, appErr.New(appErr.SubmissionNotFound)
		}
		return model.SubmissionScore{}, appErr.Wrap(err, appErr.DatabaseError)
	}
	// The submission row is the source of truth for who is being scored;
	// downstream log lines pick the id up from context.
	ctx = context.WithValue(ctx, contextkey.UserID, submission.UserID)
	if _, err := s.judgeRepo.GetJudgeResult(ctx, submissionID); err != nil {
		if errors.Is(err, repository.ErrJudgeResultNotFound) {
			return model.SubmissionScore{}, appErr.New(appErr.JudgeResultNotFound)
		}
		return model.SubmissionScore{}, appErr.Wrap(err, appErr.DatabaseError)
	}
	results, err := s.judgeRepo.ListTestCaseResults(ctx, submissionID)
	if err != nil {
		return model.SubmissionScore{}, appErr.Wrap(err, appErr.DatabaseError)
	}
	if len(results) == 0 {
		return model.SubmissionScore{}, appErr.New(appErr.TestCaseResultMissing).
			WithMessage("no test case results for submission")
	}

	cfg, err := s.GetProblemConfig(ctx, submission.ProblemID)
	if err != nil {
		return model.SubmissionScore{}, err
	}

	scored, err := engine.ScoreSubmission(cfg, results)
	if err != nil {
		var missing *engine.MissingTestCaseError
		if errors.As(err, &missing) {
			return model.SubmissionScore{}, appErr.Wrap(err, appErr.TestCaseResultMissing).
				WithDetail("subtask_id", missing.SubtaskID).
				WithDetail("test_case_id", missing.TestCaseID)
		}
		return model.SubmissionScore{}, appErr.Wrap(err, appErr.ScoreComputeFailed)
	}

	score := model.SubmissionScore{
		SubmissionID:   submissionID,
		UserID:         submission.UserID,
		ProblemID:      submission.ProblemID,
		Score:          scored.Score,
		Verdict:        scored.Verdict,
		SubtaskResults: scored.SubtaskResults,
		SubmittedAt:    submission.SubmittedAt,
	}

	if err := s.persistScore(ctx, score, scored); err != nil {
		return model.SubmissionScore{}, appErr.Wrap(err, appErr.ScoreSaveFailed)
	}

	logger.Info(ctx, "submission scored",
		zap.Int64("submission_id", submissionID),
		zap.Int64("problem_id", submission.ProblemID),
		zap.Int("score", scored.Score),
		zap.String("verdict", string(scored.Verdict)))
	return score, nil
}

// persistScore writes the submission score and mirrors the total onto the
// judge result row in one transaction.
func (s *ScoreService) persistScore(ctx context.Context, score model.SubmissionScore, scored engine.Scored) error {
	if s.db == nil {
		if err := s.scoreRepo.Put(ctx, nil, score); err != nil {
			return err
		}
		return s.judgeRepo.UpdateJudgeResult(ctx, nil, score.SubmissionID, score.Verdict, score.Score, scored.TimeUsed, scored.MemoryUsed)
	}
	return s.db.Transaction(ctx, func(tx db.Transaction) error {
		if err := s.scoreRepo.Put(ctx, tx, score); err != nil {
			return err
		}
		return s.judgeRepo.UpdateJudgeResult(ctx, tx, score.SubmissionID, score.Verdict, score.Score, scored.TimeUsed, scored.MemoryUsed)
	})
}

func validateConfig(cfg model.ProblemConfig) error {
	if cfg.ProblemID <= 0 {
		return appErr.ValidationError("problem_id", "must be positive")
	}
	if !cfg.FinalScoreMethod.Valid() {
		return appErr.New(appErr.UnknownFinalMethod).
			WithDetail("final_score_method", string(cfg.FinalScoreMethod))
	}
	if cfg.FullScore < 0 {
		return appErr.ValidationError("full_score", "must not be negative")
	}
	if !cfg.SubtaskEnabled {
		return nil
	}
	if len(cfg.Subtasks) == 0 {
		return appErr.ValidationError("subtasks", "required when subtask mode is enabled")
	}
	seenSubtask := make(map[int64]bool, len(cfg.Subtasks))
	for _, st := range cfg.Subtasks {
		if st.ID <= 0 {
			return appErr.ValidationError("subtask.id", "must be positive")
		}
		if seenSubtask[st.ID] {
			return appErr.ValidationError("subtask.id", "duplicate subtask id "+strconv.FormatInt(st.ID, 10))
		}
		seenSubtask[st.ID] = true
		if st.MaxScore < 0 {
			return appErr.ValidationError("subtask.max_score", "must not be negative")
		}
		if !st.ScoringMethod.Valid() {
			return appErr.New(appErr.UnknownScoringMethod).
				WithDetail("subtask_id", st.ID).
				WithDetail("scoring_method", string(st.ScoringMethod))
		}
		if len(st.TestCaseIDs) == 0 {
			return appErr.ValidationError("subtask.test_case_ids", "must not be empty")
		}
		seenCase := make(map[int64]bool, len(st.TestCaseIDs))
		for _, tcID := range st.TestCaseIDs {
			if seenCase[tcID] {
				return appErr.ValidationError("subtask.test_case_ids",
					"duplicate test case id "+strconv.FormatInt(tcID, 10))
			}
			seenCase[tcID] = true
		}
	}
	return nil
}
