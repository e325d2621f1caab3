package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"ioiscore/internal/score/engine"
	"ioiscore/internal/score/model"
	"ioiscore/internal/score/repository"
	appErr "ioiscore/pkg/errors"
	"ioiscore/pkg/utils/logger"
)

// GetLeaderboard builds one page of a contest's leaderboard from persisted
// submission scores. Pages are served from the short-TTL cache when
// possible; a stale board only lags by the cache TTL.
func (s *ScoreService) GetLeaderboard(ctx context.Context, contestID int64, page, pageSize int) (engine.LeaderboardPage, error) {
	if contestID <= 0 {
		return engine.LeaderboardPage{}, appErr.ValidationError("contest_id", "must be positive")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}

	if err := s.directoryRepo.ContestExists(ctx, contestID); err != nil {
		if errors.Is(err, repository.ErrContestNotFound) {
			return engine.LeaderboardPage{}, appErr.New(appErr.ContestNotFound)
		}
		return engine.LeaderboardPage{}, appErr.Wrap(err, appErr.DatabaseError)
	}

	if cached, ok := s.leaderboard.Get(ctx, contestID, page, pageSize); ok {
		return cached, nil
	}

	users, err := s.directoryRepo.ListContestants(ctx, contestID)
	if err != nil {
		return engine.LeaderboardPage{}, appErr.Wrap(err, appErr.LeaderboardBuildFailed)
	}
	problems, err := s.directoryRepo.ListProblems(ctx, contestID)
	if err != nil {
		return engine.LeaderboardPage{}, appErr.Wrap(err, appErr.LeaderboardBuildFailed)
	}

	in := engine.LeaderboardInput{
		ContestID: contestID,
		Problems:  make([]engine.ProblemInfo, 0, len(problems)),
		Users:     users,
		History:   make(map[int64]map[int64][]model.SubmissionScore, len(users)),
		Page:      page,
		PageSize:  pageSize,
	}
	for _, p := range problems {
		cfg, err := s.GetProblemConfig(ctx, p.ID)
		if err != nil {
			return engine.LeaderboardPage{}, err
		}
		in.Problems = append(in.Problems, engine.ProblemInfo{Problem: p, Config: cfg})

		scores, err := s.scoreRepo.ListByProblem(ctx, p.ID)
		if err != nil {
			// A failed score read degrades that problem to zero for
			// everyone instead of aborting the whole board.
			logger.Warn(ctx, "leaderboard scores unavailable for problem",
				zap.Int64("problem_id", p.ID),
				zap.Error(err))
			continue
		}
		for _, sc := range scores {
			byProblem, ok := in.History[sc.UserID]
			if !ok {
				byProblem = make(map[int64][]model.SubmissionScore)
				in.History[sc.UserID] = byProblem
			}
			byProblem[p.ID] = append(byProblem[p.ID], sc)
		}
	}

	lp := engine.BuildLeaderboard(in)
	s.leaderboard.Set(ctx, contestID, lp)
	return lp, nil
}
