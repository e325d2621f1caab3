package engine

import (
	"sort"
	"time"

	"ioiscore/internal/score/model"
)

// ProblemInfo pairs a contest problem with its scoring configuration.
type ProblemInfo struct {
	Problem model.Problem
	Config  model.ProblemConfig
}

// LeaderboardInput carries everything BuildLeaderboard needs. History maps
// user id, then problem id, to that user's scored submissions ordered by
// submission time ascending.
type LeaderboardInput struct {
	ContestID int64
	Problems  []ProblemInfo
	Users     []model.User
	History   map[int64]map[int64][]model.SubmissionScore
	Page      int
	PageSize  int
}

// LeaderboardPage is one page of a ranked leaderboard. TotalCount counts
// every contestant, not just the returned page. Problems lists the contest's
// problem columns so an empty page still renders.
type LeaderboardPage struct {
	ContestID  int64
	Problems   []model.Problem
	Entries    []model.LeaderboardEntry
	TotalCount int
	Page       int
	PageSize   int
}

type rankedEntry struct {
	entry      model.LeaderboardEntry
	achievedAt time.Time
}

// BuildLeaderboard ranks every user over every problem. Ordering is total
// score descending, then the time the total was achieved ascending, then
// user id ascending. Ranks are strictly sequential: equal totals still get
// distinct ranks in tie-break order.
func BuildLeaderboard(in LeaderboardInput) LeaderboardPage {
	ranked := make([]rankedEntry, 0, len(in.Users))
	for _, user := range in.Users {
		re := rankedEntry{
			entry: model.LeaderboardEntry{
				User:          user,
				ProblemScores: make([]model.ProblemScore, 0, len(in.Problems)),
			},
		}
		for _, p := range in.Problems {
			history := in.History[user.ID][p.Problem.ID]
			final := AggregateFinal(p.Config.FinalScoreMethod, p.Config.Subtasks, history)

			ps := model.ProblemScore{
				ProblemID:       p.Problem.ID,
				ProblemTitle:    p.Problem.Title,
				Score:           final.Score,
				MaxScore:        p.Config.MaxTotalScore(),
				SubmissionCount: len(history),
			}
			if p.Config.SubtaskEnabled && p.Config.FinalScoreMethod == model.FinalBestSubtaskSum {
				ps.SubtaskScores = final.Contributions
			}
			re.entry.ProblemScores = append(re.entry.ProblemScores, ps)
			re.entry.TotalScore += final.Score
			if final.AchievedAt.After(re.achievedAt) {
				re.achievedAt = final.AchievedAt
			}
		}
		ranked = append(ranked, re)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.entry.TotalScore != b.entry.TotalScore {
			return a.entry.TotalScore > b.entry.TotalScore
		}
		if !a.achievedAt.Equal(b.achievedAt) {
			// A zero time means no score yet and sorts last.
			if a.achievedAt.IsZero() {
				return false
			}
			if b.achievedAt.IsZero() {
				return true
			}
			return a.achievedAt.Before(b.achievedAt)
		}
		return a.entry.User.ID < b.entry.User.ID
	})
	for i := range ranked {
		ranked[i].entry.Rank = i + 1
	}

	page, pageSize := in.Page, in.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	problems := make([]model.Problem, 0, len(in.Problems))
	for _, p := range in.Problems {
		problems = append(problems, p.Problem)
	}
	out := LeaderboardPage{
		ContestID:  in.ContestID,
		Problems:   problems,
		Entries:    []model.LeaderboardEntry{},
		TotalCount: len(ranked),
		Page:       page,
		PageSize:   pageSize,
	}
	start := (page - 1) * pageSize
	if start >= len(ranked) {
		return out
	}
	end := start + pageSize
	if end > len(ranked) {
		end = len(ranked)
	}
	for _, re := range ranked[start:end] {
		out.Entries = append(out.Entries, re.entry)
	}
	return out
}
