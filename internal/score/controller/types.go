package controller

import (
	"ioiscore/internal/score/model"
)

// ConfigureProblemRequest is the configure endpoint's JSON body. The
// problem id comes from the path.
type ConfigureProblemRequest struct {
	SubtaskEnabled   bool                   `json:"subtask_enabled"`
	FinalScoreMethod model.FinalScoreMethod `json:"final_score_method"`
	FullScore        int                    `json:"full_score"`
	Subtasks         []model.Subtask        `json:"subtasks"`
}

type ConfigureProblemResponse struct {
	ProblemID int64 `json:"problem_id"`
}

type LeaderboardResponse struct {
	ContestID  int64                    `json:"contest_id"`
	Problems   []model.Problem          `json:"problems"`
	Entries    []model.LeaderboardEntry `json:"entries"`
	TotalCount int                      `json:"total_count"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
}
