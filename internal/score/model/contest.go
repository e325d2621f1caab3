package model

import "time"

// User is a contest participant as seen by the scoring service.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Problem is the slice of problem metadata the leaderboard needs.
type Problem struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Submission is a judged submission record. SourceCode is populated only on
// detail reads that ask for it.
type Submission struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ProblemID   int64     `json:"problem_id"`
	Language    string    `json:"language"`
	SourceKey   string    `json:"source_key,omitempty"`
	SourceCode  string    `json:"source_code,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// JudgeResult is the judging collaborator's summary row for a submission.
// The scoring service overwrites its score and verdict after computing.
type JudgeResult struct {
	ID           int64     `json:"id"`
	SubmissionID int64     `json:"submission_id"`
	Verdict      Verdict   `json:"verdict"`
	Score        int       `json:"score"`
	TimeUsed     int       `json:"time_used"`
	MemoryUsed   int       `json:"memory_used"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProblemScore is one problem's cell in a leaderboard entry.
type ProblemScore struct {
	ProblemID       int64  `json:"problem_id"`
	ProblemTitle    string `json:"problem_title"`
	Score           int    `json:"score"`
	MaxScore        int    `json:"max_score"`
	SubmissionCount int    `json:"submission_count"`

	// SubtaskScores is populated only for problems aggregated with
	// BestSubtaskSum.
	SubtaskScores []SubtaskBestScore `json:"subtask_scores,omitempty"`
}

// LeaderboardEntry is one ranked contestant row. Purely derived, never
// persisted.
type LeaderboardEntry struct {
	Rank          int            `json:"rank"`
	User          User           `json:"user"`
	ProblemScores []ProblemScore `json:"problem_scores"`
	TotalScore    int            `json:"total_score"`
}
