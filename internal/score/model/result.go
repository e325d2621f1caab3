package model

import "time"

// TestCaseResult is one judged test case outcome, produced by the judging
// collaborator. Immutable from the scorer's point of view.
type TestCaseResult struct {
	TestCaseID int64   `json:"test_case_id"`
	Verdict    Verdict `json:"verdict"`

	// Fraction is checker-returned partial credit in [0,1]. Nil when the
	// judge reported only a verdict; GroupMul is the only method that
	// consumes it.
	Fraction *float64 `json:"fraction,omitempty"`

	TimeUsed   int `json:"time_used"`   // milliseconds
	MemoryUsed int `json:"memory_used"` // kilobytes
}

// SubtaskResult is one subtask's score for a single submission. Derived,
// recomputed on every scoring pass.
type SubtaskResult struct {
	SubtaskID   int64   `json:"subtask_id"`
	SubtaskName string  `json:"subtask_name"`
	Score       int     `json:"score"`
	MaxScore    int     `json:"max_score"`
	Verdict     Verdict `json:"verdict"`
	TimeUsed    int     `json:"time_used"`
	MemoryUsed  int     `json:"memory_used"`
}

// SubmissionScore is the complete scoring outcome for one submission.
// It is written whole or not at all.
type SubmissionScore struct {
	SubmissionID   int64           `json:"submission_id"`
	UserID         int64           `json:"user_id"`
	ProblemID      int64           `json:"problem_id"`
	Score          int             `json:"score"`
	Verdict        Verdict         `json:"verdict"`
	SubtaskResults []SubtaskResult `json:"subtask_results"`
	SubmittedAt    time.Time       `json:"submitted_at"`
}

// SubtaskBestScore is one subtask's best score across a contestant's
// submissions, paired with the submission that achieved it.
type SubtaskBestScore struct {
	SubtaskID    int64  `json:"subtask_id"`
	SubtaskName  string `json:"subtask_name"`
	BestScore    int    `json:"best_score"`
	MaxScore     int    `json:"max_score"`
	SubmissionID int64  `json:"submission_id"`
}

// FinalScore is a contestant's final score for one problem, under the
// problem's final score method.
type FinalScore struct {
	Score int `json:"score"`

	// AchievedAt is when the final score was first reached. Zero when the
	// score is 0.
	AchievedAt time.Time `json:"achieved_at"`

	// Contributions lists per-subtask best scores. Empty when the problem
	// has no subtasks or the contestant has no submissions.
	Contributions []SubtaskBestScore `json:"contributions,omitempty"`
}
