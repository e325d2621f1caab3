package model

// SubtaskScoringMethod determines how test case outcomes combine into a
// subtask score.
type SubtaskScoringMethod string

const (
	// ScoringSum awards each test case an equal share of the subtask max
	// score; partial credit is possible.
	ScoringSum SubtaskScoringMethod = "Sum"

	// ScoringGroupMin awards the full max score only when every test case
	// in the group passes, otherwise zero.
	ScoringGroupMin SubtaskScoringMethod = "GroupMin"

	// ScoringGroupMul scales the max score by the product of per-test-case
	// fractional correctness. Without fractional judge data it degenerates
	// to GroupMin behaviour.
	ScoringGroupMul SubtaskScoringMethod = "GroupMul"
)

// Valid reports whether m is a known scoring method.
func (m SubtaskScoringMethod) Valid() bool {
	switch m {
	case ScoringSum, ScoringGroupMin, ScoringGroupMul:
		return true
	}
	return false
}

// FinalScoreMethod determines how scores from multiple submissions combine
// into a contestant's final score for a problem.
type FinalScoreMethod string

const (
	// FinalBestSubmission takes the single highest-scoring submission.
	FinalBestSubmission FinalScoreMethod = "BestSubmission"

	// FinalBestSubtaskSum takes, per subtask, the best score across all
	// submissions, then sums. Used at IOI 2010-2016.
	FinalBestSubtaskSum FinalScoreMethod = "BestSubtaskSum"
)

// Valid reports whether m is a known final score method.
func (m FinalScoreMethod) Valid() bool {
	switch m {
	case FinalBestSubmission, FinalBestSubtaskSum:
		return true
	}
	return false
}
