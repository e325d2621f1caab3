package engine

import (
	"fmt"
	"math"

	"ioiscore/internal/score/model"
)

// ScoreSubtask evaluates one subtask against the judged test case results,
// keyed by test case id. Every configured test case must have a result;
// a gap yields *MissingTestCaseError and no partial score.
func ScoreSubtask(subtask model.Subtask, results map[int64]model.TestCaseResult) (model.SubtaskResult, error) {
	ordered := make([]model.TestCaseResult, 0, len(subtask.TestCaseIDs))
	for _, tcID := range subtask.TestCaseIDs {
		r, ok := results[tcID]
		if !ok {
			return model.SubtaskResult{}, &MissingTestCaseError{SubtaskID: subtask.ID, TestCaseID: tcID}
		}
		ordered = append(ordered, r)
	}

	var timeUsed, memoryUsed int
	verdicts := make([]model.Verdict, 0, len(ordered))
	for _, r := range ordered {
		if r.TimeUsed > timeUsed {
			timeUsed = r.TimeUsed
		}
		if r.MemoryUsed > memoryUsed {
			memoryUsed = r.MemoryUsed
		}
		verdicts = append(verdicts, r.Verdict)
	}

	var score int
	switch subtask.ScoringMethod {
	case model.ScoringSum:
		shares := apportion(subtask.MaxScore, len(ordered))
		for i, r := range ordered {
			if r.Verdict == model.VerdictAccepted {
				score += shares[i]
			}
		}
	case model.ScoringGroupMin:
		score = subtask.MaxScore
		for _, r := range ordered {
			if r.Verdict != model.VerdictAccepted {
				score = 0
				break
			}
		}
	case model.ScoringGroupMul:
		product := 1.0
		for _, r := range ordered {
			product *= fractionOf(r)
		}
		score = int(math.Trunc(float64(subtask.MaxScore) * product))
	default:
		return model.SubtaskResult{}, fmt.Errorf("unknown scoring method %q", subtask.ScoringMethod)
	}

	return model.SubtaskResult{
		SubtaskID:   subtask.ID,
		SubtaskName: subtask.Name,
		Score:       score,
		MaxScore:    subtask.MaxScore,
		Verdict:     model.CombineVerdicts(score, subtask.MaxScore, verdicts),
		TimeUsed:    timeUsed,
		MemoryUsed:  memoryUsed,
	}, nil
}

// apportion splits max into n integer shares that sum to exactly max,
// giving each earlier share one extra point until the remainder runs out.
func apportion(max, n int) []int {
	if n <= 0 {
		return nil
	}
	shares := make([]int, n)
	base, rem := max/n, max%n
	for i := range shares {
		shares[i] = base
		if i < rem {
			shares[i]++
		}
	}
	return shares
}

// fractionOf resolves the multiplicative credit of a single test case.
// An explicit judge-reported fraction wins; otherwise the verdict decides.
func fractionOf(r model.TestCaseResult) float64 {
	if r.Fraction != nil {
		f := *r.Fraction
		if f < 0 {
			return 0
		}
		if f > 1 {
			return 1
		}
		return f
	}
	if r.Verdict == model.VerdictAccepted {
		return 1
	}
	return 0
}
