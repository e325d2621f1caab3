package engine

import (
	"ioiscore/internal/score/model"
)

// Scored is the outcome of scoring one submission against a problem
// config. SubmissionID, UserID and timestamps are filled in by the
// service layer, which knows the submission's identity.
type Scored struct {
	Score          int
	MaxScore       int
	Verdict        model.Verdict
	SubtaskResults []model.SubtaskResult
	TimeUsed       int
	MemoryUsed     int
}

// ScoreSubmission scores a full submission. When subtasks are disabled
// the problem is treated as a single implicit Sum subtask spanning every
// judged test case, worth the problem's full score.
func ScoreSubmission(cfg model.ProblemConfig, results []model.TestCaseResult) (Scored, error) {
	byID := make(map[int64]model.TestCaseResult, len(results))
	for _, r := range results {
		if _, ok := byID[r.TestCaseID]; !ok {
			byID[r.TestCaseID] = r
		}
	}

	subtasks := cfg.Subtasks
	if !cfg.SubtaskEnabled {
		ids := make([]int64, 0, len(results))
		seen := make(map[int64]bool, len(results))
		for _, r := range results {
			if !seen[r.TestCaseID] {
				seen[r.TestCaseID] = true
				ids = append(ids, r.TestCaseID)
			}
		}
		subtasks = []model.Subtask{{
			ID:            0,
			Name:          "All Tests",
			MaxScore:      cfg.MaxTotalScore(),
			ScoringMethod: model.ScoringSum,
			TestCaseIDs:   ids,
		}}
	}

	out := Scored{
		MaxScore:       cfg.MaxTotalScore(),
		SubtaskResults: make([]model.SubtaskResult, 0, len(subtasks)),
	}
	verdicts := make([]model.Verdict, 0, len(subtasks))
	for _, st := range subtasks {
		sr, err := ScoreSubtask(st, byID)
		if err != nil {
			return Scored{}, err
		}
		out.Score += sr.Score
		out.SubtaskResults = append(out.SubtaskResults, sr)
		verdicts = append(verdicts, sr.Verdict)
		if sr.TimeUsed > out.TimeUsed {
			out.TimeUsed = sr.TimeUsed
		}
		if sr.MemoryUsed > out.MemoryUsed {
			out.MemoryUsed = sr.MemoryUsed
		}
	}
	out.Verdict = model.CombineVerdicts(out.Score, out.MaxScore, verdicts)
	return out, nil
}
