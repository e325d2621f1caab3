package engine_test

import (
	"testing"

	"ioiscore/internal/score/engine"
	"ioiscore/internal/score/model"
)

func subtaskConfig(problemID int64, method model.FinalScoreMethod, subtasks ...model.Subtask) model.ProblemConfig {
	return model.ProblemConfig{
		ProblemID:        problemID,
		SubtaskEnabled:   true,
		FinalScoreMethod: method,
		Subtasks:         subtasks,
	}
}

func TestScoreSubmissionImplicitSubtask(t *testing.T) {
	t.Parallel()
	cfg := model.DefaultProblemConfig(7)
	results := []model.TestCaseResult{
		tc(1, model.VerdictAccepted),
		tc(2, model.VerdictAccepted),
		tc(3, model.VerdictWrongAnswer),
		tc(4, model.VerdictAccepted),
	}

	got, err := engine.ScoreSubmission(cfg, results)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score != 75 {
		t.Fatalf("expected score 75, got %d", got.Score)
	}
	if got.MaxScore != model.DefaultFullScore {
		t.Fatalf("expected max score %d, got %d", model.DefaultFullScore, got.MaxScore)
	}
	if got.Verdict != model.VerdictPartiallyCorrect {
		t.Fatalf("expected verdict %s, got %s", model.VerdictPartiallyCorrect, got.Verdict)
	}
	if len(got.SubtaskResults) != 1 {
		t.Fatalf("expected 1 implicit subtask result, got %d", len(got.SubtaskResults))
	}
	if got.SubtaskResults[0].SubtaskID != 0 {
		t.Fatalf("expected implicit subtask id 0, got %d", got.SubtaskResults[0].SubtaskID)
	}
}

func TestScoreSubmissionSubtasks(t *testing.T) {
	t.Parallel()
	cfg := subtaskConfig(7, model.FinalBestSubmission,
		model.Subtask{ID: 1, Name: "Samples", MaxScore: 20, ScoringMethod: model.ScoringSum, TestCaseIDs: []int64{1, 2}},
		model.Subtask{ID: 2, Name: "Full", MaxScore: 80, ScoringMethod: model.ScoringGroupMin, TestCaseIDs: []int64{3, 4}},
	)
	results := []model.TestCaseResult{
		tc(1, model.VerdictAccepted),
		tc(2, model.VerdictAccepted),
		tc(3, model.VerdictAccepted),
		tc(4, model.VerdictTimeLimitExceeded),
	}

	got, err := engine.ScoreSubmission(cfg, results)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score != 20 {
		t.Fatalf("expected score 20, got %d", got.Score)
	}
	if got.MaxScore != 100 {
		t.Fatalf("expected max score 100, got %d", got.MaxScore)
	}
	if got.Verdict != model.VerdictPartiallyCorrect {
		t.Fatalf("expected verdict %s, got %s", model.VerdictPartiallyCorrect, got.Verdict)
	}
	if len(got.SubtaskResults) != 2 {
		t.Fatalf("expected 2 subtask results, got %d", len(got.SubtaskResults))
	}
	if got.SubtaskResults[1].Verdict != model.VerdictTimeLimitExceeded {
		t.Fatalf("expected second subtask verdict %s, got %s", model.VerdictTimeLimitExceeded, got.SubtaskResults[1].Verdict)
	}
}

func TestScoreSubmissionZeroScoreVerdict(t *testing.T) {
	t.Parallel()
	cfg := subtaskConfig(7, model.FinalBestSubmission,
		model.Subtask{ID: 1, Name: "Only", MaxScore: 100, ScoringMethod: model.ScoringGroupMin, TestCaseIDs: []int64{1, 2}},
	)
	results := []model.TestCaseResult{
		tc(1, model.VerdictRuntimeError),
		tc(2, model.VerdictAccepted),
	}

	got, err := engine.ScoreSubmission(cfg, results)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score != 0 {
		t.Fatalf("expected score 0, got %d", got.Score)
	}
	if got.Verdict != model.VerdictRuntimeError {
		t.Fatalf("expected verdict %s, got %s", model.VerdictRuntimeError, got.Verdict)
	}
}

func TestScoreSubmissionMissingResult(t *testing.T) {
	t.Parallel()
	cfg := subtaskConfig(7, model.FinalBestSubmission,
		model.Subtask{ID: 1, Name: "Only", MaxScore: 100, ScoringMethod: model.ScoringSum, TestCaseIDs: []int64{1, 2}},
	)

	_, err := engine.ScoreSubmission(cfg, []model.TestCaseResult{tc(1, model.VerdictAccepted)})
	if err == nil {
		t.Fatal("expected error for missing test case result")
	}
}

func TestScoreSubmissionDeterministic(t *testing.T) {
	t.Parallel()
	cfg := subtaskConfig(7, model.FinalBestSubmission,
		model.Subtask{ID: 1, Name: "A", MaxScore: 30, ScoringMethod: model.ScoringSum, TestCaseIDs: []int64{1, 2, 3}},
		model.Subtask{ID: 2, Name: "B", MaxScore: 70, ScoringMethod: model.ScoringGroupMin, TestCaseIDs: []int64{4, 5}},
	)
	results := []model.TestCaseResult{
		tc(1, model.VerdictAccepted),
		tc(2, model.VerdictWrongAnswer),
		tc(3, model.VerdictAccepted),
		tc(4, model.VerdictAccepted),
		tc(5, model.VerdictAccepted),
	}

	first, err := engine.ScoreSubmission(cfg, results)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := engine.ScoreSubmission(cfg, results)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.Score != first.Score || again.Verdict != first.Verdict {
			t.Fatalf("expected stable result %d/%s, got %d/%s", first.Score, first.Verdict, again.Score, again.Verdict)
		}
	}
}
