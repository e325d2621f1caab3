package service_test

import (
	"context"
	"testing"
	"time"

	appErr "ioiscore/pkg/errors"
)

func TestGetSubmissionDetail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addJudgedSubmission(21, 3, 7, time.Now(), acceptedCases(1, 2))
	f.storage.objects["submissions/sources/s1.zst"] = zstdCompress([]byte("int main() { return 0; }"))

	detail, err := f.svc.GetSubmissionDetail(ctx, 21, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Submission.SourceCode != "" {
		t.Fatal("expected empty source code without include_code")
	}
	if len(detail.TestCaseResults) != 2 {
		t.Fatalf("expected 2 test case results, got %d", len(detail.TestCaseResults))
	}
	if len(detail.SubtaskResults) != 1 {
		t.Fatalf("expected 1 subtask result, got %d", len(detail.SubtaskResults))
	}
	if detail.SubtaskResults[0].Score != 100 {
		t.Fatalf("expected subtask score 100, got %d", detail.SubtaskResults[0].Score)
	}
}

func TestGetSubmissionDetailWithCode(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addJudgedSubmission(21, 3, 7, time.Now(), acceptedCases(1))
	const source = "print(input())"
	f.storage.objects["submissions/sources/s1.zst"] = zstdCompress([]byte(source))

	detail, err := f.svc.GetSubmissionDetail(ctx, 21, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Submission.SourceCode != source {
		t.Fatalf("expected source %q, got %q", source, detail.Submission.SourceCode)
	}
}

func TestGetSubmissionDetailNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.GetSubmissionDetail(context.Background(), 404, false)
	if code := appErr.GetCode(err); code != appErr.SubmissionNotFound {
		t.Fatalf("expected code %d, got %d", appErr.SubmissionNotFound, code)
	}
}

func TestGetSubmissionDetailSourceFetchError(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.addJudgedSubmission(21, 3, 7, time.Now(), acceptedCases(1))
	// No object uploaded for the submission's source key.

	_, err := f.svc.GetSubmissionDetail(context.Background(), 21, true)
	if code := appErr.GetCode(err); code != appErr.SourceFetchFailed {
		t.Fatalf("expected code %d, got %d", appErr.SourceFetchFailed, code)
	}
}

func TestHandleJudgeFinishedMessage(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addJudgedSubmission(21, 3, 7, time.Now(), acceptedCases(1, 2))

	msg := newJudgeMessage(t, 21)
	if err := f.svc.HandleJudgeFinishedMessage(ctx, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.scores.Get(ctx, 21); err != nil {
		t.Fatalf("expected persisted score after event: %v", err)
	}
}

func TestHandleJudgeFinishedMessageDropsGarbage(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	msg := newRawMessage("{not json")
	if err := f.svc.HandleJudgeFinishedMessage(ctx, msg); err != nil {
		t.Fatalf("expected undecodable event to be dropped, got %v", err)
	}

	msg = newRawMessage(`{"submission_id":0}`)
	if err := f.svc.HandleJudgeFinishedMessage(ctx, msg); err != nil {
		t.Fatalf("expected event without submission id to be dropped, got %v", err)
	}
}

func TestHandleJudgeFinishedMessageRetryable(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	// Submission 404 does not exist, so the event should be redelivered.
	msg := newJudgeMessage(t, 404)
	if err := f.svc.HandleJudgeFinishedMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error for unknown submission")
	}
}
