package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ioiscore/internal/score/model"
	appErr "ioiscore/pkg/errors"
)

func seedContest(f *fixture) {
	f.directory.users = []model.User{
		{ID: 1, Username: "alice"},
		{ID: 2, Username: "bob"},
		{ID: 3, Username: "carol"},
	}
	f.directory.problems = []model.Problem{{ID: 7, Title: "Aliens"}}
}

func seedScore(f *fixture, submissionID, userID int64, score int, minutes int) {
	f.scores.scores[submissionID] = model.SubmissionScore{
		SubmissionID: submissionID,
		UserID:       userID,
		ProblemID:    7,
		Score:        score,
		SubmittedAt:  time.Date(2025, 7, 12, 9, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute),
	}
}

func TestGetLeaderboard(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	seedContest(f)
	seedScore(f, 101, 1, 80, 30)
	seedScore(f, 102, 2, 100, 20)

	page, err := f.svc.GetLeaderboard(ctx, 1, 1, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 3 {
		t.Fatalf("expected total count 3, got %d", page.TotalCount)
	}
	if len(page.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(page.Entries))
	}
	if page.Entries[0].User.ID != 2 || page.Entries[0].TotalScore != 100 {
		t.Fatalf("expected bob first with 100, got user %d with %d",
			page.Entries[0].User.ID, page.Entries[0].TotalScore)
	}
	// carol never submitted but still appears.
	if page.Entries[2].User.ID != 3 || page.Entries[2].TotalScore != 0 {
		t.Fatalf("expected carol last with 0, got user %d with %d",
			page.Entries[2].User.ID, page.Entries[2].TotalScore)
	}
}

func TestGetLeaderboardContestNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.GetLeaderboard(context.Background(), 999, 1, 50)
	if code := appErr.GetCode(err); code != appErr.ContestNotFound {
		t.Fatalf("expected code %d, got %d", appErr.ContestNotFound, code)
	}
}

func TestGetLeaderboardOutOfRangePage(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	seedContest(f)
	seedScore(f, 101, 1, 80, 30)

	page, err := f.svc.GetLeaderboard(ctx, 1, 10, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Entries) != 0 {
		t.Fatalf("expected empty page, got %d entries", len(page.Entries))
	}
	if page.TotalCount != 3 {
		t.Fatalf("expected total count 3, got %d", page.TotalCount)
	}
	if page.ContestID != 1 {
		t.Fatalf("expected contest id 1, got %d", page.ContestID)
	}
	if len(page.Problems) != 1 || page.Problems[0].ID != 7 {
		t.Fatalf("expected problem list on empty page, got %+v", page.Problems)
	}
}

func TestGetLeaderboardDegradesOnScoreReadFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	seedContest(f)
	f.scores.listErr = errors.New("replica down")

	page, err := f.svc.GetLeaderboard(ctx, 1, 1, 50)
	if err != nil {
		t.Fatalf("expected degraded board, got error %v", err)
	}
	for _, e := range page.Entries {
		if e.TotalScore != 0 {
			t.Fatalf("expected zero scores in degraded board, got %d", e.TotalScore)
		}
	}
}

func TestGetLeaderboardPageSizeClamped(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	seedContest(f)

	page, err := f.svc.GetLeaderboard(ctx, 1, 1, 100000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.PageSize > 200 {
		t.Fatalf("expected page size clamped to 200, got %d", page.PageSize)
	}
}
