package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"ioiscore/internal/common/db"
	"ioiscore/internal/score/controller"
	"ioiscore/internal/score/model"
	"ioiscore/internal/score/repository"
	"ioiscore/internal/score/service"
)

type memConfigRepo struct {
	configs map[int64]model.ProblemConfig
}

func (m *memConfigRepo) Get(ctx context.Context, problemID int64) (model.ProblemConfig, error) {
	cfg, ok := m.configs[problemID]
	if !ok {
		return model.ProblemConfig{}, repository.ErrConfigNotFound
	}
	return cfg, nil
}

func (m *memConfigRepo) Put(ctx context.Context, cfg model.ProblemConfig) error {
	m.configs[cfg.ProblemID] = cfg
	return nil
}

type memJudgeRepo struct {
	submissions map[int64]model.Submission
	judgeRes    map[int64]model.JudgeResult
	testCases   map[int64][]model.TestCaseResult
}

func (m *memJudgeRepo) GetSubmission(ctx context.Context, id int64) (model.Submission, error) {
	s, ok := m.submissions[id]
	if !ok {
		return model.Submission{}, repository.ErrSubmissionNotFound
	}
	return s, nil
}

func (m *memJudgeRepo) GetJudgeResult(ctx context.Context, id int64) (model.JudgeResult, error) {
	jr, ok := m.judgeRes[id]
	if !ok {
		return model.JudgeResult{}, repository.ErrJudgeResultNotFound
	}
	return jr, nil
}

func (m *memJudgeRepo) ListTestCaseResults(ctx context.Context, id int64) ([]model.TestCaseResult, error) {
	return m.testCases[id], nil
}

func (m *memJudgeRepo) UpdateJudgeResult(ctx context.Context, tx db.Transaction, id int64, verdict model.Verdict, score, timeUsed, memoryUsed int) error {
	return nil
}

type memScoreRepo struct {
	scores map[int64]model.SubmissionScore
}

func (m *memScoreRepo) Get(ctx context.Context, id int64) (model.SubmissionScore, error) {
	s, ok := m.scores[id]
	if !ok {
		return model.SubmissionScore{}, repository.ErrScoreNotFound
	}
	return s, nil
}

func (m *memScoreRepo) Put(ctx context.Context, tx db.Transaction, score model.SubmissionScore) error {
	m.scores[score.SubmissionID] = score
	return nil
}

func (m *memScoreRepo) ListByUserProblem(ctx context.Context, userID, problemID int64) ([]model.SubmissionScore, error) {
	return nil, nil
}

func (m *memScoreRepo) ListByProblem(ctx context.Context, problemID int64) ([]model.SubmissionScore, error) {
	var out []model.SubmissionScore
	for _, s := range m.scores {
		if s.ProblemID == problemID {
			out = append(out, s)
		}
	}
	return out, nil
}

type memDirectoryRepo struct {
	users    []model.User
	problems []model.Problem
}

func (m *memDirectoryRepo) ContestExists(ctx context.Context, contestID int64) error {
	if contestID != 1 {
		return repository.ErrContestNotFound
	}
	return nil
}

func (m *memDirectoryRepo) ListContestants(ctx context.Context, contestID int64) ([]model.User, error) {
	return m.users, nil
}

func (m *memDirectoryRepo) ListProblems(ctx context.Context, contestID int64) ([]model.Problem, error) {
	return m.problems, nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *memJudgeRepo, *memScoreRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	judge := &memJudgeRepo{
		submissions: make(map[int64]model.Submission),
		judgeRes:    make(map[int64]model.JudgeResult),
		testCases:   make(map[int64][]model.TestCaseResult),
	}
	scores := &memScoreRepo{scores: make(map[int64]model.SubmissionScore)}
	svc, err := service.NewScoreService(service.Config{
		ConfigRepo: &memConfigRepo{configs: make(map[int64]model.ProblemConfig)},
		JudgeRepo:  judge,
		ScoreRepo:  scores,
		DirectoryRepo: &memDirectoryRepo{
			users:    []model.User{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}},
			problems: []model.Problem{{ID: 7, Title: "Aliens"}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	router := gin.New()
	controller.NewScoreController(svc).RegisterRoutes(router.Group("/api/v1/ioi"))
	return router, judge, scores
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response envelope: %v (%s)", err, w.Body.String())
	}
	return w, env
}

func TestConfigureAndGetProblemConfig(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/ioi/problems/7/config", controller.ConfigureProblemRequest{
		SubtaskEnabled:   true,
		FinalScoreMethod: model.FinalBestSubtaskSum,
		Subtasks: []model.Subtask{
			{ID: 1, Name: "A", MaxScore: 40, ScoringMethod: model.ScoringSum, TestCaseIDs: []int64{1, 2}},
			{ID: 2, Name: "B", MaxScore: 60, ScoringMethod: model.ScoringGroupMin, TestCaseIDs: []int64{3}},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if env.Code != 10000 {
		t.Fatalf("expected business code 10000, got %d", env.Code)
	}

	w, env = doRequest(t, router, http.MethodGet, "/api/v1/ioi/problems/7/config", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var cfg model.ProblemConfig
	if err := json.Unmarshal(env.Data, &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.SubtaskEnabled || len(cfg.Subtasks) != 2 {
		t.Fatalf("config mismatch: %+v", cfg)
	}
}

func TestGetProblemConfigDefaultForUnknown(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w, env := doRequest(t, router, http.MethodGet, "/api/v1/ioi/problems/42/config", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with default config, got %d", w.Code)
	}
	var cfg model.ProblemConfig
	if err := json.Unmarshal(env.Data, &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SubtaskEnabled || cfg.FinalScoreMethod != model.FinalBestSubmission {
		t.Fatalf("expected default config, got %+v", cfg)
	}
}

func TestConfigureProblemRejectsInvalid(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w, _ := doRequest(t, router, http.MethodPost, "/api/v1/ioi/problems/7/config", controller.ConfigureProblemRequest{
		SubtaskEnabled:   true,
		FinalScoreMethod: model.FinalBestSubmission,
		Subtasks:         nil,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCalculateSubmissionScoreEndpoint(t *testing.T) {
	router, judge, scores := newTestRouter(t)
	judge.submissions[21] = model.Submission{
		ID: 21, UserID: 1, ProblemID: 7,
		SubmittedAt: time.Date(2025, 7, 12, 9, 30, 0, 0, time.UTC),
	}
	judge.judgeRes[21] = model.JudgeResult{ID: 5, SubmissionID: 21}
	judge.testCases[21] = []model.TestCaseResult{
		{TestCaseID: 1, Verdict: model.VerdictAccepted},
		{TestCaseID: 2, Verdict: model.VerdictAccepted},
	}

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/ioi/submissions/21/score", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var score model.SubmissionScore
	if err := json.Unmarshal(env.Data, &score); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.Score != 100 || score.Verdict != model.VerdictAccepted {
		t.Fatalf("expected 100/%s, got %d/%s", model.VerdictAccepted, score.Score, score.Verdict)
	}
	if _, err := scores.Get(context.Background(), 21); err != nil {
		t.Fatalf("expected persisted score: %v", err)
	}
}

func TestCalculateSubmissionScoreNotFoundEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w, _ := doRequest(t, router, http.MethodPost, "/api/v1/ioi/submissions/404/score", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetSubmissionDetailEndpoint(t *testing.T) {
	router, judge, _ := newTestRouter(t)
	judge.submissions[21] = model.Submission{ID: 21, UserID: 1, ProblemID: 7, SubmittedAt: time.Now()}
	judge.judgeRes[21] = model.JudgeResult{ID: 5, SubmissionID: 21}
	judge.testCases[21] = []model.TestCaseResult{{TestCaseID: 1, Verdict: model.VerdictAccepted}}

	w, env := doRequest(t, router, http.MethodGet, "/api/v1/ioi/submissions/21", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var detail service.SubmissionDetail
	if err := json.Unmarshal(env.Data, &detail); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Submission.SourceCode != "" {
		t.Fatal("expected no source code without include_code")
	}
	if len(detail.TestCaseResults) != 1 {
		t.Fatalf("expected 1 test case result, got %d", len(detail.TestCaseResults))
	}
}

func TestGetLeaderboardEndpoint(t *testing.T) {
	router, _, scores := newTestRouter(t)
	scores.scores[101] = model.SubmissionScore{
		SubmissionID: 101, UserID: 1, ProblemID: 7, Score: 80,
		SubmittedAt: time.Date(2025, 7, 12, 9, 45, 0, 0, time.UTC),
	}

	w, env := doRequest(t, router, http.MethodGet, "/api/v1/ioi/contests/1/leaderboard?page=1&page_size=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var board controller.LeaderboardResponse
	if err := json.Unmarshal(env.Data, &board); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.TotalCount != 2 {
		t.Fatalf("expected total count 2, got %d", board.TotalCount)
	}
	if board.Entries[0].User.ID != 1 || board.Entries[0].TotalScore != 80 {
		t.Fatalf("expected alice first with 80, got %+v", board.Entries[0])
	}
	if board.ContestID != 1 {
		t.Fatalf("expected contest id 1, got %d", board.ContestID)
	}
	if len(board.Problems) != 1 || board.Problems[0].ID != 7 {
		t.Fatalf("expected problem columns in response, got %+v", board.Problems)
	}
}

func TestGetLeaderboardUnknownContest(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w, _ := doRequest(t, router, http.MethodGet, "/api/v1/ioi/contests/9/leaderboard", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestInvalidPathID(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w, _ := doRequest(t, router, http.MethodGet, "/api/v1/ioi/problems/abc/config", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
