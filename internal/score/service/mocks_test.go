package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"

	"github.com/klauspost/compress/zstd"

	"ioiscore/internal/common/db"
	"ioiscore/internal/common/mq"
	"ioiscore/internal/common/storage"
	"ioiscore/internal/score/model"
	"ioiscore/internal/score/repository"
	"ioiscore/internal/score/service"
)

type fakeConfigRepo struct {
	mu      sync.Mutex
	configs map[int64]model.ProblemConfig
	putErr  error
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{configs: make(map[int64]model.ProblemConfig)}
}

func (f *fakeConfigRepo) Get(ctx context.Context, problemID int64) (model.ProblemConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cfg, ok := f.configs[problemID]
	if !ok {
		return model.ProblemConfig{}, repository.ErrConfigNotFound
	}
	return cfg, nil
}

func (f *fakeConfigRepo) Put(ctx context.Context, cfg model.ProblemConfig) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs[cfg.ProblemID] = cfg
	return nil
}

type fakeJudgeRepo struct {
	mu          sync.Mutex
	submissions map[int64]model.Submission
	judgeRes    map[int64]model.JudgeResult
	testCases   map[int64][]model.TestCaseResult
	updates     []model.JudgeResult
	listCalls   int
}

func newFakeJudgeRepo() *fakeJudgeRepo {
	return &fakeJudgeRepo{
		submissions: make(map[int64]model.Submission),
		judgeRes:    make(map[int64]model.JudgeResult),
		testCases:   make(map[int64][]model.TestCaseResult),
	}
}

func (f *fakeJudgeRepo) GetSubmission(ctx context.Context, submissionID int64) (model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.submissions[submissionID]
	if !ok {
		return model.Submission{}, repository.ErrSubmissionNotFound
	}
	return s, nil
}

func (f *fakeJudgeRepo) GetJudgeResult(ctx context.Context, submissionID int64) (model.JudgeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	jr, ok := f.judgeRes[submissionID]
	if !ok {
		return model.JudgeResult{}, repository.ErrJudgeResultNotFound
	}
	return jr, nil
}

func (f *fakeJudgeRepo) ListTestCaseResults(ctx context.Context, submissionID int64) ([]model.TestCaseResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.testCases[submissionID], nil
}

func (f *fakeJudgeRepo) UpdateJudgeResult(ctx context.Context, tx db.Transaction, submissionID int64, verdict model.Verdict, score, timeUsed, memoryUsed int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, model.JudgeResult{
		SubmissionID: submissionID,
		Verdict:      verdict,
		Score:        score,
		TimeUsed:     timeUsed,
		MemoryUsed:   memoryUsed,
	})
	return nil
}

type fakeScoreRepo struct {
	mu      sync.Mutex
	scores  map[int64]model.SubmissionScore
	putErr  error
	listErr error
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{scores: make(map[int64]model.SubmissionScore)}
}

func (f *fakeScoreRepo) Get(ctx context.Context, submissionID int64) (model.SubmissionScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.scores[submissionID]
	if !ok {
		return model.SubmissionScore{}, repository.ErrScoreNotFound
	}
	return s, nil
}

func (f *fakeScoreRepo) Put(ctx context.Context, tx db.Transaction, score model.SubmissionScore) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores[score.SubmissionID] = score
	return nil
}

func (f *fakeScoreRepo) ListByUserProblem(ctx context.Context, userID, problemID int64) ([]model.SubmissionScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.SubmissionScore
	for _, s := range f.scores {
		if s.UserID == userID && s.ProblemID == problemID {
			out = append(out, s)
		}
	}
	sortScores(out)
	return out, nil
}

func (f *fakeScoreRepo) ListByProblem(ctx context.Context, problemID int64) ([]model.SubmissionScore, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.SubmissionScore
	for _, s := range f.scores {
		if s.ProblemID == problemID {
			out = append(out, s)
		}
	}
	sortScores(out)
	return out, nil
}

func sortScores(scores []model.SubmissionScore) {
	for i := 1; i < len(scores); i++ {
		for j := i; j > 0 && scores[j].SubmittedAt.Before(scores[j-1].SubmittedAt); j-- {
			scores[j], scores[j-1] = scores[j-1], scores[j]
		}
	}
}

type fakeDirectoryRepo struct {
	contests map[int64]bool
	users    []model.User
	problems []model.Problem
}

func (f *fakeDirectoryRepo) ContestExists(ctx context.Context, contestID int64) error {
	if !f.contests[contestID] {
		return repository.ErrContestNotFound
	}
	return nil
}

func (f *fakeDirectoryRepo) ListContestants(ctx context.Context, contestID int64) ([]model.User, error) {
	return f.users, nil
}

func (f *fakeDirectoryRepo) ListProblems(ctx context.Context, contestID int64) ([]model.Problem, error) {
	return f.problems, nil
}

type fakeStorage struct {
	objects map[string][]byte
}

func (f *fakeStorage) GetObject(ctx context.Context, bucket, objectKey string) (io.ReadCloser, error) {
	data, ok := f.objects[bucket+"/"+objectKey]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) PutObject(ctx context.Context, bucket, objectKey string, reader io.Reader, sizeBytes int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[bucket+"/"+objectKey] = data
	return nil
}

func (f *fakeStorage) StatObject(ctx context.Context, bucket, objectKey string) (storage.ObjectStat, error) {
	data, ok := f.objects[bucket+"/"+objectKey]
	if !ok {
		return storage.ObjectStat{}, io.ErrUnexpectedEOF
	}
	return storage.ObjectStat{SizeBytes: int64(len(data))}, nil
}

func newJudgeMessage(t *testing.T, submissionID int64) *mq.Message {
	t.Helper()
	body, err := json.Marshal(service.JudgeFinishedEvent{SubmissionID: submissionID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return mq.NewMessage(body)
}

func newRawMessage(body string) *mq.Message {
	return mq.NewMessage([]byte(body))
}

func zstdCompress(data []byte) []byte {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		panic(err)
	}
	defer encoder.Close()
	return encoder.EncodeAll(data, nil)
}
