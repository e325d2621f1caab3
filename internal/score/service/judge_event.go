package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"ioiscore/internal/common/mq"
	appErr "ioiscore/pkg/errors"
	"ioiscore/pkg/utils/logger"
)

// JudgeFinishedEvent is published by the judge once every test case of a
// submission has been evaluated.
type JudgeFinishedEvent struct {
	SubmissionID int64  `json:"submission_id"`
	ProblemID    int64  `json:"problem_id"`
	UserID       int64  `json:"user_id"`
	FinishedAt   int64  `json:"finished_at"`
	TraceID      string `json:"trace_id"`
}

// HandleJudgeFinishedMessage scores a submission when the judge reports
// completion. A malformed event is dropped with a log, since redelivery
// cannot fix it; a failed scoring pass is returned to the queue for retry.
func (s *ScoreService) HandleJudgeFinishedMessage(ctx context.Context, msg *mq.Message) error {
	if msg == nil {
		return appErr.New(appErr.InvalidParams).WithMessage("message is nil")
	}
	var event JudgeFinishedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logger.Warn(ctx, "dropping undecodable judge event",
			zap.String("message_id", msg.ID),
			zap.Error(err))
		return nil
	}
	if event.SubmissionID <= 0 {
		logger.Warn(ctx, "dropping judge event without submission id",
			zap.String("message_id", msg.ID))
		return nil
	}

	if _, err := s.CalculateSubmissionScore(ctx, event.SubmissionID); err != nil {
		logger.Error(ctx, "scoring from judge event failed",
			zap.Int64("submission_id", event.SubmissionID),
			zap.Error(err))
		return err
	}
	return nil
}
