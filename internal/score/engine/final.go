package engine

import (
	"time"

	"ioiscore/internal/score/model"
)

// AggregateFinal folds a user's scored submissions for one problem, ordered
// by submission time ascending, into their final score for that problem.
//
// BestSubmission keeps the single highest-scoring submission, the earliest
// one on ties. BestSubtaskSum takes each subtask's best score across all
// submissions independently and sums them; it needs the subtask list, so a
// problem without subtasks falls back to BestSubmission.
func AggregateFinal(method model.FinalScoreMethod, subtasks []model.Subtask, history []model.SubmissionScore) model.FinalScore {
	if len(history) == 0 {
		return model.FinalScore{}
	}
	if method == model.FinalBestSubtaskSum && len(subtasks) > 0 {
		return bestSubtaskSum(subtasks, history)
	}
	return bestSubmission(history)
}

func bestSubmission(history []model.SubmissionScore) model.FinalScore {
	best := history[0]
	for _, s := range history[1:] {
		if s.Score > best.Score {
			best = s
		}
	}

	contributions := make([]model.SubtaskBestScore, 0, len(best.SubtaskResults))
	for _, sr := range best.SubtaskResults {
		contributions = append(contributions, model.SubtaskBestScore{
			SubtaskID:    sr.SubtaskID,
			SubtaskName:  sr.SubtaskName,
			BestScore:    sr.Score,
			MaxScore:     sr.MaxScore,
			SubmissionID: best.SubmissionID,
		})
	}

	var achievedAt time.Time
	if best.Score > 0 {
		achievedAt = best.SubmittedAt
	}
	return model.FinalScore{
		Score:         best.Score,
		AchievedAt:    achievedAt,
		Contributions: contributions,
	}
}

func bestSubtaskSum(subtasks []model.Subtask, history []model.SubmissionScore) model.FinalScore {
	out := model.FinalScore{
		Contributions: make([]model.SubtaskBestScore, 0, len(subtasks)),
	}
	for _, st := range subtasks {
		contrib := model.SubtaskBestScore{
			SubtaskID:   st.ID,
			SubtaskName: st.Name,
			MaxScore:    st.MaxScore,
		}
		var contribAt time.Time
		for _, s := range history {
			for _, sr := range s.SubtaskResults {
				if sr.SubtaskID != st.ID {
					continue
				}
				// Strictly greater keeps the earliest submission on ties.
				if sr.Score > contrib.BestScore || contrib.SubmissionID == 0 {
					contrib.BestScore = sr.Score
					contrib.SubmissionID = s.SubmissionID
					contribAt = s.SubmittedAt
				}
				break
			}
		}
		out.Score += contrib.BestScore
		out.Contributions = append(out.Contributions, contrib)
		// The final score is only achieved once every contributing
		// subtask has been submitted, so the latest one sets the time.
		if contrib.BestScore > 0 && contribAt.After(out.AchievedAt) {
			out.AchievedAt = contribAt
		}
	}
	return out
}
