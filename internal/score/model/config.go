package model

// DefaultFullScore is the problem full score assumed when subtask mode is
// disabled and no explicit full score is configured.
const DefaultFullScore = 100

// Subtask is one scored partition of a problem's test cases.
type Subtask struct {
	ID            int64                `json:"id"`
	Name          string               `json:"name"`
	MaxScore      int                  `json:"max_score"`
	ScoringMethod SubtaskScoringMethod `json:"scoring_method"`
	TestCaseIDs   []int64              `json:"test_case_ids"`
}

// ProblemConfig holds a problem's IOI scoring configuration. The subtask
// list is stored and replaced as a whole, so concurrent scoring passes
// always observe one consistent snapshot.
type ProblemConfig struct {
	ProblemID        int64            `json:"problem_id"`
	SubtaskEnabled   bool             `json:"subtask_enabled"`
	FinalScoreMethod FinalScoreMethod `json:"final_score_method"`

	// FullScore is the problem's total score when subtask mode is
	// disabled. When subtask mode is enabled the total is the sum of
	// subtask max scores instead.
	FullScore int `json:"full_score"`

	Subtasks []Subtask `json:"subtasks"`
}

// DefaultProblemConfig returns the configuration assumed for a problem that
// was never configured: no subtasks, best-submission aggregation.
func DefaultProblemConfig(problemID int64) ProblemConfig {
	return ProblemConfig{
		ProblemID:        problemID,
		SubtaskEnabled:   false,
		FinalScoreMethod: FinalBestSubmission,
		FullScore:        DefaultFullScore,
		Subtasks:         nil,
	}
}

// MaxTotalScore returns the maximum total score reachable for the problem.
func (c ProblemConfig) MaxTotalScore() int {
	if !c.SubtaskEnabled {
		if c.FullScore > 0 {
			return c.FullScore
		}
		return DefaultFullScore
	}
	total := 0
	for _, st := range c.Subtasks {
		total += st.MaxScore
	}
	return total
}

// SubtaskByID returns the subtask with the given id.
func (c ProblemConfig) SubtaskByID(id int64) (Subtask, bool) {
	for _, st := range c.Subtasks {
		if st.ID == id {
			return st, true
		}
	}
	return Subtask{}, false
}
