package model

// Verdict classifies the outcome of a test case, subtask or submission.
// The set is closed on purpose: every scorer switches exhaustively over it,
// so adding a verdict is a compile-time-checked extension point.
type Verdict string

const (
	VerdictAccepted            Verdict = "Accepted"
	VerdictPartiallyCorrect    Verdict = "PartiallyCorrect"
	VerdictWrongAnswer         Verdict = "WrongAnswer"
	VerdictTimeLimitExceeded   Verdict = "TimeLimitExceeded"
	VerdictMemoryLimitExceeded Verdict = "MemoryLimitExceeded"
	VerdictRuntimeError        Verdict = "RuntimeError"
)

// Valid reports whether v is a known verdict.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictAccepted, VerdictPartiallyCorrect, VerdictWrongAnswer,
		VerdictTimeLimitExceeded, VerdictMemoryLimitExceeded, VerdictRuntimeError:
		return true
	}
	return false
}

// CombineVerdicts derives a summary verdict for a scored unit from its
// ordered member verdicts and the score it reached against its maximum.
//
// All members Accepted yields Accepted. A positive score below the maximum
// yields PartiallyCorrect. A zero score propagates the first non-Accepted
// verdict in member order, so repeated runs on identical input always report
// the same representative failure.
func CombineVerdicts(score, maxScore int, ordered []Verdict) Verdict {
	allAccepted := true
	for _, v := range ordered {
		if v != VerdictAccepted {
			allAccepted = false
			break
		}
	}
	if allAccepted {
		return VerdictAccepted
	}
	if score >= maxScore && maxScore > 0 {
		return VerdictAccepted
	}
	if score > 0 {
		return VerdictPartiallyCorrect
	}
	for _, v := range ordered {
		if v != VerdictAccepted {
			return v
		}
	}
	return VerdictWrongAnswer
}
