package engine

import "fmt"

// MissingTestCaseError reports a gap between a subtask's configured test
// cases and the judge results supplied for a submission. It is a
// data-integrity failure: the whole scoring pass is abandoned and any
// previously stored score stays authoritative.
type MissingTestCaseError struct {
	SubtaskID  int64
	TestCaseID int64
}

func (e *MissingTestCaseError) Error() string {
	return fmt.Sprintf("missing result for test case %d in subtask %d", e.TestCaseID, e.SubtaskID)
}
