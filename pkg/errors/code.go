package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 12000-12999: Problem & Configuration errors
// 13000-13999: Submission & Scoring errors
// 14000-14999: Contest & Leaderboard errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	TooManyRequests     ErrorCode = 10006
	ServiceUnavailable  ErrorCode = 10007
	Timeout             ErrorCode = 10008

	// Database errors (10100-10199)
	DatabaseError     ErrorCode = 10100
	RecordNotFound    ErrorCode = 10101
	TransactionFailed ErrorCode = 10103

	// Cache errors (10200-10299)
	CacheError     ErrorCode = 10200
	CacheMiss      ErrorCode = 10201
	CacheSetFailed ErrorCode = 10202

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	InvalidValue       ErrorCode = 10302
	RequiredFieldEmpty ErrorCode = 10303

	// ========== Problem & Configuration Errors (12000-12999) ==========

	// Problem basic (12000-12099)
	ProblemNotFound ErrorCode = 12000

	// IOI configuration (12300-12399)
	ConfigNotFound        ErrorCode = 12300
	ConfigInvalid         ErrorCode = 12301
	ConfigSaveFailed      ErrorCode = 12302
	SubtaskListEmpty      ErrorCode = 12303
	SubtaskScoreNegative  ErrorCode = 12304
	SubtaskTestCasesEmpty ErrorCode = 12305
	DuplicateTestCase     ErrorCode = 12306
	UnknownScoringMethod  ErrorCode = 12307
	UnknownFinalMethod    ErrorCode = 12308

	// ========== Submission & Scoring Errors (13000-13999) ==========

	// Submission (13000-13099)
	SubmissionNotFound ErrorCode = 13000
	SourceFetchFailed  ErrorCode = 13001

	// Judge data (13100-13199)
	JudgeResultNotFound   ErrorCode = 13100
	TestCaseResultMissing ErrorCode = 13101

	// Score computation (13300-13399)
	ScoreComputeFailed ErrorCode = 13300
	ScoreSaveFailed    ErrorCode = 13301

	// ========== Contest & Leaderboard Errors (14000-14999) ==========

	ContestNotFound        ErrorCode = 14000
	LeaderboardBuildFailed ErrorCode = 14200
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	// System & Common
	Success:             "Success",
	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	TooManyRequests:     "Too many requests, please try again later",
	ServiceUnavailable:  "Service temporarily unavailable",
	Timeout:             "Request timeout",

	// Database
	DatabaseError:     "Database operation failed",
	RecordNotFound:    "Record not found in database",
	TransactionFailed: "Database transaction failed",

	// Cache
	CacheError:     "Cache operation failed",
	CacheMiss:      "Cache miss",
	CacheSetFailed: "Failed to set cache",

	// Validation
	ValidationFailed:   "Validation failed",
	InvalidValue:       "Invalid value",
	RequiredFieldEmpty: "Required field is empty",

	// Problem & Configuration
	ProblemNotFound:       "Problem not found",
	ConfigNotFound:        "Problem scoring configuration not found",
	ConfigInvalid:         "Invalid problem scoring configuration",
	ConfigSaveFailed:      "Failed to save problem scoring configuration",
	SubtaskListEmpty:      "Subtask list is empty",
	SubtaskScoreNegative:  "Subtask max score must be non-negative",
	SubtaskTestCasesEmpty: "Subtask has no test cases",
	DuplicateTestCase:     "Duplicate test case id in subtask",
	UnknownScoringMethod:  "Unknown subtask scoring method",
	UnknownFinalMethod:    "Unknown final score method",

	// Submission & Scoring
	SubmissionNotFound:    "Submission not found",
	SourceFetchFailed:     "Failed to fetch submission source",
	JudgeResultNotFound:   "Judge result not found",
	TestCaseResultMissing: "Test case result is missing",
	ScoreComputeFailed:    "Failed to compute submission score",
	ScoreSaveFailed:       "Failed to save submission score",

	// Contest & Leaderboard
	ContestNotFound:        "Contest not found",
	LeaderboardBuildFailed: "Failed to build leaderboard",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == NotFound, c == ProblemNotFound, c == ContestNotFound,
		c == SubmissionNotFound, c == ConfigNotFound, c == JudgeResultNotFound:
		return 404
	case c == TooManyRequests:
		return 429
	case c == ServiceUnavailable:
		return 503
	case c >= 10300 && c < 10400: // Validation errors
		return 400
	case c >= 12300 && c < 12400: // Configuration errors
		return 400
	case c == InvalidParams:
		return 400
	case c == Timeout:
		return 504
	default:
		return 500
	}
}
