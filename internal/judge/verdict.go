package judge

import "github.com/noah-isme/student-progress-api/internal/models"

// MapVerdict converts an external judge verdict string to the internal
// status enum. Unrecognized verdicts map to OTHER.
func MapVerdict(verdict string) models.SubmissionStatus {
	switch verdict {
	case "OK":
		return models.StatusAccepted
	case "WRONG_ANSWER":
		return models.StatusWrongAnswer
	case "TIME_LIMIT_EXCEEDED":
		return models.StatusTimeLimitExceeded
	case "MEMORY_LIMIT_EXCEEDED":
		return models.StatusMemoryLimitExceeded
	case "RUNTIME_ERROR":
		return models.StatusRuntimeError
	case "COMPILATION_ERROR":
		return models.StatusCompilationError
	default:
		return models.StatusOther
	}
}
