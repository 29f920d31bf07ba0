package judge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/student-progress-api/internal/models"
)

func TestMapVerdict(t *testing.T) {
	cases := []struct {
		verdict string
		want    models.SubmissionStatus
	}{
		{"OK", models.StatusAccepted},
		{"WRONG_ANSWER", models.StatusWrongAnswer},
		{"TIME_LIMIT_EXCEEDED", models.StatusTimeLimitExceeded},
		{"MEMORY_LIMIT_EXCEEDED", models.StatusMemoryLimitExceeded},
		{"RUNTIME_ERROR", models.StatusRuntimeError},
		{"COMPILATION_ERROR", models.StatusCompilationError},
		{"SKIPPED", models.StatusOther},
		{"PARTIAL", models.StatusOther},
		{"CHALLENGED", models.StatusOther},
		{"", models.StatusOther},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, MapVerdict(tc.verdict), "verdict %q", tc.verdict)
	}
}
