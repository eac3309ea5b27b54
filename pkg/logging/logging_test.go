package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLoggerAddsComponentField(t *testing.T) {
	logger := GetLogger("planner")
	assert.NotNil(t, logger)
}

func TestWithFieldsAttachesAll(t *testing.T) {
	logger := WithFields(map[string]interface{}{
		"pack":  "left-pad",
		"count": 3,
	})
	assert.NotNil(t, logger)
}

func TestLogOperationStartReturnsCompletionFunc(t *testing.T) {
	done := LogOperationStart(GetLogger("test"), "install")
	assert.NotPanics(t, done)
}
