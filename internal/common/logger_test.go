package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLogFilePath(t *testing.T) {
	assert.Equal(t, "", GetLogFilePath(nil))

	// The default logger only carries a console writer
	assert.Equal(t, "", GetLogFilePath(GetLogger()))
}
