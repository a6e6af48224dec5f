package logger

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func captureStderr(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	oldErr, oldNoColor := color.Error, color.NoColor
	color.Error, color.NoColor = &buf, true
	t.Cleanup(func() {
		color.Error, color.NoColor = oldErr, oldNoColor
		Init(false)
	})
	return &buf
}

func TestLevelsWriteToStderr(t *testing.T) {
	buf := captureStderr(t)

	Info("[INFO] installed %s\n", "nvim")
	Warn("[WARN] %d failed\n", 2)
	Error("[ERROR] boom\n")
	assert.Equal(t, "[INFO] installed nvim\n[WARN] 2 failed\n[ERROR] boom\n", buf.String())
}

func TestDebugToggle(t *testing.T) {
	buf := captureStderr(t)

	Debug("[DEBUG] hidden\n")
	assert.Empty(t, buf.String())

	Init(true)
	Debug("[DEBUG] shown\n")
	assert.Equal(t, "[DEBUG] shown\n", buf.String())

	Init(false)
	Debug("[DEBUG] hidden again\n")
	assert.Equal(t, "[DEBUG] shown\n", buf.String())
}
