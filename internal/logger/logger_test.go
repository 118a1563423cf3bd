package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer func() {
		SetOutput(os.Stdout)
		SetLevel("INFO")
	}()

	SetLevel("WARN")
	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
	assert.Contains(t, out, "[WARN]")
}

func TestSetLevelNormalizesCase(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer func() {
		SetOutput(os.Stdout)
		SetLevel("INFO")
	}()

	SetLevel("debug")
	Debug("visible %d", 42)
	assert.Contains(t, buf.String(), "visible 42")
}

func TestSetLevelIgnoresUnknown(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer func() {
		SetOutput(os.Stdout)
		SetLevel("INFO")
	}()

	SetLevel("ERROR")
	SetLevel("bogus") // level stays at ERROR
	Warn("should be filtered")
	assert.Empty(t, buf.String())
}
