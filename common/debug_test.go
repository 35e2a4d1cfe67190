//go:build !js
// +build !js

package common

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

// TestDebug_Gating tests that EnableDebug silences everything but errors
func TestDebug_Gating(t *testing.T) {
	buf := captureLog(t)
	defer func(prev bool) { EnableDebug = prev }(EnableDebug)

	EnableDebug = false
	Debug("hidden")
	DebugWarn("hidden")
	DebugError("shown", 1)
	if got := buf.String(); got != "ERROR shown 1\n" {
		t.Errorf("Expected only the error, got %q", got)
	}

	buf.Reset()
	EnableDebug = true
	Debugf("voice %d", 3)
	DebugWarn("unknown chord:", "x")
	if got := buf.String(); !strings.Contains(got, "voice 3\n") || !strings.Contains(got, "WARN unknown chord: x\n") {
		t.Errorf("Expected debug and warn lines, got %q", got)
	}
}
