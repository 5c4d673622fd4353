// Package action resolves recognized gestures to navigation bindings and
// spoken feedback for the Sparsh accessibility navigator.
package action

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrNoEngine is returned when no text-to-speech engine is available.
var ErrNoEngine = errors.New("no speech engine available")

// ttsCandidates are probed in order when no speech command is configured.
var ttsCandidates = []string{"espeak-ng", "espeak", "say", "spd-say"}

// Speaker runs an external text-to-speech command with timeout support.
// Speech is advisory feedback: callers log failures and move on.
type Speaker struct {
	command   string
	timeoutMs int
}

// NewSpeaker creates a Speaker using the given command. If command is
// empty, the first available engine from the candidate list is used; the
// Speaker still constructs (and reports ErrNoEngine on Speak) when none is
// installed.
func NewSpeaker(command string, timeoutMs int) *Speaker {
	if command == "" {
		command = DetectEngine()
	}
	return &Speaker{
		command:   command,
		timeoutMs: timeoutMs,
	}
}

// DetectEngine returns the first text-to-speech command present on PATH,
// or an empty string if none is found.
func DetectEngine() string {
	for _, candidate := range ttsCandidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return path
		}
	}
	return ""
}

// Command returns the resolved speech command, or empty if none.
func (s *Speaker) Command() string {
	return s.command
}

// Speak speaks the given phrase through the configured engine. The engine
// runs under a context timeout so a wedged process cannot hold the caller.
func (s *Speaker) Speak(phrase string) error {
	if s.command == "" {
		return ErrNoEngine
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.timeoutMs)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.command, phrase)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("speech timeout after %dms", s.timeoutMs)
	}

	if err != nil {
		stderrStr := stderr.String()
		if stderrStr != "" {
			return fmt.Errorf("speech command failed: %w, stderr: %s", err, stderrStr)
		}
		return fmt.Errorf("speech command failed: %w", err)
	}

	return nil
}
