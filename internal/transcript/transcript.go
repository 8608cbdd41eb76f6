// Package transcript loads scripted conversation transcripts. A
// transcript is an ordered list of turns; it is loaded once per
// evaluation and treated as read-only by everything downstream.
package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Turn is a single message in a conversation transcript.
type Turn struct {
	Turn    int    `json:"turn"`
	Role    string `json:"role"`
	Content string `json:"content"`
	Error   bool   `json:"error,omitempty"`
}

// Load reads a transcript from a JSON array or JSONL file.
func Load(path string) ([]Turn, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("transcript: read %q: %w", path, err)
	}

	turns, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("transcript: parse %q: %w", path, err)
	}
	return turns, nil
}

// Parse decodes a transcript from raw bytes. A leading '[' selects the
// JSON-array form; anything else is treated as JSONL.
func Parse(b []byte) ([]Turn, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty transcript")
	}

	var turns []Turn
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &turns); err != nil {
			return nil, err
		}
	} else {
		sc := bufio.NewScanner(bytes.NewReader(trimmed))
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		line := 0
		for sc.Scan() {
			line++
			raw := strings.TrimSpace(sc.Text())
			if raw == "" {
				continue
			}
			var t Turn
			if err := json.Unmarshal([]byte(raw), &t); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			turns = append(turns, t)
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
	}

	if err := Validate(turns); err != nil {
		return nil, err
	}
	return turns, nil
}

// Validate checks turn records for consistency.
func Validate(turns []Turn) error {
	if len(turns) == 0 {
		return fmt.Errorf("no turns")
	}
	for i, t := range turns {
		role := strings.TrimSpace(t.Role)
		if role != "user" && role != "assistant" {
			return fmt.Errorf("turns[%d]: invalid role %q", i, t.Role)
		}
		if t.Turn < 0 {
			return fmt.Errorf("turns[%d]: turn must be >= 0", i)
		}
	}
	return nil
}

// AssistantTurns returns only the assistant turns, in order.
func AssistantTurns(turns []Turn) []Turn {
	out := make([]Turn, 0, len(turns))
	for _, t := range turns {
		if strings.TrimSpace(t.Role) == "assistant" {
			out = append(out, t)
		}
	}
	return out
}
