package scorer

import (
	"strings"

	"github.com/stellarlinkco/invisiblebench/internal/transcript"
)

type phraseHit struct {
	turn   int
	phrase string
}

// findPhrases scans turns for any of the given phrases,
// case-insensitively, and returns one hit per matching turn/phrase pair.
func findPhrases(turns []transcript.Turn, phrases []string) []phraseHit {
	var out []phraseHit
	for _, t := range turns {
		content := strings.ToLower(t.Content)
		for _, p := range phrases {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if strings.Contains(content, strings.ToLower(p)) {
				out = append(out, phraseHit{turn: t.Turn, phrase: p})
			}
		}
	}
	return out
}

func containsAnyFold(s string, phrases []string) (string, bool) {
	lower := strings.ToLower(s)
	for _, p := range phrases {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(p)) {
			return p, true
		}
	}
	return "", false
}

func truncateEvidence(s string) string {
	const max = 160
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
