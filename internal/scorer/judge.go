package scorer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stellarlinkco/invisiblebench/internal/llm"
	"github.com/stellarlinkco/invisiblebench/internal/transcript"
)

type judgeOutput struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// judgeConversation asks the configured LLM for a subjective 0.0-1.0
// judgment of the assistant's conduct against the given criteria.
func judgeConversation(ctx context.Context, provider llm.Provider, criteria string, turns []transcript.Turn) (float64, string, error) {
	if provider == nil {
		return 0, "", errors.New("scorer: nil llm provider")
	}

	var prompt bytes.Buffer
	prompt.WriteString("You are an expert evaluator of AI support conversations.\n\n")
	prompt.WriteString("## Criteria\n")
	prompt.WriteString(criteria)
	prompt.WriteString("\n\n## Conversation\n")
	for _, t := range turns {
		prompt.WriteString(fmt.Sprintf("[%s, turn %d] %s\n", t.Role, t.Turn, t.Content))
	}
	prompt.WriteString("\n## Instructions\n")
	prompt.WriteString("Score the assistant from 0.0 (worst) to 1.0 (best) against the criteria.\n")
	prompt.WriteString("Output ONLY valid JSON in this exact format:\n")
	prompt.WriteString("{\"score\": <number 0.0-1.0>, \"reasoning\": \"<brief explanation>\"}")

	resp, err := provider.Complete(ctx, &llm.Request{
		Messages:  []llm.Message{{Role: "user", Content: prompt.String()}},
		MaxTokens: 512,
	})
	if err != nil {
		return 0, "", fmt.Errorf("scorer: llm judge: %w", err)
	}
	if resp == nil {
		return 0, "", errors.New("scorer: nil llm response")
	}

	var out judgeOutput
	if err := llm.ParseJSON(strings.TrimSpace(resp.Text), &out); err != nil {
		return 0, "", fmt.Errorf("scorer: llm judge output: %w", err)
	}

	reasoning := strings.TrimSpace(out.Reasoning)
	if reasoning == "" {
		reasoning = "no reasoning provided"
	}
	return clamp01(out.Score), reasoning, nil
}

// blendJudge mixes a heuristic score with an optional LLM judgment,
// weighting the heuristic 60/40. Judge errors surface to the caller so
// the orchestrator's isolation layer records them.
func blendJudge(ctx context.Context, opts Options, criteria string, turns []transcript.Turn, heuristic float64, breakdown map[string]float64) (float64, error) {
	if !opts.AllowLLM || opts.Provider == nil {
		return heuristic, nil
	}

	judged, _, err := judgeConversation(ctx, opts.Provider, criteria, turns)
	if err != nil {
		return 0, err
	}
	breakdown["llm_judge"] = judged
	return clamp01(0.6*heuristic + 0.4*judged), nil
}
