package scorer

import (
	"context"
	"errors"

	"github.com/stellarlinkco/invisiblebench/internal/llm"
	"github.com/stellarlinkco/invisiblebench/internal/transcript"
)

func userTurn(n int, content string) transcript.Turn {
	return transcript.Turn{Turn: n, Role: "user", Content: content}
}

func assistantTurn(n int, content string) transcript.Turn {
	return transcript.Turn{Turn: n, Role: "assistant", Content: content}
}

// conversation alternates user/assistant starting at turn 0.
func conversation(contents ...string) []transcript.Turn {
	out := make([]transcript.Turn, 0, len(contents))
	for i, c := range contents {
		if i%2 == 0 {
			out = append(out, userTurn(i, c))
		} else {
			out = append(out, assistantTurn(i, c))
		}
	}
	return out
}

type fakeProvider struct {
	text string
	err  error

	calls int
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	p.calls++
	if req == nil {
		return nil, errors.New("fake: nil request")
	}
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{Text: p.text, StopReason: "end_turn"}, nil
}
