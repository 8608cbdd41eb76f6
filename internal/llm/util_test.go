package llm

import "testing"

type parsed struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want float64
		ok   bool
	}{
		{"bare object", `{"score": 0.9}`, 0.9, true},
		{"fenced", "```json\n{\"score\": 0.5}\n```", 0.5, true},
		{"fenced no lang", "```\n{\"score\": 0.25}\n```", 0.25, true},
		{"prose around", `Sure! Here it is: {"score": 0.1} hope that helps`, 0.1, true},
		{"empty", "", 0, false},
		{"no object", "just words", 0, false},
		{"broken json", `{"score": }`, 0, false},
	}

	for _, tc := range cases {
		var out parsed
		err := ParseJSON(tc.in, &out)
		if tc.ok {
			if err != nil {
				t.Errorf("%s: ParseJSON: %v", tc.name, err)
				continue
			}
			if out.Score != tc.want {
				t.Errorf("%s: score: got %v want %v", tc.name, out.Score, tc.want)
			}
		} else if err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}
