package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Tagaingne/dream-synthesizer/domain"
)

// ExtractScores pulls the first JSON-shaped object out of unstructured
// model output and decodes it into a flat label-to-number mapping.
// Extraction is greedy, first '{' to last '}', not a balanced-brace scan:
// tolerant of chatty preambles and postambles, at the cost of
// mis-delimiting when unrelated braces surround the object.
func ExtractScores(raw string) (map[string]float64, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: %q", domain.ErrNoStructuredData, snippet(raw))
	}

	var scores map[string]float64
	if err := json.Unmarshal([]byte(raw[start:end+1]), &scores); err != nil {
		return nil, fmt.Errorf("%w: %v in %q", domain.ErrMalformedStructuredData, err, snippet(raw))
	}
	return scores, nil
}

// snippet keeps the offending model output visible in errors without
// flooding logs with an entire completion.
func snippet(s string) string {
	const max = 200
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
