package tokenizer

import (
	"testing"

	"github.com/pkoukk/tiktoken-go"
)

func TestEstimateTokens(t *testing.T) {
	testCases := []struct {
		name     string
		size     int64
		expected int
	}{
		{name: "negative", size: -10, expected: 0},
		{name: "zero", size: 0, expected: 0},
		{name: "one byte rounds up", size: 1, expected: 1},
		{name: "exact multiple", size: 200, expected: 50},
		{name: "rounds up remainder", size: 201, expected: 51},
		{name: "six thousand tokens", size: 24000, expected: 6000},
		{name: "eighty thousand tokens", size: 320000, expected: 80000},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if result := EstimateTokens(testCase.size); result != testCase.expected {
				t.Fatalf("EstimateTokens(%d) = %d, expected %d", testCase.size, result, testCase.expected)
			}
		})
	}
}

// requireEncoding skips when tiktoken cannot load the model's encoding,
// which happens offline because encodings are downloaded on first use.
func requireEncoding(t *testing.T, model string) {
	t.Helper()
	if _, err := tiktoken.EncodingForModel(model); err != nil {
		t.Skipf("tiktoken encoding for %s unavailable: %v", model, err)
	}
}

func TestNewCounterDefault(t *testing.T) {
	requireEncoding(t, DefaultModel)
	counter, model, err := NewCounter(Config{Model: "gpt-4o"})
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	if counter == nil {
		t.Fatalf("expected non-nil counter")
	}
	if model != "gpt-4o" {
		t.Fatalf("expected model gpt-4o, got %q", model)
	}
	tokens, err := counter.CountString("hello world")
	if err != nil {
		t.Fatalf("CountString error: %v", err)
	}
	if tokens <= 0 {
		t.Fatalf("expected positive token count, got %d", tokens)
	}
}
