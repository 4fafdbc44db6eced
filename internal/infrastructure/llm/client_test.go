package llm

import (
	"context"
	"errors"
	"testing"
)

func TestNormalizeBaseURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "https://api.avalai.ir/v1"},
		{"  ", "https://api.avalai.ir/v1"},
		{"http://api.avalai.ir/v1", "https://api.avalai.ir/v1"},
		{"https://api.avalai.ir/v1", "https://api.avalai.ir/v1"},
		{"api.avalai.ir/v1", "https://api.avalai.ir/v1"},
		{"//api.avalai.ir/v1", "https://api.avalai.ir/v1"},
	}
	for _, tc := range cases {
		if got := normalizeBaseURL(tc.in); got != tc.want {
			t.Fatalf("normalizeBaseURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDisabledClient(t *testing.T) {
	c := &Client{}
	if c.Enabled() {
		t.Fatalf("client without api must be disabled")
	}
	if _, err := c.Complete(context.Background(), "", "hi"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("disabled client must return ErrDisabled, got %v", err)
	}

	var nilClient *Client
	if nilClient.Enabled() {
		t.Fatalf("nil client must be disabled")
	}
	if nilClient.Model() != "gpt-4o-mini" {
		t.Fatalf("nil client keeps the default model name")
	}
}

func TestExtractJSON(t *testing.T) {
	body, ok := ExtractJSON("```json\n{\"a\": 1}\n```")
	if !ok || body != "{\"a\": 1}" {
		t.Fatalf("fenced JSON must be extracted, got %q %v", body, ok)
	}

	body, ok = ExtractJSON("prefix {\"nested\": {\"b\": 2}} suffix")
	if !ok || body != "{\"nested\": {\"b\": 2}}" {
		t.Fatalf("outermost braces win, got %q", body)
	}

	if _, ok := ExtractJSON("no json here"); ok {
		t.Fatalf("text without braces has no JSON")
	}
	if _, ok := ExtractJSON("} backwards {"); ok {
		t.Fatalf("reversed braces are not JSON")
	}
}
