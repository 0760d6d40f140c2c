package ai

import (
	"strings"
	"testing"
)

func TestCleanReply(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  plain reply  ", "plain reply"},
		{`"quoted reply"`, "quoted reply"},
		{"<think>internal chain</think>actual answer", "actual answer"},
		{"“smart quoted”", "smart quoted"},
	}
	for _, c := range cases {
		if got := CleanReply(c.in); got != c.want {
			t.Errorf("CleanReply(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	long := strings.Repeat("a", 3000)
	if got := CleanReply(long); !strings.HasSuffix(got, "[truncated]") {
		t.Error("overlong reply not truncated")
	}
}

func TestIsGarbageResponse(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"<html><body>err</body></html>", true},
		{"Request not allowed", true},
		{"ok", true},
		{"a perfectly fine reply", false},
	}
	for _, c := range cases {
		if got := isGarbageResponse(c.in); got != c.want {
			t.Errorf("isGarbageResponse(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
