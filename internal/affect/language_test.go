package affect_test

import (
	"testing"

	"github.com/leabeefollowme/chat-widget-backend/internal/affect"
)

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"hello there", "en"},
		{"こんにちは", "jp"},
		{"カワイイ", "jp"},
		{"你好吗", "zh"},
		{"안녕하세요", "kr"},
		{"привет, как дела", "ru"},
		{"ПРИВЕТ", "ru"},
		{"", "en"},
		{"12345 !?", "en"},
		{"héllo façade", "en"},
	}
	for _, c := range cases {
		if got := affect.DetectLanguage(c.text); got != c.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}

func TestDetectLanguageKanaWinsOverIdeographs(t *testing.T) {
	// Japanese text routinely mixes kanji with kana; the kana rule runs
	// first so such text must come back jp even when a CJK ideograph
	// appears earlier in the string.
	if got := affect.DetectLanguage("日本語のテスト"); got != "jp" {
		t.Fatalf("mixed kanji+kana = %q, want jp", got)
	}
	if got := affect.DetectLanguage("日本語"); got != "zh" {
		t.Fatalf("ideographs only = %q, want zh", got)
	}
}
