package tui

import (
	"strings"
	"testing"
)

func TestEditRuneAddCharacters(t *testing.T) {
	tests := []struct {
		name  string
		start string
		key   string
		want  string
	}{
		{"append to empty", "", "a", "a"},
		{"append letter", "jo", "a", "joa"},
		{"append digit", "crm", "1", "crm1"},
		{"append space", "ana", " ", "ana "},
		{"append at sign", "ana", "@", "ana@"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := editRune(tc.start, tc.key)
			if got != tc.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tc.start, tc.key, got, tc.want)
			}
		})
	}
}

func TestEditRuneBackspace(t *testing.T) {
	tests := []struct {
		name  string
		start string
		want  string
	}{
		{"backspace on single char", "a", ""},
		{"backspace on longer string", "hello", "hell"},
		{"backspace on empty does nothing", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := editRune(tc.start, "backspace")
			if got != tc.want {
				t.Errorf("editRune(%q, 'backspace') = %q, want %q", tc.start, got, tc.want)
			}
		})
	}
}

func TestEditRuneBackspaceMultibyte(t *testing.T) {
	// Backspace should remove a full rune, not just one byte.
	got := editRune("José", "backspace")
	if got != "Jos" {
		t.Errorf("editRune ending with multi-byte rune: = %q, want %q", got, "Jos")
	}
}

func TestEditRuneIgnoresNonPrintableKeys(t *testing.T) {
	nonPrintable := []string{
		"enter", "esc", "up", "down", "left", "right",
		"ctrl+c", "tab", "shift+tab", "f1", "pgup", "home",
	}

	original := "hello"
	for _, key := range nonPrintable {
		t.Run(key, func(t *testing.T) {
			got := editRune(original, key)
			if got != original {
				t.Errorf("editRune(%q, %q) = %q, want unchanged", original, key, got)
			}
		})
	}
}

func TestEditRuneMaxInputLen(t *testing.T) {
	atLimit := strings.Repeat("a", maxInputLen)
	belowLimit := strings.Repeat("a", maxInputLen-1)

	tests := []struct {
		name string
		text string
		key  string
		want string
	}{
		{"at limit rejects new char", atLimit, "b", atLimit},
		{"below limit accepts new char", belowLimit, "b", belowLimit + "b"},
		{"at limit backspace still works", atLimit, "backspace", atLimit[:len(atLimit)-1]},
		{"at limit non-printable ignored", atLimit, "enter", atLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := editRune(tt.text, tt.key)
			if got != tt.want {
				t.Errorf("editRune(..., %q): got %d runes, want %d", tt.key, len([]rune(got)), len([]rune(tt.want)))
			}
		})
	}
}

func TestTruncStr(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"under limit", "hello", 10, "hello"},
		{"at limit", "hello", 5, "hello"},
		{"over limit", "hello world", 5, "hell…"},
		{"empty string", "", 5, ""},
		{"multi-byte at boundary", "cafés are nice", 5, "café…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncStr(tt.s, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncStr(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestMaskSecret(t *testing.T) {
	if got := maskSecret("senha123"); got != strings.Repeat("•", 8) {
		t.Errorf("maskSecret = %q, want 8 bullets", got)
	}
	if got := maskSecret(""); got != "" {
		t.Errorf("maskSecret of empty = %q, want empty", got)
	}
	// Rune-aware: multibyte password masks one bullet per rune
	if got := maskSecret("señal"); got != strings.Repeat("•", 5) {
		t.Errorf("maskSecret multibyte = %q, want 5 bullets", got)
	}
}

func TestRenderFieldMasksValue(t *testing.T) {
	out := renderField("password", "senha123", "", true, true)
	if strings.Contains(out, "senha123") {
		t.Errorf("masked field leaked value: %q", out)
	}
	if !strings.Contains(out, "•") {
		t.Errorf("masked field missing bullets: %q", out)
	}
}

func TestRenderFieldPlaceholderWhenEmpty(t *testing.T) {
	out := renderField("email", "", "you@clinimed.app", false, false)
	if !strings.Contains(out, "you@clinimed.app") {
		t.Errorf("unfocused empty field should show placeholder: %q", out)
	}
	// Focused empty field shows the cursor instead
	out = renderField("email", "", "you@clinimed.app", true, false)
	if !strings.Contains(out, "█") {
		t.Errorf("focused empty field should show cursor: %q", out)
	}
}

func TestTruncateToHeightLimitsLines(t *testing.T) {
	input := "line1\nline2\nline3\nline4\nline5\n"
	result := truncateToHeight(input, 3)

	lines := strings.Count(result, "\n")
	if lines > 3 {
		t.Errorf("truncateToHeight(5 lines, 3) produced %d newlines, want <= 3", lines)
	}
	if !strings.Contains(result, "line1") {
		t.Errorf("truncateToHeight result missing first line: %q", result)
	}
	if strings.Contains(result, "line4") {
		t.Errorf("truncateToHeight result should not contain line4: %q", result)
	}
}

func TestTruncateToHeightReturnsFullStringWhenWithinLimit(t *testing.T) {
	input := "line1\nline2\nline3\n"
	if result := truncateToHeight(input, 10); result != input {
		t.Errorf("truncateToHeight with maxLines > linecount: got %q, want %q", result, input)
	}
}

func TestTruncateToHeightZeroMaxReturnsAll(t *testing.T) {
	input := "line1\nline2\nline3\n"
	if result := truncateToHeight(input, 0); result != input {
		t.Errorf("truncateToHeight with maxLines=0 should return input unchanged, got %q", result)
	}
}
