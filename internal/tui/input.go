package tui

import (
	"strings"
	"unicode/utf8"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 200

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxInputLen {
				return text
			}
			return text + key
		}
		return text
	}
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// maskSecret replaces every rune with a bullet for password fields.
func maskSecret(s string) string {
	return strings.Repeat("•", utf8.RuneCountInString(s))
}

// renderField renders a labeled form field with cursor and placeholder.
// Masked fields show bullets instead of the typed value.
func renderField(label, value, placeholder string, focused, masked bool) string {
	shown := value
	if masked {
		shown = maskSecret(value)
	}

	name := dimStyle.Render(label)
	if focused {
		name = inputPromptStyle.Render(label)
	}

	var body string
	switch {
	case shown == "" && focused:
		body = accentStyle.Render("█")
	case shown == "":
		body = inputPlaceholderStyle.Render(placeholder)
	case focused:
		body = normalStyle.Render(shown) + accentStyle.Render("█")
	default:
		body = normalStyle.Render(shown)
	}

	return "  " + name + "  " + body
}
