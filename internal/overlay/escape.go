package overlay

import "strings"

// EscapeText protects cue text against the engine's text-drawing syntax.
// Order matters: backslashes first so later escapes are not double-escaped,
// then quotes, colons, semicolons, percent signs, and finally newlines.
func EscapeText(value string) string {
	value = strings.ReplaceAll(value, "\r\n", "\n")
	value = strings.ReplaceAll(value, "\r", "\n")

	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	value = strings.ReplaceAll(value, `:`, `\:`)
	value = strings.ReplaceAll(value, `;`, `\;`)
	value = strings.ReplaceAll(value, `%`, `\%`)
	value = strings.ReplaceAll(value, "\n", `\n`)
	return value
}

// escapeExpr protects a time expression embedded as a quoted filter value.
func escapeExpr(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `:`, `\:`)
	value = strings.ReplaceAll(value, `,`, `\,`)
	return value
}
