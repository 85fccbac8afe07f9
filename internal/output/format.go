// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tarefa/internal/task"
)

// FormatTask formats a task line for the list.
// Format: "{N:>4}  {TEXT}\n" (4-wide right-aligned number, two spaces, text)
func FormatTask(w io.Writer, num int, t task.Task) {
	fmt.Fprintf(w, "%4d  %s\n", num, normalizeText(t.Text))
}

// FormatTaskWithKey is FormatTask followed by the task key.
// Format: "{N:>4}  {TEXT}  [{KEY}]\n"
func FormatTaskWithKey(w io.Writer, num int, t task.Task) {
	fmt.Fprintf(w, "%4d  %s  [%s]\n", num, normalizeText(t.Text), t.Key)
}

// normalizeText normalizes task text for single-line display.
// - Newlines are replaced with spaces
// - Empty or whitespace-only text becomes "(untitled)"
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}

// Pluralize returns "1 task", "2 tasks", ...
func Pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
