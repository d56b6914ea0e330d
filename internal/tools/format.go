package tools

import (
	"fmt"
	"strings"
)

// previewLimit caps preview snippets in formatted output.
const previewLimit = 100

// doc accumulates a formatted text result. Formatting is deterministic:
// identical remote responses always render identical text.
type doc struct {
	b strings.Builder
}

func (d *doc) title(text string) {
	fmt.Fprintf(&d.b, "# %s\n\n", text)
}

func (d *doc) section(text string) {
	fmt.Fprintf(&d.b, "## %s\n\n", text)
}

func (d *doc) field(label string, value interface{}) {
	fmt.Fprintf(&d.b, "**%s**: %v\n", label, value)
}

func (d *doc) line(format string, args ...interface{}) {
	fmt.Fprintf(&d.b, format+"\n", args...)
}

func (d *doc) blank() {
	d.b.WriteString("\n")
}

func (d *doc) list(items []string) {
	for _, item := range items {
		fmt.Fprintf(&d.b, "- %s\n", item)
	}
	if len(items) > 0 {
		d.b.WriteString("\n")
	}
}

func (d *doc) numbered(items []string) {
	for i, item := range items {
		fmt.Fprintf(&d.b, "%d. %s\n", i+1, item)
	}
	if len(items) > 0 {
		d.b.WriteString("\n")
	}
}

func (d *doc) code(text string) {
	fmt.Fprintf(&d.b, "```\n%s\n```\n\n", strings.TrimRight(text, "\n"))
}

// String returns the document with a single trailing newline.
func (d *doc) String() string {
	return strings.TrimRight(d.b.String(), "\n") + "\n"
}

// preview truncates text to previewLimit characters, appending an ellipsis
// marker when truncation occurred.
func preview(text string) string {
	if len(text) <= previewLimit {
		return text
	}
	return text[:previewLimit] + "..."
}

// percent renders a 0..1 confidence as a percentage string.
func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}
