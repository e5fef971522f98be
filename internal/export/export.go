// Package export renders summaries as markdown, HTML or docx downloads.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

// Supported export formats.
const (
	FormatMarkdown = "md"
	FormatHTML     = "html"
	FormatDocx     = "docx"
)

// IsSupportedFormat reports whether format names a known export format.
func IsSupportedFormat(format string) bool {
	switch format {
	case FormatMarkdown, FormatHTML, FormatDocx:
		return true
	}
	return false
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}

// ToMarkdown renders a summary as a markdown document. Bullet lines
// keep their structure as a markdown list.
func ToMarkdown(title, summary, marker string) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}
	for _, line := range strings.Split(summary, "\n") {
		if marker != "" && strings.HasPrefix(line, marker+" ") {
			b.WriteString("- " + strings.TrimPrefix(line, marker+" "))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ToHTML renders a summary as a standalone HTML fragment.
func ToHTML(title, summary, marker string) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(ToMarkdown(title, summary, marker)), &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}
