package export

import (
	"fmt"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	docxFont      = "Times New Roman"
	docxFontSize  = 13
	docxTitleSize = 16
)

// WriteDocx writes the summary as a styled Word document at path. The
// title becomes a bold heading and each summary line its own paragraph.
func WriteDocx(title, summary, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create docx: %w", err)
	}

	if title != "" {
		addRun(doc.AddParagraph(""), title, true, docxTitleSize)
		doc.AddParagraph("")
	}

	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		addRun(doc.AddParagraph(""), line, false, docxFontSize)
	}
	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	return nil
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(docxFont).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
