package docx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	wml "github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/subflow/internal/subtitle"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 13
	titleSize = 16
)

// WriteTranscript renders cues as a plain transcript: a bold title followed
// by one paragraph per cue. Timestamps are dropped and a cue repeating the
// previous one is skipped.
func WriteTranscript(title string, cues []subtitle.Cue) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("new document: %w", err)
	}

	if title = strings.TrimSpace(title); title != "" {
		addStyledRun(doc.AddParagraph(""), title, true, titleSize)
		doc.AddParagraph("")
	}

	prev := ""
	for _, c := range cues {
		text := strings.TrimSpace(c.Text())
		if text == "" || text == prev {
			continue
		}
		prev = text
		addStyledRun(doc.AddParagraph(""), text, false, fontSize)
	}

	// godocx only saves to a path.
	dir, err := os.MkdirTemp("", "subflow-docx-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "transcript.docx")
	if err := doc.SaveTo(path); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}

func addStyledRun(p *wml.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
