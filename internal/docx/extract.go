// Package docx reads paragraphs out of Word documents and writes plain
// transcript documents.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	documentPart = "word/document.xml"
	// maxDocumentSize caps the decompressed body to keep zip bombs out.
	maxDocumentSize = 64 << 20
)

// ErrNotDocx is returned for input that is not a Word document container.
var ErrNotDocx = errors.New("not a docx document")

// ExtractParagraphs returns the document body paragraphs in order. Line
// breaks inside a paragraph start a new paragraph. Empty paragraphs are kept.
func ExtractParagraphs(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	f := findZipFile(zr, documentPart)
	if f == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrNotDocx, documentPart)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", documentPart, err)
	}
	defer rc.Close()

	body, err := io.ReadAll(io.LimitReader(rc, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", documentPart, err)
	}
	if len(body) > maxDocumentSize {
		return nil, fmt.Errorf("%s exceeds %d bytes", documentPart, maxDocumentSize)
	}

	return parseParagraphs(body)
}

func findZipFile(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if strings.EqualFold(strings.TrimSpace(f.Name), name) {
			return f
		}
	}
	return nil
}

func parseParagraphs(body []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var (
		depth  int
		inText bool
		text   strings.Builder
		out    []string
	)

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("%w: parse %s: %v", ErrNotDocx, documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				// Paragraphs nested in text boxes are folded into the outer one.
				if depth == 0 {
					text.Reset()
				}
				depth++
			case "t":
				inText = depth > 0
			case "tab":
				if depth > 0 {
					text.WriteByte('\t')
				}
			case "br", "cr":
				if depth > 0 {
					out = append(out, text.String())
					text.Reset()
				}
			}
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if depth == 0 {
					continue
				}
				depth--
				if depth == 0 {
					out = append(out, text.String())
					text.Reset()
				}
			}
		}
	}

	return out, nil
}
