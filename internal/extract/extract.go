package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnsupportedFormat is returned for declared types this extractor does not
// handle. It is a distinct condition from an unreadable document.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ExtractTextFromBytes converts an in-memory document into best-effort plain
// text. Libraries used: github.com/ledongthuc/pdf (PDF) and
// github.com/nguyenthenguyen/docx (DOCX). A structurally valid but empty
// document yields ("", nil); a corrupt container yields a wrapped error.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch normalizeMimeType(mimeType, fileName) {
	case mimePDF:
		return extractPDF(data)
	case mimeDOCX:
		return extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, strings.TrimSpace(mimeType))
	}
}

// ExtractFile extracts text from a document on disk, dispatching on the file
// extension. A missing file yields ("", nil) so callers can tell "nothing
// extracted" apart from "document unreadable".
func ExtractFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return ExtractTextFromBytes(ctx, data, mimeFromExt(path), filepath.Base(path))
}

// extractPDF concatenates page texts with newline separators. Pages whose
// plain-text layer is empty fall back to row-based extraction, which recovers
// positioned text fragments that GetPlainText misses.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			text = pageTextByRows(page)
		}
		pages = append(pages, text)
	}
	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}

func pageTextByRows(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}
	var sb strings.Builder
	for _, row := range rows {
		for _, word := range row.Content {
			sb.WriteString(word.S)
			sb.WriteString(" ")
		}
	}
	return strings.TrimSpace(sb.String())
}

// extractDOCX reads the container from memory and reduces word/document.xml
// to non-empty paragraph texts joined with newlines.
func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	return reduceParagraphs(doc.Editable().GetContent()), nil
}

func reduceParagraphs(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var (
		paragraphs []string
		current    strings.Builder
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return strings.TrimSpace(raw)
		}
		switch t := tok.(type) {
		case xml.CharData:
			current.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" {
				if text := strings.TrimSpace(current.String()); text != "" {
					paragraphs = append(paragraphs, text)
				}
				current.Reset()
			}
		}
	}
	if text := strings.TrimSpace(current.String()); text != "" {
		paragraphs = append(paragraphs, text)
	}
	return strings.Join(paragraphs, "\n")
}

// normalizeMimeType resolves the declared type, falling back to the file
// extension for the generic container types browsers report for DOCX.
func normalizeMimeType(mimeType, fileName string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case mimePDF, mimeDOCX:
		return clean
	case "", "application/zip", "application/octet-stream":
		return mimeFromExt(fileName)
	default:
		return clean
	}
}

func mimeFromExt(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return mimePDF
	case ".docx":
		return mimeDOCX
	default:
		return ""
	}
}
