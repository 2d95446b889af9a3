// Package extract converts uploaded document bytes to plain text.
// Unknown or unreadable input degrades to an empty string rather than
// failing: the pipeline treats emptiness downstream.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/rodrwan/webex-relay/internal/observability"
)

// Format tags the attachment so the right reader is chosen.
type Format string

const (
	FormatDocx Format = "docx"
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
)

// DetectFormat maps a filename to a Format. Attachments without a
// recognizable extension fall back to a plain-text read.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		return FormatDocx
	case ".pdf":
		return FormatPDF
	default:
		return FormatText
	}
}

// Text extracts plain text from data according to format.
func Text(data []byte, format Format) string {
	switch format {
	case FormatDocx:
		return docxText(data)
	case FormatPDF:
		return pdfText(data)
	default:
		return string(data)
	}
}

// docxText reads word/document.xml out of the docx container and
// collects run text, with one line per paragraph.
func docxText(data []byte) string {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		observability.Warn("docx_open_failed", observability.Fields{"error": err.Error()})
		return ""
	}
	var doc io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc, err = f.Open()
			break
		}
	}
	if doc == nil || err != nil {
		return ""
	}
	defer doc.Close()

	var out strings.Builder
	dec := xml.NewDecoder(doc)
	inRun := false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inRun = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inRun = false
			case "p":
				out.WriteByte('\n')
			}
		case xml.CharData:
			if inRun {
				out.Write(t)
			}
		}
	}
	return out.String()
}

// pdfText extracts text via the pdf library. The library panics on
// some malformed files, so the recovery here is part of the degrade-
// to-empty contract.
func pdfText(data []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			observability.Warn("pdf_extract_panic", observability.Fields{"panic": r})
			text = ""
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		observability.Warn("pdf_open_failed", observability.Fields{"error": err.Error()})
		return ""
	}
	rd, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rd); err != nil {
		return ""
	}
	return buf.String()
}
