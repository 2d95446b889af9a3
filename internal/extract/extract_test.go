package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"steps.docx":   FormatDocx,
		"STEPS.DOCX":   FormatDocx,
		"manual.pdf":   FormatPDF,
		"notes.txt":    FormatText,
		"readme.md":    FormatText,
		"no-extension": FormatText,
	}
	for name, want := range cases {
		if got := DetectFormat(name); got != want {
			t.Fatalf("DetectFormat(%q) = %s, want %s", name, got, want)
		}
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestDocxText(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Step1 :- launch :- https://x.test/</w:t></w:r></w:p>
    <w:p><w:r><w:t>Step2 :- click on </w:t></w:r><w:r><w:t>Foo</w:t></w:r></w:p>
  </w:body>
</w:document>`
	got := Text(buildDocx(t, doc), FormatDocx)
	if !strings.Contains(got, "Step1 :- launch :- https://x.test/") {
		t.Fatalf("missing first paragraph: %q", got)
	}
	// Split runs within one paragraph join without a break.
	if !strings.Contains(got, "Step2 :- click on Foo") {
		t.Fatalf("runs should concatenate: %q", got)
	}
	if !strings.Contains(got, "https://x.test/\n") {
		t.Fatalf("paragraphs should end with a newline: %q", got)
	}
}

func TestDocxUnreadableDegradesToEmpty(t *testing.T) {
	if got := Text([]byte("this is not a zip"), FormatDocx); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestPDFUnreadableDegradesToEmpty(t *testing.T) {
	if got := Text([]byte("%PDF-1.4 truncated garbage"), FormatPDF); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestPlainTextPassthrough(t *testing.T) {
	if got := Text([]byte("Step1 :- Done"), FormatText); got != "Step1 :- Done" {
		t.Fatalf("unexpected text: %q", got)
	}
}
