// Package document loads input documents as one flattened string.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

// Load reads the file at path fully and strips every line break, producing
// one long string. Files ending in .pdf are converted to plain text first.
func Load(path string) (string, error) {
	var (
		text string
		err  error
	)
	if IsPDF(path) {
		text, err = readPDF(path)
	} else {
		text, err = readText(path)
	}
	if err != nil {
		return "", fmt.Errorf("load %s: %w", path, err)
	}
	return Flatten(text), nil
}

// Flatten removes line breaks from text.
func Flatten(text string) string {
	return lineBreaks.Replace(text)
}

// IsPDF reports whether name looks like a PDF file.
func IsPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

func readText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return "", err
	}
	defer f.Close()
	return ExtractPDF(r), nil
}

// ExtractPDF concatenates the plain text of every readable page.
// Pages that fail to extract are skipped.
func ExtractPDF(r *pdf.Reader) string {
	var b strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}
