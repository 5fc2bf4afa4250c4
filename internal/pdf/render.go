// Package pdf renders generated documents as A4 PDF files.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"

	"tg_job_hunter_bot/internal/logging"
)

// fontCandidates are common locations of a Cyrillic-capable TrueType font.
// When none exists the renderer falls back to a core font, which degrades
// non-Latin text but never fails the render.
var fontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
}

// Render lays out a title and body text on A4 pages and returns the PDF bytes.
func Render(title, text string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)

	family := "Helvetica"
	if path := findFont(); path != "" {
		doc.AddUTF8Font("unicode", "", path)
		family = "unicode"
	} else {
		logging.Warn("no unicode font found, cyrillic text may render incorrectly", logging.Fields{
			"event": "pdf_font_fallback",
		})
	}

	doc.AddPage()

	if title != "" {
		doc.SetFont(family, "", 16)
		doc.MultiCell(0, 8, title, "", "L", false)
		doc.Ln(4)
	}

	doc.SetFont(family, "", 11)
	for _, paragraph := range strings.Split(text, "\n") {
		if strings.TrimSpace(paragraph) == "" {
			doc.Ln(4)
			continue
		}
		doc.MultiCell(0, 6, paragraph, "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func findFont() string {
	for _, path := range fontCandidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
