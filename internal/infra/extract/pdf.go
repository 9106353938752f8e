package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	domain "github.com/bryanwahyu/finsight-ai/internal/domain/analysis"
)

// compile-time check terhadap port
var _ domain.Extractor = (*PDF)(nil)

// PDF ekstraksi teks sekuensial polos, tanpa OCR / layout.
type PDF struct {
	// MaxChars memotong hasil supaya prompt tetap muat di context model. 0 = tanpa batas.
	MaxChars int
}

func NewPDF(maxChars int) *PDF {
	return &PDF{MaxChars: maxChars}
}

func (e *PDF) ExtractText(ctx context.Context, path string) (text string, err error) {
	// parser library panik pada referensi objek yang rusak walau Open sukses;
	// tangkap di sini supaya dokumen korup tetap jadi error extraction biasa
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: malformed document: %v", domain.ErrExtraction, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", domain.ErrExtraction, path, err)
	}
	defer f.Close()

	body, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: read text: %v", domain.ErrExtraction, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return "", fmt.Errorf("%w: read text: %v", domain.ErrExtraction, err)
	}

	text = strings.TrimSpace(buf.String())
	if text == "" {
		return "", fmt.Errorf("%w: document has no extractable text", domain.ErrExtraction)
	}
	return truncate(text, e.MaxChars), nil
}

// truncate potong teks maksimal max byte, mundur ke batas rune supaya
// tidak menyisakan byte UTF-8 parsial di ujung.
func truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	return text[:max]
}
