package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// TextProcessor provides utilities for processing text that ends up in the
// message body
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// SanitizeUTF8 drops byte sequences that are not valid UTF-8
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	clean := strings.ToValidUTF8(text, "")
	tp.logger.Debug("Dropped invalid UTF-8",
		zap.Int("bytes", len(text)-len(clean)))
	return clean
}

// NormalizeName converts a file name to NFC so names written on
// decomposing file systems render like the rest of the message
func (tp *TextProcessor) NormalizeName(name string) string {
	return norm.NFC.String(tp.SanitizeUTF8(name))
}

// ProcessText sanitizes and trims text in one operation
func (tp *TextProcessor) ProcessText(text string) string {
	return strings.TrimSpace(tp.SanitizeUTF8(text))
}
