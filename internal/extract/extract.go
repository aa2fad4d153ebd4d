// Package extract defines the document text extraction boundary. The real
// converter (PDF/DOCX tooling) lives outside this service; ingestion only
// depends on the interface. Extraction failures are fatal to the single
// upload call, never to the subject's overall workflow.
package extract

import (
	"context"
	"unicode/utf8"

	dErrors "dossier/pkg/domain-errors"
)

// Extractor converts an uploaded binary document into plain text.
type Extractor interface {
	Extract(ctx context.Context, raw []byte) (string, error)
}

// PlainText accepts documents that already are UTF-8 text. It is the default
// wiring for development and tests; production swaps in the external
// converter client.
type PlainText struct{}

func NewPlainText() *PlainText {
	return &PlainText{}
}

func (PlainText) Extract(_ context.Context, raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", dErrors.New(dErrors.CodeValidation, "document is empty")
	}
	if !utf8.Valid(raw) {
		return "", dErrors.New(dErrors.CodeValidation, "document is not valid UTF-8 text")
	}
	return string(raw), nil
}
