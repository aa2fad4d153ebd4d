package domain

import dErrors "dossier/pkg/domain-errors"

// Source tags the origin of a raw profile record. Invariant: the value must
// be one of the supported sources; records are unique per (subject, source).
//
// Usage: construct via ParseSource at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type Source string

// Supported raw-data sources. SourceMerged is reserved for the merger's own
// output and is never accepted from external input.
const (
	SourceDocument  Source = "document"
	SourceManual    Source = "manual"
	SourceProviderA Source = "provider_a"
	SourceProviderB Source = "provider_b"
	SourceMerged    Source = "merged"
)

// validSources is the single source of truth for valid source tags.
var validSources = map[Source]bool{
	SourceDocument:  true,
	SourceManual:    true,
	SourceProviderA: true,
	SourceProviderB: true,
	SourceMerged:    true,
}

// ParseSource constructs a Source from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseSource(s string) (Source, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "source cannot be empty")
	}
	src := Source(s)
	if !src.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid source")
	}
	return src, nil
}

// IsValid checks if the source is one of the supported enum values.
func (s Source) IsValid() bool {
	return validSources[s]
}

// Qualifies reports whether the mere presence of this source makes manual
// entry optional for the subject. Only document uploads and provider B
// payloads qualify; manual and provider A records do not.
func (s Source) Qualifies() bool {
	return s == SourceDocument || s == SourceProviderB
}

func (s Source) String() string {
	return string(s)
}
