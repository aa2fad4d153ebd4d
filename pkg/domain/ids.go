package domain

import (
	"github.com/google/uuid"

	dErrors "dossier/pkg/domain-errors"
)

// SubjectID identifies the employee whose profile is being assembled and
// enriched. Invariant: must be a valid, non-nil UUID.
//
// Usage: construct via ParseSubjectID at trust boundaries; direct casting
// bypasses validation.
type SubjectID uuid.UUID

// ParseSubjectID constructs a SubjectID from external input.
//
// Errors: returns CodeInvalidInput when the value is empty, malformed, or the
// nil UUID; no other errors are expected.
func ParseSubjectID(s string) (SubjectID, error) {
	if s == "" {
		return SubjectID{}, dErrors.New(dErrors.CodeInvalidInput, "subject id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return SubjectID{}, dErrors.New(dErrors.CodeInvalidInput, "subject id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return SubjectID{}, dErrors.New(dErrors.CodeInvalidInput, "subject id cannot be the nil UUID")
	}
	return SubjectID(parsed), nil
}

// NewSubjectID returns a freshly generated SubjectID.
func NewSubjectID() SubjectID {
	return SubjectID(uuid.New())
}

func (id SubjectID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the ID is the zero value.
func (id SubjectID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id SubjectID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *SubjectID) UnmarshalText(b []byte) error {
	parsed, err := ParseSubjectID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ApprovalID identifies an entry in the external approval queue.
type ApprovalID uuid.UUID

func NewApprovalID() ApprovalID {
	return ApprovalID(uuid.New())
}

func (id ApprovalID) String() string {
	return uuid.UUID(id).String()
}

func (id ApprovalID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}
