// Package dberr classifies sqlite driver failures into the small error
// taxonomy the HTTP layer maps onto status codes.
package dberr

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks reads of identifiers that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks rejected writes caused by a UNIQUE violation.
	ErrConflict = errors.New("conflict")
	// ErrForeignKey marks writes referencing a missing parent row.
	ErrForeignKey = errors.New("referenced row does not exist")
)

// Wrap classifies err while preserving the offending constraint in the
// message. modernc/sqlite exposes violations only through the error text
// (e.g. "constraint failed: UNIQUE constraint failed: teams.name (2067)"),
// so classification is textual.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	msg := err.Error()
	low := strings.ToLower(msg)
	switch {
	case strings.Contains(low, "unique constraint failed"):
		if f := constraintFields(msg); f != "" {
			return fmt.Errorf("%w: duplicate value for %s", ErrConflict, f)
		}
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	case strings.Contains(low, "foreign key constraint failed"):
		return ErrForeignKey
	}
	return err
}

// constraintFields pulls "teams.name" out of
// "... UNIQUE constraint failed: teams.name (2067)".
func constraintFields(msg string) string {
	const marker = "UNIQUE constraint failed: "
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	if j := strings.Index(rest, " ("); j > 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}

func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool   { return errors.Is(err, ErrConflict) }
func IsForeignKey(err error) bool { return errors.Is(err, ErrForeignKey) }
