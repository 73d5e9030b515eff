package student

import (
	"context"
	"fmt"

	domain "github.com/mohammadpnp/student-import/internal/domain/student"
)

// DuplicateIndex maps the emails and student codes of a candidate row set to
// the stored records they collide with. It reflects the store as of the
// moment it was built and is never modified afterwards; callers build a new
// one when they need a fresher view.
type DuplicateIndex struct {
	byEmail map[string]domain.RecordRef
	byCode  map[string]domain.RecordRef
}

func (i DuplicateIndex) ByEmail(email string) (domain.RecordRef, bool) {
	ref, ok := i.byEmail[domain.NormalizeEmail(email)]
	return ref, ok
}

func (i DuplicateIndex) ByCode(code string) (domain.RecordRef, bool) {
	ref, ok := i.byCode[code]
	return ref, ok
}

// BuildDuplicateIndex issues one email lookup and one code lookup for all
// rows, regardless of how many rows there are.
func BuildDuplicateIndex(ctx context.Context, finder domain.RecordFinder, rows []domain.ValidatedRow) (DuplicateIndex, error) {
	if len(rows) == 0 {
		return DuplicateIndex{}, nil
	}

	emails := make([]string, 0, len(rows))
	codes := make([]string, 0, len(rows))
	seenEmail := make(map[string]struct{}, len(rows))
	seenCode := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		email := row.NormalizedEmail()
		if _, ok := seenEmail[email]; !ok {
			seenEmail[email] = struct{}{}
			emails = append(emails, email)
		}
		if _, ok := seenCode[row.StudentCode]; !ok {
			seenCode[row.StudentCode] = struct{}{}
			codes = append(codes, row.StudentCode)
		}
	}

	byEmailRefs, err := finder.FindAccountsByEmail(ctx, emails)
	if err != nil {
		return DuplicateIndex{}, fmt.Errorf("find accounts by email: %w", err)
	}
	byCodeRefs, err := finder.FindProfilesByCode(ctx, codes)
	if err != nil {
		return DuplicateIndex{}, fmt.Errorf("find profiles by code: %w", err)
	}

	index := DuplicateIndex{
		byEmail: make(map[string]domain.RecordRef, len(byEmailRefs)),
		byCode:  make(map[string]domain.RecordRef, len(byCodeRefs)),
	}
	for _, ref := range byEmailRefs {
		index.byEmail[domain.NormalizeEmail(ref.Email)] = ref
	}
	for _, ref := range byCodeRefs {
		index.byCode[ref.StudentCode] = ref
	}

	return index, nil
}
