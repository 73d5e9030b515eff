package student

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/mohammadpnp/student-import/internal/domain/student"
)

const maxEmailSuffix = 1000

type emailProber interface {
	EmailExists(ctx context.Context, email string) (bool, error)
}

// SuffixAllocator finds the lowest free local_<n>@domain variant of an email.
// Every candidate is probed against the store, so addresses handed out
// earlier in the same run are seen once their rows commit.
type SuffixAllocator struct {
	prober emailProber
	limit  int
}

func NewSuffixAllocator(prober emailProber) *SuffixAllocator {
	return &SuffixAllocator{prober: prober, limit: maxEmailSuffix}
}

func (a *SuffixAllocator) Allocate(ctx context.Context, baseEmail string) (string, error) {
	base := domain.NormalizeEmail(baseEmail)
	at := strings.LastIndex(base, "@")
	if at <= 0 || at == len(base)-1 {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, baseEmail)
	}
	local, host := base[:at], base[at+1:]

	for n := 1; n <= a.limit; n++ {
		candidate := fmt.Sprintf("%s_%d@%s", local, n, host)
		exists, err := a.prober.EmailExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("probe %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s after %d attempts", ErrSuffixExhausted, base, a.limit)
}
