package student

import (
	"fmt"
	"strings"
)

// Strategy decides how rows that collide with stored records are handled.
type Strategy string

const (
	StrategySkip   Strategy = "skip"
	StrategyUpdate Strategy = "update"
	StrategySuffix Strategy = "suffix"
)

// ParseStrategy accepts the strategy names case-insensitively; an empty
// value means skip.
func ParseStrategy(raw string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(raw))); s {
	case "":
		return StrategySkip, nil
	case StrategySkip, StrategyUpdate, StrategySuffix:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStrategy, raw)
	}
}
