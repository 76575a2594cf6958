package rank

import "fmt"

// Mode selects the fusion strategy.
type Mode string

const (
	// ModeNaive sorts by raw query similarity only.
	ModeNaive Mode = "naive"
	// ModeBiasAware fuses normalized query similarity, taste score and smart
	// buy index into one weighted score.
	ModeBiasAware Mode = "bias_aware"
)

// ParseMode validates a mode string. Empty defaults to bias-aware.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeBiasAware, nil
	case ModeNaive, ModeBiasAware:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown rank mode %q", s)
	}
}
