package config

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/matzehuels/inkblot/pkg/errors"
)

// IntRange is a half-open integer range [Min, Max). Min == Max is a
// degenerate range that always yields Min.
//
// It marshals as "min-max" in TOML and doubles as a pflag.Value, so the same
// syntax works in config files and on the command line. A single number
// ("42") is a degenerate range.
type IntRange struct {
	Min int
	Max int
}

// Rand returns an integer in [Min, Max), or Min for a degenerate range.
func (r IntRange) Rand(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.IntN(r.Max-r.Min)
}

// Last returns the largest value Rand can return.
func (r IntRange) Last() int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Max - 1
}

// Contains reports whether Rand can return v.
func (r IntRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Last()
}

// Validate reports an inverted range.
func (r IntRange) Validate(name string) error {
	if r.Min > r.Max {
		return errors.New(errors.ErrCodeInvalidRange, "%s: min %d > max %d", name, r.Min, r.Max)
	}
	return nil
}

func (r IntRange) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// Set parses "min-max", "min:max" or "n".
func (r *IntRange) Set(s string) error {
	lo, hi, err := splitRange(s)
	if err != nil {
		return err
	}
	a, err := strconv.Atoi(lo)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRange, err, "invalid range %q", s)
	}
	b, err := strconv.Atoi(hi)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRange, err, "invalid range %q", s)
	}
	r.Min, r.Max = a, b
	return nil
}

// Type implements pflag.Value.
func (r *IntRange) Type() string { return "range" }

// MarshalText implements encoding.TextMarshaler.
func (r IntRange) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *IntRange) UnmarshalText(b []byte) error { return r.Set(string(b)) }

// FloatRange is a half-open float range [Min, Max).
type FloatRange struct {
	Min float64
	Max float64
}

// Rand returns a value in [Min, Max).
func (r FloatRange) Rand(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Validate reports an inverted range.
func (r FloatRange) Validate(name string) error {
	if r.Min > r.Max {
		return errors.New(errors.ErrCodeInvalidRange, "%s: min %g > max %g", name, r.Min, r.Max)
	}
	return nil
}

func (r FloatRange) String() string {
	return strconv.FormatFloat(r.Min, 'g', -1, 64) + "-" + strconv.FormatFloat(r.Max, 'g', -1, 64)
}

// Set parses "min-max", "min:max" or "n".
func (r *FloatRange) Set(s string) error {
	lo, hi, err := splitRange(s)
	if err != nil {
		return err
	}
	a, err := strconv.ParseFloat(lo, 64)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRange, err, "invalid range %q", s)
	}
	b, err := strconv.ParseFloat(hi, 64)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRange, err, "invalid range %q", s)
	}
	r.Min, r.Max = a, b
	return nil
}

// Type implements pflag.Value.
func (r *FloatRange) Type() string { return "range" }

// MarshalText implements encoding.TextMarshaler.
func (r FloatRange) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *FloatRange) UnmarshalText(b []byte) error { return r.Set(string(b)) }

// splitRange splits s on ':' or on a '-' that is not a leading sign.
func splitRange(s string) (string, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", errors.New(errors.ErrCodeInvalidRange, "empty range")
	}
	if lo, hi, ok := strings.Cut(s, ":"); ok {
		return strings.TrimSpace(lo), strings.TrimSpace(hi), nil
	}
	for i := 1; i < len(s); i++ {
		// "1e-3" style exponents are not separators
		if s[i] == '-' && s[i-1] != 'e' && s[i-1] != 'E' {
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), nil
		}
	}
	return s, s, nil
}

var (
	_ pflag.Value = (*IntRange)(nil)
	_ pflag.Value = (*FloatRange)(nil)
)
