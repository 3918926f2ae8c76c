package janitor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseTTL parses a TTL argument: either bare seconds ("300") or a value
// with an m/h/d suffix ("10m", "2h", "1d"). Anything else is an error.
// Range validation is the caller's concern.
func ParseTTL(arg string) (int, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if arg == "" {
		return 0, fmt.Errorf("empty ttl")
	}

	multiplier := 1
	switch arg[len(arg)-1] {
	case 'm':
		multiplier = 60
		arg = arg[:len(arg)-1]
	case 'h':
		multiplier = 3600
		arg = arg[:len(arg)-1]
	case 'd':
		multiplier = 86400
		arg = arg[:len(arg)-1]
	}

	if arg == "" {
		return 0, fmt.Errorf("missing ttl value")
	}
	for _, r := range arg {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("bad ttl format %q", arg)
		}
	}

	value, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("bad ttl value %q: %w", arg, err)
	}
	if value > math.MaxInt/multiplier {
		// The product must stay exact so the range check downstream can
		// reject it; a wrapped value could look valid.
		return 0, fmt.Errorf("ttl value %q is too large", arg)
	}

	return value * multiplier, nil
}
