package pricing

import (
	"strings"

	"github.com/pkg/errors"
)

// OptionType selects the Black-Scholes branch. The zero value is not a valid
// option type, so an unset field is rejected rather than priced as a put.
type OptionType int

const (
	Call OptionType = iota + 1
	Put
)

// ParseOptionType converts "c", "call", "p" or "put" (any case, surrounding
// whitespace ignored) into an OptionType. Anything else is an error.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "call":
		return Call, nil
	case "p", "put":
		return Put, nil
	}
	return 0, errors.Wrapf(ErrUnknownOptionType, "%q", s)
}

// Valid reports whether o is Call or Put.
func (o OptionType) Valid() bool {
	return o == Call || o == Put
}

func (o OptionType) String() string {
	switch o {
	case Call:
		return "call"
	case Put:
		return "put"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (o OptionType) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, errors.Wrapf(ErrUnknownOptionType, "%d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *OptionType) UnmarshalText(text []byte) error {
	parsed, err := ParseOptionType(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
