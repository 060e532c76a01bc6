package recurrence

import (
	"errors"
	"fmt"
)

// Frequency identifies how often a recurring event repeats. The interval is
// always 1; there are no custom rules beyond the four fixed frequencies.
type Frequency int

const (
	None Frequency = iota
	Daily
	Weekly
	Monthly
	Yearly
)

var ErrUnknownFrequency = errors.New("unknown recurrence frequency")

var frequencyNames = map[Frequency]string{
	None:    "none",
	Daily:   "daily",
	Weekly:  "weekly",
	Monthly: "monthly",
	Yearly:  "yearly",
}

func (f Frequency) String() string {
	if name, ok := frequencyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Frequency(%d)", int(f))
}

// ParseFrequency converts the wire form (none|daily|weekly|monthly|yearly)
// into a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	for f, name := range frequencyNames {
		if name == s {
			return f, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownFrequency, s)
}

// MarshalJSON renders the frequency in its wire form.
func (f Frequency) MarshalJSON() ([]byte, error) {
	name, ok := frequencyNames[f]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFrequency, int(f))
	}
	return []byte(`"` + name + `"`), nil
}

// UnmarshalJSON accepts the quoted wire form.
func (f *Frequency) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrUnknownFrequency, data)
	}
	parsed, err := ParseFrequency(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
