/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package throttle

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Rate is a number of calls per period. Its text form is N/(s|m|h), e.g. "10/s", "100/m", "1000/h".
type Rate struct {
	Count    int
	Duration time.Duration
}

// ParseRate parses the text form of Rate. An empty string is a zero Rate.
func ParseRate(s string) (Rate, error) {
	if s == "" {
		return Rate{}, nil
	}
	formatErr := fmt.Errorf("incorrect format for rate %q, should be N/(s|m|h), for example 10/s, 100/m, 1000/h", s)
	countStr, unit, found := strings.Cut(s, "/")
	if !found {
		return Rate{}, formatErr
	}
	count, err := strconv.Atoi(strings.TrimSpace(countStr))
	if err != nil || count < 0 {
		return Rate{}, formatErr
	}
	var dur time.Duration
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "s":
		dur = time.Second
	case "m":
		dur = time.Minute
	case "h":
		dur = time.Hour
	default:
		return Rate{}, formatErr
	}
	return Rate{Count: count, Duration: dur}, nil
}

// String implements fmt.Stringer.
func (r Rate) String() string {
	if r.Count == 0 && r.Duration == 0 {
		return ""
	}
	var unit string
	switch r.Duration {
	case time.Second:
		unit = "s"
	case time.Minute:
		unit = "m"
	case time.Hour:
		unit = "h"
	default:
		unit = r.Duration.String()
	}
	return fmt.Sprintf("%d/%s", r.Count, unit)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rate) UnmarshalText(text []byte) (err error) {
	*r, err = ParseRate(string(text))
	return err
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Rate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return r.UnmarshalText([]byte(s))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Rate) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return r.UnmarshalText([]byte(s))
}

// MarshalText implements encoding.TextMarshaler.
func (r Rate) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// MarshalJSON implements json.Marshaler.
func (r Rate) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// MarshalYAML implements yaml.Marshaler.
func (r Rate) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}
