package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The PHP backend is loose about JSON types: ids and amounts arrive as
// numbers on one endpoint and as strings on the next, booleans as true,
// "1" or 1. The Flex types accept all of those.

var null = []byte("null")

// FlexString accepts a JSON string, number or boolean.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, null) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	switch b[0] {
	case '{', '[':
		return fmt.Errorf("flex string: unexpected %s", b)
	}
	*s = FlexString(b)
	return nil
}

func (s FlexString) String() string { return string(s) }

// FlexInt accepts a JSON number or a numeric string. Empty strings decode as 0.
type FlexInt int64

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	raw, err := unquote(b)
	if err != nil {
		return err
	}
	if raw == "" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("flex int: %w", err)
	}
	*n = FlexInt(v)
	return nil
}

// FlexFloat accepts a JSON number or a numeric string. Empty strings decode as 0.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	raw, err := unquote(b)
	if err != nil {
		return err
	}
	if raw == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return fmt.Errorf("flex float: %w", err)
	}
	*f = FlexFloat(v)
	return nil
}

// FlexBool accepts true/false, 1/0 and their string forms, plus "yes"/"no".
type FlexBool bool

func (v *FlexBool) UnmarshalJSON(b []byte) error {
	raw, err := unquote(b)
	if err != nil {
		return err
	}
	ok, err := ParseBool(raw)
	if err != nil {
		return err
	}
	*v = FlexBool(ok)
	return nil
}

// ParseBool interprets the backend's spellings of a boolean.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "y", "success", "ok":
		return true, nil
	case "false", "0", "no", "n", "", "null", "error", "fail", "failed":
		return false, nil
	}
	return false, fmt.Errorf("flex bool: unexpected %q", raw)
}

func unquote(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, null) {
		return "", nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	return string(b), nil
}
