// Package yamlutil is the one place that decodes YAML: the config file
// strictly, front matter leniently.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize bounds a decoded document, in bytes.
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// UnmarshalStrict decodes data into v and rejects fields v does not
// declare, so a misspelled config key fails loudly.
func UnmarshalStrict(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	return decode(data, v, yaml.Strict())
}

// UnmarshalOptional decodes data into v, ignoring unknown fields. Blank
// input, such as an empty front matter block, leaves v untouched.
func UnmarshalOptional(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		if v == nil {
			return ErrNilDestination
		}
		return nil
	}
	return decode(data, v)
}

func decode(data []byte, v any, opts ...yaml.DecodeOption) error {
	switch {
	case v == nil:
		return ErrNilDestination
	case len(data) > MaxInputSize:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if err := yaml.UnmarshalWithOptions(data, v, opts...); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}
