package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format selects how a tree is rendered.
type Format int

const (
	// TextFormat is the JSON-like text produced by encode.Serialize.
	TextFormat Format = iota
	// JSONFormat renders structured node records as JSON.
	JSONFormat
	// YAMLFormat renders structured node records as YAML.
	YAMLFormat
)

var ErrBadFormat = errors.New("bad format")

var names = map[string]Format{
	"t":    TextFormat,
	"text": TextFormat,
	"j":    JSONFormat,
	"json": JSONFormat,
	"y":    YAMLFormat,
	"yaml": YAMLFormat,
	"yml":  YAMLFormat,
}

func ParseFormat(v string) (Format, error) {
	if f, ok := names[strings.ToLower(v)]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

// FromPath guesses the format of an output file from its extension.
func FromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" || ext == "t" || ext == "j" || ext == "y" {
		return 0, false
	}
	f, ok := names[strings.ToLower(ext)]
	return f, ok
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case TextFormat:
		return []byte("text"), nil
	case JSONFormat:
		return []byte("json"), nil
	case YAMLFormat:
		return []byte("yaml"), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrBadFormat, int(f))
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}
