package encode

import (
	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/format"
	"github.com/signadot/kowhai/symbol"
)

type EncodeOption func(*EncState)

// EncState holds the settings of one Encode call.
type EncState struct {
	format   format.Format
	names    *symbol.Names
	nameFunc NameFunc
	Color    func(desc.Type, ColorAttr, string) string
}

func EncodeFormat(f format.Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

// FormatFromOpts extracts the format from encode options.
func FormatFromOpts(opts ...EncodeOption) format.Format {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	return es.format
}

// EncodeNames resolves symbols through n in every format.
func EncodeNames(n *symbol.Names) EncodeOption {
	return func(es *EncState) { es.names = n }
}

// EncodeNameFunc overrides the name lookup of the text format only. f must
// return text ready to be placed in the output, quotes included.
func EncodeNameFunc(f NameFunc) EncodeOption {
	return func(es *EncState) { es.nameFunc = f }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}
