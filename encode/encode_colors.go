package encode

import (
	"strings"

	"github.com/signadot/kowhai/desc"

	"github.com/fatih/color"
)

type Colorable struct {
	Type desc.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	NameColor ColorAttr = iota
	FieldColor
	ValueColor
	SepColor
	HeaderColor
	InsertColor
	DeleteColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, t := range desc.Types() {
		able := Colorable{
			Type: t,
			Attr: NameColor,
		}
		colors.Map[able] = color.RGB(196, 96, 16).SprintfFunc()
		able.Attr = FieldColor
		colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
		able.Attr = HeaderColor
		colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()
		able.Attr = SepColor
		colors.Map[able] = color.RGB(255, 0, 196).SprintfFunc()
	}
	able := Colorable{Attr: ValueColor}
	for _, t := range []desc.Type{desc.Int8, desc.Int16, desc.Int32} {
		able.Type = t
		colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	}
	for _, t := range []desc.Type{desc.Uint8, desc.Uint16, desc.Uint32} {
		able.Type = t
		colors.Map[able] = color.CyanString
	}
	able.Type = desc.Float
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()

	colors.Map[Colorable{Attr: InsertColor}] = color.GreenString
	colors.Map[Colorable{Attr: DeleteColor}] = color.RedString
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t desc.Type, a ColorAttr, s string) string {
	res := c.Get(t, a)(s)
	return res
}

func (c *Colors) Get(t desc.Type, a ColorAttr) func(string, ...any) string {
	if c == nil {
		return colorDefault
	}
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
