// Package dsl 解析命令行中的小型取值语法：边距（"2" 或 "1,2,3,4"）与颜色对（"white,black"）。
package dsl

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tdewolff/canvas"
	"golang.org/x/image/colornames"

	"github.com/ByLCY/caption/caption"
)

var (
	valueLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Color", Pattern: `#[0-9A-Za-z]+`},
		{Name: "Number", Pattern: `[-+]?\d+`},
		{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[(),]`},
	})

	marginParser = participle.MustBuild[MarginSpec](
		participle.Lexer(valueLexer),
		participle.Elide("Whitespace"),
	)
	colorParser = participle.MustBuild[ColorSpec](
		participle.Lexer(valueLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
)

// MarginSpec 是逗号分隔的整数列表。
type MarginSpec struct {
	Values []int `parser:"@Number ( ',' @Number )*"`
}

// ColorSpec 是逗号分隔的颜色列表。
type ColorSpec struct {
	Colors []*ColorValue `parser:"@@ ( ',' @@ )*"`
}

// ColorValue 支持 #rgb/#rgba/#rrggbb/#rrggbbaa、rgb(r,g,b)/rgba(r,g,b,a) 与 CSS 颜色名。
type ColorValue struct {
	Hex  *HexColor  `parser:"  @Color"`
	Func *ColorFunc `parser:"| @@"`
	Name *string    `parser:"| @Ident"`
}

// ColorFunc captures `rgb(...)` and `rgba(...)`.
type ColorFunc struct {
	Name string `parser:"@( 'rgb' | 'rgba' )"`
	Args []int  `parser:"'(' @Number ( ',' @Number )* ')'"`
}

// HexColor validates and converts `#...` literals on capture.
type HexColor struct {
	RGBA color.RGBA
}

// Capture implements participle.Capture.
func (h *HexColor) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("color literal capture requires value")
	}
	digits := strings.TrimPrefix(values[0], "#")
	switch len(digits) {
	case 3, 4, 6, 8:
	default:
		return fmt.Errorf("颜色 %s 的位数不合法", values[0])
	}
	for _, r := range digits {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return fmt.Errorf("颜色 %s 含有非十六进制字符", values[0])
		}
	}
	h.RGBA = canvas.Hex(values[0])
	return nil
}

// Color 把语法节点解析为具体颜色。
func (v *ColorValue) Color() (color.Color, error) {
	switch {
	case v.Hex != nil:
		return v.Hex.RGBA, nil
	case v.Func != nil:
		return v.Func.color()
	case v.Name != nil:
		c, ok := colornames.Map[strings.ToLower(*v.Name)]
		if !ok {
			return nil, fmt.Errorf("未知颜色名 %q", *v.Name)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("空的颜色值")
	}
}

func (f *ColorFunc) color() (color.Color, error) {
	want := 3
	if f.Name == "rgba" {
		want = 4
	}
	if len(f.Args) != want {
		return nil, fmt.Errorf("%s() 需要 %d 个参数，实际 %d 个", f.Name, want, len(f.Args))
	}
	for _, v := range f.Args {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%s() 参数 %d 超出 0-255", f.Name, v)
		}
	}
	c := color.NRGBA{R: uint8(f.Args[0]), G: uint8(f.Args[1]), B: uint8(f.Args[2]), A: 255}
	if want == 4 {
		c.A = uint8(f.Args[3])
	}
	return c, nil
}

// ParseMargin 解析边距：一个整数表示四边相同，四个整数依次为左、上、右、下。
func ParseMargin(input string) (caption.Margin, error) {
	spec, err := marginParser.ParseString("margin", input)
	if err != nil {
		return caption.Margin{}, &caption.ConfigError{Field: "margin", Reason: fmt.Sprintf("无法解析 %q: %v", input, err)}
	}
	var m caption.Margin
	switch len(spec.Values) {
	case 1:
		m = caption.UniformMargin(spec.Values[0])
	case 4:
		m = caption.Margin{Left: spec.Values[0], Top: spec.Values[1], Right: spec.Values[2], Bottom: spec.Values[3]}
	default:
		return caption.Margin{}, &caption.ConfigError{
			Field:  "margin",
			Reason: fmt.Sprintf("需要一个或四个整数，实际 %d 个", len(spec.Values)),
		}
	}
	if err := m.Validate(); err != nil {
		return caption.Margin{}, err
	}
	return m, nil
}

// ParseColors 解析 "前景色,背景色"，必须恰好两种颜色。
func ParseColors(input string) (fg, bg color.Color, err error) {
	spec, err := colorParser.ParseString("colors", input)
	if err != nil {
		return nil, nil, &caption.ConfigError{Field: "colors", Reason: fmt.Sprintf("无法解析 %q: %v", input, err)}
	}
	if len(spec.Colors) != 2 {
		return nil, nil, &caption.ConfigError{
			Field:  "colors",
			Reason: fmt.Sprintf("需要前景色与背景色两种颜色，实际 %d 种", len(spec.Colors)),
		}
	}
	out := make([]color.Color, 2)
	for i, v := range spec.Colors {
		c, err := v.Color()
		if err != nil {
			return nil, nil, &caption.ConfigError{Field: "colors", Reason: err.Error()}
		}
		out[i] = c
	}
	return out[0], out[1], nil
}
