package canvasrenderer

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/caption/layout"
)

// Font 是基于 canvas 字族的 layout.Font 实现。字号以像素计（画布中的 mm）。
// Font 不可变：WithSize 总是返回新的 Font，并共享同一个字族的字形数据。
type Font struct {
	name   string
	family *canvas.FontFamily
	style  canvas.FontStyle
	size   float64
	face   *canvas.FontFace // 仅用于度量，颜色无关
}

var _ layout.Font = (*Font)(nil)

func newFont(name string, family *canvas.FontFamily, style canvas.FontStyle, size float64) (*Font, error) {
	if size <= 0 {
		return nil, fmt.Errorf("字体 %s 字号必须为正数: %g", name, size)
	}
	return &Font{
		name:   name,
		family: family,
		style:  style,
		size:   size,
		face:   family.Face(toPt(size), canvas.Black, style, canvas.FontNormal),
	}, nil
}

// Name 返回字体的登记名。
func (f *Font) Name() string { return f.name }

// Size 返回字号（像素）。
func (f *Font) Size() float64 { return f.size }

// WithSize 用同一字族与样式派生指定字号的字体。
func (f *Font) WithSize(size float64) (layout.Font, error) {
	return newFont(f.name, f.family, f.style, size)
}

// Measure 返回多行文本的包围盒：宽取最宽一行，高为前 n-1 行的行距加末行的上升部与下降部。
func (f *Font) Measure(text string) (float64, float64) {
	if text == "" {
		return 0, 0
	}
	lines := strings.Split(text, "\n")
	width := 0.0
	for _, ln := range lines {
		width = math.Max(width, f.face.TextWidth(ln))
	}
	m := f.face.Metrics()
	height := float64(len(lines)-1)*m.LineHeight + m.Ascent + m.Descent
	return width, height
}

func (f *Font) coloredFace(col color.Color) *canvas.FontFace {
	return f.family.Face(toPt(f.size), col, f.style, canvas.FontNormal)
}
