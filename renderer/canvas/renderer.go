package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/caption/caption"
	"github.com/ByLCY/caption/layout"
	"github.com/ByLCY/caption/renderer"
)

// Renderer draws caption plans via github.com/tdewolff/canvas.
// One canvas unit (mm) is one output pixel.
type Renderer struct {
	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var (
	_ renderer.Renderer  = (*Renderer)(nil)
	_ caption.TextDrawer = (*Renderer)(nil)
)

// NewRenderer creates a canvas-based renderer with an empty font cache.
func NewRenderer() *Renderer {
	return &Renderer{fontFamilies: map[string]*canvas.FontFamily{}}
}

// LoadFont 用字体数据创建指定样式与字号的字体。同名同样式的字族只解析一次，
// 之后缩字派生的字体都共享这份字形数据。
func (r *Renderer) LoadFont(name string, data []byte, style string, size float64) (*Font, error) {
	st := parseFontStyle(style)
	family, err := r.ensureFontFamily(name, data, st)
	if err != nil {
		return nil, err
	}
	return newFont(name, family, st, size)
}

func (r *Renderer) ensureFontFamily(name string, data []byte, style canvas.FontStyle) (*canvas.FontFamily, error) {
	key := fontCacheKey(name, style)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[key]; ok {
		return family, nil
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("字体 %s 缺少数据", name)
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", name, err)
	}
	r.fontFamilies[key] = family
	return family, nil
}

// DrawText 实现 caption.TextDrawer：把文本栅格化后叠加到 dst 上，at 为文本框左上角。
func (r *Renderer) DrawText(dst draw.Image, at image.Point, lines []string, font layout.Font, col color.Color) error {
	f, ok := font.(*Font)
	if !ok {
		return fmt.Errorf("canvas 渲染器无法绘制 %T 类型的字体", font)
	}
	bounds := dst.Bounds()
	area := image.Rect(bounds.Min.X+at.X, bounds.Min.Y+at.Y, bounds.Max.X, bounds.Max.Y).Intersect(bounds)
	if area.Empty() {
		return nil
	}

	c := canvas.New(float64(area.Dx()), float64(area.Dy()))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与图像保持左上角为原点
	drawLines(ctx, 0, 0, lines, f, col)

	layer := rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
	draw.Draw(dst, area, layer, layer.Bounds().Min, draw.Over)
	return nil
}

// Render 将 plan 输出为单页矢量 PDF：背景、文本，最后是原图。
func (r *Renderer) Render(plan *caption.Plan, src image.Image) ([]byte, error) {
	if plan == nil {
		return nil, fmt.Errorf("渲染计划为空")
	}
	if src == nil {
		return nil, fmt.Errorf("缺少原图")
	}
	width, height := float64(plan.Width), float64(plan.Height)

	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	ctx.SetFillColor(plan.Background)
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	ctx.DrawPath(0, 0, canvas.Rectangle(width, height))

	if plan.Wrap != nil && len(plan.Wrap.Lines) > 0 {
		f, ok := plan.Wrap.Font.(*Font)
		if !ok {
			return nil, fmt.Errorf("canvas 渲染器无法绘制 %T 类型的字体", plan.Wrap.Font)
		}
		drawLines(ctx, float64(plan.Origin.X), float64(plan.Origin.Y), plan.Wrap.Lines, f, plan.Foreground)
	}
	ctx.DrawImage(0, 0, src, canvas.DPMM(1.0))

	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// drawLines 自 (x, y) 起逐行绘制，基线为行顶加上升部，行距取字体度量的 LineHeight。
func drawLines(ctx *canvas.Context, x, y float64, lines []string, f *Font, col color.Color) {
	face := f.coloredFace(col)
	metrics := face.Metrics()
	for i, line := range lines {
		baseline := y + metrics.Ascent + float64(i)*metrics.LineHeight
		ctx.DrawText(x, baseline, canvas.NewTextLine(face, line, canvas.Left))
	}
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "extralight"):
		result = canvas.FontExtraLight
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	case strings.Contains(s, "thin"):
		result = canvas.FontThin
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(name string, style canvas.FontStyle) string {
	return fmt.Sprintf("%s|%d", name, style)
}
