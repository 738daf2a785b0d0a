package canvasrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/caption/caption"
	"github.com/ByLCY/caption/fonts"
	"github.com/ByLCY/caption/layout"
)

func loadTestFont(t *testing.T, r *Renderer, size float64) *Font {
	t.Helper()
	data, err := fonts.Builtin(fonts.DefaultBuiltin)
	if err != nil {
		t.Fatalf("读取内置字体失败: %v", err)
	}
	f, err := r.LoadFont(fonts.DefaultBuiltin, data, "regular", size)
	if err != nil {
		t.Fatalf("LoadFont error: %v", err)
	}
	return f
}

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, px := range samples {
		back := toPt(px) * PtToMm
		if diff := math.Abs(back - px); diff > 1e-9 {
			t.Fatalf("mm→pt→mm 往返误差过大: in=%g back=%g diff=%g", px, back, diff)
		}
	}
}

func TestFontMeasure(t *testing.T) {
	f := loadTestFont(t, NewRenderer(), 24)

	if w, h := f.Measure(""); w != 0 || h != 0 {
		t.Fatalf("空文本应为 0x0, got %gx%g", w, h)
	}
	wA, hA := f.Measure("Hello")
	wB, _ := f.Measure("Hello world")
	if wA <= 0 || hA <= 0 {
		t.Fatalf("invalid measurement: %gx%g", wA, hA)
	}
	if wB <= wA {
		t.Fatalf("更长的文本应更宽: %g <= %g", wB, wA)
	}
	w2, h2 := f.Measure("Hello\nworld")
	if h2 <= hA {
		t.Fatalf("两行文本应更高: %g <= %g", h2, hA)
	}
	if w2 >= wB {
		t.Fatalf("两行文本宽度应取最宽一行: %g >= %g", w2, wB)
	}
	_, hLead := f.Measure("\nHello")
	if math.Abs(hLead-h2) > 1e-9 {
		t.Fatalf("前导空行同样占一行: %g vs %g", hLead, h2)
	}
}

// TestFontWithSizeIsValue 验证派生字体不修改原字体，且字号越小度量越小。
func TestFontWithSizeIsValue(t *testing.T) {
	f := loadTestFont(t, NewRenderer(), 20)
	smaller, err := f.WithSize(10)
	if err != nil {
		t.Fatalf("WithSize error: %v", err)
	}
	if f.Size() != 20 || smaller.Size() != 10 {
		t.Fatalf("size mismatch: orig=%g derived=%g", f.Size(), smaller.Size())
	}
	w20, h20 := f.Measure("caption")
	w10, h10 := smaller.Measure("caption")
	if w10 >= w20 || h10 >= h20 {
		t.Fatalf("小字号度量应更小: 20→%gx%g 10→%gx%g", w20, h20, w10, h10)
	}
	if _, err := f.WithSize(0); err == nil {
		t.Fatalf("expected error for zero size")
	}
}

func TestLoadFontCachesFamily(t *testing.T) {
	r := NewRenderer()
	a := loadTestFont(t, r, 12)
	b, err := r.LoadFont(fonts.DefaultBuiltin, nil, "regular", 14)
	if err != nil {
		t.Fatalf("已缓存的字族不应再需要数据: %v", err)
	}
	if a.family != b.family {
		t.Fatalf("同名同样式应复用字族")
	}
	if _, err := r.LoadFont("broken", []byte("not a font"), "regular", 12); err == nil {
		t.Fatalf("expected error for invalid font data")
	}
}

// TestWrapAndFitWithCanvasFont 在真实字体度量下验证排版不变量。
func TestWrapAndFitWithCanvasFont(t *testing.T) {
	f := loadTestFont(t, NewRenderer(), 32)
	box := layout.Box{Width: 180, Height: 60}
	text := "The quick brown fox jumps over the lazy dog while the caption keeps going"

	res, err := layout.WrapAndFit(text, box, f)
	if err != nil {
		t.Fatalf("WrapAndFit error: %v", err)
	}
	if res.FontSize() >= 32 {
		t.Fatalf("expected the font to shrink, got %g", res.FontSize())
	}
	if strings.Join(res.Lines, " ") != text {
		t.Fatalf("折行不应改变词序: %q", res.Lines)
	}
	for i, ln := range res.Lines {
		if w, _ := res.Font.Measure(ln); w > box.Width {
			t.Fatalf("line %d width exceeds limit: width=%g limit=%g", i, w, box.Width)
		}
	}
	if _, h := res.Font.Measure(res.Text()); h > box.Height {
		t.Fatalf("block height exceeds limit: %g > %g", h, box.Height)
	}
}

func TestDrawTextStaysInsideArea(t *testing.T) {
	r := NewRenderer()
	f := loadTestFont(t, r, 18)
	dst := image.NewRGBA(image.Rect(0, 0, 160, 80))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	at := image.Pt(10, 40)
	if err := r.DrawText(dst, at, []string{"Hello", "World"}, f, color.White); err != nil {
		t.Fatalf("DrawText error: %v", err)
	}

	painted := 0
	for y := 0; y < 80; y++ {
		for x := 0; x < 160; x++ {
			if dst.RGBAAt(x, y) == (color.RGBA{0, 0, 0, 255}) {
				continue
			}
			if x < at.X || y < at.Y {
				t.Fatalf("文本区域外的像素 (%d,%d) 被修改", x, y)
			}
			painted++
		}
	}
	if painted == 0 {
		t.Fatalf("expected glyph pixels to be drawn")
	}
}

func TestDrawTextRejectsForeignFont(t *testing.T) {
	err := NewRenderer().DrawText(image.NewRGBA(image.Rect(0, 0, 4, 4)), image.Point{}, []string{"x"}, nil, color.White)
	if err == nil {
		t.Fatalf("expected error for non-canvas font")
	}
}

func TestRenderPDF(t *testing.T) {
	r := NewRenderer()
	cfg := caption.DefaultConfig()
	cfg.Font = loadTestFont(t, r, 16)
	src := image.NewRGBA(image.Rect(0, 0, 200, 120))

	plan, err := caption.Build(src.Bounds().Size(), "vector caption", cfg)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	out, err := r.Render(plan, src)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", out[:min(len(out), 16)])
	}
}

func TestParseFontStyle(t *testing.T) {
	cases := map[string]canvas.FontStyle{
		"":            canvas.FontRegular,
		"regular":     canvas.FontRegular,
		"Bold":        canvas.FontBold,
		"SemiBold":    canvas.FontSemiBold,
		"bolditalic":  canvas.FontBold | canvas.FontItalic,
		"LightItalic": canvas.FontLight | canvas.FontItalic,
		"black":       canvas.FontBlack,
	}
	for in, want := range cases {
		if got := parseFontStyle(in); got != want {
			t.Fatalf("parseFontStyle(%q)=%v want %v", in, got, want)
		}
	}
}
