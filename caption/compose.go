package caption

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/ByLCY/caption/layout"
)

// TextDrawer 负责把已排好的多行文本以指定字体与颜色画到画布上。
// at 是文本框左上角在 dst 中的坐标。
type TextDrawer interface {
	DrawText(dst draw.Image, at image.Point, lines []string, font layout.Font, col color.Color) error
}

// Plan 保存一次加字幕的几何与排版结果，可直接交给渲染器或输出为调试 JSON。
type Plan struct {
	ImageWidth  int                `json:"imageWidth"`
	ImageHeight int                `json:"imageHeight"`
	StripHeight int                `json:"stripHeight"`
	Width       int                `json:"width"`  // 画布宽度 = 原图宽度
	Height      int                `json:"height"` // 画布高度 = 原图高度 + 字幕条高度
	Margin      Margin             `json:"margin"`
	Origin      image.Point        `json:"origin"`
	Box         layout.Box         `json:"box"`
	Wrap        *layout.WrapResult `json:"wrap"`
	FontSize    float64            `json:"fontSize"`
	Foreground  color.Color        `json:"-"`
	Background  color.Color        `json:"-"`
}

// Build 根据原图尺寸与配置计算字幕条几何，并调用排版引擎折行缩字。
// 配置问题返回 *ConfigError；排版失败原样返回 layout.ErrOverflow。
func Build(size image.Point, text string, cfg Config) (*Plan, error) {
	if cfg.Font == nil {
		return nil, &ConfigError{Field: "font", Reason: "缺少起始字体"}
	}
	if cfg.Foreground == nil || cfg.Background == nil {
		return nil, &ConfigError{Field: "colors", Reason: "需要前景色与背景色两种颜色"}
	}
	if cfg.Height < 0 {
		return nil, &ConfigError{Field: "height", Reason: fmt.Sprintf("字幕条高度不能为负数: %d", cfg.Height)}
	}
	if err := cfg.Margin.Validate(); err != nil {
		return nil, err
	}

	strip := StripHeight(size.Y, cfg.Height)
	box, err := TextBox(size.X, strip, cfg.Margin)
	if err != nil {
		return nil, err
	}

	wrap, err := layout.WrapAndFit(text, box, cfg.Font)
	if err != nil {
		return nil, err
	}

	return &Plan{
		ImageWidth:  size.X,
		ImageHeight: size.Y,
		StripHeight: strip,
		Width:       size.X,
		Height:      size.Y + strip,
		Margin:      cfg.Margin,
		Origin:      TextOrigin(size.Y, cfg.Margin),
		Box:         box,
		Wrap:        wrap,
		FontSize:    wrap.FontSize(),
		Foreground:  cfg.Foreground,
		Background:  cfg.Background,
	}, nil
}

// Compose 按 plan 生成最终画布：先整体填充背景色，再绘制文本，最后把原图贴到左上角。
func Compose(src image.Image, plan *Plan, d TextDrawer) (*image.RGBA, error) {
	if plan == nil {
		return nil, fmt.Errorf("caption: plan 为空")
	}
	if d == nil {
		return nil, fmt.Errorf("caption: 缺少文本绘制后端 TextDrawer")
	}
	bounds := src.Bounds()
	if bounds.Dx() != plan.ImageWidth || bounds.Dy() != plan.ImageHeight {
		return nil, fmt.Errorf("caption: 原图尺寸 %dx%d 与 plan 不符 %dx%d",
			bounds.Dx(), bounds.Dy(), plan.ImageWidth, plan.ImageHeight)
	}

	dst := image.NewRGBA(image.Rect(0, 0, plan.Width, plan.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(plan.Background), image.Point{}, draw.Src)

	if plan.Wrap != nil && len(plan.Wrap.Lines) > 0 {
		// 使用排版引擎返回的字体，而不是起始字体。
		if err := d.DrawText(dst, plan.Origin, plan.Wrap.Lines, plan.Wrap.Font, plan.Foreground); err != nil {
			return nil, fmt.Errorf("绘制字幕文本失败: %w", err)
		}
	}

	draw.Draw(dst, image.Rect(0, 0, bounds.Dx(), bounds.Dy()), src, bounds.Min, draw.Src)
	return dst, nil
}

// Caption 串联 Build 与 Compose。
func Caption(src image.Image, text string, cfg Config, d TextDrawer) (*image.RGBA, *Plan, error) {
	if src == nil {
		return nil, nil, fmt.Errorf("caption: 原图为空")
	}
	plan, err := Build(src.Bounds().Size(), text, cfg)
	if err != nil {
		return nil, nil, err
	}
	img, err := Compose(src, plan, d)
	if err != nil {
		return nil, nil, err
	}
	return img, plan, nil
}
