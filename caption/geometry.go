package caption

import (
	"fmt"
	"image"
	"math"

	"github.com/ByLCY/caption/layout"
)

// AutoHeightRatio 是未显式指定高度时字幕条相对原图高度的比例。
const AutoHeightRatio = 0.15

// StripHeight 返回字幕条高度：explicit>0 时直接使用，否则为原图高度的 15% 四舍五入。
func StripHeight(imageHeight, explicit int) int {
	if explicit > 0 {
		return explicit
	}
	return int(math.Round(float64(imageHeight) * AutoHeightRatio))
}

// TextBox 计算字幕条内扣除边距后的文本框，宽高必须为正。
func TextBox(imageWidth, stripHeight int, m Margin) (layout.Box, error) {
	w := imageWidth - (m.Left + m.Right)
	h := stripHeight - (m.Top + m.Bottom)
	if w <= 0 || h <= 0 {
		return layout.Box{}, &ConfigError{
			Field:  "margin",
			Reason: fmt.Sprintf("扣除边距后文本框为 %dx%d（宽 %d、条高 %d），必须为正", w, h, imageWidth, stripHeight),
		}
	}
	return layout.Box{Width: float64(w), Height: float64(h)}, nil
}

// TextOrigin 返回文本框左上角在最终画布中的坐标：字幕条紧接在原图下方。
func TextOrigin(imageHeight int, m Margin) image.Point {
	return image.Pt(m.Left, imageHeight+m.Top)
}
