package layout

import (
	"errors"
	"strings"
)

// 该文件定义排版引擎的输入输出类型，供合成阶段、渲染器与调试 JSON 共用。

// MinFontSize 是缩字循环的下限：字号降到该值（含）以下仍放不下即判定溢出。
const MinFontSize = 2

// ErrOverflow 表示字号已缩至下限仍无法把文本装进文本框。
var ErrOverflow = errors.New("layout: 文本溢出")

// Box 是文本必须容纳其中的像素区域。
type Box struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// WrapResult 是一次成功的排版结果：按绘制顺序排列的行与实际使用的字体。
type WrapResult struct {
	Lines []string `json:"lines"`
	Font  Font     `json:"-"`
}

// Text 返回以换行符连接的多行文本块。
func (r *WrapResult) Text() string {
	if r == nil {
		return ""
	}
	return strings.Join(r.Lines, "\n")
}

// FontSize 返回结果字体的字号，字体为空时返回 0。
func (r *WrapResult) FontSize() float64 {
	if r == nil || r.Font == nil {
		return 0
	}
	return r.Font.Size()
}
