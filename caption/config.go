package caption

import (
	"fmt"
	"image/color"

	"github.com/ByLCY/caption/layout"
)

// Config 描述一次加字幕操作的全部参数，由调用方显式传入，不读取任何全局状态。
type Config struct {
	Height     int         `json:"height"` // 字幕条高度（像素），<=0 表示取原图高度的 15%
	Margin     Margin      `json:"margin"`
	Foreground color.Color `json:"-"`
	Background color.Color `json:"-"`
	Font       layout.Font `json:"-"` // 起始字体，其字号即可接受的最大字号
}

// DefaultConfig 返回与命令行默认值一致的配置（字体需由调用方补上）。
func DefaultConfig() Config {
	return Config{
		Margin:     UniformMargin(2),
		Foreground: color.White,
		Background: color.Black,
	}
}

// Margin 以像素为单位，顺序与命令行 "左,上,右,下" 一致。
type Margin struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// UniformMargin 返回四边相同的边距。
func UniformMargin(v int) Margin {
	return Margin{Left: v, Top: v, Right: v, Bottom: v}
}

// Validate 要求四个边距均非负。
func (m Margin) Validate() error {
	for _, side := range []struct {
		name string
		v    int
	}{{"left", m.Left}, {"top", m.Top}, {"right", m.Right}, {"bottom", m.Bottom}} {
		if side.v < 0 {
			return &ConfigError{Field: "margin", Reason: fmt.Sprintf("%s 边距不能为负数: %d", side.name, side.v)}
		}
	}
	return nil
}

// ConfigError 表示在排版之前就能发现的配置问题，例如边距个数不对或文本框尺寸非正。
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("配置错误 [%s]: %s", e.Field, e.Reason)
}
