package renderer

import (
	"image"

	"github.com/ByLCY/caption/caption"
)

// Renderer 将排版计划与原图输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(plan *caption.Plan, src image.Image) ([]byte, error)
}
