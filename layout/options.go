package layout

// Font 是排版引擎需要的字体能力。实现应当是值语义：WithSize 返回新的字体，
// 原字体保持不变。
type Font interface {
	// Size 返回当前字号（像素）。
	Size() float64
	// WithSize 用同一份字形数据（同族、同样式）创建指定字号的新字体。
	WithSize(size float64) (Font, error)
	// Measure 返回多行文本（以 \n 分隔）绘制后占用的宽与高。
	Measure(text string) (width, height float64)
}
