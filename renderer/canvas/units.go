package canvasrenderer

// 画布坐标中 1mm 对应输出图像的 1 像素；canvas 的字号以 pt 计，这里在边界做换算。
const (
	PtToMm = 25.4 / 72
	MmToPt = 1.0 / PtToMm
)

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * MmToPt }
