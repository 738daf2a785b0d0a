package layout

import (
	"fmt"
	"strings"
)

// Normalize 把输入折叠为单个段落：原有换行不携带语义，行首尾与词间的空白统一合并为一个空格。
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// WrapAndFit 在 box 内对 text 做贪心折行，并在垂直溢出时缩小字号重排。
//
// 字号从 start 开始，只减不增；每次溢出都以 size-1 从同一份字形数据派生新字体并从头折行，
// 之前的断行结果全部丢弃。字号降到 MinFontSize（含）以下仍未放下时返回 ErrOverflow。
// 单个词宽于 box 时独占一行，不拆分、不截断。
func WrapAndFit(text string, box Box, start Font) (*WrapResult, error) {
	if start == nil {
		return nil, fmt.Errorf("layout: 缺少起始字体")
	}
	words := strings.Fields(text)

	font := start
	for font.Size() > MinFontSize {
		attempt := greedyWrap(words, box, font)
		if !attempt.overflow {
			return &WrapResult{Lines: attempt.lines, Font: font}, nil
		}
		next, err := font.WithSize(font.Size() - 1)
		if err != nil {
			return nil, fmt.Errorf("layout: 派生 %g 号字体失败: %w", font.Size()-1, err)
		}
		font = next
	}
	return nil, fmt.Errorf("%w: 起始字号 %g 缩至 %d 仍无法放入 %gx%g 的文本框",
		ErrOverflow, start.Size(), MinFontSize, box.Width, box.Height)
}

// wrapAttempt 是单一字号下的折行结果；overflow 为真时 lines 无意义。
type wrapAttempt struct {
	lines    []string
	overflow bool
}

// greedyWrap 按固定字体逐词装行。高度超出立即放弃（继续加词高度只会增加），
// 候选块宽度超出则换行。
func greedyWrap(words []string, box Box, font Font) wrapAttempt {
	var completed []string
	var current []string

	for _, word := range words {
		candidate := append(current[:len(current):len(current)], word)
		line := strings.Join(candidate, " ")

		block := strings.Join(completed, "\n") + "\n" + line
		w, h := font.Measure(block)
		if h > box.Height {
			return wrapAttempt{overflow: true}
		}

		// 宽度取整个候选块的最宽行：已关闭的超长词之后，每个词都会独占一行。
		if w > box.Width && len(current) > 0 {
			completed = append(completed, strings.Join(current, " "))
			current = []string{word}
			continue
		}
		current = candidate
	}
	if len(current) > 0 {
		completed = append(completed, strings.Join(current, " "))
	}

	// 收尾复核：最后一行并入后整体高度仍须在 box 内。
	if _, h := font.Measure(strings.Join(completed, "\n")); h > box.Height {
		return wrapAttempt{overflow: true}
	}
	return wrapAttempt{lines: completed}
}
