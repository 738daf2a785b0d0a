package fonts

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFamilyNotFound 表示字体族既不在本地缓存，也无法从远端下载。
	ErrFamilyNotFound = errors.New("未找到字体族")
	// ErrStyleNotFound 表示字体包中没有请求的样式。
	ErrStyleNotFound = errors.New("字体样式不存在")
)

// ResolutionError 描述字体族、样式或文件无法解析的情况；可发现时附带可选样式列表。
type ResolutionError struct {
	Family    string
	Style     string
	Available []string
	Err       error
}

func (e *ResolutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "字体 %q", e.Family)
	if e.Style != "" {
		fmt.Fprintf(&b, " 样式 %q", e.Style)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.Available) > 0 {
		fmt.Fprintf(&b, "，可选：\n  %s", strings.Join(e.Available, ", "))
	}
	return b.String()
}

func (e *ResolutionError) Unwrap() error { return e.Err }
