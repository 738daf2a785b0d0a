// Package binding 把字幕文本中的 ${path} 占位符替换为数据中的值。
package binding

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}|]*)(?:\|([^}]*))?\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值，路径支持 items[0].name 形式的下标。
// ${path|fallback} 在路径不存在时使用 fallback；没有 fallback 时保留原占位符。
func Interpolate(text string, data map[string]any) string {
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		path := strings.TrimSpace(groups[1])
		if path != "" {
			if val, ok := resolvePath(data, path); ok && val != nil {
				return format(val)
			}
		}
		if strings.Contains(match, "|") {
			return groups[2]
		}
		return match
	})
}

// ImageFacts 返回字幕中可以引用的原图信息。
func ImageFacts(path string, width, height int) map[string]any {
	name := filepath.Base(path)
	return map[string]any{
		"image": map[string]any{
			"path":   path,
			"name":   name,
			"stem":   strings.TrimSuffix(name, filepath.Ext(name)),
			"width":  width,
			"height": height,
		},
	}
}

// ParseData 解析 JSON 对象形式的绑定数据，空串返回空表。
func ParseData(raw string) (map[string]any, error) {
	out := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("解析绑定数据失败（需要 JSON 对象）: %w", err)
	}
	return out, nil
}

// Merge 返回 base 与 extra 的浅合并结果，extra 中的键优先。
func Merge(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func format(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case float64:
		// JSON 数字统一解码为 float64，整数值不输出小数点。
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func resolvePath(data map[string]any, path string) (any, bool) {
	var current any = data
	for _, segment := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(segment, "[")
		if name != "" {
			m, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		for rest != "" {
			idxStr, after, found := strings.Cut(rest, "]")
			if !found {
				return nil, false
			}
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			arr, ok := current.([]any)
			if !ok || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
			rest = strings.TrimPrefix(after, "[")
		}
	}
	return current, true
}
