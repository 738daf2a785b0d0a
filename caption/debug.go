package caption

import (
	"encoding/json"
	"errors"
	"os"
)

// WriteDebugJSON 将排版计划输出为 JSON，便于调试字幕条几何与折行结果。
func WriteDebugJSON(plan *Plan, path string) error {
	if plan == nil {
		return errors.New("caption: 没有可输出的排版计划")
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
