// Package config 提供命令行参数的默认值：内置值 < YAML 配置文件 < 环境变量。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	AppName        = "caption"
	ConfigFileName = "config.yaml"
	EnvFileName    = "config.env"
)

// Defaults 是命令行各参数的默认值。
type Defaults struct {
	FontDir    string `yaml:"font_dir"`
	FontFamily string `yaml:"font_family"`
	FontStyle  string `yaml:"font_style"`
	FontSize   int    `yaml:"font_size"`
	FontFile   string `yaml:"font_file"`
	Margin     string `yaml:"margin"`
	Colors     string `yaml:"colors"`
	Height     int    `yaml:"height"`
}

// Builtin 返回内置默认值。
func Builtin() Defaults {
	fontDir := "font-cache"
	if home, err := os.UserHomeDir(); err == nil {
		fontDir = filepath.Join(home, ".config", "font-cache")
	}
	return Defaults{
		FontDir:    fontDir,
		FontFamily: "roboto",
		FontStyle:  "regular",
		FontSize:   12,
		Margin:     "2",
		Colors:     "white,black",
	}
}

// LoadEnvFile 从用户配置目录加载 config.env 到环境变量；文件可能不存在，错误忽略。
func LoadEnvFile() {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	_ = godotenv.Load(filepath.Join(configBase, AppName, EnvFileName))
}

// DefaultPath 返回 YAML 配置文件路径：$CAPTION_CONFIG 优先，否则为用户配置目录下的 caption/config.yaml。
func DefaultPath() string {
	if p := os.Getenv("CAPTION_CONFIG"); p != "" {
		return p
	}
	configBase, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configBase, AppName, ConfigFileName)
}

// Load 依次叠加内置值、path 指向的 YAML 文件（不存在时跳过）与 CAPTION_* 环境变量。
func Load(path string) (Defaults, error) {
	d := Builtin()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return d, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &d); err != nil {
				return d, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
			}
		}
	}
	if err := applyEnv(&d); err != nil {
		return d, err
	}
	return d, nil
}

func applyEnv(d *Defaults) error {
	strs := map[string]*string{
		"CAPTION_FONT_DIR":    &d.FontDir,
		"CAPTION_FONT_FAMILY": &d.FontFamily,
		"CAPTION_FONT_STYLE":  &d.FontStyle,
		"CAPTION_FONT_FILE":   &d.FontFile,
		"CAPTION_MARGIN":      &d.Margin,
		"CAPTION_COLORS":      &d.Colors,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	ints := map[string]*int{
		"CAPTION_FONT_SIZE": &d.FontSize,
		"CAPTION_HEIGHT":    &d.Height,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s 必须是整数: %w", key, err)
		}
		*dst = n
	}
	return nil
}
