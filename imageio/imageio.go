// Package imageio 负责读取原图、按扩展名编码输出图像以及推导默认输出路径。
package imageio

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Error 表示输入图像无法读取或输出无法写入。
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Load 解码图片文件，返回图像与格式名。
func Load(path string) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", &Error{Op: "读取图片", Path: path, Err: err}
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, "", &Error{Op: "解码图片", Path: path, Err: err}
	}
	return img, format, nil
}

// Save 按扩展名编码并写入图片。
func Save(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return &Error{Op: "写入图片", Path: path, Err: err}
	}
	if err := Encode(file, img, filepath.Ext(path)); err != nil {
		file.Close()
		os.Remove(path)
		return &Error{Op: "编码图片", Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &Error{Op: "写入图片", Path: path, Err: err}
	}
	return nil
}

// Encode 以 ext 对应的格式编码；未知扩展名返回错误。
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case ".gif":
		return gif.Encode(w, img, nil)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("不支持的输出格式 %q", ext)
	}
}

// Encodable 报告 ext 是否有对应的编码器。webp 等只能读取的格式返回 false。
func Encodable(ext string) bool {
	switch strings.ToLower(ext) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff":
		return true
	default:
		return false
	}
}

// OutputPath 返回输出路径：out 非空时直接使用，否则为输入文件同目录下的 <stem>_caption<ext>。
// 输入格式无法编码时默认输出改用 .png。
func OutputPath(in, out string) string {
	if out != "" {
		return out
	}
	ext := filepath.Ext(in)
	stem := strings.TrimSuffix(filepath.Base(in), ext)
	if !Encodable(ext) {
		ext = ".png"
	}
	return filepath.Join(filepath.Dir(in), stem+"_caption"+ext)
}
