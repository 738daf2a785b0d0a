package fonts

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DownloadURL 是 Google Fonts 按字体族打包下载的地址。
	DownloadURL = "https://fonts.google.com/download"

	DefaultDownloadTimeout = 60 * time.Second
)

// Request 描述要加载的字体。File 非空时直接读取文件（或 builtin:<name>），忽略 Family。
type Request struct {
	File   string
	Family string
	Style  string
}

// Loaded 是解析出的字体数据，Name 用作渲染器中的字族缓存键。
type Loaded struct {
	Name  string
	Style string
	Data  []byte
}

// ProviderOpts 配置字体提供者。
type ProviderOpts struct {
	Dir     string // 字体包缓存目录
	BaseURL string // 为空时使用 DownloadURL
	Timeout time.Duration
}

// Provider 负责从内置字体、本地文件或缓存/下载的字体包中取得字体数据。
type Provider struct {
	dir        string
	baseURL    string
	httpClient *resty.Client
}

func NewProvider(opts ProviderOpts) *Provider {
	p := Provider{dir: opts.Dir, baseURL: DownloadURL}
	if p.dir == "" {
		p.dir = "."
	}
	if opts.BaseURL != "" {
		p.baseURL = opts.BaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultDownloadTimeout
	}
	p.httpClient = resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/zip, */*")
	return &p
}

// Resolve 按请求取得字体数据。
func (p *Provider) Resolve(ctx context.Context, req Request) (*Loaded, error) {
	switch {
	case strings.HasPrefix(req.File, BuiltinPrefix):
		data, err := Builtin(req.File)
		if err != nil {
			return nil, err
		}
		return &Loaded{Name: req.File, Style: req.Style, Data: data}, nil
	case req.File != "":
		data, err := os.ReadFile(req.File)
		if err != nil {
			return nil, &ResolutionError{Family: req.File, Err: fmt.Errorf("读取字体文件失败: %w", err)}
		}
		return &Loaded{Name: filepath.Base(req.File), Style: req.Style, Data: data}, nil
	case req.Family == "":
		return nil, &ResolutionError{Err: fmt.Errorf("%w: 未指定字体族或字体文件", ErrFamilyNotFound)}
	}

	data, err := p.Load(ctx, req.Family, req.Style)
	if err != nil {
		return nil, err
	}
	return &Loaded{Name: FamilyName(req.Family), Style: req.Style, Data: data}, nil
}

// FamilyName 把用户输入的字体族名规范为 Google Fonts 的写法：
// 下划线与连字符视为空格，每个单词首字母大写，例如 open_sans → Open Sans。
func FamilyName(family string) string {
	family = strings.NewReplacer("_", " ", "-", " ").Replace(family)
	words := strings.Fields(family)
	caser := cases.Title(language.Und)
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// ArchivePath 返回字体族压缩包在缓存目录中的路径。
func (p *Provider) ArchivePath(family string) string {
	return filepath.Join(p.dir, FamilyName(family)+".zip")
}

// Download 下载字体族压缩包到缓存目录。先校验是合法 zip 再落盘，避免缓存半截文件。
func (p *Provider) Download(ctx context.Context, family string) error {
	name := FamilyName(family)
	log.Info().Str("family", name).Str("url", p.baseURL).Msg("downloading font archive")

	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetQueryParam("family", name).
		Get(p.baseURL)
	if err != nil {
		return &ResolutionError{Family: name, Err: fmt.Errorf("下载字体包失败: %w", err)}
	}
	if resp.IsError() {
		return &ResolutionError{Family: name, Err: fmt.Errorf("%w: HTTP %d", ErrFamilyNotFound, resp.StatusCode())}
	}

	body := resp.Body()
	if _, err := zip.NewReader(bytes.NewReader(body), int64(len(body))); err != nil {
		return &ResolutionError{Family: name, Err: fmt.Errorf("%w: 响应不是有效的 zip: %v", ErrFamilyNotFound, err)}
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("创建字体缓存目录失败: %w", err)
	}
	target := p.ArchivePath(family)
	tmp := target + ".part"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return fmt.Errorf("写入字体包失败: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("写入字体包失败: %w", err)
	}
	log.Debug().Str("path", target).Int("bytes", len(body)).Msg("font archive cached")
	return nil
}

// Load 从缓存（必要时先下载）的字体包中取出指定样式的字体文件。
func (p *Provider) Load(ctx context.Context, family, style string) ([]byte, error) {
	archive := p.ArchivePath(family)
	if _, err := os.Stat(archive); errors.Is(err, fs.ErrNotExist) {
		if err := p.Download(ctx, family); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("读取字体缓存失败: %w", err)
	} else {
		log.Debug().Str("path", archive).Msg("using cached font archive")
	}

	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, &ResolutionError{Family: FamilyName(family), Err: fmt.Errorf("打开字体包失败: %w", err)}
	}
	defer zr.Close()

	entries := styleIndex(zr.File)
	key := strings.ToLower(style)
	entry, ok := entries[key]
	if !ok {
		available := make([]string, 0, len(entries))
		for k := range entries {
			available = append(available, k)
		}
		sort.Strings(available)
		return nil, &ResolutionError{
			Family:    FamilyName(family),
			Style:     style,
			Available: available,
			Err:       ErrStyleNotFound,
		}
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", entry.Name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// styleIndex 以样式名索引字体包中的字体文件，跳过许可证等非字体条目。
// 样式名取文件名最后一个 "-" 之后、第一个 "." 之前的部分，例如 Roboto-BoldItalic.ttf → bolditalic。
func styleIndex(files []*zip.File) map[string]*zip.File {
	index := map[string]*zip.File{}
	for _, zf := range files {
		if zf.FileInfo().IsDir() || strings.Contains(strings.ToLower(zf.Name), "license") {
			continue
		}
		switch strings.ToLower(path.Ext(zf.Name)) {
		case ".ttf", ".otf":
		default:
			continue
		}
		index[styleKey(zf.Name)] = zf
	}
	return index
}

func styleKey(name string) string {
	base := path.Base(name)
	if i := strings.LastIndex(base, "-"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return strings.ToLower(base)
}
