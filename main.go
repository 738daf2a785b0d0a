package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ByLCY/caption/binding"
	"github.com/ByLCY/caption/caption"
	"github.com/ByLCY/caption/config"
	"github.com/ByLCY/caption/dsl"
	"github.com/ByLCY/caption/fonts"
	"github.com/ByLCY/caption/imageio"
	"github.com/ByLCY/caption/layout"
	"github.com/ByLCY/caption/renderer"
	canvasrenderer "github.com/ByLCY/caption/renderer/canvas"
)

// options 汇总命令行参数，未显式给出的项取自 config.Defaults。
type options struct {
	input      string
	caption    string
	captionSet bool
	margin     string
	fontFamily string
	fontStyle  string
	fontSize   int
	fontDir    string
	fontFile   string
	height     int
	colors     string
	out        string
	debug      string
	data       string
	verbose    bool
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	config.LoadEnvFile()
	defaults, err := config.Load(config.DefaultPath())
	if err != nil {
		log.Fatal().Err(err).Msg("加载配置失败")
	}

	opts, err := parseFlags(os.Args[1:], defaults)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if opts.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	outPath, err := run(ctx, opts, os.Stdin)
	if err != nil {
		log.Error().Err(err).Msg("生成字幕图片失败")
		os.Exit(exitCode(err))
	}
	log.Info().Str("output", outPath).Msg("已生成带字幕的图片")
}

func parseFlags(args []string, d config.Defaults) (*options, error) {
	fs := flag.NewFlagSet("caption", flag.ContinueOnError)
	opts := &options{}

	str := func(dst *string, def, usage string, names ...string) {
		for _, name := range names {
			fs.StringVar(dst, name, def, usage)
		}
	}
	num := func(dst *int, def int, usage string, names ...string) {
		for _, name := range names {
			fs.IntVar(dst, name, def, usage)
		}
	}

	str(&opts.input, "", "待加字幕的图片路径（也可作为位置参数）", "input", "i")
	str(&opts.caption, "", "字幕文本，省略时从标准输入读取", "caption", "c")
	str(&opts.margin, d.Margin, "边距：一个整数或 \"左,上,右,下\" 四个整数", "margin", "m")
	str(&opts.fontFamily, d.FontFamily, "字体族名（Google Fonts）", "font-family", "f")
	num(&opts.fontSize, d.FontSize, "最大字号（像素）", "font-size", "s")
	str(&opts.fontStyle, d.FontStyle, "字体样式（regular、bold、italic 等）", "font-style", "S")
	str(&opts.fontDir, d.FontDir, "字体包缓存目录", "font-dir", "D")
	str(&opts.fontFile, d.FontFile, "字体文件路径，或 builtin:<name> 使用内置字体", "font-file", "F")
	num(&opts.height, d.Height, "字幕条高度（像素），0 表示原图高度的 15%", "height", "H")
	str(&opts.colors, d.Colors, "前景色与背景色，以逗号分隔", "colors", "C")
	str(&opts.out, "", "输出路径（.pdf 输出矢量文档），默认 <stem>_caption<ext>", "out", "o")
	str(&opts.debug, "", "排版调试 JSON 输出路径", "debug")
	str(&opts.data, "", "绑定到字幕 ${...} 占位符的 JSON 数据", "data")
	fs.BoolVar(&opts.verbose, "verbose", false, "输出调试日志")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "caption" || f.Name == "c" {
			opts.captionSet = true
		}
	})
	if opts.input == "" {
		opts.input = fs.Arg(0)
	}
	return opts, nil
}

// run 串联读图、解析参数、字体加载、排版与输出，返回输出文件路径。
func run(ctx context.Context, opts *options, stdin io.Reader) (string, error) {
	if opts.input == "" {
		return "", &caption.ConfigError{Field: "input", Reason: "缺少输入图片路径"}
	}
	outPath := imageio.OutputPath(opts.input, opts.out)
	asPDF := strings.EqualFold(filepath.Ext(outPath), ".pdf")
	if !asPDF && !imageio.Encodable(filepath.Ext(outPath)) {
		return "", &caption.ConfigError{Field: "out", Reason: fmt.Sprintf("不支持的输出格式 %q", filepath.Ext(outPath))}
	}
	img, format, err := imageio.Load(opts.input)
	if err != nil {
		return "", err
	}
	size := img.Bounds().Size()
	log.Debug().Str("input", opts.input).Str("format", format).Int("width", size.X).Int("height", size.Y).Msg("image loaded")

	text := opts.caption
	if !opts.captionSet {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("读取标准输入失败: %w", err)
		}
		text = string(raw)
	}
	data, err := binding.ParseData(opts.data)
	if err != nil {
		return "", err
	}
	text = binding.Interpolate(text, binding.Merge(binding.ImageFacts(opts.input, size.X, size.Y), data))

	margin, err := dsl.ParseMargin(opts.margin)
	if err != nil {
		return "", err
	}
	fg, bg, err := dsl.ParseColors(opts.colors)
	if err != nil {
		return "", err
	}

	provider := fonts.NewProvider(fonts.ProviderOpts{Dir: opts.fontDir})
	loaded, err := provider.Resolve(ctx, fonts.Request{File: opts.fontFile, Family: opts.fontFamily, Style: opts.fontStyle})
	if err != nil {
		return "", err
	}
	r := canvasrenderer.NewRenderer()
	font, err := r.LoadFont(loaded.Name, loaded.Data, loaded.Style, float64(opts.fontSize))
	if err != nil {
		return "", &fonts.ResolutionError{Family: loaded.Name, Style: loaded.Style, Err: err}
	}
	log.Debug().Str("font", loaded.Name).Str("style", loaded.Style).Int("size", opts.fontSize).Msg("font resolved")

	cfg := caption.Config{
		Height:     opts.height,
		Margin:     margin,
		Foreground: fg,
		Background: bg,
		Font:       font,
	}

	var plan *caption.Plan
	if asPDF {
		plan, err = caption.Build(size, text, cfg)
		if err != nil {
			return "", err
		}
		var doc renderer.Renderer = r
		pdfBytes, err := doc.Render(plan, img)
		if err != nil {
			return "", fmt.Errorf("渲染 PDF 失败: %w", err)
		}
		if err := os.WriteFile(outPath, pdfBytes, 0o644); err != nil {
			return "", &imageio.Error{Op: "写入 PDF", Path: outPath, Err: err}
		}
	} else {
		captioned, p, err := caption.Caption(img, text, cfg, r)
		if err != nil {
			return "", err
		}
		plan = p
		if err := imageio.Save(outPath, captioned); err != nil {
			return "", err
		}
	}
	log.Debug().
		Float64("fontSize", plan.FontSize).
		Int("lines", len(plan.Wrap.Lines)).
		Int("stripHeight", plan.StripHeight).
		Msg("caption laid out")

	if opts.debug != "" {
		if err := writeDebug(plan, opts.debug); err != nil {
			return "", err
		}
	}
	return outPath, nil
}

func writeDebug(plan *caption.Plan, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := caption.WriteDebugJSON(plan, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

// exitCode 按错误类别区分退出码，便于脚本判断。
func exitCode(err error) int {
	var cfgErr *caption.ConfigError
	var fontErr *fonts.ResolutionError
	var ioErr *imageio.Error
	switch {
	case err == nil:
		return 0
	case errors.As(err, &cfgErr):
		return 2
	case errors.Is(err, layout.ErrOverflow):
		return 3
	case errors.As(err, &fontErr):
		return 4
	case errors.As(err, &ioErr):
		return 5
	default:
		return 1
	}
}
