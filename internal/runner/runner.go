package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/gemini-outpaint-kit/pkg/adapters"
	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
	"github.com/shouni/gemini-outpaint-kit/pkg/generator"
	"github.com/shouni/gemini-outpaint-kit/pkg/imgutil"
	"github.com/shouni/gemini-outpaint-kit/pkg/outpaint"
	"github.com/shouni/gemini-outpaint-kit/pkg/utils"
)

// OrientationBoth は横長と縦長の両方を作る指定です。
const OrientationBoth = "both"

// AssetWriter は生成したアセットを保存する出力先です。remoteio.OutputWriter を満たします。
type AssetWriter interface {
	Write(ctx context.Context, path string, r io.Reader, contentType string) error
}

// ExtendOptions は ExtendRunner の実行パラメータです。
type ExtendOptions struct {
	Input       string
	OutputDir   string
	Format      string
	Orientation string
	Prompt      string
}

// ExtendRunner は既存のベース画像を読み込み、横長・縦長に拡張して保存します。
type ExtendRunner struct {
	loader   generator.SourceLoader
	pipeline *outpaint.Pipeline
	writer   AssetWriter
}

// NewExtendRunner は依存関係を注入して ExtendRunner を初期化するのだ。
func NewExtendRunner(loader generator.SourceLoader, pipeline *outpaint.Pipeline, writer AssetWriter) *ExtendRunner {
	return &ExtendRunner{loader: loader, pipeline: pipeline, writer: writer}
}

// Run はベース画像を拡張して保存し、保存先のパスを返すのだ。
func (r *ExtendRunner) Run(ctx context.Context, opts ExtendOptions) ([]string, error) {
	orientations, err := parseOrientations(opts.Orientation)
	if err != nil {
		return nil, err
	}

	data, err := r.loader.LoadImage(ctx, opts.Input)
	if err != nil {
		return nil, err
	}
	base, err := imgutil.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("ベース画像 '%s' のデコードに失敗しました: %w", opts.Input, err)
	}

	stem := utils.Stem(opts.Input)
	paths := make([]string, 0, len(orientations))
	for _, o := range orientations {
		prompt := adapters.ExtensionPrompt(opts.Prompt, o)
		out, err := r.pipeline.Extend(ctx, base, o, prompt)
		if err != nil {
			return nil, fmt.Errorf("%s への拡張に失敗しました: %w", o, err)
		}
		path := utils.AssetPath(opts.OutputDir, stem, o.AspectRatio(), opts.Format)
		if err := saveAsset(ctx, r.writer, path, out); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// GenerateOptions は GenerateRunner の実行パラメータです。
type GenerateOptions struct {
	Brief     adapters.SceneBrief
	OutputDir string
	Format    string
}

// GenerateRunner はブリーフからアセット一式を生成して保存します。
type GenerateRunner struct {
	adapter *adapters.AspectAdapter
	writer  AssetWriter
}

// NewGenerateRunner は依存関係を注入して GenerateRunner を初期化するのだ。
func NewGenerateRunner(adapter *adapters.AspectAdapter, writer AssetWriter) *GenerateRunner {
	return &GenerateRunner{adapter: adapter, writer: writer}
}

// Run はアセットを生成して保存し、保存先のパスを返すのだ。
func (r *GenerateRunner) Run(ctx context.Context, opts GenerateOptions) ([]string, error) {
	assets, err := r.adapter.GenerateAssets(ctx, opts.Brief)
	if err != nil {
		return nil, err
	}

	stem := utils.Stem(opts.Brief.Subject)
	paths := make([]string, 0, len(assets))
	for _, a := range assets {
		path := utils.AssetPath(opts.OutputDir, stem, a.AspectRatio, opts.Format)
		if err := saveAsset(ctx, r.writer, path, a.Image); err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "アセットを生成したのだ", "aspect_ratio", a.AspectRatio, "elapsed", a.Elapsed)
		paths = append(paths, path)
	}
	return paths, nil
}

func parseOrientations(s string) ([]domain.Orientation, error) {
	switch s {
	case "", OrientationBoth:
		return []domain.Orientation{domain.OrientationLandscape, domain.OrientationPortrait}, nil
	case string(domain.OrientationLandscape):
		return []domain.Orientation{domain.OrientationLandscape}, nil
	case string(domain.OrientationPortrait):
		return []domain.Orientation{domain.OrientationPortrait}, nil
	default:
		return nil, fmt.Errorf("未対応の向きです: %q (landscape, portrait, both)", s)
	}
}

func saveAsset(ctx context.Context, w AssetWriter, path string, img *imgutil.Buffer) error {
	data, contentType, err := img.EncodeForPath(path)
	if err != nil {
		return err
	}
	if err := w.Write(ctx, path, bytes.NewReader(data), contentType); err != nil {
		return fmt.Errorf("アセットの保存に失敗しました (%s): %w", path, err)
	}
	slog.InfoContext(ctx, "アセットを保存したのだ", "path", path, "content_type", contentType, "bytes", len(data))
	return nil
}
