package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"google.golang.org/genai"

	"github.com/shouni/gemini-outpaint-kit/internal/config"
	"github.com/shouni/gemini-outpaint-kit/pkg/generator"
	"github.com/shouni/gemini-outpaint-kit/pkg/outpaint"
)

const defaultGeminiTemperature = float32(0.2)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
type AppContext struct {
	Config    *config.Config
	Reader    remoteio.InputReader  // ローカル・GCS からの入力
	Writer    remoteio.OutputWriter // ローカル・GCS への出力
	Loader    *generator.ImageLoader
	Generator generator.ImageGenerator // テキストからのベース画像生成
	Pipeline  *outpaint.Pipeline
}

// NewAppContext は設定に従って入出力・プロバイダー・パイプラインを組み立てるのだ。
func NewAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	ioFactory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}
	reader, err := ioFactory.InputReader()
	if err != nil {
		return nil, fmt.Errorf("failed to create input reader: %w", err)
	}
	writer, err := ioFactory.OutputWriter()
	if err != nil {
		return nil, fmt.Errorf("failed to create output writer: %w", err)
	}

	httpClient := httpkit.New(cfg.HTTPTimeout)
	imgCache := cache.New(config.DefaultCacheExpiry, config.DefaultCacheCleanup)
	loader, err := generator.NewImageLoader(reader, httpClient, imgCache, generator.DefaultCacheTTL)
	if err != nil {
		return nil, err
	}

	provider, err := buildProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	pipeline, err := BuildPipeline(cfg, provider)
	if err != nil {
		return nil, err
	}

	return &AppContext{
		Config:    cfg,
		Reader:    reader,
		Writer:    writer,
		Loader:    loader,
		Generator: provider,
		Pipeline:  pipeline,
	}, nil
}

// BuildPipeline はパイプラインを構築します。AI が無効な場合は合成プロバイダーを渡しません。
func BuildPipeline(cfg *config.Config, provider generator.Provider) (*outpaint.Pipeline, error) {
	opts := []outpaint.Option{outpaint.WithParams(cfg.Params)}
	if cfg.Options.Concurrent {
		opts = append(opts, outpaint.WithConcurrentDirections())
	}

	if !cfg.AIEnabled {
		slog.Info("AI拡張は無効です。フォールバックのみで生成するのだ")
		return outpaint.NewPipeline(nil, opts...)
	}
	return outpaint.NewPipeline(provider, opts...)
}

// buildProvider は設定からプロバイダーを一度だけ選ぶのだ。
// 開発モードまたは AI 無効時はネットワークを使わないスタブになるのだ。
func buildProvider(ctx context.Context, cfg *config.Config) (generator.Provider, error) {
	if cfg.DevMode || !cfg.AIEnabled {
		return generator.NewProvider(generator.ProviderConfig{DevMode: true})
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}
	aiClient, err := InitializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}
	core, err := generator.NewGeminiImageCore(aiClient)
	if err != nil {
		return nil, err
	}
	return generator.NewProvider(generator.ProviderConfig{
		Core:     core,
		Model:    cfg.GeminiImageModel,
		Interval: cfg.RateInterval,
	})
}

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}
