package generator

import (
	"fmt"
	"log/slog"
	"time"
)

// ProviderConfig はプロバイダー選択のための設定です。
type ProviderConfig struct {
	// DevMode が true の場合、ネットワークを使わない StubGenerator を使います。
	DevMode bool
	// Core は Gemini プロバイダー用の実行基盤です。DevMode では不要です。
	Core     ImageExecutor
	Model    string
	Interval time.Duration
}

// NewProvider は設定に従ってプロバイダーを一度だけ選択します。
func NewProvider(cfg ProviderConfig) (Provider, error) {
	if cfg.DevMode {
		slog.Info("開発モード: スタブの画像プロバイダーを使用します")
		return NewStubGenerator(), nil
	}

	gen, err := NewGeminiGenerator(cfg.Core, cfg.Model, cfg.Interval)
	if err != nil {
		return nil, fmt.Errorf("GeminiGeneratorの初期化に失敗しました: %w", err)
	}
	slog.Info("Gemini画像プロバイダーを使用します", "model", cfg.Model, "interval", cfg.Interval)
	return gen, nil
}
