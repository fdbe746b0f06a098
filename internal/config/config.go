package config

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/shouni/go-utils/envutil"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
)

// デフォルト値の定義なのだ
const (
	DefaultImageModel   = "gemini-3-pro-image-preview"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultRateInterval = 2 * time.Second
	DefaultOutputDir    = "output"
	DefaultOutputExt    = "png"
	DefaultCacheExpiry  = 30 * time.Minute
	DefaultCacheCleanup = 1 * time.Hour
)

// Config はアプリケーション全体の環境設定を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey      string
	GeminiImageModel  string
	AIEnabled         bool
	DevMode           bool
	UseOutpaintMethod bool
	Params            domain.ExtensionParams
	HTTPTimeout       time.Duration
	RateInterval      time.Duration

	Options RunOptions
}

// RunOptions は CLI フラグから渡される実行時のパラメータなのだ。
type RunOptions struct {
	Input       string // --input: ベース画像 (ローカル, gs://, https://)
	OutputDir   string // --output-dir
	Format      string // --format: png / jpg
	Orientation string // --orientation: landscape / portrait / both
	Prompt      string // --prompt
	Concurrent  bool   // --concurrent
	Verbose     bool   // --verbose

	// generate サブコマンド用
	Subject  string
	Category string
	Region   string
	Audience string
	Message  string
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
// 数値や真偽値として解釈できない値は警告を出して既定値を使うのだ。
func LoadConfig() *Config {
	params := domain.DefaultExtensionParams()
	return &Config{
		GeminiAPIKey:      envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiImageModel:  envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
		AIEnabled:         getBool("AI_ENABLED", true),
		DevMode:           getBool("AI_DEV_MODE", false),
		UseOutpaintMethod: getBool("USE_OUTPAINT_METHOD", true),
		Params: domain.ExtensionParams{
			StepPx:    getInt("OUTPAINT_STEP_PX", params.StepPx),
			OverlapPx: getInt("OUTPAINT_OVERLAP_PX", params.OverlapPx),
		},
		HTTPTimeout:  getDuration("HTTP_TIMEOUT", DefaultHTTPTimeout),
		RateInterval: getDuration("GEMINI_RATE_INTERVAL", DefaultRateInterval),
	}
}

func getBool(key string, def bool) bool {
	raw := envutil.GetEnv(key, strconv.FormatBool(def))
	v, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("環境変数を真偽値として解釈できないため既定値を使います", "key", key, "value", raw, "default", def)
		return def
	}
	return v
}

func getInt(key string, def int) int {
	raw := envutil.GetEnv(key, strconv.Itoa(def))
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("環境変数を整数として解釈できないため既定値を使います", "key", key, "value", raw, "default", def)
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := envutil.GetEnv(key, def.String())
	v, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("環境変数を期間として解釈できないため既定値を使います", "key", key, "value", raw, "default", def)
		return def
	}
	return v
}
