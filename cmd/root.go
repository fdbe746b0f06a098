package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-outpaint-kit/internal/config"
)

var (
	opts       config.RunOptions
	imageModel string
)

var rootCmd = &cobra.Command{
	Use:   "outpaint-kit",
	Short: "正方形の画像を横長・縦長に継ぎ目なく拡張するのだ。",
	Long: `1024x1024 のベース画像を左右または上下に描き足して、
中央を変えずに 16:9 (1792x1024) と 9:16 (1024x1792) のアセットを作るのだ。
AI 合成に失敗した場合はぼかしとタイルによるフォールバックで必ず結果を返すのだ。`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: preRunAppE,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "アセットを保存するディレクトリ（ローカル or gs://...）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Format, "format", config.DefaultOutputExt, "保存形式（png / jpg）なのだ。")
	rootCmd.PersistentFlags().StringVar(&imageModel, "image-model", "", "使用する Gemini 画像モデル名なのだ（未指定なら IMAGE_GEMINI_MODEL）。")
	rootCmd.PersistentFlags().BoolVar(&opts.Concurrent, "concurrent", false, "2 方向の拡張を並行して実行するのだ。")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "デバッグログを出力するのだ。")
}

// preRunAppE は、コマンド実行前にロガーを設定するのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig は環境変数の設定にコマンドライン引数を反映するのだ。
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.LoadConfig()
	cfg.Options = opts
	if imageModel != "" {
		cfg.GeminiImageModel = imageModel
	}
	if cmd.Flags().Changed("step") {
		cfg.Params.StepPx = stepPx
	}
	if cmd.Flags().Changed("overlap") {
		cfg.Params.OverlapPx = overlapPx
	}
	return cfg
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(extendCmd, generateCmd)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
