package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-outpaint-kit/internal/builder"
	"github.com/shouni/gemini-outpaint-kit/internal/runner"
	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
)

var (
	stepPx    int
	overlapPx int
)

// extendCmd は、既存の正方形画像を読み込んで横長・縦長に拡張するサブコマンドなのだ。
var extendCmd = &cobra.Command{
	Use:   "extend",
	Short: "既存の 1024x1024 画像を横長・縦長に拡張するのだ。",
	Long: `ローカル・GCS・HTTP(S) のベース画像を読み込み、
中央をそのまま残して 16:9 と 9:16 のアセットを作って保存するのだ。`,
	RunE: extendCommand,
}

func init() {
	extendCmd.Flags().StringVarP(&opts.Input, "input", "i", "", "ベース画像のパスまたはURL（ローカル, gs://, https://）なのだ。")
	extendCmd.Flags().StringVar(&opts.Orientation, "orientation", runner.OrientationBoth, "拡張する向き（landscape / portrait / both）なのだ。")
	extendCmd.Flags().StringVarP(&opts.Prompt, "prompt", "p", "", "描き足す内容の説明なのだ。")
	extendCmd.Flags().IntVar(&stepPx, "step", domain.DefaultStepPx, "1 方向あたりに描き足す幅（px）なのだ。")
	extendCmd.Flags().IntVar(&overlapPx, "overlap", domain.DefaultOverlapPx, "継ぎ目をなじませる重なり幅（px）なのだ。")
	_ = extendCmd.MarkFlagRequired("input")
}

// extendCommand は、extend サブコマンドの実行ロジック本体なのだ。
func extendCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig(cmd)

	slog.Info("画像拡張モードを起動するのだ！",
		"input", cfg.Options.Input,
		"orientation", cfg.Options.Orientation,
		"step", cfg.Params.StepPx,
		"overlap", cfg.Params.OverlapPx,
		"ai_enabled", cfg.AIEnabled,
		"dev_mode", cfg.DevMode)

	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return fmt.Errorf("アプリケーションの初期化に失敗したのだ: %w", err)
	}

	r := runner.NewExtendRunner(appCtx.Loader, appCtx.Pipeline, appCtx.Writer)
	paths, err := r.Run(ctx, runner.ExtendOptions{
		Input:       cfg.Options.Input,
		OutputDir:   cfg.Options.OutputDir,
		Format:      cfg.Options.Format,
		Orientation: cfg.Options.Orientation,
		Prompt:      cfg.Options.Prompt,
	})
	if err != nil {
		return err
	}

	slog.Info("拡張が完了したのだ！", "outputs", paths)
	return nil
}
