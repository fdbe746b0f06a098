package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-outpaint-kit/internal/builder"
	"github.com/shouni/gemini-outpaint-kit/internal/runner"
	"github.com/shouni/gemini-outpaint-kit/pkg/adapters"
	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
)

// generateCmd は、ブリーフからベース画像を生成して 3 種類のアセットを作るサブコマンドなのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "ブリーフから 1:1, 16:9, 9:16 のアセット一式を生成するのだ。",
	Long: `正方形のベース画像を生成し、それを拡張して横長・縦長のアセットを作るのだ。
USE_OUTPAINT_METHOD=false の場合は各アスペクト比を個別に生成する旧方式になるのだ。`,
	RunE: generateCommand,
}

func init() {
	generateCmd.Flags().StringVar(&opts.Subject, "subject", "", "主役となる被写体（商品名など）なのだ。")
	generateCmd.Flags().StringVar(&opts.Category, "category", "", "被写体の種類なのだ。")
	generateCmd.Flags().StringVar(&opts.Region, "region", "", "舞台となる地域なのだ。")
	generateCmd.Flags().StringVar(&opts.Audience, "audience", "", "想定する視聴者なのだ。")
	generateCmd.Flags().StringVarP(&opts.Message, "message", "m", "", "添えるメッセージなのだ。")
	generateCmd.Flags().IntVar(&stepPx, "step", domain.DefaultStepPx, "1 方向あたりに描き足す幅（px）なのだ。")
	generateCmd.Flags().IntVar(&overlapPx, "overlap", domain.DefaultOverlapPx, "継ぎ目をなじませる重なり幅（px）なのだ。")
}

// generateCommand は、generate サブコマンドの実行ロジック本体なのだ。
func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig(cmd)

	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return fmt.Errorf("アプリケーションの初期化に失敗したのだ: %w", err)
	}

	adapter, err := adapters.NewAspectAdapter(appCtx.Generator, appCtx.Pipeline,
		adapters.WithOutpaintMethod(cfg.UseOutpaintMethod))
	if err != nil {
		return err
	}

	slog.Info("アセット生成モードを起動するのだ！",
		"subject", cfg.Options.Subject,
		"outpaint_method", cfg.UseOutpaintMethod,
		"image_model", cfg.GeminiImageModel)

	r := runner.NewGenerateRunner(adapter, appCtx.Writer)
	paths, err := r.Run(ctx, runner.GenerateOptions{
		Brief: adapters.SceneBrief{
			Subject:  cfg.Options.Subject,
			Category: cfg.Options.Category,
			Region:   cfg.Options.Region,
			Audience: cfg.Options.Audience,
			Message:  cfg.Options.Message,
		},
		OutputDir: cfg.Options.OutputDir,
		Format:    cfg.Options.Format,
	})
	if err != nil {
		return err
	}

	slog.Info("アセット一式が完成したのだ！", "outputs", paths)
	return nil
}
