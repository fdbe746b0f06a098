package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
)

func TestLoadConfig_FlagOverrides(t *testing.T) {
	t.Setenv("OUTPAINT_STEP_PX", "300")
	t.Setenv("OUTPAINT_OVERLAP_PX", "100")
	t.Setenv("IMAGE_GEMINI_MODEL", "env-model")

	t.Run("フラグ未指定なら環境変数を使うのだ", func(t *testing.T) {
		cfg := loadConfig(extendCmd)
		assert.Equal(t, domain.ExtensionParams{StepPx: 300, OverlapPx: 100}, cfg.Params)
		assert.Equal(t, "env-model", cfg.GeminiImageModel)
	})

	t.Run("指定したフラグが優先されるのだ", func(t *testing.T) {
		require.NoError(t, extendCmd.Flags().Set("step", "256"))
		imageModel = "flag-model"
		t.Cleanup(func() { imageModel = "" })

		cfg := loadConfig(extendCmd)
		assert.Equal(t, 256, cfg.Params.StepPx)
		assert.Equal(t, 100, cfg.Params.OverlapPx)
		assert.Equal(t, "flag-model", cfg.GeminiImageModel)
	})
}
