package outpaint

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
	"github.com/shouni/gemini-outpaint-kit/pkg/imgutil"
)

func TestNewExtender(t *testing.T) {
	_, err := NewExtender(nil)
	assert.Error(t, err)
}

func TestExtender_Extend(t *testing.T) {
	ctx := context.Background()
	params := domain.DefaultExtensionParams()
	base := pattern(t, 1024, 1024)

	t.Run("右方向: 新しい領域が継ぎ足され、帯より手前は元のままなのだ", func(t *testing.T) {
		provider := fixedProvider(t, solid(t, 1024, 1024, red))
		ext, err := NewExtender(provider)
		require.NoError(t, err)

		out, err := ext.Extend(ctx, base, domain.DirectionRight, params, "sea")
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 1408, 1024), out.Bounds())

		assert.True(t, crop(t, out, image.Rect(0, 0, 832, 1024)).Equal(crop(t, base, image.Rect(0, 0, 832, 1024))))
		assert.Equal(t, red, out.At(1024, 0))
		assert.Equal(t, red, out.At(1407, 1023))

		calls := provider.calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "sea", calls[0].Prompt)
		assert.Equal(t, "1024x1024", calls[0].Size)
		mask := decodeReq(t, calls[0].Mask)
		assert.Equal(t, image.Rect(0, 0, 1024, 1024), mask.Bounds())
		assert.True(t, mask.Transparent(image.Rect(640, 0, 1024, 1024)))
	})

	t.Run("上方向: 新しい領域が先頭に付くのだ", func(t *testing.T) {
		ext, err := NewExtender(fixedProvider(t, solid(t, 1024, 1024, red)))
		require.NoError(t, err)

		out, err := ext.Extend(ctx, base, domain.DirectionUp, params, "")
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 1024, 1408), out.Bounds())
		assert.Equal(t, red, out.At(5, 0))
		assert.Equal(t, red, out.At(5, 383))
		assert.True(t, crop(t, out, image.Rect(0, 576, 1024, 1408)).Equal(crop(t, base, image.Rect(0, 192, 1024, 1024))))
	})

	t.Run("既に拡張済みの画像は拡張側の端 1024 を参照するのだ", func(t *testing.T) {
		wide := pattern(t, 1408, 1024)
		provider := fixedProvider(t, solid(t, 1024, 1024, red))
		ext, err := NewExtender(provider)
		require.NoError(t, err)

		out, err := ext.Extend(ctx, wide, domain.DirectionRight, params, "")
		require.NoError(t, err)
		assert.Equal(t, 1792, out.Width())

		canvas := decodeReq(t, provider.calls()[0].Image)
		want := crop(t, wide, image.Rect(768, 0, 1408, 1024)).Convert(imgutil.FormatRGBA)
		assert.True(t, crop(t, canvas, image.Rect(0, 0, 640, 1024)).Equal(want))
	})

	t.Run("1024 に満たない画像は透明で埋めて拡張するのだ", func(t *testing.T) {
		short := pattern(t, 600, 1024)
		ext, err := NewExtender(fixedProvider(t, solid(t, 1024, 1024, red)))
		require.NoError(t, err)

		out, err := ext.Extend(ctx, short, domain.DirectionRight, params, "")
		require.NoError(t, err)
		assert.Equal(t, 600+384, out.Width())
		assert.Equal(t, short.At(100, 100), out.At(100, 100))
	})

	t.Run("交差軸が 1024 でないと ErrInvalidDimension", func(t *testing.T) {
		ext, err := NewExtender(&mockProvider{})
		require.NoError(t, err)
		_, err = ext.Extend(ctx, pattern(t, 1024, 1000), domain.DirectionRight, params, "")
		assert.ErrorIs(t, err, domain.ErrInvalidDimension)
	})

	t.Run("不正なパラメータ", func(t *testing.T) {
		ext, err := NewExtender(&mockProvider{})
		require.NoError(t, err)
		_, err = ext.Extend(ctx, base, domain.DirectionRight, domain.ExtensionParams{StepPx: 700, OverlapPx: 400}, "")
		assert.ErrorIs(t, err, domain.ErrInvalidDimension)
		_, err = ext.Extend(ctx, base, domain.Direction("sideways"), params, "")
		assert.ErrorIs(t, err, domain.ErrInvalidDirection)
	})
}

func TestExtender_SynthesisFailures(t *testing.T) {
	ctx := context.Background()
	params := domain.DefaultExtensionParams()
	base := solid(t, 1024, 1024, blue)
	apiErr := errors.New("quota exceeded")

	cases := []struct {
		name     string
		provider *mockProvider
		also     error
	}{
		{
			name: "プロバイダーのエラー",
			provider: &mockProvider{editFunc: func(ctx context.Context, req domain.EditRequest) (*domain.ImageResponse, error) {
				return nil, apiErr
			}},
			also: apiErr,
		},
		{
			name: "空のレスポンス",
			provider: &mockProvider{editFunc: func(ctx context.Context, req domain.EditRequest) (*domain.ImageResponse, error) {
				return &domain.ImageResponse{}, nil
			}},
		},
		{
			name: "デコードできないデータ",
			provider: &mockProvider{editFunc: func(ctx context.Context, req domain.EditRequest) (*domain.ImageResponse, error) {
				return &domain.ImageResponse{Data: []byte("garbage")}, nil
			}},
			also: domain.ErrCorruptImage,
		},
		{
			name:     "サイズ違い",
			provider: fixedProvider(t, solid(t, 512, 512, red)),
		},
		{
			name:     "入力をそのまま返すと生成領域が透明のまま",
			provider: &mockProvider{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ext, err := NewExtender(tc.provider)
			require.NoError(t, err)

			_, err = ext.Extend(ctx, base, domain.DirectionLeft, params, "")
			assert.ErrorIs(t, err, domain.ErrSynthesisFailed)
			if tc.also != nil {
				assert.ErrorIs(t, err, tc.also)
			}
			assert.Len(t, tc.provider.calls(), 1, "再試行はしないのだ")
		})
	}
}
