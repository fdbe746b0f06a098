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

func TestNewPipeline(t *testing.T) {
	t.Run("不正なパラメータは拒否するのだ", func(t *testing.T) {
		_, err := NewPipeline(&mockProvider{}, WithParams(domain.ExtensionParams{StepPx: 0}))
		assert.ErrorIs(t, err, domain.ErrInvalidDimension)
	})

	t.Run("既定値", func(t *testing.T) {
		p, err := NewPipeline(nil)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultExtensionParams(), p.Params())
	})
}

func TestPipeline_SizeAndCenter(t *testing.T) {
	ctx := context.Background()
	base := pattern(t, 1024, 1024)

	providers := map[string]SynthesisProvider{
		"AI": fixedProvider(t, solid(t, 1024, 1024, red)),
		"失敗するAI": &mockProvider{editFunc: func(ctx context.Context, req domain.EditRequest) (*domain.ImageResponse, error) {
			return nil, errors.New("boom")
		}},
		"AI無効": nil,
	}

	for name, provider := range providers {
		t.Run(name, func(t *testing.T) {
			p, err := NewPipeline(provider)
			require.NoError(t, err)

			land, err := p.ExtendLandscape(ctx, base, "beach")
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 1792, 1024), land.Bounds())
			assert.True(t, crop(t, land, image.Rect(384, 0, 1408, 1024)).Equal(base), "中央は元画像と一致するのだ")

			port, err := p.ExtendPortrait(ctx, base, "beach")
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 1024, 1792), port.Bounds())
			assert.True(t, crop(t, port, image.Rect(0, 384, 1024, 1408)).Equal(base))
		})
	}
}

func TestPipeline_AIAssembly(t *testing.T) {
	ctx := context.Background()
	base := solid(t, 1024, 1024, blue)
	p, err := NewPipeline(fixedProvider(t, solid(t, 1024, 1024, red)))
	require.NoError(t, err)

	out, err := p.ExtendLandscape(ctx, base, "")
	require.NoError(t, err)

	assert.Equal(t, red, out.At(0, 0))
	assert.Equal(t, red, out.At(383, 1023))
	assert.Equal(t, blue, out.At(384, 0))
	assert.Equal(t, blue, out.At(1407, 0))
	assert.Equal(t, red, out.At(1408, 512))
	assert.Equal(t, red, out.At(1791, 1023))
}

func TestPipeline_EchoProviderScenario(t *testing.T) {
	ctx := context.Background()
	base := solid(t, 1024, 1024, blue)
	provider := &mockProvider{}
	p, err := NewPipeline(provider)
	require.NoError(t, err)

	out, err := p.ExtendLandscape(ctx, base, "")
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 1792, 1024), out.Bounds())
	for _, x := range []int{384, 700, 1407} {
		assert.Equal(t, blue, out.At(x, 300))
	}
	assertOpaque(t, out, out.Bounds())
	assert.NotEmpty(t, provider.calls())
}

func TestPipeline_FailingProviderFallsBack(t *testing.T) {
	ctx := context.Background()
	base := pattern(t, 1024, 1024)
	provider := &mockProvider{editFunc: func(ctx context.Context, req domain.EditRequest) (*domain.ImageResponse, error) {
		return nil, errors.New("service unavailable")
	}}
	p, err := NewPipeline(provider)
	require.NoError(t, err)

	out, err := p.ExtendPortrait(ctx, base, "")
	require.NoError(t, err, "失敗は呼び出し元に返らないのだ")

	want, err := NewFallbackExtender().ExtendPortrait(base, 1024, 1792)
	require.NoError(t, err)
	assert.True(t, out.Equal(want))
}

func TestPipeline_TransparentBaseFallback(t *testing.T) {
	p, err := NewPipeline(nil)
	require.NoError(t, err)
	base := transparentFramed(t, 1024, 512, blue)

	out, err := p.ExtendLandscape(context.Background(), base, "")
	require.NoError(t, err)

	assert.Equal(t, uint8(255), out.At(10, 500).A)
	assert.Equal(t, uint8(255), out.At(1700, 500).A)
	assertOpaque(t, out, image.Rect(0, 0, 384, 1024))
	assertOpaque(t, out, image.Rect(1408, 0, 1792, 1024))
	assert.True(t, crop(t, out, image.Rect(384, 0, 1408, 1024)).Equal(base), "中央は透過ごと元画像のままなのだ")
}

func TestPipeline_IndependentDirections(t *testing.T) {
	ctx := context.Background()
	base := solid(t, 1024, 1024, blue)

	for _, concurrent := range []bool{false, true} {
		name := "逐次"
		opts := []Option{}
		if concurrent {
			name = "並行"
			opts = append(opts, WithConcurrentDirections())
		}

		t.Run(name, func(t *testing.T) {
			provider := fixedProvider(t, pattern(t, 1024, 1024))
			p, err := NewPipeline(provider, opts...)
			require.NoError(t, err)

			_, err = p.ExtendLandscape(ctx, base, "")
			require.NoError(t, err)

			calls := provider.calls()
			require.Len(t, calls, 2)

			// どちらの呼び出しも元画像だけから作られ、相手の合成結果を含まないのだ
			var right, left *imgutil.Buffer
			for _, c := range calls {
				canvas := decodeReq(t, c.Image)
				if canvas.Transparent(image.Rect(640, 0, 1024, 1024)) {
					right = canvas
				} else {
					left = canvas
				}
			}
			require.NotNil(t, right)
			require.NotNil(t, left)

			want := solid(t, 640, 1024, blue).Convert(imgutil.FormatRGBA)
			assert.True(t, crop(t, right, image.Rect(0, 0, 640, 1024)).Equal(want))
			assert.True(t, crop(t, left, image.Rect(384, 0, 1024, 1024)).Equal(want))
			assert.True(t, left.Transparent(image.Rect(0, 0, 384, 1024)))

			// 左右の参照タイルは鏡像なのだ
			assert.True(t, right.FlipH().Equal(left))
		})
	}
}

func TestPipeline_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("1024x1024 以外は ErrInvalidBaseSize", func(t *testing.T) {
		p, err := NewPipeline(&mockProvider{})
		require.NoError(t, err)
		_, err = p.ExtendLandscape(ctx, solid(t, 1024, 768, blue), "")
		assert.ErrorIs(t, err, domain.ErrInvalidBaseSize)

		fallbackOnly, err := NewPipeline(nil)
		require.NoError(t, err)
		_, err = fallbackOnly.ExtendPortrait(ctx, solid(t, 512, 512, blue), "")
		assert.ErrorIs(t, err, domain.ErrInvalidBaseSize)
	})

	t.Run("キャンセルされたコンテキストはフォールバックせずに返すのだ", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		p, err := NewPipeline(&mockProvider{editFunc: func(ctx context.Context, req domain.EditRequest) (*domain.ImageResponse, error) {
			return nil, ctx.Err()
		}})
		require.NoError(t, err)

		_, err = p.ExtendLandscape(cctx, solid(t, 1024, 1024, blue), "")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("壊れたバイト列は ErrCorruptImage", func(t *testing.T) {
		p, err := NewPipeline(nil)
		require.NoError(t, err)
		_, err = p.ExtendLandscapeBytes(ctx, []byte("not png"), "")
		assert.ErrorIs(t, err, domain.ErrCorruptImage)
	})

	t.Run("バイト列の入出力", func(t *testing.T) {
		p, err := NewPipeline(nil)
		require.NoError(t, err)
		data, err := p.ExtendPortraitBytes(ctx, encode(t, solid(t, 1024, 1024, blue)), "")
		require.NoError(t, err)

		out, err := imgutil.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 1024, 1792), out.Bounds())
	})
}
