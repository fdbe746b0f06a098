package outpaint

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
	"github.com/shouni/gemini-outpaint-kit/pkg/imgutil"
)

// --- Mocks ---

// mockProvider は SynthesisProvider のテスト用モックなのだ。
// editFunc が nil の場合は受け取った画像をそのまま返すのだ。
type mockProvider struct {
	mu       sync.Mutex
	editFunc func(ctx context.Context, req domain.EditRequest) (*domain.ImageResponse, error)
	requests []domain.EditRequest
}

func (m *mockProvider) Edit(ctx context.Context, req domain.EditRequest) (*domain.ImageResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.editFunc != nil {
		return m.editFunc(ctx, req)
	}
	return &domain.ImageResponse{Data: req.Image, MimeType: "image/png"}, nil
}

func (m *mockProvider) calls() []domain.EditRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.EditRequest(nil), m.requests...)
}

// --- Helpers ---

func solid(t *testing.T, w, h int, c color.NRGBA) *imgutil.Buffer {
	t.Helper()
	b, err := imgutil.NewFilled(w, h, imgutil.FormatRGB, c)
	require.NoError(t, err)
	return b
}

// pattern は位置ごとに色が変わる不透明画像を作るのだ。
func pattern(t *testing.T, w, h int) *imgutil.Buffer {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 3), B: uint8((x + y) / 8), A: 255})
		}
	}
	b, err := imgutil.FromImage(img, imgutil.FormatRGB)
	require.NoError(t, err)
	return b
}

func encode(t *testing.T, b *imgutil.Buffer) []byte {
	t.Helper()
	data, err := b.EncodePNG()
	require.NoError(t, err)
	return data
}

// fixedProvider は常に同じ画像を返すプロバイダーなのだ。
func fixedProvider(t *testing.T, b *imgutil.Buffer) *mockProvider {
	data := encode(t, b)
	return &mockProvider{
		editFunc: func(ctx context.Context, req domain.EditRequest) (*domain.ImageResponse, error) {
			return &domain.ImageResponse{Data: data, MimeType: "image/png"}, nil
		},
	}
}

func decodeReq(t *testing.T, data []byte) *imgutil.Buffer {
	t.Helper()
	b, err := imgutil.Decode(data)
	require.NoError(t, err)
	return b.Convert(imgutil.FormatRGBA)
}

func crop(t *testing.T, b *imgutil.Buffer, r image.Rectangle) *imgutil.Buffer {
	t.Helper()
	c, err := b.Crop(r)
	require.NoError(t, err)
	return c
}

var (
	red  = color.NRGBA{R: 220, G: 30, B: 40, A: 255}
	blue = color.NRGBA{R: 20, G: 60, B: 200, A: 255}
)

// assertOpaque はすべてのピクセルが不透明であることを確認するのだ。
func assertOpaque(t *testing.T, b *imgutil.Buffer, r image.Rectangle) {
	t.Helper()
	img := b.Image()
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.NRGBAAt(x, y).A != 255 {
				t.Fatalf("pixel (%d, %d) is not opaque", x, y)
			}
		}
	}
}
