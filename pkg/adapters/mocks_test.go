package adapters

import (
	"context"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
	"github.com/shouni/gemini-outpaint-kit/pkg/imgutil"
)

// --- Mocks ---

type mockGenerator struct {
	generateFunc func(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error)
	requests     []domain.ImageGenerationRequest
}

func (m *mockGenerator) GenerateImage(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error) {
	m.requests = append(m.requests, req)
	return m.generateFunc(ctx, req)
}

type mockOverlay struct {
	applyFunc func(ctx context.Context, buf *imgutil.Buffer, aspectRatio string) (*imgutil.Buffer, error)
	ratios    []string
}

func (m *mockOverlay) Apply(ctx context.Context, buf *imgutil.Buffer, aspectRatio string) (*imgutil.Buffer, error) {
	m.ratios = append(m.ratios, aspectRatio)
	return m.applyFunc(ctx, buf, aspectRatio)
}

// --- Helpers ---

var green = color.NRGBA{G: 200, A: 255}

func solid(t *testing.T, w, h int, c color.NRGBA) *imgutil.Buffer {
	t.Helper()
	b, err := imgutil.NewFilled(w, h, imgutil.FormatRGB, c)
	require.NoError(t, err)
	return b
}

// solidGenerator は要求されたアスペクト比に関係なく w x h の単色画像を返します。
func solidGenerator(t *testing.T, w, h int) *mockGenerator {
	t.Helper()
	data, err := solid(t, w, h, green).EncodePNG()
	require.NoError(t, err)
	return &mockGenerator{generateFunc: func(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error) {
		return &domain.ImageResponse{Data: data, MimeType: "image/png"}, nil
	}}
}
