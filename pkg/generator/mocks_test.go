package generator

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
	"github.com/shouni/gemini-outpaint-kit/pkg/imgutil"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// --- Mocks ---

type mockAIClient struct {
	generateFunc func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

func (m *mockAIClient) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, model, parts, opts)
	}
	return imageResponse([]byte("fake"), "image/png"), nil
}

type mockExecutor struct {
	executeFunc func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*domain.ImageResponse, error)
	calls       int
}

func (m *mockExecutor) ExecuteRequest(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*domain.ImageResponse, error) {
	m.calls++
	if m.executeFunc != nil {
		return m.executeFunc(ctx, model, parts, opts)
	}
	return nil, errors.New("not implemented")
}

type mockReader struct {
	files map[string][]byte
	opens int
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	m.opens++
	data, ok := m.files[uri]
	if !ok {
		return nil, errors.New("not found: " + uri)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	return nil
}

type mockHTTPClient struct {
	data  []byte
	err   error
	calls int
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls++
	return m.data, m.err
}

type mockCache struct {
	data map[string]any
}

func (m *mockCache) Get(key string) (any, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *mockCache) Set(key string, value any, d time.Duration) {
	m.data[key] = value
}

// --- Helpers ---

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func imageResponse(data []byte, mime string) *gemini.Response {
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{
					Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: mime, Data: data}}},
				},
			}},
		},
	}
}

func solidPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	b, err := imgutil.NewFilled(w, h, imgutil.FormatRGBA, c)
	require.NoError(t, err)
	data, err := b.EncodePNG()
	require.NoError(t, err)
	return data
}
