package generator

import (
	"context"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// GenerativeModel は go-gemini-client のうち画像生成で利用する部分です。
type GenerativeModel interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// ImageEditor はマスク付き画像編集の窓口です。outpaint.SynthesisProvider を満たします。
type ImageEditor interface {
	Edit(ctx context.Context, req domain.EditRequest) (*domain.ImageResponse, error)
}

// ImageGenerator はテキストからの画像生成の窓口です。
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error)
}

// Provider は編集と生成の両方を提供する画像合成プロバイダーです。
type Provider interface {
	ImageEditor
	ImageGenerator
}

// ImageExecutor は、画像生成リクエストを処理するためのメソッドを定義するインターフェースです。
type ImageExecutor interface {
	// ExecuteRequest は、指定されたパラメータで画像生成リクエストを実行し、結果を返します。
	ExecuteRequest(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*domain.ImageResponse, error)
}

// SourceLoader は URI から画像データを取得します。
type SourceLoader interface {
	LoadImage(ctx context.Context, uri string) ([]byte, error)
}
