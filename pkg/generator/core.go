package generator

import (
	"context"
	"fmt"

	"github.com/shouni/gemini-outpaint-kit/pkg/domain"
	"github.com/shouni/gemini-outpaint-kit/pkg/utils"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// GeminiImageCore は Gemini への画像リクエストの実行とレスポンス解析を担う基盤クラスです。
type GeminiImageCore struct {
	aiClient GenerativeModel
}

// NewGeminiImageCore は依存関係を注入して GeminiImageCore を初期化します。
func NewGeminiImageCore(aiClient GenerativeModel) (*GeminiImageCore, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient is required")
	}
	return &GeminiImageCore{aiClient: aiClient}, nil
}

// ExecuteRequest はパーツを Gemini に送信し、最初の画像パーツを返します。
func (c *GeminiImageCore) ExecuteRequest(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*domain.ImageResponse, error) {
	resp, err := c.aiClient.GenerateWithParts(ctx, model, parts, opts)
	if err != nil {
		return nil, err
	}

	out, err := c.parseToResponse(resp, utils.DereferenceSeed(opts.Seed))
	if err != nil {
		return nil, err
	}

	return &domain.ImageResponse{
		Data:     out.Data,
		MimeType: out.MimeType,
		UsedSeed: out.UsedSeed,
	}, nil
}
