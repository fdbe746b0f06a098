package generator

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// toPart はバイト列を genai.Part (InlineData) に変換します。画像以外は nil です。
func toPart(data []byte) *genai.Part {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}
}

func (c *GeminiImageCore) parseToResponse(resp *gemini.Response, seed int64) (*ImageOutput, error) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return nil, fmt.Errorf("Geminiからの有効な応答がありませんでした")
	}

	candidate := resp.RawResponse.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &ImageOutput{Data: part.InlineData.Data, MimeType: part.InlineData.MIMEType, UsedSeed: seed}, nil
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return nil, fmt.Errorf("画像生成が異常終了しました (FinishReason: %s)", candidate.FinishReason)
	}
	return nil, fmt.Errorf("画像データが見つかりませんでした")
}
