package adapters

import (
	"context"

	"github.com/shouni/gemini-outpaint-kit/pkg/imgutil"
)

// Overlay は完成したアセットに文字帯などを重ねる後処理です。
// 実装は呼び出し側が用意します。
type Overlay interface {
	Apply(ctx context.Context, buf *imgutil.Buffer, aspectRatio string) (*imgutil.Buffer, error)
}
