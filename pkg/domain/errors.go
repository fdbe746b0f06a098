package domain

import "errors"

// 画像拡張処理で発生するエラーの分類です。
// 呼び出し元は errors.Is で判定してください。
var (
	// ErrInvalidDimension は幅・高さ・ステップ幅などの寸法が不正な場合のエラーです。
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrInvalidBaseSize はパイプラインに渡されたベース画像が 1024x1024 ではない場合のエラーです。
	ErrInvalidBaseSize = errors.New("invalid base size")
	// ErrInvalidInputSize はマスク構築に渡された画像が 1024x1024 ではない場合のエラーです。
	ErrInvalidInputSize = errors.New("invalid input size")
	// ErrInvalidDirection は未知の拡張方向が指定された場合のエラーです。
	ErrInvalidDirection = errors.New("invalid direction")
	// ErrDimensionMismatch はブレンド対象の交差軸のサイズが一致しない場合のエラーです。
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrSynthesisFailed は画像合成プロバイダーの呼び出しに失敗した場合のエラーです。
	// パイプラインはこのエラーを受けるとフォールバックに切り替えます。
	ErrSynthesisFailed = errors.New("synthesis failed")
	// ErrCorruptImage は画像データをデコードできなかった場合のエラーです。
	ErrCorruptImage = errors.New("corrupt image")
)
