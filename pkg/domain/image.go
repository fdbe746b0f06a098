package domain

// EditRequest はマスク付き画像編集（インペイント）の要求です。
// Image と Mask はともに 1024x1024 の PNG です。Mask の alpha 255 は保持、0 は生成対象を表します。
type EditRequest struct {
	Image  []byte
	Mask   []byte
	Prompt string
	Size   string
}

// ImageGenerationRequest はテキストからの単一画像生成要求です。
type ImageGenerationRequest struct {
	Prompt      string
	AspectRatio string
	Seed        *int64
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
	UsedSeed int64 // 戻り値は情報欠落を防ぐため int64
}
