package generator

import "errors"

const (
	// DefaultModel は画像出力に対応した Gemini モデルです。
	DefaultModel = "gemini-2.5-flash-image"
)

var (
	// ErrNoImageData は画像もテキストも返らなかったときのエラーです。
	ErrNoImageData = errors.New("the model did not return any image data")
	// ErrGenerationFailed は通信エラーがメッセージを持たないときの代替エラーです。
	ErrGenerationFailed = errors.New("failed to generate selfie")
)

// TextResponseError は画像の代わりにテキストだけが返ったことを表します。
type TextResponseError struct {
	Text string
}

func (e *TextResponseError) Error() string {
	return "the model returned text: " + e.Text
}

// ImageOutput は Core の内部解析結果
type ImageOutput struct {
	Data     []byte
	MimeType string
}
