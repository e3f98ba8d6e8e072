package generator

import (
	"context"

	"github.com/shouni/gemini-selfie-kit/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// SelfieGenerator はビジネスロジック層が利用する統合窓口です。
type SelfieGenerator interface {
	// GenerateSelfie は参照画像とパラメータから自撮り画像を生成し、data URL で返します。
	GenerateSelfie(ctx context.Context, req domain.GenerationRequest) (string, error)
}

// ContentGenerator は Gemini へのマルチモーダルリクエストを実行するクライアントです。
// go-gemini-client の GenerativeModel と同じシグネチャなので、そのまま注入できます。
type ContentGenerator interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}
