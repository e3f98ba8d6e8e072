package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shouni/gemini-selfie-kit/pkg/domain"
	"github.com/shouni/gemini-selfie-kit/pkg/imgutil"
	"github.com/shouni/gemini-selfie-kit/pkg/prompt"
	"github.com/shouni/go-gemini-client/pkg/gemini"
)

// GeminiGenerator は参照画像とプロンプトを1回のリクエストにまとめ、
// Gemini の応答から自撮り画像を取り出します。状態を持たないので並行に呼び出せます。
type GeminiGenerator struct {
	aiClient ContentGenerator
	model    string
}

// Option は GeminiGenerator の任意設定です。
type Option func(*GeminiGenerator)

// WithModel は使用するモデル名を差し替えます。空文字は無視します。
func WithModel(model string) Option {
	return func(g *GeminiGenerator) {
		if model != "" {
			g.model = model
		}
	}
}

// NewGeminiGenerator は GeminiGenerator を初期化するのだ。
func NewGeminiGenerator(aiClient ContentGenerator, opts ...Option) (*GeminiGenerator, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (ContentGenerator) is required")
	}

	g := &GeminiGenerator{
		aiClient: aiClient,
		model:    DefaultModel,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Model は使用中のモデル名を返します。
func (g *GeminiGenerator) Model() string { return g.model }

// GenerateSelfie は自撮り画像を1枚生成し、"data:image/png;base64,..." 形式で返します。
// リトライもタイムアウト設定も行いません。打ち切りは ctx に従います。
func (g *GeminiGenerator) GenerateSelfie(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if req.AspectRatio == "" {
		req.AspectRatio = domain.DefaultAspectRatio
	}
	if err := req.Validate(); err != nil {
		return "", err
	}

	parts, err := buildParts(req, prompt.Compose(prompt.FromRequest(req)))
	if err != nil {
		return "", err
	}

	generationID := uuid.NewString()
	logger := slog.With("generation_id", generationID, "model", g.model)
	logger.InfoContext(ctx, "Gemini自撮り生成リクエスト送信",
		"solo", req.IsSolo(),
		"aspect_ratio", req.AspectRatio,
		"blur_intensity", req.BlurIntensity,
		"filter", req.Filter,
		"parts", len(parts),
	)

	resp, err := g.aiClient.GenerateWithParts(ctx, g.model, parts, gemini.GenerateOptions{
		AspectRatio: string(req.AspectRatio),
	})
	if err != nil {
		logger.ErrorContext(ctx, "Gemini生成エラー", "error", err)
		return "", passThrough(err)
	}

	out, err := parseToResponse(ctx, resp)
	if err != nil {
		logger.WarnContext(ctx, "応答から画像を取り出せませんでした", "error", err)
		return "", err
	}

	logger.InfoContext(ctx, "自撮り画像を生成しました", "bytes", len(out.Data), "mime_type", out.MimeType)
	return imgutil.EncodePNGDataURL(out.Data), nil
}

// Generate は GenerateSelfie の結果を GenerationResult にまとめます。
func (g *GeminiGenerator) Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult {
	image, err := g.GenerateSelfie(ctx, req)
	if err != nil {
		return domain.Failed(err.Error())
	}
	return domain.Succeeded(image)
}

var _ SelfieGenerator = (*GeminiGenerator)(nil)
