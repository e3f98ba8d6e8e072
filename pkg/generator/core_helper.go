package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-selfie-kit/pkg/domain"
	"github.com/shouni/gemini-selfie-kit/pkg/imgutil"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// buildParts は参照画像（1人目、2人目）とプロンプトの順でパーツを組み立てます。
func buildParts(req domain.GenerationRequest, promptText string) ([]*genai.Part, error) {
	primary, err := imgutil.DecodeDataURL(req.PrimaryImage)
	if err != nil {
		return nil, &domain.ValidationError{Field: "image1", Message: fmt.Sprintf("invalid first reference image: %v", err)}
	}
	parts := []*genai.Part{toPart(primary)}

	if !req.IsSolo() {
		secondary, err := imgutil.DecodeDataURL(req.SecondaryImage)
		if err != nil {
			return nil, &domain.ValidationError{Field: "image2", Message: fmt.Sprintf("invalid second reference image: %v", err)}
		}
		parts = append(parts, toPart(secondary))
	}

	return append(parts, &genai.Part{Text: promptText}), nil
}

// toPart はバイト列を image/png の InlineData パーツに変換します。
func toPart(data []byte) *genai.Part {
	return &genai.Part{InlineData: &genai.Blob{MIMEType: imgutil.PNGMimeType, Data: data}}
}

// parseToResponse は最初の候補のパーツを順に走査し、最初に見つかった画像を返します。
func parseToResponse(ctx context.Context, resp *gemini.Response) (*ImageOutput, error) {
	if resp == nil || resp.RawResponse == nil {
		return nil, ErrNoImageData
	}
	raw := resp.RawResponse

	if len(raw.Candidates) > 0 && raw.Candidates[0] != nil {
		candidate := raw.Candidates[0]
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
					return &ImageOutput{Data: part.InlineData.Data, MimeType: part.InlineData.MIMEType}, nil
				}
			}
		}

		// 安全フィルター等によるブロックはログにだけ残すのだ
		switch candidate.FinishReason {
		case "", genai.FinishReasonUnspecified, genai.FinishReasonStop:
		default:
			slog.WarnContext(ctx, "画像生成が異常終了しました", "finish_reason", candidate.FinishReason)
		}
	}

	if text := responseText(raw); text != "" {
		return nil, &TextResponseError{Text: text}
	}
	return nil, ErrNoImageData
}

// responseText は最初の候補のテキストパーツを連結します。思考パーツは含めません。
func responseText(raw *genai.GenerateContentResponse) string {
	if len(raw.Candidates) == 0 || raw.Candidates[0] == nil || raw.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range raw.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}
