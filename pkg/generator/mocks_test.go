package generator

import (
	"context"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// --- Mocks ---

// mockAIClient は ContentGenerator のテスト用モックなのだ。
type mockAIClient struct {
	calls     int
	lastModel string
	lastParts []*genai.Part
	lastOpts  gemini.GenerateOptions

	resp *gemini.Response
	err  error
}

func (m *mockAIClient) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	m.calls++
	m.lastModel = model
	m.lastParts = parts
	m.lastOpts = opts
	return m.resp, m.err
}

// responseWith は1つの候補に指定パーツを持つ応答を作るヘルパーなのだ。
func responseWith(parts ...*genai.Part) *gemini.Response {
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: parts},
			}},
		},
	}
}

func imagePart(data []byte) *genai.Part {
	return &genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: data}}
}

func textPart(text string) *genai.Part {
	return &genai.Part{Text: text}
}

// emptyMessageError は Error() が空文字を返すエラーなのだ。
type emptyMessageError struct{}

func (emptyMessageError) Error() string { return "" }
