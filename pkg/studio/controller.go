package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-selfie-kit/pkg/domain"
	"github.com/shouni/gemini-selfie-kit/pkg/generator"
)

// Controller は画面の状態から1回の生成を実行します。
type Controller struct {
	gen generator.SelfieGenerator
}

// NewController は依存関係を注入して Controller を初期化します。
func NewController(gen generator.SelfieGenerator) (*Controller, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	return &Controller{gen: gen}, nil
}

// Generate は Submitted を適用し、検証を通れば生成を1回だけ実行して結果を反映した状態を返します。
// 検証エラーのときは生成せずにエラー付きの状態を返します。
// 生成側が入力エラーを返したときも生成中にはせず、元の状態にエラーだけを載せます。
func (c *Controller) Generate(ctx context.Context, s State) State {
	next := Reduce(s, Submitted{})
	if next.Status != StatusGenerating || s.Status == StatusGenerating {
		return next
	}

	req, err := next.Request()
	if err != nil {
		// Submitted が通った時点でここには来ないはずなのだ
		return Reduce(next, GenerationFailed{Message: err.Error()})
	}

	image, err := c.gen.GenerateSelfie(ctx, req)
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		// 画像が壊れている等の入力エラーは生成失敗ではなく、送信前の状態に戻すのだ
		s.Error = vErr.Error()
		return s
	}
	if err != nil {
		slog.WarnContext(ctx, "自撮り生成に失敗しました", "error", err)
		return Reduce(next, GenerationFailed{Message: err.Error()})
	}
	return Reduce(next, GenerationSucceeded{Image: image})
}
