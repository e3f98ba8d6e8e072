package generator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-selfie-kit/pkg/domain"
	"github.com/shouni/gemini-selfie-kit/pkg/imgutil"
	"github.com/shouni/gemini-selfie-kit/pkg/prompt"
)

// redPNG は 10x10 の赤い PNG を作るヘルパーなのだ。
func redPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func eiffelRequest(t *testing.T) domain.GenerationRequest {
	return domain.GenerationRequest{
		PrimaryImage:  imgutil.EncodePNGDataURL(redPNG(t)),
		Location:      "Eiffel Tower",
		Phone:         "iPhone 15 Pro",
		AspectRatio:   domain.AspectSquare,
		BlurIntensity: 50,
		Filter:        domain.FilterNone,
	}
}

func TestNewGeminiGenerator(t *testing.T) {
	t.Run("nilチェック: 依存関係が足りない場合はエラーを返すのだ", func(t *testing.T) {
		_, err := NewGeminiGenerator(nil)
		assert.Error(t, err)
	})

	t.Run("モデル名のデフォルトと上書き", func(t *testing.T) {
		g, err := NewGeminiGenerator(&mockAIClient{})
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, g.Model())

		g, err = NewGeminiGenerator(&mockAIClient{}, WithModel("gemini-3-pro-image-preview"), WithModel(""))
		require.NoError(t, err)
		assert.Equal(t, "gemini-3-pro-image-preview", g.Model())
	})
}

func TestGeminiGenerator_GenerateSelfie(t *testing.T) {
	ctx := context.Background()

	t.Run("成功: 画像パーツのバイト列が data URL で返るのだ", func(t *testing.T) {
		generated := []byte("generated-png-bytes")
		ai := &mockAIClient{resp: responseWith(imagePart(generated))}
		gen, err := NewGeminiGenerator(ai)
		require.NoError(t, err)

		req := eiffelRequest(t)
		got, err := gen.GenerateSelfie(ctx, req)
		require.NoError(t, err)

		require.True(t, strings.HasPrefix(got, "data:image/png;base64,"))
		decoded, err := imgutil.DecodeDataURL(got)
		require.NoError(t, err)
		assert.Equal(t, generated, decoded)

		assert.Equal(t, 1, ai.calls)
		assert.Equal(t, DefaultModel, ai.lastModel)
		assert.Equal(t, "1:1", ai.lastOpts.AspectRatio)

		// 画像1枚 + プロンプト
		require.Len(t, ai.lastParts, 2)
		require.NotNil(t, ai.lastParts[0].InlineData)
		assert.Equal(t, "image/png", ai.lastParts[0].InlineData.MIMEType)
		assert.Equal(t, redPNG(t), ai.lastParts[0].InlineData.Data)
		assert.Equal(t, prompt.Compose(prompt.FromRequest(req)), ai.lastParts[1].Text)
		assert.Contains(t, ai.lastParts[1].Text, "moderate natural bokeh")
	})

	t.Run("成功: 2人のときは画像2枚の後にプロンプトが続くのだ", func(t *testing.T) {
		ai := &mockAIClient{resp: responseWith(imagePart([]byte("x")))}
		gen, _ := NewGeminiGenerator(ai)

		req := eiffelRequest(t)
		req.SecondaryImage = imgutil.EncodePNGDataURL([]byte("second"))
		req.AspectRatio = domain.AspectWide

		_, err := gen.GenerateSelfie(ctx, req)
		require.NoError(t, err)

		require.Len(t, ai.lastParts, 3)
		assert.Equal(t, []byte("second"), ai.lastParts[1].InlineData.Data)
		assert.Contains(t, ai.lastParts[2].Text, "two people")
		assert.Equal(t, "16:9", ai.lastOpts.AspectRatio)
	})

	t.Run("成功: 最初に見つかった画像パーツを採用するのだ", func(t *testing.T) {
		ai := &mockAIClient{resp: responseWith(textPart("here you go"), imagePart([]byte("first")), imagePart([]byte("second")))}
		gen, _ := NewGeminiGenerator(ai)

		got, err := gen.GenerateSelfie(ctx, eiffelRequest(t))
		require.NoError(t, err)
		assert.Equal(t, imgutil.EncodePNGDataURL([]byte("first")), got)
	})

	t.Run("失敗: テキストだけの応答はその内容を含むエラーになるのだ", func(t *testing.T) {
		ai := &mockAIClient{resp: responseWith(textPart("I cannot create that image."))}
		gen, _ := NewGeminiGenerator(ai)

		_, err := gen.GenerateSelfie(ctx, eiffelRequest(t))
		var textErr *TextResponseError
		require.True(t, errors.As(err, &textErr))
		assert.Equal(t, "the model returned text: I cannot create that image.", err.Error())
	})

	t.Run("失敗: 画像もテキストもない応答は汎用エラーになるのだ", func(t *testing.T) {
		ai := &mockAIClient{resp: responseWith()}
		gen, _ := NewGeminiGenerator(ai)

		_, err := gen.GenerateSelfie(ctx, eiffelRequest(t))
		assert.ErrorIs(t, err, ErrNoImageData)
	})

	t.Run("失敗: 通信エラーはメッセージをそのまま返すのだ", func(t *testing.T) {
		expectedErr := errors.New("googleapi: Error 403: API key not valid")
		ai := &mockAIClient{err: expectedErr}
		gen, _ := NewGeminiGenerator(ai)

		_, err := gen.GenerateSelfie(ctx, eiffelRequest(t))
		assert.ErrorIs(t, err, expectedErr)
		assert.Equal(t, expectedErr.Error(), err.Error())
	})

	t.Run("失敗: メッセージのない通信エラーは代替メッセージになるのだ", func(t *testing.T) {
		ai := &mockAIClient{err: emptyMessageError{}}
		gen, _ := NewGeminiGenerator(ai)

		_, err := gen.GenerateSelfie(ctx, eiffelRequest(t))
		assert.ErrorIs(t, err, ErrGenerationFailed)
	})

	t.Run("失敗: 入力エラーのときはAIを呼び出さないのだ", func(t *testing.T) {
		ai := &mockAIClient{}
		gen, _ := NewGeminiGenerator(ai)

		req := eiffelRequest(t)
		req.Location = ""
		_, err := gen.GenerateSelfie(ctx, req)

		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, 0, ai.calls)

		req = eiffelRequest(t)
		req.PrimaryImage = "data:image/png;base64,%%%"
		_, err = gen.GenerateSelfie(ctx, req)
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "image1", vErr.Field)
		assert.Equal(t, 0, ai.calls)
	})
}

func TestGeminiGenerator_RoundTrip(t *testing.T) {
	ctx := context.Background()
	original := redPNG(t)

	ai := &mockAIClient{resp: responseWith(imagePart(original))}
	gen, _ := NewGeminiGenerator(ai)

	first, err := gen.GenerateSelfie(ctx, eiffelRequest(t))
	require.NoError(t, err)

	// 生成結果をそのまま次の1人目の参照画像に使う
	req := eiffelRequest(t)
	req.PrimaryImage = first
	_, err = gen.GenerateSelfie(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, original, ai.lastParts[0].InlineData.Data)
}

func TestGeminiGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	gen, _ := NewGeminiGenerator(&mockAIClient{resp: responseWith(imagePart([]byte("ok")))})
	res := gen.Generate(ctx, eiffelRequest(t))
	assert.True(t, res.OK())
	assert.Empty(t, res.Err)

	gen, _ = NewGeminiGenerator(&mockAIClient{resp: responseWith(textPart("nope"))})
	res = gen.Generate(ctx, eiffelRequest(t))
	assert.False(t, res.OK())
	assert.Empty(t, res.Image)
	assert.Contains(t, res.Err, "nope")
}
