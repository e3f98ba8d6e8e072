package reference

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-selfie-kit/pkg/imgutil"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// HTTPClient は、URLからデータを取得するためのインターフェースです。
// go-http-kit の httpkit.Client がこれを満たします。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// MaxImageBytes は参照画像として読み込む上限サイズです。
const MaxImageBytes = 20 << 20

// Resolver は参照画像の指定（data URL、http(s) URL、ファイルパス等）を data URL に変換します。
type Resolver struct {
	reader     remoteio.InputReader
	httpClient HTTPClient
	urlCheck   func(string) (bool, error)
}

// NewResolver は依存関係を注入して Resolver を初期化します。
// httpClient が nil の場合は http(s) の参照を扱いません。
func NewResolver(reader remoteio.InputReader, httpClient HTTPClient) (*Resolver, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader is required")
	}
	return &Resolver{
		reader:     reader,
		httpClient: httpClient,
		urlCheck:   IsSafeURL,
	}, nil
}

// Resolve は src を読み込み、"data:<mime>;base64,..." 形式で返します。
// data URL はそのまま返し、それ以外は中身が画像であることを確認します。
func (r *Resolver) Resolve(ctx context.Context, src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", fmt.Errorf("empty reference source")
	}
	if strings.HasPrefix(src, "data:") {
		return src, nil
	}

	data, err := r.fetch(ctx, src)
	if err != nil {
		return "", err
	}
	if len(data) > MaxImageBytes {
		return "", fmt.Errorf("reference image %s is too large: %d bytes", src, len(data))
	}

	mimeType, err := imgutil.DetectImageMimeType(data)
	if err != nil {
		return "", fmt.Errorf("reference %s: %w", src, err)
	}

	slog.DebugContext(ctx, "参照画像を読み込みました", "source", src, "mime_type", mimeType, "bytes", len(data))
	return imgutil.EncodeDataURL(mimeType, data), nil
}

func (r *Resolver) fetch(ctx context.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		if r.httpClient == nil {
			return nil, fmt.Errorf("http references are not enabled: %s", src)
		}
		if safe, err := r.urlCheck(src); err != nil || !safe {
			if err == nil {
				err = errors.New("blocked")
			}
			return nil, fmt.Errorf("unsafe reference URL %s: %w", src, err)
		}
		data, err := r.httpClient.FetchBytes(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("fetch reference %s: %w", src, err)
		}
		return data, nil
	}

	rc, err := r.reader.Open(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("open reference %s: %w", src, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read reference %s: %w", src, err)
	}
	return data, nil
}
