package reference

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// RootedReader はローカルパスを Root 配下に閉じ込める remoteio.InputReader です。
// 実際の読み込みは内側のリーダー（既定は remoteio.UniversalInputReader）に任せます。
// gs:// や s3:// はそのまま内側に渡すので、使うならクライアント付きのリーダーを注入してください。
type RootedReader struct {
	// Root が空でなければ、その配下のファイルだけを開きます。
	Root  string
	inner remoteio.InputReader
}

// NewRootedReader は RootedReader を初期化します。inner が nil なら
// GCS/S3 クライアントなしの UniversalInputReader を使います。
func NewRootedReader(root string, inner remoteio.InputReader) *RootedReader {
	if inner == nil {
		inner = remoteio.NewUniversalInputReader(nil, nil)
	}
	return &RootedReader{Root: root, inner: inner}
}

// Open はパスを検査してから内側のリーダーで開きます。
func (r *RootedReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	path, err := r.resolvePath(uri)
	if err != nil {
		return nil, err
	}
	return r.inner.Open(ctx, path)
}

// List はパスを検査してから内側のリーダーで直下のファイルを列挙します。
func (r *RootedReader) List(ctx context.Context, uri string, fn func(string) error) error {
	path, err := r.resolvePath(uri)
	if err != nil {
		return err
	}
	return r.inner.List(ctx, path, fn)
}

func (r *RootedReader) resolvePath(uri string) (string, error) {
	if remoteio.IsRemoteURI(uri) {
		return uri, nil
	}
	if i := strings.Index(uri, "://"); i > 0 && !strings.HasPrefix(uri, "file://") {
		return "", fmt.Errorf("unsupported scheme: %s", uri[:i])
	}
	path := filepath.Clean(strings.TrimPrefix(uri, "file://"))
	if r.Root == "" {
		return path, nil
	}

	root, err := filepath.Abs(r.Root)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside of %s", uri, r.Root)
	}
	return path, nil
}

var _ remoteio.InputReader = (*RootedReader)(nil)
