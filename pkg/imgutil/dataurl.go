package imgutil

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// PNGMimeType は送受信する画像に付ける固定の MIME タイプです。
const PNGMimeType = "image/png"

// StripDataURLPrefix は "data:image/png;base64," のような先頭部分を取り除きます。
// カンマがない、またはカンマ以降が空の場合は入力をそのまま返します。
func StripDataURLPrefix(s string) string {
	if _, payload, found := strings.Cut(s, ","); found && payload != "" {
		return payload
	}
	return s
}

// DecodeDataURL は data URL（または生の base64）を画像バイト列に戻します。
func DecodeDataURL(s string) ([]byte, error) {
	payload := strings.TrimSpace(StripDataURLPrefix(s))
	if payload == "" {
		return nil, fmt.Errorf("empty image payload")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image payload: %w", err)
	}
	return data, nil
}

// EncodeDataURL はバイト列を指定した MIME タイプの data URL にします。
func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// EncodePNGDataURL は固定の image/png で data URL を作ります。
func EncodePNGDataURL(data []byte) string {
	return EncodeDataURL(PNGMimeType, data)
}

// DetectImageMimeType はバイト列の MIME タイプを判定し、画像でなければエラーを返します。
func DetectImageMimeType(data []byte) (string, error) {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("not an image: detected %s", mimeType)
	}
	return mimeType, nil
}
