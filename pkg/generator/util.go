package generator

import "strings"

// passThrough は通信エラーをそのまま返します。
// メッセージが空の場合だけ ErrGenerationFailed に置き換えるのだ。
func passThrough(err error) error {
	if err == nil {
		return nil
	}
	if strings.TrimSpace(err.Error()) == "" {
		return ErrGenerationFailed
	}
	return err
}
