package domain

// 画面にそのまま表示する入力エラーの文言です。
const (
	MsgMissingPrimaryImage = "Please upload at least the first person reference."
	MsgMissingLocation     = "Please specify a location."
	MsgMissingPhone        = "Please enter a specific phone model."
)

// ValidationError は生成前の入力チェックで見つかった問題です。
// 呼び出し側の責務で、生成処理には到達しません。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
