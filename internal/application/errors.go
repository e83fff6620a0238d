package application

import "errors"

// ワークフローのエラー定義
var (
	ErrConfirmationRequired = errors.New("イベントを削除するには確認が必要です")
	ErrActionInProgress     = errors.New("この日付の操作が処理中です。しばらくしてから再度お試しください")
)
