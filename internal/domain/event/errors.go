package event

import (
	"errors"
	"strings"
)

// Event ドメインのエラー定義
var (
	ErrEventNotFound = errors.New("イベントが見つかりません")
	ErrInvalidDate   = errors.New("日付はYYYY-MM-DD形式である必要があります")
	ErrValidation    = errors.New("必須項目をすべて入力してください")
)

// ValidationError はイベントフォームの入力不備を表す
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Fields, ", ")
}

// Is は errors.Is(err, ErrValidation) を成立させる
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
