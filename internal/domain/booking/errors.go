package booking

import (
	"errors"
	"fmt"
	"strings"
)

// Booking ドメインのエラー定義
var (
	ErrValidation       = errors.New("予約フォームの必須項目をすべて入力してください")
	ErrCapacityExceeded = errors.New("残席が不足しています")
	ErrEventIDRequired  = errors.New("イベントIDは必須です")
)

// ValidationError は予約フォームの入力不備を表す
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

// CapacityError は希望人数が手元の残席数を超えていることを表す
type CapacityError struct {
	Requested int
	Available int
}

func (e *CapacityError) Error() string {
	available := e.Available
	if available < 0 {
		available = 0
	}
	return fmt.Sprintf("申し訳ありません、残り%d席のみです（希望: %d名）", available, e.Requested)
}

// Is は errors.Is(err, ErrCapacityExceeded) を成立させる
func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}
