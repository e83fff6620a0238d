package store

import (
	"errors"
	"fmt"
)

// ErrRemote はリモートストアとの通信失敗全般を表す
var ErrRemote = errors.New("リモートストアへのリクエストに失敗しました")

// RemoteError はリモートストアへのリクエストが失敗したことを表す
// StatusCode が 0 の場合は通信そのものが失敗している
type RemoteError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return e.Message + ": " + e.Err.Error()
		}
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is は errors.Is(err, ErrRemote) を成立させる
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}
