package dashboard

import "fmt"

// ErrorKind classifies a failed fetch for message selection and logging.
type ErrorKind string

const (
	ErrNetwork ErrorKind = "network"
	ErrTimeout ErrorKind = "timeout"
	ErrServer  ErrorKind = "server"
	ErrParse   ErrorKind = "parse"
	ErrUnknown ErrorKind = "unknown"
)

// messages maps each kind to its user-visible text.
var messages = map[ErrorKind]string{
	ErrNetwork: "ネットワークエラーが発生しました。接続を確認してください。",
	ErrTimeout: "リクエストがタイムアウトしました。しばらくしてからお試しください。",
	ErrServer:  "サーバーエラーが発生しました。管理者に連絡してください。",
	ErrParse:   "データの解析に失敗しました。",
	ErrUnknown: "予期しないエラーが発生しました。",
}

// MsgNotConfigured is shown when polling never starts.
const MsgNotConfigured = "設定エラー: エンドポイントURLが設定されていません"

// FetchError is a classified fetch failure.
type FetchError struct {
	Kind   ErrorKind
	Status int // HTTP status for ErrServer, 0 otherwise
	Err    error
}

// Error implements error.
func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (HTTP %d): %v", e.Kind, e.Status, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

// Unwrap exposes the cause.
func (e *FetchError) Unwrap() error { return e.Err }

// Message returns the user-visible text for a fetch failure.
func Message(err error) string {
	if fe, ok := err.(*FetchError); ok {
		if msg, ok := messages[fe.Kind]; ok {
			return msg
		}
	}
	return messages[ErrUnknown]
}
