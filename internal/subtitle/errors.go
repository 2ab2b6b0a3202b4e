package subtitle

import (
	"errors"
	"fmt"
)

// 预定义错误
var (
	// ErrEmptyInput 输入中没有任何字幕
	ErrEmptyInput = errors.New("no subtitles in input")

	// ErrUnknownFormat 无法识别的字幕格式
	ErrUnknownFormat = errors.New("unknown subtitle format")

	// ErrUnknownEncoding 不支持的文本编码
	ErrUnknownEncoding = errors.New("unknown text encoding")

	// ErrMalformedCue 字幕条目格式错误
	ErrMalformedCue = errors.New("malformed cue")
)

// ParseError 解析错误，带出错的行号（从 1 开始）
type ParseError struct {
	Line   int
	Reason string
}

// Error 实现error接口
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d: %s", ErrMalformedCue, e.Line, e.Reason)
}

// Unwrap 返回原因错误
func (e *ParseError) Unwrap() error {
	return ErrMalformedCue
}
