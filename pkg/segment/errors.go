package segment

import (
	"errors"
	"fmt"
)

// 预定义错误
var (
	// ErrInvalidConfig 无效配置
	ErrInvalidConfig = errors.New("invalid segmenter configuration")

	// ErrInternalSegmentation 切分流程内部失败，只在内部记录，不会返回给调用方
	ErrInternalSegmentation = errors.New("internal segmentation failure")
)

// Stage 切分流程阶段
type Stage string

const (
	StageProtect  Stage = "protect"
	StageSentence Stage = "sentence"
	StagePhrase   Stage = "phrase"
	StageWrap     Stage = "wrap"
	StageRestore  Stage = "restore"
)

// SegmentationError 切分流程中恢复的内部失败
type SegmentationError struct {
	Stage Stage // 发生失败的阶段
	Value any   // recover 得到的值
}

// Error 实现error接口
func (e *SegmentationError) Error() string {
	return fmt.Sprintf("%s at stage '%s': %v", ErrInternalSegmentation, e.Stage, e.Value)
}

// Unwrap 返回原因错误
func (e *SegmentationError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{ErrInternalSegmentation, err}
	}
	return []error{ErrInternalSegmentation}
}

// configError 包装配置错误
func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
