package scerrors

import (
	"errors"
	"fmt"
)

// Kind identifies the high level class of an error surfaced by sphinxconf.
type Kind string

const (
	// KindInput indicates the configuration source 不存在或无法读取。
	KindInput Kind = "input"
	// KindSyntax indicates an unexpected token where a section keyword,
	// name or '{' was expected.
	KindSyntax Kind = "syntax"
	// KindParent 表示 ": parent" 引用了前文不存在的同类型 section。
	KindParent Kind = "parent"
	// KindPair indicates a block line that is neither "key = value",
	// a closing brace, nor blank.
	KindPair Kind = "pair"
	// KindArgument 表示编辑 API 收到形状不合法的参数（用法错误，而非解析错误）。
	KindArgument Kind = "argument"
	// KindRender 表示序列化或写出失败。
	KindRender Kind = "render"
	// KindInternal 表示未知或内部错误。
	KindInternal Kind = "internal"
)

// Error 包装底层错误并附加 Kind，方便调用方根据类型处理。
type Error struct {
	Kind Kind
	Err  error
}

// Error 实现 error 接口。
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap 允许 errors.Is/As 访问底层错误。
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New 创建指定 Kind 的错误。
func New(kind Kind, err error) error {
	if err == nil {
		err = errors.New(string(kind))
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the Kind carried by err, or KindInternal if err was not
// produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ParseError carries the position of a parse-time failure. Line numbers are
// 1-based physical line numbers in the original input.
type ParseError struct {
	File string
	Line int
	Msg  string
}

// Error 实现 error 接口。
func (e *ParseError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s line %d: %s", file, e.Line, e.Msg)
}

// NewParse 创建带有文件/行号诊断的解析错误。
func NewParse(kind Kind, file string, line int, format string, args ...any) error {
	return New(kind, &ParseError{
		File: file,
		Line: line,
		Msg:  fmt.Sprintf(format, args...),
	})
}
