package sphinxconf

import (
	"fmt"
	"os"
	"time"

	"github.com/honeybbq/sphinxconf/pkg/scerrors"
)

// Source is one raw configuration input: the complete text plus the name
// used in diagnostics (usually the file path, "<input>" when absent).
type Source struct {
	Name    string // Diagnostic name (file path or "-" for stdin)
	Content []byte // Raw configuration text
}

// NewSource wraps in-memory text as a Source.
func NewSource(name string, content []byte) *Source {
	return &Source{Name: name, Content: content}
}

// ReadSource 读取整个文件作为解析输入。文件缺失或不可读返回 KindInput。
func ReadSource(path string) (*Source, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, scerrors.New(scerrors.KindInput, fmt.Errorf("read %s: %w", path, err))
	}
	return &Source{Name: path, Content: content}, nil
}

// Metadata stores information about how and when the output was generated.
type Metadata struct {
	Format    string    // Format identifier (always "sphinx")
	Generated time.Time // Timestamp when the output was produced
}

// Output represents the complete result of a render operation.
type Output struct {
	Content  []byte   // Serialized configuration text
	Metadata Metadata // Generation metadata
}

// NewOutput creates an empty Output with initialized metadata.
func NewOutput(format string) *Output {
	return &Output{
		Metadata: Metadata{
			Format:    format,
			Generated: time.Now(),
		},
	}
}

// WriteOutput 将序列化结果写入文件（覆盖写）。写失败返回 KindRender。
func WriteOutput(path string, out *Output) error {
	if out == nil {
		return scerrors.New(scerrors.KindRender, fmt.Errorf("nil output"))
	}
	if err := os.WriteFile(path, out.Content, 0o644); err != nil {
		return scerrors.New(scerrors.KindRender, fmt.Errorf("write %s: %w", path, err))
	}
	return nil
}
