package renderer

import (
	"context"

	"github.com/honeybbq/sphinxconf/pkg/sphinxconf"
)

// Renderer 定义文本序列化接口，使用泛型约束文档类型。
type Renderer[T any] interface {
	Render(ctx context.Context, doc T, opts sphinxconf.RenderOptions) (*sphinxconf.Output, error)
}

// Parser 将配置文本解析成领域文档。
type Parser[T any] interface {
	Parse(ctx context.Context, src *sphinxconf.Source, opts sphinxconf.ParseOptions) (T, error)
}
