package sphinx

import (
	"context"
	"fmt"
	"strings"

	ast "github.com/honeybbq/sphinxconf/pkg/ast/sphinx"
	"github.com/honeybbq/sphinxconf/pkg/scerrors"
	"github.com/honeybbq/sphinxconf/pkg/sphinxconf"
)

// PlainTextRenderer 将文档渲染回 sphinx.conf 纯文本。
//
// With preserve-inheritance on, output is minimal: keys whose value is still
// purely inherited are omitted and the ": parent" syntax is reproduced. With
// the mode off every section is flattened to a standalone, complete block.
type PlainTextRenderer struct{}

func NewPlainTextRenderer() *PlainTextRenderer {
	return &PlainTextRenderer{}
}

// Render 实现 renderer.Renderer。
func (r *PlainTextRenderer) Render(ctx context.Context, doc *ast.Document, opts sphinxconf.RenderOptions) (*sphinxconf.Output, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if doc == nil {
		return nil, scerrors.New(scerrors.KindRender, fmt.Errorf("document is nil"))
	}

	var b strings.Builder
	for _, line := range opts.Comment {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	preserve := doc.PreserveInheritance()
	sections := doc.Sections()
	for i, section := range sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		b.WriteString(string(section.Type()))
		if name := section.Name(); name != "" {
			b.WriteByte(' ')
			b.WriteString(name)
		}
		if parent := section.Parent(); parent != "" && preserve {
			b.WriteString(" : ")
			b.WriteString(parent)
		}
		b.WriteString(" {\n")

		// 排序保证输出确定性。
		for _, key := range section.Keys() {
			if preserve && section.Inherited(key) {
				continue
			}
			value, _ := section.Value(key)
			for _, item := range value {
				fmt.Fprintf(&b, "\t%s = %s\n", key, item)
			}
		}

		b.WriteString("}\n")
		if i < len(sections)-1 {
			b.WriteByte('\n')
		}
	}

	out := sphinxconf.NewOutput("sphinx")
	out.Content = []byte(b.String())
	return out, nil
}
