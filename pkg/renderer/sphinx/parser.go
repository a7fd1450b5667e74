package sphinx

import (
	"context"
	"regexp"
	"strings"

	ast "github.com/honeybbq/sphinxconf/pkg/ast/sphinx"
	"github.com/honeybbq/sphinxconf/pkg/scerrors"
	"github.com/honeybbq/sphinxconf/pkg/sphinxconf"
)

var (
	namePattern = regexp.MustCompile(`^\w+$`)
	pairPattern = regexp.MustCompile(`^\s*(\w+)\s*=(.*)$`)
)

// Parser 实现 renderer.Parser，把 sphinx.conf 文本解析成 *ast.Document。
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse consumes the whole source and returns the document, or the first
// error with file/line diagnostics. Parsing is all-or-nothing: on error no
// partial document is returned.
func (p *Parser) Parse(ctx context.Context, src *sphinxconf.Source, opts sphinxconf.ParseOptions) (*ast.Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if src == nil {
		return nil, scerrors.New(scerrors.KindInput, nil)
	}

	lines, err := splitLogical(src, opts)
	if err != nil {
		return nil, err
	}

	run := &parseRun{
		file: src.Name,
		doc:  ast.NewDocument(),
	}
	for _, ln := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := run.feed(ln.text, ln.line); err != nil {
			return nil, err
		}
	}
	return run.doc, nil
}

// outerState 是外层状态机的取值：按 token 驱动 section 头的识别。
type outerState int

const (
	stateType outerState = iota // 期待 section 关键字
	stateName                   // 期待 source/index 的名字
	stateColonOrBrace           // 期待 ':' 或 '{'
	stateParent                 // 期待父 section 名字
	stateBrace                  // 期待 '{'
)

// parseRun holds the mutable state of one parse: the document under
// construction, the outer-state sequencer, and the section being built.
type parseRun struct {
	file    string
	doc     *ast.Document
	state   outerState
	inBlock bool

	typ     ast.Type
	name    string
	current *ast.Section
}

// feed 处理一条逻辑行；行首物理行号用于诊断。
func (r *parseRun) feed(text string, line int) error {
	if r.inBlock {
		return r.feedBlock(text, line)
	}
	return r.feedHeader(text, line)
}

// feedHeader tokenizes a header line and advances the outer state machine.
// When '{' opens the block, whatever follows it on the same logical line is
// requeued into the inner state.
func (r *parseRun) feedHeader(text string, line int) error {
	tokens := headerTokens(text)
	for _, tok := range tokens {
		switch r.state {
		case stateType:
			typ, ok := ast.ParseType(tok.text)
			if !ok {
				return scerrors.NewParse(scerrors.KindSyntax, r.file, line,
					"expected section type, got %q", tok.text)
			}
			r.typ = typ
			r.name = ""
			r.current = nil
			if typ.Named() {
				r.state = stateName
			} else {
				r.state = stateBrace
			}

		case stateName:
			if !namePattern.MatchString(tok.text) {
				return scerrors.NewParse(scerrors.KindSyntax, r.file, line,
					"expected %s name, got %q", r.typ, tok.text)
			}
			r.name = tok.text
			r.state = stateColonOrBrace

		case stateColonOrBrace:
			switch tok.text {
			case ":":
				r.state = stateParent
			case "{":
				return r.openBlock(text, tok.end, line)
			default:
				return scerrors.NewParse(scerrors.KindSyntax, r.file, line,
					"expected ':' or '{' after %s %s, got %q", r.typ, r.name, tok.text)
			}

		case stateParent:
			if !namePattern.MatchString(tok.text) {
				return scerrors.NewParse(scerrors.KindSyntax, r.file, line,
					"expected base %s name, got %q", r.typ, tok.text)
			}
			parent, ok := r.doc.Lookup(r.typ, tok.text)
			if !ok {
				return scerrors.NewParse(scerrors.KindParent, r.file, line,
					"base %s %q does not exist", r.typ, tok.text)
			}
			r.current = ast.NewSection(r.typ, r.name)
			r.current.InheritFrom(parent)
			r.state = stateBrace

		case stateBrace:
			if tok.text != "{" {
				return scerrors.NewParse(scerrors.KindSyntax, r.file, line,
					"expected '{', got %q", tok.text)
			}
			return r.openBlock(text, tok.end, line)
		}
	}
	return nil
}

// openBlock 完成 section 头，注册到文档，并把 '{' 之后的剩余原文转入内层。
func (r *parseRun) openBlock(text string, offset, line int) error {
	if r.current == nil {
		r.current = ast.NewSection(r.typ, r.name)
	}
	r.doc.Append(r.current)
	r.inBlock = true
	r.state = stateType
	if rest := text[offset:]; strings.TrimSpace(rest) != "" {
		return r.feedBlock(rest, line)
	}
	return nil
}

// feedBlock applies the inner-state rules to one line, in order: a closing
// brace ends the section (text before it is still one pair-or-blank line,
// text after it is requeued into the outer state), then "key = value", then
// blank, anything else is fatal. The format has no escaping, so '}' cannot
// occur inside a value.
func (r *parseRun) feedBlock(text string, line int) error {
	if i := strings.IndexByte(text, '}'); i >= 0 {
		if err := r.blockLine(text[:i], line); err != nil {
			return err
		}
		r.inBlock = false
		r.current = nil
		if rest := text[i+1:]; strings.TrimSpace(rest) != "" {
			return r.feedHeader(rest, line)
		}
		return nil
	}
	return r.blockLine(text, line)
}

// blockLine 处理块内一行（或 '}' 之前的残段）：键值对或空白。
func (r *parseRun) blockLine(text string, line int) error {
	if m := pairPattern.FindStringSubmatch(text); m != nil {
		r.current.AddPair(m[1], strings.TrimSpace(m[2]))
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return scerrors.NewParse(scerrors.KindPair, r.file, line,
		"expected 'key = value', got %q", strings.TrimSpace(text))
}
