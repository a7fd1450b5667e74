package sphinx

import (
	"strings"

	"github.com/honeybbq/sphinxconf/pkg/scerrors"
	"github.com/honeybbq/sphinxconf/pkg/sphinxconf"
)

// logicalLine is one comment-stripped, continuation-spliced line together
// with the 1-based number of the physical line it started on.
type logicalLine struct {
	text string
	line int
}

// stripComment removes a '#' comment and the run of blanks in front of it.
// 注释在拼接续行之前去掉，所以续行符后面允许跟注释。
func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return strings.TrimRight(line[:i], " \t")
	}
	return line
}

// splitLogical turns raw text into logical lines. A physical line whose last
// non-blank character is a backslash is joined with the next physical line,
// the backslash and trailing blanks collapsing to a single space; this
// repeats across multiple continued lines. A continuation pending at end of
// input is used as-is under the default lenient policy and rejected under
// opts.Strict.
func splitLogical(src *sphinxconf.Source, opts sphinxconf.ParseOptions) ([]logicalLine, error) {
	raw := strings.Split(string(src.Content), "\n")
	lines := make([]logicalLine, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		start := i + 1
		text := stripComment(strings.TrimSuffix(raw[i], "\r"))
		for {
			trimmed := strings.TrimRight(text, " \t")
			if !strings.HasSuffix(trimmed, `\`) {
				break
			}
			head := strings.TrimRight(trimmed[:len(trimmed)-1], " \t") + " "
			if i+1 >= len(raw) {
				if opts.Strict {
					return nil, scerrors.NewParse(scerrors.KindSyntax, src.Name, i+1,
						"continuation at end of input")
				}
				text = head
				break
			}
			i++
			text = head + stripComment(strings.TrimSuffix(raw[i], "\r"))
		}
		lines = append(lines, logicalLine{text: text, line: start})
	}
	return lines, nil
}

// headerToken is one whitespace-delimited word of a section header line.
// end 记录 token 结束处的字节偏移，便于把 '{' 之后的剩余原文转交内层状态。
type headerToken struct {
	text string
	end  int
}

// headerTokens splits a header line into tokens. '{', '}' and ':' are
// standalone tokens even when glued to a word, so "index a:b{" tokenizes the
// same as "index a : b {".
func headerTokens(text string) []headerToken {
	var tokens []headerToken
	i := 0
	for i < len(text) {
		switch c := text[i]; {
		case c == ' ' || c == '\t':
			i++
		case c == '{' || c == '}' || c == ':':
			tokens = append(tokens, headerToken{text: string(c), end: i + 1})
			i++
		default:
			j := i
			for j < len(text) && strings.IndexByte(" \t{}:", text[j]) < 0 {
				j++
			}
			tokens = append(tokens, headerToken{text: text[i:j], end: j})
			i = j
		}
	}
	return tokens
}
