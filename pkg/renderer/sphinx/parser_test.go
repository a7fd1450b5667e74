package sphinx

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ast "github.com/honeybbq/sphinxconf/pkg/ast/sphinx"
	"github.com/honeybbq/sphinxconf/pkg/scerrors"
	"github.com/honeybbq/sphinxconf/pkg/sphinxconf"
)

func parseText(t *testing.T, text string) *ast.Document {
	t.Helper()
	doc, err := NewParser().Parse(context.Background(), sphinxconf.NewSource("test.conf", []byte(text)), sphinxconf.ParseOptions{})
	require.NoError(t, err)
	return doc
}

func parseErr(t *testing.T, text string) error {
	t.Helper()
	_, err := NewParser().Parse(context.Background(), sphinxconf.NewSource("test.conf", []byte(text)), sphinxconf.ParseOptions{})
	require.Error(t, err)
	return err
}

func TestParse_BasicSections(t *testing.T) {
	t.Parallel()

	doc := parseText(t, `
source docs
{
	sql_host = localhost
	sql_user = sphinx
}

index main
{
	source = docs
	path = /var/data/main
}

searchd
{
	listen = 9312
	log = /var/log/searchd.log
}
`)

	require.Equal(t, 3, doc.Len())

	v, ok := doc.Get(ast.TypeSource, "docs", "sql_host")
	require.True(t, ok)
	assert.Equal(t, ast.Value{"localhost"}, v)

	v, ok = doc.Get(ast.TypeIndex, "main", "path")
	require.True(t, ok)
	assert.Equal(t, ast.Value{"/var/data/main"}, v)

	v, ok = doc.Get(ast.TypeSearchd, "", "listen")
	require.True(t, ok)
	assert.Equal(t, ast.Value{"9312"}, v)
}

func TestParse_BraceOnHeaderLine(t *testing.T) {
	t.Parallel()

	doc := parseText(t, "index main {\n\tpath = /var/data/main\n}\n")
	v, ok := doc.Get(ast.TypeIndex, "main", "path")
	require.True(t, ok)
	assert.Equal(t, ast.Value{"/var/data/main"}, v)
}

func TestParse_PairAfterBraceSameLine(t *testing.T) {
	t.Parallel()

	// '{' 之后同一逻辑行的剩余文本转入内层状态
	doc := parseText(t, "searchd { listen = 9312\n}\n")
	v, ok := doc.Get(ast.TypeSearchd, "", "listen")
	require.True(t, ok)
	assert.Equal(t, ast.Value{"9312"}, v)
}

func TestParse_SectionAfterClosingBraceSameLine(t *testing.T) {
	t.Parallel()

	doc := parseText(t, "search { } searchd {\n\tlisten = 9312\n}\n")
	require.Equal(t, 2, doc.Len())
	_, ok := doc.Lookup(ast.TypeSearch, "")
	assert.True(t, ok)
	_, ok = doc.Lookup(ast.TypeSearchd, "")
	assert.True(t, ok)
}

func TestParse_GluedHeaderPunctuation(t *testing.T) {
	t.Parallel()

	doc := parseText(t, "index base {\n\tpath = /var/data/base\n}\nindex delta:base{\n}\n")
	v, ok := doc.Get(ast.TypeIndex, "delta", "path")
	require.True(t, ok)
	assert.Equal(t, ast.Value{"/var/data/base"}, v)
}

func TestParse_InheritanceCopiesParentData(t *testing.T) {
	t.Parallel()

	doc := parseText(t, `
index base
{
	path = /var/data/base
	morphology = stem_en
	stopwords = /etc/stop.txt
}

index delta : base
{
	path = /var/data/delta
}
`)

	base, ok := doc.Lookup(ast.TypeIndex, "base")
	require.True(t, ok)
	delta, ok := doc.Lookup(ast.TypeIndex, "delta")
	require.True(t, ok)

	assert.Equal(t, "base", delta.Parent())
	assert.Equal(t, []string{"delta"}, base.Children())

	// 继承的键逐个等于父值并带继承标记；本地声明的 path 例外
	for _, key := range []string{"morphology", "stopwords"} {
		parentV, _ := base.Value(key)
		childV, ok := delta.Value(key)
		require.True(t, ok, key)
		assert.Equal(t, parentV, childV, key)
		assert.True(t, delta.Inherited(key), key)
	}

	v, _ := delta.Value("path")
	assert.Equal(t, ast.Value{"/var/data/delta"}, v)
	assert.False(t, delta.Inherited("path"))
}

func TestParse_RepeatedKeysAccumulate(t *testing.T) {
	t.Parallel()

	doc := parseText(t, `
source docs
{
	sql_attr_uint = group_id
	sql_attr_uint = author_id
	sql_attr_uint = forum_id
}
`)

	v, ok := doc.Get(ast.TypeSource, "docs", "sql_attr_uint")
	require.True(t, ok)
	assert.Equal(t, ast.Value{"group_id", "author_id", "forum_id"}, v)
}

func TestParse_CommentsAndContinuations(t *testing.T) {
	t.Parallel()

	doc := parseText(t, `
source docs # document source
{
	# credentials
	sql_user = sphinx
	sql_query = SELECT id, title, body \
		FROM documents \
		WHERE id <= 1000
}
`)

	v, ok := doc.Get(ast.TypeSource, "docs", "sql_query")
	require.True(t, ok)
	assert.Equal(t, ast.Value{"SELECT id, title, body FROM documents WHERE id <= 1000"}, v)
}

func TestParse_EmptyValue(t *testing.T) {
	t.Parallel()

	doc := parseText(t, "searchd {\n\tlog =\n}\n")
	v, ok := doc.Get(ast.TypeSearchd, "", "log")
	require.True(t, ok)
	assert.Equal(t, ast.Value{""}, v)
}

func TestParse_ValueMayContainEquals(t *testing.T) {
	t.Parallel()

	doc := parseText(t, "source docs {\n\tsql_query_pre = SET NAMES utf8, SESSION query_cache_type=OFF\n}\n")
	v, _ := doc.Get(ast.TypeSource, "docs", "sql_query_pre")
	assert.Equal(t, ast.Value{"SET NAMES utf8, SESSION query_cache_type=OFF"}, v)
}

func TestParse_UnknownSectionType(t *testing.T) {
	t.Parallel()

	err := parseErr(t, "cluster main {\n}\n")
	assert.Equal(t, scerrors.KindSyntax, scerrors.KindOf(err))

	var pe *scerrors.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "test.conf", pe.File)
	assert.Equal(t, 1, pe.Line)
}

func TestParse_MissingBaseSection(t *testing.T) {
	t.Parallel()

	err := parseErr(t, "index delta : base {\n}\n")
	assert.Equal(t, scerrors.KindParent, scerrors.KindOf(err))
	assert.Contains(t, err.Error(), `base index "base" does not exist`)
}

func TestParse_BaseMustPrecedeAndMatchType(t *testing.T) {
	t.Parallel()

	// source 同名不充当 index 的父 section
	err := parseErr(t, "source base {\n}\nindex delta : base {\n}\n")
	assert.Equal(t, scerrors.KindParent, scerrors.KindOf(err))

	// 后声明的父不可见（不允许前向引用）
	err = parseErr(t, "index delta : base {\n}\nindex base {\n}\n")
	assert.Equal(t, scerrors.KindParent, scerrors.KindOf(err))
}

func TestParse_NamelessTypesRejectInheritance(t *testing.T) {
	t.Parallel()

	// searchd 不支持名字，':' 处应报语法错误
	err := parseErr(t, "searchd : other {\n}\n")
	assert.Equal(t, scerrors.KindSyntax, scerrors.KindOf(err))
}

func TestParse_MalformedPair(t *testing.T) {
	t.Parallel()

	err := parseErr(t, "searchd {\n\tlisten 9312\n}\n")
	assert.Equal(t, scerrors.KindPair, scerrors.KindOf(err))

	var pe *scerrors.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)
	assert.Contains(t, pe.Msg, "listen 9312")
}

func TestParse_LineNumbersSpanContinuations(t *testing.T) {
	t.Parallel()

	// 续行拼接后报错行号指向逻辑行起始的物理行
	err := parseErr(t, "searchd {\n\tlisten = 9312\n\tbroken \\\n\tstill broken\n}\n")
	var pe *scerrors.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 3, pe.Line)
}

func TestParse_ErrorReturnsNoDocument(t *testing.T) {
	t.Parallel()

	doc, err := NewParser().Parse(context.Background(), sphinxconf.NewSource("test.conf", []byte("index a {\n\tbad line\n}\n")), sphinxconf.ParseOptions{})
	require.Error(t, err)
	assert.Nil(t, doc)
}

func TestParse_NilSource(t *testing.T) {
	t.Parallel()

	_, err := NewParser().Parse(context.Background(), nil, sphinxconf.ParseOptions{})
	require.Error(t, err)
	assert.Equal(t, scerrors.KindInput, scerrors.KindOf(err))
}

func TestParse_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewParser().Parse(ctx, sphinxconf.NewSource("test.conf", nil), sphinxconf.ParseOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_DuplicateIdentityKeepsBoth(t *testing.T) {
	t.Parallel()

	doc := parseText(t, "index main {\n\tpath = /a\n}\nindex main {\n\tpath = /b\n}\n")
	assert.Equal(t, 2, doc.Len())

	// 索引由最后注册的 section 占据
	v, _ := doc.Get(ast.TypeIndex, "main", "path")
	assert.Equal(t, ast.Value{"/b"}, v)
}
