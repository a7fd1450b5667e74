package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	backend "github.com/honeybbq/sphinxconf/backend/sphinx"
	"github.com/honeybbq/sphinxconf/pkg/sphinxconf"
)

// testdataPath 返回 testdata/sphinx 下某个文件的路径。
func testdataPath(name string) string {
	return filepath.Join("..", "testdata", "sphinx", name)
}

// loadConfig 解析 testdata 里的配置文件。
func loadConfig(t *testing.T, name string) *backend.Config {
	t.Helper()
	cfg := backend.New()
	if err := cfg.Load(context.Background(), testdataPath(name)); err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return cfg
}

// readGolden 读取期望输出文件。
func readGolden(t *testing.T, name string) string {
	t.Helper()
	raw, err := os.ReadFile(testdataPath(name))
	if err != nil {
		t.Fatalf("read golden %s: %v", name, err)
	}
	return string(raw)
}

// renderConfig 把当前文档序列化为文本。
func renderConfig(t *testing.T, cfg *backend.Config) string {
	t.Helper()
	text, err := cfg.AsString(context.Background(), sphinxconf.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return text
}

// normalizeConfig 标准化配置文本用于比较
// 1. 去除首尾空白
// 2. 统一换行符
func normalizeConfig(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return text
}

// compareConfigs 比较配置内容，忽略首尾空白差异
func compareConfigs(got, want string) bool {
	return normalizeConfig(got) == normalizeConfig(want)
}

// formatConfigDiff 格式化配置差异信息
func formatConfigDiff(got, want string) string {
	gotNorm := normalizeConfig(got)
	wantNorm := normalizeConfig(want)

	if gotNorm == wantNorm {
		return "configs match (after normalization)"
	}

	gotLines := strings.Split(gotNorm, "\n")
	wantLines := strings.Split(wantNorm, "\n")

	var b strings.Builder
	fmt.Fprintf(&b, "config mismatch (got %d lines, want %d lines)\n", len(gotLines), len(wantLines))
	fmt.Fprintf(&b, "--- got (normalized) ---\n%s\n", gotNorm)
	fmt.Fprintf(&b, "--- want (normalized) ---\n%s\n", wantNorm)

	// 逐行比较找出差异
	maxLines := len(gotLines)
	if len(wantLines) > maxLines {
		maxLines = len(wantLines)
	}

	fmt.Fprintf(&b, "--- line-by-line diff ---\n")
	for i := 0; i < maxLines; i++ {
		var gotLine, wantLine string
		if i < len(gotLines) {
			gotLine = gotLines[i]
		}
		if i < len(wantLines) {
			wantLine = wantLines[i]
		}

		if gotLine != wantLine {
			fmt.Fprintf(&b, "Line %d differs:\n", i+1)
			fmt.Fprintf(&b, "  got:  %q\n", gotLine)
			fmt.Fprintf(&b, "  want: %q\n", wantLine)
		}
	}

	return b.String()
}
