package libsass

import (
	"strings"
	"testing"

	"github.com/btouchard/sasspipe/internal/sass"
)

func TestCompileScss(t *testing.T) {
	c := &Compiler{}
	res, err := c.Compile("b { color: red; }", sass.ResolvedOptions{
		File:   "/proj/main.scss",
		Syntax: sass.SyntaxSCSS,
	})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if !strings.Contains(string(res.CSS), "color: red") {
		t.Errorf("CSS = %q, want to contain %q", res.CSS, "color: red")
	}
	if res.Map != nil {
		t.Error("Map attached without a sourcemap request")
	}
}

func TestCompileIndented(t *testing.T) {
	c := &Compiler{}
	res, err := c.Compile("b\n  color: red\n", sass.ResolvedOptions{
		File:   "/proj/main.sass",
		Syntax: sass.SyntaxIndented,
	})
	if err != nil {
		t.Fatalf("Compile() error for indented source: %v", err)
	}
	if !strings.Contains(string(res.CSS), "color: red") {
		t.Errorf("CSS = %q, want to contain %q", res.CSS, "color: red")
	}
}

func TestCompileStyles(t *testing.T) {
	c := &Compiler{}
	res, err := c.Compile("b { color: red; }", sass.ResolvedOptions{
		File:        "/proj/main.scss",
		OutputStyle: "compressed",
	})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if !strings.Contains(string(res.CSS), "b{color:red}") {
		t.Errorf("CSS = %q, want compressed output", res.CSS)
	}
}

func TestCompileSourceMap(t *testing.T) {
	c := &Compiler{}
	res, err := c.Compile("b { color: red; }", sass.ResolvedOptions{
		File:              "/proj/main.scss",
		SourceMap:         true,
		SourceMapContents: true,
	})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if res.Map == nil {
		t.Fatal("Map = nil, want a parsed sourcemap when requested")
	}
	if res.Map.Version != 3 {
		t.Errorf("Map.Version = %d, want 3", res.Map.Version)
	}
	if res.Map.Mappings == "" {
		t.Error("Map.Mappings empty, want mapping data")
	}
}

func TestCompileInvalidSource(t *testing.T) {
	c := &Compiler{}
	_, err := c.Compile("b { color: ", sass.ResolvedOptions{File: "/proj/bad.scss"})
	if err == nil {
		t.Fatal("Compile() succeeded on invalid source, want error")
	}
	if _, ok := err.(*sass.CompileError); !ok {
		t.Errorf("error type = %T, want *sass.CompileError", err)
	}
}

func TestCompileAfterDispose(t *testing.T) {
	c := &Compiler{}
	if err := c.Dispose(); err != nil {
		t.Fatalf("Dispose() error: %v", err)
	}
	if _, err := c.Compile("b {}", sass.ResolvedOptions{}); err == nil {
		t.Error("Compile() after Dispose() succeeded, want error")
	}
}
