package sourcemaps

import (
	"reflect"
	"testing"

	"github.com/btouchard/sasspipe/internal/pipeline"
)

func TestParse(t *testing.T) {
	data := []byte(`{"version":3,"sources":["main.scss"],"names":[],"mappings":"AAAA"}`)
	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if m.Version != 3 || len(m.Sources) != 1 || m.Mappings != "AAAA" {
		t.Errorf("Parse() = %+v, want version 3, one source, mappings AAAA", m)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Error("Parse() succeeded on invalid input, want error")
	}
}

func TestApplyDefaultsFile(t *testing.T) {
	a := &pipeline.Asset{Path: "/proj/main.css", Kind: pipeline.Buffered}
	m := &Map{Sources: []string{"main.scss"}, Mappings: "AAAA"}

	if err := Apply(a, m); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if m.File != "main.css" {
		t.Errorf("File = %q, want %q", m.File, "main.css")
	}
	if m.Version != 3 {
		t.Errorf("Version = %d, want 3", m.Version)
	}
	if a.SourceMap != m {
		t.Error("asset does not reference the applied map")
	}
}

func TestApplyKeepsExistingFile(t *testing.T) {
	a := &pipeline.Asset{Path: "/proj/main.css", Kind: pipeline.Buffered}
	m := &Map{File: "custom.css", Mappings: "AAAA"}

	if err := Apply(a, m); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if m.File != "custom.css" {
		t.Errorf("File = %q, want %q", m.File, "custom.css")
	}
}

func TestApplyRelativizesSources(t *testing.T) {
	a := &pipeline.Asset{Path: "/proj/styles/main.css", Kind: pipeline.Buffered}
	m := &Map{
		Sources:  []string{"/proj/styles/main.scss", "/proj/lib/_mixins.scss", "already/relative.scss"},
		Mappings: "AAAA",
	}

	if err := Apply(a, m); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	expected := []string{"main.scss", "../lib/_mixins.scss", "already/relative.scss"}
	if !reflect.DeepEqual(m.Sources, expected) {
		t.Errorf("Sources = %v, want %v", m.Sources, expected)
	}
}

func TestApplyNil(t *testing.T) {
	if err := Apply(nil, &Map{}); err != nil {
		t.Errorf("Apply(nil, m) error: %v", err)
	}
	a := &pipeline.Asset{Path: "/proj/main.css"}
	if err := Apply(a, nil); err != nil {
		t.Errorf("Apply(a, nil) error: %v", err)
	}
	if a.SourceMap != nil {
		t.Error("Apply(a, nil) attached a map")
	}
}
