package loader

import (
	"errors"
	"strings"
	"testing"
)

func TestYAMLLoader_Load(t *testing.T) {
	memfs := memFS{"/config.yaml": `
encoding:
  candidates: [UTF-8, CURRENT, GB18030]
loader:
  maxFileSize: 1048576
  rejectBinary: false
`}

	config, err := NewYAMLLoaderWithFS(memfs, "/config.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	loader, ok := config["loader"].(map[string]any)
	if !ok {
		t.Fatalf("expected loader to be a map, got %T", config["loader"])
	}
	if loader["maxFileSize"] != 1048576 {
		t.Errorf("maxFileSize = %v (%T)", loader["maxFileSize"], loader["maxFileSize"])
	}
	if loader["rejectBinary"] != false {
		t.Errorf("rejectBinary = %v", loader["rejectBinary"])
	}

	candidates := config["encoding"].(map[string]any)["candidates"].([]any)
	if len(candidates) != 3 || candidates[2] != "GB18030" {
		t.Errorf("candidates = %v", candidates)
	}
}

func TestYAMLLoader_LoadNonExistent(t *testing.T) {
	config, err := NewYAMLLoaderWithFS(memFS{}, "/missing.yaml").Load()
	if err != nil || config != nil {
		t.Errorf("expected nil, nil; got %v, %v", config, err)
	}
}

func TestYAMLLoader_LoadInvalid(t *testing.T) {
	_, err := NewYAMLLoader("").LoadFromReader(strings.NewReader("detect:\n  sniff: true\n bad: [\n"))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got: %v", err)
	}
	if perr.Path != "<reader>" {
		t.Errorf("Path = %q", perr.Path)
	}
}

func TestYAMLErrorLine(t *testing.T) {
	if got := yamlErrorLine(errors.New("yaml: line 7: did not find expected key")); got != 7 {
		t.Errorf("line = %d, want 7", got)
	}
	if got := yamlErrorLine(errors.New("something else")); got != 0 {
		t.Errorf("line = %d, want 0", got)
	}
}
