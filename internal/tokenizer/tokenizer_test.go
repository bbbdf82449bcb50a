package tokenizer

import (
	"testing"

	"github.com/spf13/afero"
)

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

func TestCountBytesText(t *testing.T) {
	result, err := CountBytes(testCounter{}, []byte("hello"))
	if err != nil {
		t.Fatalf("CountBytes error: %v", err)
	}
	if !result.Counted {
		t.Fatalf("expected counted result")
	}
	if result.Tokens != len([]rune("hello")) {
		t.Fatalf("expected %d tokens, got %d", len([]rune("hello")), result.Tokens)
	}
}

func TestCountBytesBinary(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02}
	result, err := CountBytes(testCounter{}, data)
	if err != nil {
		t.Fatalf("CountBytes error: %v", err)
	}
	if result.Counted {
		t.Fatalf("expected binary data to be skipped")
	}
}

func TestCountBytesNilCounter(t *testing.T) {
	if _, err := CountBytes(nil, []byte("x")); err == nil {
		t.Fatalf("expected error for nil counter")
	}
}

func TestCountFile(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	if err := afero.WriteFile(fileSystem, "/out/merged.txt", []byte("héllo"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	result, err := CountFile(testCounter{}, fileSystem, "/out/merged.txt")
	if err != nil {
		t.Fatalf("CountFile error: %v", err)
	}
	if !result.Counted || result.Tokens != 5 {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, err := CountFile(testCounter{}, fileSystem, "/out/missing.txt"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestIsOpenAIModel(t *testing.T) {
	if !isOpenAIModel("gpt-4o") || !isOpenAIModel("text-embedding-3-small") {
		t.Fatalf("expected OpenAI models to be recognized")
	}
	if isOpenAIModel("claude-3") {
		t.Fatalf("unexpected OpenAI match")
	}
}

func TestNewCounterDefault(t *testing.T) {
	counter, model, err := NewCounter(Config{Model: "gpt-4o"})
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}
	if counter == nil {
		t.Fatalf("expected non-nil counter")
	}
	if model != "gpt-4o" {
		t.Fatalf("expected model gpt-4o, got %q", model)
	}
	tokens, err := counter.CountString("hello world")
	if err != nil {
		t.Fatalf("CountString error: %v", err)
	}
	if tokens <= 0 {
		t.Fatalf("expected positive token count, got %d", tokens)
	}
}
