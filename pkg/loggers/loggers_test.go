package loggers

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"banditLab/pkg/logger"
)

func TestNoOp(t *testing.T) {
	var l Logger = NoOp{}
	if err := l.Write(Data{"a": 1}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestSlogForwardsSortedPairs(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	stdout := os.Stdout
	os.Stdout = w
	logger.Init("test")
	defer func() {
		os.Stdout = stdout
		logger.Init("test")
	}()

	l := Slog{Label: "step_trace"}
	if err := l.Write(Data{"reward": 1, "context": 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	line := string(out)
	if !strings.Contains(line, "step_trace") {
		t.Errorf("output missing label: %q", line)
	}
	ctx := strings.Index(line, "context=3")
	rew := strings.Index(line, "reward=1")
	if ctx < 0 || rew < 0 {
		t.Fatalf("output missing record values: %q", line)
	}
	if ctx > rew {
		t.Errorf("keys not emitted in sorted order: %q", line)
	}
}

func TestCSVHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	l := NewCSV(&buf)

	if err := l.Write(Data{"step": 0, "reward": 1, "context": 2}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := l.Write(Data{"step": 1, "reward": 0, "context": 4}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// a record missing a key projects onto the original header
	if err := l.Write(Data{"step": 2, "context": 1}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if lines[0] != "context,reward,step" {
		t.Errorf("header = %q, want sorted keys", lines[0])
	}
	if lines[1] != "2,1,0" {
		t.Errorf("row 1 = %q, want 2,1,0", lines[1])
	}
	if lines[3] != "1,,2" {
		t.Errorf("row 3 = %q, want empty cell for missing key", lines[3])
	}
}

type fakeTensor struct{ vals []float64 }

func (f fakeTensor) FloatSlice() []float64 { return f.vals }

func TestNormalize(t *testing.T) {
	in := Data{
		"scalar": 3.5,
		"tensor": fakeTensor{vals: []float64{1, 2}},
		"nested": map[string]any{
			"deep": []any{fakeTensor{vals: []float64{9}}, "text"},
		},
	}

	out, ok := Normalize(in).(map[string]any)
	if !ok {
		t.Fatal("Normalize did not return a map")
	}

	if out["scalar"] != 3.5 {
		t.Errorf("scalar leaf changed: %v", out["scalar"])
	}
	if got, ok := out["tensor"].([]float64); !ok || len(got) != 2 || got[0] != 1 {
		t.Errorf("tensor leaf = %v, want []float64{1,2}", out["tensor"])
	}

	nested := out["nested"].(map[string]any)
	deep := nested["deep"].([]any)
	if got, ok := deep[0].([]float64); !ok || got[0] != 9 {
		t.Errorf("deep tensor = %v, want []float64{9}", deep[0])
	}
	if deep[1] != "text" {
		t.Errorf("non-tensor leaf changed: %v", deep[1])
	}

	// input containers must not be mutated
	if _, stillTensor := in["tensor"].(fakeTensor); !stillTensor {
		t.Error("Normalize mutated its input")
	}
}
