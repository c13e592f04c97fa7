package evaluator_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/ConradIrwin/treejson/evaluator"
)

func readExamples(t *testing.T, path string) [][2]string {
	t.Helper()
	examples, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read examples file: %v", err)
	}

	examplesStr := strings.ReplaceAll(string(examples), "␉", "\t")
	examplesStr = strings.ReplaceAll(examplesStr, "␊", "\r")

	var pairs [][2]string
	for _, example := range strings.Split(examplesStr, "\n===\n") {
		parts := strings.SplitN(example, "\n---\n", 2)
		if len(parts) != 2 {
			t.Fatalf("Invalid example format: %s", example)
		}
		pairs = append(pairs, [2]string{parts[0], strings.TrimSpace(parts[1])})
	}
	return pairs
}

func TestCONL(t *testing.T) {
	for _, example := range readExamples(t, "testdata/conl.txt") {
		input, expected := example[0], example[1]

		v, err := evaluator.EvaluateCONL(input)
		if err != nil {
			t.Fatalf("Failed to parse: %v\nInput: %s", err, input)
		}
		if output := toJSON(v); output != expected {
			t.Fatalf("Mismatch:\nInput: %#v\nExpected: %#v\nGot: %#v", input, expected, output)
		}
	}
}

func TestCONLErrors(t *testing.T) {
	for _, example := range readExamples(t, "testdata/conl_errors.txt") {
		input, expected := example[0], example[1]
		input = strings.ReplaceAll(input, "?", "\xff")

		v, err := evaluator.EvaluateCONL(input)
		if err == nil {
			t.Errorf("Expected to be unable to parse: %s\nGot: %s", input, toJSON(v))
			continue
		}
		var evalErr *evaluator.Error
		if !errors.As(err, &evalErr) || evalErr.Format != "conl" {
			t.Errorf("Expected an *evaluator.Error, got %T", err)
		}
		if err.Error() != expected {
			t.Errorf("Error mismatch:\nInput: %s\nExpected: %#v\nGot: %#v", input, expected, err.Error())
		}
	}
}

func TestCONLEmpty(t *testing.T) {
	v, err := evaluator.EvaluateCONL("")
	if err != nil {
		t.Fatal(err)
	}
	if got := toJSON(v); got != "{}" {
		t.Fatalf("expected an empty object, got %s", got)
	}
}
