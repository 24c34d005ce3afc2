package reco

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/exp/slices"
)

func TestReadRecords(t *testing.T) {
	input := "7,1000\n# comment\n0, 1010\n\n1,1020\n"
	records, err := ReadRecords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read records: %v", err)
	}
	want := []RawRecord{{7, 1000}, {0, 1010}, {1, 1020}}
	if !slices.Equal(records, want) {
		t.Fatalf("records = %v, want %v", records, want)
	}
}

func TestReadRecordsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"too many fields", "7,1000\n1,2,3\n", 2},
		{"not a number", "7,1000\n0,1010\nx,12\n", 3},
		{"bad timestamp", "7,abc\n", 1},
		{"negative channel", "7,1000\n-1,1010\n", 2},
		{"negative timestamp", "7,-1000\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ReadRecords(strings.NewReader(tt.input))
			var formatErr *InputFormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("expected InputFormatError, got %v", err)
			}
			if formatErr.Line != tt.line {
				t.Errorf("line = %d, want %d", formatErr.Line, tt.line)
			}
			if records != nil {
				t.Errorf("no records expected on error, got %v", records)
			}
		})
	}
}

func TestReadRecordsFile(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "tdc.txt")
	if err := os.WriteFile(filename, []byte("7,5\n1,6\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	records, err := ReadRecordsFile(filename)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %v", records)
	}

	_, err = ReadRecordsFile(filepath.Join(dir, "missing.txt"))
	var openErr *ErrOpenFile
	if !errors.As(err, &openErr) {
		t.Fatalf("expected ErrOpenFile, got %v", err)
	}
}
