package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFromBytesPlainText(t *testing.T) {
	got, err := FromBytes([]byte("hello resume"), ".txt")
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if got != "hello resume" {
		t.Fatalf("got %q", got)
	}
}

func TestFromBytesUnsupportedExtension(t *testing.T) {
	_, err := FromBytes([]byte("x"), ".exe")
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if !strings.Contains(err.Error(), "unsupported file type") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFromBytesEmptyPDF(t *testing.T) {
	if _, err := FromBytes(nil, ".pdf"); err == nil {
		t.Fatal("expected error for empty pdf data")
	}
}

func TestFromBytesCorruptDOCX(t *testing.T) {
	if _, err := FromBytes([]byte("not a zip archive"), ".docx"); err == nil {
		t.Fatal("expected error for corrupt docx data")
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("experience"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if got != "experience" {
		t.Fatalf("got %q", got)
	}

	if _, err := FromFile(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
