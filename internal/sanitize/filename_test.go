package sanitize

import (
	"strings"
	"testing"

	"sharegate/internal/constants"
)

func TestValidFileName(t *testing.T) {
	valid := []string{
		"report.pdf",
		"notes",
		"Quarterly Report (final).docx",
		"data_2024.tar.gz",
		strings.Repeat("a", constants.MaxFileNameLen),
	}
	for _, name := range valid {
		if !ValidFileName(name) {
			t.Errorf("ValidFileName(%q) = false, want true", name)
		}
	}

	invalid := []string{
		"",
		strings.Repeat("a", constants.MaxFileNameLen+1),
		"../etc/passwd",
		"dir/file.txt",
		"dir\\file.txt",
		"name\x00.txt",
		"line\nbreak.txt",
		"tab\there.txt",
	}
	for _, name := range invalid {
		if ValidFileName(name) {
			t.Errorf("ValidFileName(%q) = true, want false", name)
		}
	}
}

func TestIsPathTraversal(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"report.pdf", false},
		{"..", true},
		{"../secret", true},
		{"a/b", true},
		{"a\\b", true},
		{"null\x00byte", true},
		{"%2Fetc%2Fpasswd", true},
		{"%5Cwindows", true},
		{"%00trick", true},
		{"%c0%afbypass", true},
		{"100% legit.txt", false},
	}

	for _, tt := range tests {
		if got := IsPathTraversal(tt.input); got != tt.want {
			t.Errorf("IsPathTraversal(%q) = %t, want %t", tt.input, got, tt.want)
		}
	}
}
