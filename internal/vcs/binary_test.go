package vcs

import (
	"strings"
	"testing"
)

func TestIsBinary(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"empty", nil, false},
		{"text", []byte("package main\n"), false},
		{"utf8", []byte("héllo wörld"), false},
		{"png header", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), true},
		{"late null", append([]byte(strings.Repeat("a", binarySniffLen)), 0), false},
	}
	for _, tt := range tests {
		if got := IsBinary(tt.content); got != tt.want {
			t.Errorf("IsBinary(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
