package main

import (
	"io/fs"
	"testing"
)

func TestBrowserURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":8080", "http://localhost:8080"},
		{"0.0.0.0:9000", "http://localhost:9000"},
		{"127.0.0.1:8080", "http://127.0.0.1:8080"},
		{"pad.local:80", "http://pad.local:80"},
	}
	for _, tt := range tests {
		if got := browserURL(tt.addr); got != tt.want {
			t.Errorf("browserURL(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestFrontendEmbedded(t *testing.T) {
	fsys := getFrontendFS()
	for _, name := range []string{"index.html", "app.js", "style.css"} {
		if _, err := fs.Stat(fsys, name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
