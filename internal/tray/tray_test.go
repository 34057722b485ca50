package tray

import (
	"bytes"
	"slices"
	"testing"
)

func TestBrowserCommand(t *testing.T) {
	const url = "http://localhost:8080"
	tests := []struct {
		goos string
		name string
		args []string
	}{
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", url}},
		{"darwin", "open", []string{url}},
		{"linux", "xdg-open", []string{url}},
		{"freebsd", "xdg-open", []string{url}},
	}
	for _, tt := range tests {
		name, args := browserCommand(tt.goos, url)
		if name != tt.name || !slices.Equal(args, tt.args) {
			t.Errorf("%s: got %s %v, want %s %v", tt.goos, name, args, tt.name, tt.args)
		}
	}
}

func TestIconIsICO(t *testing.T) {
	icon := GetIcon()
	if !bytes.HasPrefix(icon, []byte{0, 0, 1, 0}) {
		t.Errorf("icon header = % x", icon[:min(4, len(icon))])
	}
}
