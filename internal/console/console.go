// Package console handles the Windows console: hiding the window when the
// program was double-clicked, and delivering Ctrl+C while SDL holds the main
// thread. On other platforms it does nothing.
package console

import "strings"

// isExplorer reports whether the executable path names explorer.exe.
func isExplorer(path string) bool {
	if i := strings.LastIndexAny(path, `\/`); i >= 0 {
		path = path[i+1:]
	}
	return strings.EqualFold(path, "explorer.exe")
}
