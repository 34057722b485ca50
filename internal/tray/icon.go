// Package tray shows the Windows notification area icon with shortcuts to
// the touch surface, the hardware controller toggle and exit.
package tray

import _ "embed"

//go:embed icon.ico
var iconData []byte

// GetIcon returns the embedded ICO image.
func GetIcon() []byte {
	return iconData
}
