package tray

import (
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"

	"fyne.io/systray"
	"go.uber.org/zap"
)

// ShutdownFunc is called when "Exit" is clicked
type ShutdownFunc func()

// ToggleFunc switches between the hardware controller and default bindings.
type ToggleFunc func(useHardware bool)

type Options struct {
	URL      string
	Hardware bool // initial checkbox state
	Toggle   ToggleFunc
	Shutdown ShutdownFunc
	Log      *zap.Logger
}

// Tray manages the system tray icon and menu
type Tray struct {
	opts         Options
	log          *zap.Logger
	once         sync.Once
	shuttingDown atomic.Bool
	menuOpen     *systray.MenuItem
	menuHardware *systray.MenuItem
	menuExit     *systray.MenuItem
}

func New(opts Options) *Tray {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Tray{opts: opts, log: log}
}

// Run initializes and runs the system tray (blocks until Quit())
func (t *Tray) Run(iconData []byte) {
	systray.Run(func() {
		t.onReady(iconData)
	}, t.onExit)
}

func (t *Tray) onReady(iconData []byte) {
	if iconData != nil {
		systray.SetIcon(iconData)
	}
	systray.SetTitle("padbridge")
	systray.SetTooltip("padbridge - " + t.opts.URL)

	t.menuOpen = systray.AddMenuItem("Open Browser", "Open the touch surface")
	t.menuHardware = systray.AddMenuItemCheckbox("Use Hardware Controller", "Toggle the hardware controller", t.opts.Hardware)
	systray.AddSeparator()
	t.menuExit = systray.AddMenuItem("Exit", "Quit application")

	// Handle menu clicks in separate goroutines to prevent blocking
	go t.handleMenuClicks()

	t.log.Info("System tray initialized")
}

func (t *Tray) handleMenuClicks() {
	for {
		select {
		case <-t.menuOpen.ClickedCh:
			if !t.shuttingDown.Load() {
				t.openBrowser()
			}
		case <-t.menuHardware.ClickedCh:
			if t.shuttingDown.Load() {
				continue
			}
			on := !t.menuHardware.Checked()
			if on {
				t.menuHardware.Check()
			} else {
				t.menuHardware.Uncheck()
			}
			if t.opts.Toggle != nil {
				t.opts.Toggle(on)
			}
		case <-t.menuExit.ClickedCh:
			if t.shuttingDown.CompareAndSwap(false, true) {
				if t.opts.Shutdown != nil {
					t.once.Do(t.opts.Shutdown)
				}
				systray.Quit()
				return
			}
		}
	}
}

// Quit removes the tray icon, e.g. on a signal-triggered shutdown.
func (t *Tray) Quit() {
	if t.shuttingDown.CompareAndSwap(false, true) {
		systray.Quit()
	}
}

func (t *Tray) onExit() {
	t.shuttingDown.Store(true)
	t.log.Info("System tray exiting")
}

func (t *Tray) openBrowser() {
	name, args := browserCommand(runtime.GOOS, t.opts.URL)
	if err := exec.Command(name, args...).Start(); err != nil {
		t.log.Warn("Failed to open browser", zap.String("url", t.opts.URL), zap.Error(err))
	}
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		return "open", []string{url}
	default:
		return "xdg-open", []string{url}
	}
}
