//go:build windows

package console

import (
	"sync"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

const (
	ctrlCEvent     = 0
	ctrlBreakEvent = 1
)

var (
	kernel32                  = windows.NewLazySystemDLL("kernel32.dll")
	procGetConsoleWindow      = kernel32.NewProc("GetConsoleWindow")
	procFreeConsole           = kernel32.NewProc("FreeConsole")
	procSetConsoleCtrlHandler = kernel32.NewProc("SetConsoleCtrlHandler")
)

// LaunchedFromExplorer reports whether the parent process is explorer.exe,
// i.e. the program was double-clicked.
func LaunchedFromExplorer() bool {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return false
	}
	defer windows.CloseHandle(snap)

	self := windows.GetCurrentProcessId()
	names := make(map[uint32]string)
	var parent uint32

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	for err = windows.Process32First(snap, &entry); err == nil; err = windows.Process32Next(snap, &entry) {
		names[entry.ProcessID] = windows.UTF16ToString(entry.ExeFile[:])
		if entry.ProcessID == self {
			parent = entry.ParentProcessID
		}
	}
	return parent != 0 && isExplorer(names[parent])
}

// Detach frees the console window that Windows created for a double-clicked
// console build.
func Detach() {
	if hwnd, _, _ := procGetConsoleWindow.Call(); hwnd != 0 {
		procFreeConsole.Call()
	}
}

var (
	handlerMu sync.Mutex
	handlerCh chan struct{}
	closeOnce sync.Once
	callback  = windows.NewCallback(func(ctrlType uint32) uintptr {
		if ctrlType != ctrlCEvent && ctrlType != ctrlBreakEvent {
			return 0
		}
		handlerMu.Lock()
		ch := handlerCh
		handlerMu.Unlock()
		if ch != nil {
			closeOnce.Do(func() { close(ch) })
		}
		return 1
	})
)

// NotifyInterrupt closes ch on Ctrl+C or Ctrl+Break. SDL replaces console
// handlers during init; call the returned func afterwards to register again.
func NotifyInterrupt(ch chan struct{}, log *zap.Logger) func() {
	if log == nil {
		log = zap.NewNop()
	}
	handlerMu.Lock()
	handlerCh = ch
	handlerMu.Unlock()

	register := func() {
		if ret, _, err := procSetConsoleCtrlHandler.Call(callback, 1); ret == 0 {
			log.Warn("Failed to set console control handler", zap.Error(err))
		}
	}
	register()
	return register
}
