package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/soar/padbridge/internal/character"
	"github.com/soar/padbridge/internal/config"
	"github.com/soar/padbridge/internal/console"
	"github.com/soar/padbridge/internal/gamepad"
	"github.com/soar/padbridge/internal/host"
	"github.com/soar/padbridge/internal/hub"
	"github.com/soar/padbridge/internal/joystick"
	"github.com/soar/padbridge/internal/logger"
	"github.com/soar/padbridge/internal/server"
	"github.com/soar/padbridge/internal/tray"
	"go.uber.org/zap"
)

// os.Interrupt is Ctrl+C on every platform; SIGTERM covers service managers.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "padbridge:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	gui := console.LaunchedFromExplorer()
	if gui {
		console.Detach()
	}

	log, err := logger.New(cfg.Logger())
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	defer signal.Stop(sigCh)
	ctrlC := make(chan struct{})
	reregister := console.NotifyInterrupt(ctrlC, log)

	// Joystick reader. SDL runs on its own locked thread.
	reader := joystick.NewReader(log.Named("joystick"), cfg.Input.Deadzone, cfg.Input.PollInterval)
	readerDone := make(chan struct{})
	go func() {
		reader.Run(ctx)
		close(readerDone)
	}()
	select {
	case <-reader.Ready():
		if err := reader.Err(); err != nil {
			log.Warn("Joystick support unavailable", zap.Error(err))
		}
	case <-time.After(cfg.Input.StartupWait):
		log.Warn("Joystick enumeration timed out", zap.Duration("wait", cfg.Input.StartupWait))
	}
	reregister()

	norm := gamepad.NewNormalizer(reader,
		gamepad.WithTouchRadius(cfg.Input.TouchRadius),
		gamepad.WithLogger(log.Named("gamepad")))

	if cfg.Haptics.Enabled {
		if err := norm.InitializeHaptics(joystick.NewRumbler(reader, log.Named("rumble"))); err != nil {
			log.Warn("Haptics disabled", zap.Error(err))
		}
	}

	// Host world: input bindings, the pawn and the frame loop.
	input := host.NewInputComponent()
	pawn := host.NewPawn(cfg.Character.WalkSpeed)
	clock := &host.Clock{}
	loop := host.NewLoop(input, pawn, clock, cfg.FrameInterval(), log.Named("loop"))

	char := character.New(norm, pawn, pawn, clock, log.Named("character"))
	char.BaseTurnRate = cfg.Character.BaseTurnRate
	char.BaseLookUpRate = cfg.Character.BaseLookUpRate
	char.CameraMoveScale = cfg.Character.CameraMoveScale
	char.SetupPlayerInput(input)

	loopDone := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(loopDone)
	}()

	// WebSocket hub and HTTP server.
	h := hub.NewHub(log.Named("hub"))
	go h.Run(ctx)

	broadcaster := hub.NewBroadcaster(h, norm.Changes(), norm.Snapshot(), log.Named("hub"))
	go broadcaster.Run(ctx)

	controls := &hub.Controls{Input: input, Device: norm}
	srv, err := server.New(h, broadcaster, controls, norm, getFrontendFS(), cfg.Server.Addr, log.Named("http"))
	if err != nil {
		return err
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	url := browserURL(cfg.Server.Addr)
	log.Info("padbridge started", zap.String("url", url))

	shutdownRequested := make(chan struct{})
	var t *tray.Tray
	if runtime.GOOS == "windows" && !cfg.Tray.Disabled {
		t = tray.New(tray.Options{
			URL:      url,
			Hardware: norm.Snapshot().Connected,
			Toggle:   norm.ToggleHardwareController,
			Shutdown: func() { close(shutdownRequested) },
			Log:      log.Named("tray"),
		})
		go t.Run(tray.GetIcon())
	} else if !gui {
		log.Info("Press Ctrl+C to exit")
	}

	var runErr error
	select {
	case <-sigCh:
		log.Info("Shutting down")
	case <-ctrlC:
		log.Info("Shutting down")
	case <-shutdownRequested:
		log.Info("Shutdown requested from tray")
	case runErr = <-serverErrCh:
		log.Error("HTTP server error", zap.Error(runErr))
	}

	// Rumble commands need the reader, so stop haptics before cancelling it.
	if err := norm.CloseHaptics(); err != nil {
		log.Warn("Closing haptics failed", zap.Error(err))
	}
	cancel()
	if t != nil {
		t.Quit()
	}

	<-readerDone
	<-loopDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown error", zap.Error(err))
	}

	log.Info("padbridge stopped")
	return runErr
}

// browserURL turns a listen address into a URL a local browser can open.
func browserURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	} else if h, port, ok := strings.Cut(addr, ":"); ok && h == "0.0.0.0" {
		addr = "localhost:" + port
	}
	return "http://" + addr
}
