package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/Qendolin/rfid-scan-logger/pkg/app"
	"github.com/Qendolin/rfid-scan-logger/pkg/logging"
	"github.com/google/uuid"
)

// runTUI starts the interactive scan logger.
func runTUI(cfg *app.Config) error {
	// 1. Setup logging first.
	mainLogger := logging.NewLogger()
	logFile, err := mainLogger.OpenFile(cfg.LogDir, "scan-logger")
	if err != nil {
		return err
	}
	defer logFile.Close()
	mainLogger.SetSessionID(uuid.NewString())
	logging.SetDefault(mainLogger)

	if cfg.Verbose {
		mainLogger.SetDebug(true)
		logging.Infof("Main: Verbose logging enabled.")
	}
	logBuildInfo()

	// 2. Open the configured store and restore the saved log.
	ctx := context.Background()
	backend, startupErr := app.OpenBackend(ctx, cfg)
	if backend == nil {
		logging.Errorf("Main: Could not open store: %v", startupErr)
		return startupErr
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logging.Errorf("Main: Closing store: %v", err)
		}
	}()
	if startupErr != nil {
		logging.Warnf("Main: Starting with unusable storage: %v", startupErr)
	}

	a := app.NewApp(mainLogger, cfg, backend)
	if err := a.Restore(ctx); err != nil {
		startupErr = errors.Join(startupErr, err)
	}

	// 3. Setup OS signal trapping
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			go a.QueueUpdateDraw(a.Dialogs().ShowQuitDialog)
		}
	}()

	// 4. Run the application
	logging.Infof("Main: Application starting up.")
	err = a.Run(startupErr)
	a.Stop()
	if err != nil {
		logging.Errorf("Main: Application exited with error: %v", err)
		return err
	}
	logging.Infof("Main: Application exited gracefully with %d entries.", a.Session().Len())
	return nil
}

func logBuildInfo() {
	if wd, err := os.Getwd(); err != nil {
		logging.Errorf("Main: Failed to get current working directory: %v", err)
	} else {
		logging.Infof("Main: Current Working Directory: %s", wd)
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.time":
			logging.Infof("Main: Build Time: %s", setting.Value)
		case "vcs.revision":
			logging.Infof("Main: Build Revision: %s", setting.Value)
		}
	}
}
