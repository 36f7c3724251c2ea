package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Qendolin/rfid-scan-logger/pkg/core/scanlog"
	"github.com/Qendolin/rfid-scan-logger/pkg/logging"
	"github.com/Qendolin/rfid-scan-logger/pkg/ui"
	"github.com/Qendolin/rfid-scan-logger/pkg/ui/pages"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// App orchestrates the TUI application. Every change to the scan log runs as
// a job on a single queue, so stores see writes strictly in arrival order.
type App struct {
	*tview.Application
	layoutManager *ui.LayoutManager
	navManager    *ui.NavigationManager
	dialogManager *ui.DialogManager
	logger        *logging.Logger

	cfg     *Config
	backend *Backend
	session *scanlog.Session
	jobs    *jobQueue
	now     func() time.Time

	scanPage *pages.ScanPage
	logPage  *pages.LogPage

	appCtx    context.Context
	cancelApp context.CancelFunc

	shutdownWg sync.WaitGroup
	stopOnce   sync.Once
}

// NewApp creates the application around an opened backend. The job queue
// is running when NewApp returns.
func NewApp(logger *logging.Logger, cfg *Config, backend *Backend) *App {
	appCtx, cancelApp := context.WithCancel(context.Background())

	a := &App{
		Application: tview.NewApplication(),
		logger:      logger,
		cfg:         cfg,
		backend:     backend,
		session:     scanlog.NewSession(backend.Store, cfg.Format()),
		jobs:        newJobQueue(),
		now:         time.Now,
		appCtx:      appCtx,
		cancelApp:   cancelApp,
	}

	a.layoutManager = ui.NewLayoutManager(a, appCtx)
	a.navManager = ui.NewNavigationManager(a, a.layoutManager.Pages())
	a.dialogManager = ui.NewDialogManager(a)
	a.SetRoot(a.layoutManager.RootPrimitive(), true)

	a.scanPage = pages.NewScanPage(a)
	a.logPage = pages.NewLogPage(appCtx, a)
	a.navManager.Register(ui.PageScanID, a.scanPage)
	a.navManager.Register(ui.PageLogID, a.logPage)

	a.setupGlobalInputCapture()
	a.jobs.start(appCtx, &a.shutdownWg)

	return a
}

// setupGlobalInputCapture defines application-wide keybindings.
func (a *App) setupGlobalInputCapture() {
	a.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlL:
			go a.QueueUpdateDraw(a.navManager.ToggleLogPage)
			return nil
		case tcell.KeyCtrlC:
			go a.QueueUpdateDraw(a.dialogManager.ShowQuitDialog)
			return nil
		}
		return event
	})
}

// Restore loads previously persisted entries into the session. Stores that
// cannot be read back leave the session empty.
func (a *App) Restore(ctx context.Context) error {
	if _, err := a.session.Restore(ctx); err != nil {
		logging.Errorf("App: Restoring the log failed: %v", err)
		return err
	}
	return nil
}

// Run shows the scan page and starts the tview event loop. startupErr, if
// set, is shown in an error dialog once the UI is up.
func (a *App) Run(startupErr error) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	return a.runOn(screen, startupErr)
}

func (a *App) runOn(screen tcell.Screen, startupErr error) error {
	a.navManager.SwitchTo(ui.PageScanID)
	if startupErr != nil {
		a.dialogManager.ShowErrorDialog("Startup Error", scanlog.Describe(startupErr), startupErr, nil)
	}

	a.SetScreen(screen)
	screen.SetTitle("RFID Scan Logger")
	a.EnableMouse(true)
	a.EnablePaste(true)
	return a.Application.Run()
}

// Stop cancels background work, waits for queued log writes and stops the
// event loop.
func (a *App) Stop() {
	a.stopOnce.Do(func() {
		a.cancelApp()
		a.shutdownWg.Wait()
		a.Application.Stop()
	})
}

// AppInterface methods to be called by UI components
func (a *App) GetLogger() *logging.Logger        { return a.logger }
func (a *App) Navigation() *ui.NavigationManager { return a.navManager }
func (a *App) Dialogs() *ui.DialogManager        { return a.dialogManager }
func (a *App) Layout() *ui.LayoutManager         { return a.layoutManager }
func (a *App) Session() *scanlog.Session         { return a.session }

// GetViewModel returns a snapshot of the session for rendering.
func (a *App) GetViewModel() ui.ScanViewModel {
	vm := ui.ScanViewModel{
		StoreName: a.backend.Store.Name(),
		Entries:   a.session.Entries(),
		Format:    a.session.Format(),
	}
	if a.backend.File != nil {
		vm.CanSelectFile = true
		vm.FilePath = a.backend.File.Path()
	}
	return vm
}

// SubmitScan timestamps code now and queues it for logging.
func (a *App) SubmitScan(code string) {
	at := a.now()
	a.jobs.submit(a.appCtx, "scan", func(ctx context.Context) {
		entry, err := a.session.Add(ctx, code, at)
		if errors.Is(err, scanlog.ErrEmptyCode) {
			return
		}
		if err != nil {
			logging.Errorf("App: Could not log '%s': %v", code, err)
			a.showError("Scan Not Saved", err)
			return
		}
		logging.Infof("App: Logged '%s' at %s.", entry.Code, entry.Timestamp)
		a.refreshScans()
	})
}

// SelectLogFile queues switching the append target to path.
func (a *App) SelectLogFile(path string) {
	if a.backend.File == nil {
		logging.Warnf("App: Ignoring log file selection, the %s store has no file.", a.cfg.Store)
		return
	}
	a.jobs.submit(a.appCtx, "select-file", func(ctx context.Context) {
		if err := a.backend.File.Select(path); err != nil {
			logging.Errorf("App: Could not select log file: %v", err)
			a.showError("File Not Selected", err)
			return
		}
		a.refreshScans()
		go a.QueueUpdateDraw(func() {
			a.dialogManager.ShowInfoDialog("Log File", "Log file selected successfully.", tview.Escape(path), nil)
		})
	})
}

// ExportLog queues writing the whole log to a new file in the export directory.
func (a *App) ExportLog() {
	now := a.now()
	a.jobs.submit(a.appCtx, "export", func(ctx context.Context) {
		path, err := a.session.ExportToDir(a.cfg.ExportDir, now)
		switch {
		case errors.Is(err, scanlog.ErrNothingToExport):
			logging.Infof("App: Nothing to export.")
			go a.QueueUpdateDraw(func() {
				a.dialogManager.ShowInfoDialog("Save", scanlog.Describe(err), "", nil)
			})
		case err != nil:
			logging.Errorf("App: Export failed: %v", err)
			a.showError("Save Failed", err)
		default:
			n := a.session.Len()
			logging.Infof("App: Exported %d entries to %s.", n, path)
			go a.QueueUpdateDraw(func() {
				a.dialogManager.ShowInfoDialog("Save", fmt.Sprintf("Saved %d entries.", n), tview.Escape(path), nil)
			})
		}
	})
}

// ClearLog asks for confirmation and then queues clearing the log.
func (a *App) ClearLog() {
	a.dialogManager.ShowQuestionDialog("Clear Log",
		"Are you sure you want to clear the log display?",
		a.clearDetails(),
		a.clearConfirmed,
		func() { logging.Debugf("App: Clear cancelled.") })
}

func (a *App) clearDetails() string {
	if _, ok := a.backend.Store.(scanlog.Clearer); ok {
		return "The saved log in " + tview.Escape(a.backend.Store.Name()) + " is deleted as well."
	}
	return "Entries already written to the log file are kept."
}

func (a *App) clearConfirmed() {
	a.jobs.submit(a.appCtx, "clear", func(ctx context.Context) {
		if err := a.session.Clear(ctx); err != nil {
			logging.Errorf("App: Clearing the log failed: %v", err)
			a.showError("Clear Failed", err)
			return
		}
		go a.QueueUpdateDraw(func() {
			a.scanPage.RefreshScans()
			a.scanPage.ResetInput()
		})
	})
}

// refreshScans re-renders the scan page from the session on the UI thread.
func (a *App) refreshScans() {
	go a.QueueUpdateDraw(a.scanPage.RefreshScans)
}

func (a *App) showError(title string, err error) {
	go a.QueueUpdateDraw(func() {
		a.dialogManager.ShowErrorDialog(title, scanlog.Describe(err), err, nil)
	})
}
