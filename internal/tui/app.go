package tui

import (
	"context"
	"sync"

	"github.com/amellido/triagetui/internal/config"
	"github.com/amellido/triagetui/internal/models"
	"github.com/amellido/triagetui/internal/services"
	"github.com/derailed/tview"
	"github.com/rs/zerolog"
)

// App encapsulates the terminal UI and the synchronization core. All state
// mutations on views happen on the UI thread via QueueUpdateDraw; the
// services push updates in from their own goroutines.
type App struct {
	*tview.Application
	Pages  *tview.Pages
	Config *config.Config

	ctx    context.Context
	cancel context.CancelFunc
	logger zerolog.Logger

	syncService   services.SyncService
	actionService services.ActionService
	notifier      services.NotificationService

	mu    sync.RWMutex
	views map[string]tview.Primitive

	// State mirrored from the last snapshot, for rendering only. The
	// synchronizer remains the authoritative owner.
	emails    []models.EmailRecord
	connected bool

	// rowEmailIDs maps visible table rows (minus header) to email ids. It is
	// torn down and rebuilt on every render cycle so stale bindings cannot
	// outlive the rows they belonged to.
	rowEmailIDs []int

	// inFlight marks rows whose action affordance is currently disabled.
	inFlight map[int]services.ActionKind

	chart          *AnalyticsChart
	chartContainer *tview.Flex

	filterIndex int
}

// NewApp wires the dashboard around a backend client.
func NewApp(cfg *config.Config, client services.BackendClient, logger zerolog.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())

	entry, display, exit := cfg.GetNotificationTimings()
	notifier := services.NewNotificationService(services.NotificationTimings{
		EntryDelay: entry,
		Display:    display,
		Exit:       exit,
	}, logger)

	syncService := services.NewSyncService(client, notifier, cfg.GetRefreshInterval(), logger)
	actionService := services.NewActionService(client, notifier, syncService, syncService, logger)

	a := &App{
		Application:   tview.NewApplication(),
		Pages:         tview.NewPages(),
		Config:        cfg,
		ctx:           ctx,
		cancel:        cancel,
		logger:        logger.With().Str("component", "tui").Logger(),
		syncService:   syncService,
		actionService: actionService,
		notifier:      notifier,
		views:         make(map[string]tview.Primitive),
		inFlight:      make(map[int]services.ActionKind),
	}

	a.initComponents()
	a.initLayout()
	a.bindKeys()

	syncService.SetListener(a)
	notifier.SetListener(a.notificationsChanged)
	actionService.SetHooks(services.ActionHooks{
		OnStarted: a.actionStarted,
		OnSettled: a.actionSettled,
	})

	return a
}

// Run starts the synchronizer and the UI event loop, and tears both down on
// exit.
func (a *App) Run() error {
	go a.syncService.Start(a.ctx)

	defer func() {
		a.cancel()
		a.syncService.Stop()
		a.notifier.Shutdown()
	}()

	a.SetRoot(a.Pages, true)
	return a.Application.Run()
}

// quit stops the event loop; Run's defer handles service teardown.
func (a *App) quit() {
	a.Stop()
}

// SnapshotUpdated implements services.SyncListener. Both halves of the
// snapshot render together so the list and the chart never mix cycles.
func (a *App) SnapshotUpdated(snap services.Snapshot) {
	a.QueueUpdateDraw(func() {
		a.mu.Lock()
		a.emails = snap.Emails
		a.mu.Unlock()
		a.renderEmailList(snap.Emails)
		a.installChart(services.ProjectChartSeries(snap.Analytics))
		a.renderSummaryCounts(snap.Analytics)
	})
}

// ConnectivityChanged implements services.SyncListener.
func (a *App) ConnectivityChanged(connected bool) {
	a.QueueUpdateDraw(func() {
		a.mu.Lock()
		a.connected = connected
		a.mu.Unlock()
		a.renderStatusBar()
	})
}

// notificationsChanged re-renders the flash area on every lifecycle edge.
func (a *App) notificationsChanged(items []services.Notification) {
	a.QueueUpdateDraw(func() {
		a.renderNotifications(items)
	})
}

// actionStarted disables the affordance for the row while the call is out.
func (a *App) actionStarted(emailID int, kind services.ActionKind) {
	a.QueueUpdateDraw(func() {
		a.mu.Lock()
		a.inFlight[emailID] = kind
		emails := a.emails
		a.mu.Unlock()
		a.renderEmailList(emails)
	})
}

// actionSettled restores the pre-action affordance on success and failure
// alike; the refreshed snapshot will repaint the row's real state afterwards.
func (a *App) actionSettled(emailID int, kind services.ActionKind, err error) {
	a.QueueUpdateDraw(func() {
		a.mu.Lock()
		delete(a.inFlight, emailID)
		emails := a.emails
		a.mu.Unlock()
		a.renderEmailList(emails)
	})
}
