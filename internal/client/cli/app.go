package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/client/client"
	"github.com/dmitrijs2005/gophtasks/internal/client/config"
	"github.com/dmitrijs2005/gophtasks/internal/client/localdb"
	"github.com/dmitrijs2005/gophtasks/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophtasks/internal/client/services"
	"github.com/dmitrijs2005/gophtasks/internal/client/store"
	"github.com/dmitrijs2005/gophtasks/internal/client/syncer"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	store     *store.Store
	api       client.Client
	auth      services.AuthService
	sync      *services.SyncService
	scheduler *syncer.Scheduler
	reader    *bufio.Reader
	out       io.Writer
	now       func() time.Time

	mu          sync.Mutex
	Mode        Mode
	selected    int64
	unsubscribe func()
}

// NewApp wires the client from cfg. The returned App owns the database.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	db, err := localdb.Open(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	repo := kv.NewSQLiteRepository(db)
	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)

	a := newApp(c, logger, repo, api, bufio.NewReader(os.Stdin), os.Stdout,
		syncer.WithWindow(c.SyncWindow), syncer.WithTimeout(c.RequestTimeout))
	a.db = db
	return a, nil
}

// newApp builds everything above the database; tests call it directly.
func newApp(c *config.Config, logger logging.Logger, repo kv.Repository, api client.Client, in *bufio.Reader, out io.Writer, opts ...syncer.Option) *App {
	st := store.New(repo, logger)
	auth := services.NewAuthService(api, repo, logger)
	syncSvc := services.NewSyncService(api, st, auth, logger)
	scheduler := syncer.NewScheduler(syncSvc.Push, logger, opts...)

	st.SetSaveHook(func() {
		if auth.IsAuthenticated() {
			scheduler.Schedule()
		}
	})

	a := &App{
		config:    c,
		logger:    logger.With("module", "cli"),
		store:     st,
		api:       api,
		auth:      auth,
		sync:      syncSvc,
		scheduler: scheduler,
		reader:    in,
		out:       out,
		now:       time.Now,
		Mode:      ModeOffline,
	}
	auth.OnLogout(func() {
		fmt.Fprintln(a.out, "Session ended; working locally.")
	})
	a.unsubscribe = st.Subscribe(a.onStoreEvent)
	return a
}

// Start restores a saved session and picks the starting data set.
func (a *App) Start(ctx context.Context) services.Source {
	if a.auth.Restore(ctx) {
		a.logger.Info(ctx, "restored session", "user", a.auth.User().Email)
	}
	src := a.sync.Reconcile(ctx)
	a.ensureSelection()
	return src
}

// Run starts the session, the connectivity watcher and the REPL, and blocks
// until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to gophtasks (type 'help' for commands)")
	src := a.Start(ctx)
	fmt.Fprintf(a.out, "Loaded %d clients from %s data.\n", len(a.store.Clients()), src)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

// Close uploads a push still waiting for its quiet window, stops the
// scheduler, then releases the store and database.
func (a *App) Close() {
	ctx := context.Background()
	if a.isLoggedIn() && a.scheduler.Status().Pending {
		if err := a.scheduler.Flush(ctx); err != nil {
			a.logger.Warn(ctx, "final sync failed, changes are kept locally", "error", err)
		}
	}
	a.scheduler.Stop()
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.store.Close()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(context.Background(), "failed to close database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.IsAuthenticated()
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()
	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

// StartOnlineStatusWatcher checks the server every interval and flips Mode.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := a.api.Health(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) getStatus() string {
	s := string(a.mode())
	if u := a.auth.User(); u != nil {
		s = u.Email + " " + s
	}
	if st := a.scheduler.Status(); st.Pending || st.State == syncer.StateSyncing {
		s += " *"
	}
	return s
}

// onStoreEvent is the view's subscription: structural changes refresh the
// implicit selection and every change prints a one-line summary.
func (a *App) onStoreEvent(ev store.Event) {
	switch ev.Kind {
	case store.EventLoaded, store.EventReplaced, store.EventClientDeleted:
		a.ensureSelection()
	case store.EventSaved:
		return
	}
	if ev.Kind == store.EventLoaded {
		return
	}
	st := a.store.TotalStats()
	fmt.Fprintf(a.out, "  · %d tasks, %d done, %d pending (%d%%)\n", st.Total, st.Completed, st.Pending, a.store.OverallProgress())
}

// ensureSelection keeps the selected client valid, defaulting to the first.
func (a *App) ensureSelection() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.selected != 0 {
		if _, err := a.store.Client(a.selected); err == nil {
			return
		}
	}
	a.selected = 0
	if cs := a.store.Clients(); len(cs) > 0 {
		a.selected = cs[0].ID
	}
}

func (a *App) selectedClient() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selected
}

func (a *App) setSelected(id int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selected = id
}
