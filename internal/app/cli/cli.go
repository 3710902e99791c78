package cli

//go:generate mockgen -source=cli.go -destination=cli_mock.go -package=cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"logscope/internal/app/bus"
	"logscope/internal/app/filter"
	"logscope/internal/app/selection"
	"logscope/internal/app/session"
	"logscope/internal/app/store"
	"logscope/internal/config/logger"
)

// Signals that steer a running watch
var (
	signalTogglePause = syscall.SIGUSR1
	signalClear       = syscall.SIGUSR2
	signalReload      = syscall.SIGHUP
)

// CLI defines the interface for cli operations
type CLI interface {
	Execute() (int, error)
}

// Params contains the collaborators of the command-line interface
type Params struct {
	fx.In

	Options   *Options
	Session   session.Session
	Store     store.Store
	Selection selection.Coordinator
	Bus       bus.Bus
	Log       logger.Logger
}

// cli represents the command-line interface for the application
type cli struct {
	opts      *Options
	session   session.Session
	store     store.Store
	selection selection.Coordinator
	bus       bus.Bus
	printer   *Printer
	errOut    io.Writer
	log       logger.Logger
}

// NewCLI creates a new cli instance printing to stdout
func NewCLI(params Params) CLI {
	return &cli{
		opts:      params.Options,
		session:   params.Session,
		store:     params.Store,
		selection: params.Selection,
		bus:       params.Bus,
		printer:   NewPrinter(os.Stdout, params.Options.JSON),
		errOut:    os.Stderr,
		log:       params.Log.WithComponent("CLI"),
	}
}

// Execute runs the parsed command until it completes or an interrupt arrives
func (c *cli) Execute() (int, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return c.run(ctx)
}

func (c *cli) run(ctx context.Context) (int, error) {
	var err error

	switch c.opts.Type {
	case CommandWatch:
		controls := make(chan os.Signal, 1)

		signal.Notify(controls, signalTogglePause, signalClear, signalReload)
		defer signal.Stop(controls)

		err = c.handleWatch(ctx, controls)
	case CommandExport:
		err = c.handleExport(ctx)
	case CommandStats:
		err = c.handleStats(ctx)
	case CommandVersion:
		c.printer.Version()
	default:
		c.printer.Help()
	}

	if err != nil {
		fmt.Fprintf(c.errOut, "Error: %v\n", err)
		return 1, err
	}

	return 0, nil
}

// handleWatch opens the folder and prints every ingested entry passing the
// filter. Signals on controls pause or resume ingestion, clear the collection
// or reload the folder
func (c *cli) handleWatch(ctx context.Context, controls <-chan os.Signal) error {
	messages := c.bus.Subscribe(ctx)

	if c.opts.Paused {
		c.store.SetPaused(true)
	}

	c.applyFilter()

	if _, err := c.session.Open(ctx, c.opts.Folder); err != nil {
		return err
	}
	defer c.session.Close()

	c.printer.Header(c.opts.Folder, c.store.Snapshot())

	for {
		select {
		case <-ctx.Done():
			c.log.Debug().Msg("Watch interrupted")
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			c.handleMessage(msg)
		case sig := <-controls:
			c.handleControl(ctx, sig)
		}
	}
}

func (c *cli) handleControl(ctx context.Context, sig os.Signal) {
	switch sig {
	case signalTogglePause:
		if c.store.TogglePaused() {
			c.printer.Notice("paused, new entries are discarded")
		} else {
			c.printer.Notice("resumed")
		}
	case signalClear:
		c.session.Clear()
		c.printer.Notice("cleared")
	case signalReload:
		if _, err := c.session.Reload(ctx); err != nil {
			c.printer.Failure(c.opts.Folder, err)
			return
		}

		c.printer.Header(c.opts.Folder, c.store.Snapshot())
	default:
		c.log.Debug().Msgf("Ignoring signal %v", sig)
	}
}

func (c *cli) handleMessage(msg bus.Message) {
	switch msg.Type {
	case bus.EventBatchIngested:
		batch, ok := msg.Data.(bus.Batch)
		if !ok {
			return
		}

		state := c.store.Filter()

		for i := range batch.Entries {
			if filter.Matches(&batch.Entries[i], state) {
				c.printer.Entry(batch.Entries[i])
			}
		}
	case bus.EventBatchDropped:
		if batch, ok := msg.Data.(bus.Batch); ok {
			c.log.Debug().Msgf("Paused, %d entries not shown", batch.Count)
		}
	case bus.EventSessionFailed:
		if failed, ok := msg.Data.(bus.SessionFailed); ok {
			c.printer.Failure(failed.Folder, failed.Error)
		}
	}
}

func (c *cli) handleExport(ctx context.Context) error {
	c.applyFilter()

	if _, err := c.session.Open(ctx, c.opts.Folder); err != nil {
		return err
	}
	defer c.session.Close()

	path, count, err := c.session.Export(ctx)
	if err != nil {
		return err
	}

	c.printer.Exported(path, count)

	return nil
}

func (c *cli) handleStats(ctx context.Context) error {
	c.applyFilter()

	if _, err := c.session.Open(ctx, c.opts.Folder); err != nil {
		return err
	}
	defer c.session.Close()

	c.printer.Stats(c.store.Snapshot())

	return nil
}

// applyFilter installs the command-line filter before the folder is opened
func (c *cli) applyFilter() {
	c.selection.SetLevelFilter(c.opts.Level)
	c.selection.SetCategoryFilter(c.opts.Category)
	c.selection.SetSearchQuery(c.opts.Search)
}
