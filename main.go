package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/logprogress/internal/config"
	"github.com/ytget/logprogress/internal/logsink"
	"github.com/ytget/logprogress/internal/progress"
	"github.com/ytget/logprogress/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.logprogress"
	AppName = "logprogress"

	DefaultSteps    = 120
	DefaultInterval = 50 * time.Millisecond
)

var errWindowClosed = errors.New("window closed before the work finished")

type runOptions struct {
	title       string
	maximum     int
	steps       int
	interval    time.Duration
	console     bool
	development bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:          AppName,
		Short:        "Run simulated work and follow its log in a progress window",
		Version:      version,
		SilenceUsage: true,
		PreRunE: func(*cobra.Command, []string) error {
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.title, "title", "", "window title (defaults to the saved preference)")
	flags.IntVar(&opts.maximum, "max", 0, "steps per full bar before it wraps (defaults to the saved preference)")
	flags.IntVar(&opts.steps, "steps", DefaultSteps, "number of log records the simulated work emits")
	flags.DurationVar(&opts.interval, "interval", DefaultInterval, "delay between log records")
	flags.BoolVar(&opts.console, "console", false, "render a terminal bar instead of opening a window")
	flags.BoolVar(&opts.development, "dev", false, "use the development logger")
	return cmd
}

func (o *runOptions) validate() error {
	if o.steps < 0 {
		return fmt.Errorf("invalid --steps %d: must not be negative", o.steps)
	}
	if o.interval <= 0 {
		return fmt.Errorf("invalid --interval %s: must be positive", o.interval)
	}
	return nil
}

func run(ctx context.Context, opts *runOptions) error {
	hub := logsink.NewHub()
	logger, err := logsink.NewLogger(opts.development, hub)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	// stdlib log output reaches the hub as well
	restore := zap.RedirectStdLog(logger)
	defer restore()

	logger.Info("starting", zap.String("version", version), zap.Bool("console", opts.console))

	if opts.console {
		// preferences live in a fyne app, which console runs never create
		scope, err := progress.OpenConsole(os.Stdout, hub, opts.progressOptions(config.DefaultWindowTitle, config.DefaultMaximum))
		if err != nil {
			return err
		}
		return scope.Run(func() error {
			return simulate(ctx, logger, opts.steps, opts.interval)
		})
	}
	return runWindow(ctx, logger, hub, opts)
}

// progressOptions fills title and maximum from the flags, falling back to the
// given defaults when a flag was left unset.
func (o *runOptions) progressOptions(defaultTitle string, defaultMaximum int) progress.Options {
	title := o.title
	if title == "" {
		title = defaultTitle
	}
	maximum := o.maximum
	if maximum <= 0 {
		maximum = defaultMaximum
	}
	return progress.Options{Title: title, Maximum: maximum}
}

func runWindow(ctx context.Context, logger *zap.Logger, hub *logsink.Hub, opts *runOptions) error {
	a := app.NewWithID(AppID)
	a.Settings().SetTheme(ui.NewCompactTheme())

	settings := config.NewSettings(a)
	popts := opts.progressOptions(settings.GetWindowTitle(), settings.GetDefaultMaximum())
	popts.Dispatch = fyne.Do

	scope, err := progress.Open(a, hub, popts)
	if err != nil {
		return err
	}
	if window, ok := scope.Target().(*ui.ProgressWindow); ok {
		window.Window().Resize(fyne.NewSize(float32(settings.GetWindowWidth()), 0))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		workErr := simulate(ctx, logger, opts.steps, opts.interval)
		if cerr := scope.Close(); cerr != nil && workErr == nil {
			workErr = cerr
		}
		done <- workErr
		fyne.Do(a.Quit)
	}()

	a.Run()

	return finishWindowRun(done, cancel, scope.Close)
}

// finishWindowRun returns the work result once the app loop ended. When the
// user closed the window first, the work is cancelled and errWindowClosed
// returned.
func finishWindowRun(done <-chan error, cancel context.CancelFunc, closeScope func() error) error {
	select {
	case err := <-done:
		return err
	default:
	}

	cancel()
	if err := closeScope(); err != nil {
		return err
	}
	return errWindowClosed
}

// simulate emits one log record per tick until steps records were written
func simulate(ctx context.Context, logger *zap.Logger, steps int, interval time.Duration) error {
	sugar := logger.Sugar()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				logger.Warn("work interrupted", zap.Int("completed", i-1))
			}
			return ctx.Err()
		case <-ticker.C:
		}

		if i%10 == 0 {
			log.Printf("checkpoint: %d of %d items processed", i, steps)
			continue
		}
		sugar.Infof("processing item %d of %d", i, steps)
	}
	return nil
}
