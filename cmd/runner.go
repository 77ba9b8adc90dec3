package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shadowkick/internal/formatter"
	"github.com/desertthunder/shadowkick/internal/router"
	"github.com/desertthunder/shadowkick/internal/services"
	"github.com/desertthunder/shadowkick/internal/session"
	"github.com/desertthunder/shadowkick/internal/shared"
	"github.com/desertthunder/shadowkick/internal/views"
	"github.com/urfave/cli/v3"
)

// rawGetter is implemented by API clients that expose unparsed responses.
type rawGetter interface {
	Get(ctx context.Context, path string) (*services.APIResponse, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        services.MovieAPI
	session    *session.Session
	router     *router.Router
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        services.MovieAPI
	Session    *session.Session
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Session == nil {
		opts.Session = session.NewMemory(opts.Logger)
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(services.APIOptions{
			BaseURL:     opts.Config.API.BaseURL,
			HTTPClient:  opts.HTTPClient,
			Session:     opts.Session,
			LenientAuth: !opts.Config.API.StrictAuth,
			Logger:      opts.Logger,
		})
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		session:    opts.Session,
		router:     router.New(opts.Session, opts.Logger),
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, moviesCommand, genresCommand, directorsCommand,
		favoritesCommand, profileCommand, navigateCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before applies the global flags.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	if _, err := formatter.ParseFormat(cmd.String("format")); err != nil {
		return ctx, err
	}
	return ctx, nil
}

// SetLogger replaces the logger, e.g. to move logs out of the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// deps builds the view dependencies. Notices are printed by the caller.
func (r *Runner) deps(notices chan<- views.Notice) views.Deps {
	return views.Deps{
		API:     r.api,
		Session: r.session,
		Router:  r.router,
		Notices: notices,
		Logger:  r.logger,
	}
}

// format reads --format; before has already rejected unknown names.
func (r *Runner) format(cmd *cli.Command) formatter.Format {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return formatter.Text
	}
	return f
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// writeNotices prints every queued notice with a status mark.
func (r *Runner) writeNotices(notices <-chan views.Notice) {
	for {
		select {
		case n := <-notices:
			mark := "•"
			switch n.Level {
			case views.LevelSuccess:
				mark = "✓"
			case views.LevelError:
				mark = "✗"
			}
			r.writePlain("%s %s\n", mark, n.Message)
		default:
			return
		}
	}
}
