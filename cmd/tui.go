package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/shadowkick/internal/services"
	"github.com/desertthunder/shadowkick/internal/shared"
	"github.com/desertthunder/shadowkick/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive movie browser.
//
// With session.clear_on_exit the session is wiped when the program ends.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	api := r.api
	if svc, ok := api.(*services.APIService); ok {
		api = svc.WithLogger(fileLogger)
	}

	model, err := ui.NewModel(ctx, ui.Options{
		API:             api,
		Session:         r.session,
		Logger:          fileLogger,
		PageSize:        r.config.UI.PageSize,
		DetailCacheSize: r.config.UI.DetailCacheSize,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()

	if r.config.Session.ClearOnExit {
		r.session.Clear()
		r.logger.Info("session cleared on exit")
	}

	if runErr != nil {
		return fmt.Errorf("error running TUI: %w", runErr)
	}
	return nil
}
