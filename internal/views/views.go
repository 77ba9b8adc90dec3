// package views holds the screen state machines shared by the TUI and the CLI
package views

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shadowkick/internal/router"
	"github.com/desertthunder/shadowkick/internal/services"
	"github.com/desertthunder/shadowkick/internal/session"
	"github.com/desertthunder/shadowkick/internal/shared"
)

// Level is the severity of a [Notice].
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a short message for the user, shown and then dismissed.
type Notice struct {
	Level   Level
	Message string
}

// Navigator moves between screens.
type Navigator interface {
	Navigate(path string) router.Destination
}

// Deps are the collaborators every view needs.
//
// Notices may be nil. Sends never block; a full channel drops the notice.
type Deps struct {
	API     services.MovieAPI
	Session *session.Session
	Router  Navigator
	Notices chan<- Notice
	Logger  *log.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = shared.NewLogger(io.Discard)
	}
	if d.Session == nil {
		d.Session = session.NewMemory(d.Logger)
	}
	return d
}

func (d Deps) notify(level Level, message string) {
	if d.Notices == nil {
		return
	}
	select {
	case d.Notices <- Notice{Level: level, Message: message}:
	default:
	}
}

// fail logs err and shows message, or the normalized error text when message is empty.
func (d Deps) fail(op, message string, err error) {
	d.Logger.Error(op, "err", err)
	if message == "" {
		message = services.NormalizeError(err)
	}
	d.notify(LevelError, message)
}

func (d Deps) navigate(path string) router.Destination {
	if d.Router == nil {
		return router.Destination{Requested: path, Path: path}
	}
	return d.Router.Navigate(path)
}
