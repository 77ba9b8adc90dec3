package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/shadowkick/internal/router"
	"github.com/desertthunder/shadowkick/internal/views"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
	err  error
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgNotice MsgKind = iota
	MsgLoggedIn
	MsgRegistered
	MsgMoviesLoaded
	MsgFavouriteToggled
	MsgDialogOpened
	MsgProfileLoaded
	MsgProfileSaved
	MsgFavouriteRemoved
	MsgAccountDeleted
)

type toggled struct {
	movieID   string
	favourite bool
}

// noticeMsg is the constructor for [MsgNotice]
func noticeMsg(n views.Notice) Msg {
	return Msg{kind: MsgNotice, data: n}
}

// loggedInMsg is the constructor for [MsgLoggedIn]
func loggedInMsg(err error) Msg {
	return Msg{kind: MsgLoggedIn, err: err}
}

// registeredMsg is the constructor for [MsgRegistered]
func registeredMsg(err error) Msg {
	return Msg{kind: MsgRegistered, err: err}
}

// moviesLoadedMsg is the constructor for [MsgMoviesLoaded]
func moviesLoadedMsg(err error) Msg {
	return Msg{kind: MsgMoviesLoaded, err: err}
}

// favouriteToggledMsg is the constructor for [MsgFavouriteToggled]
func favouriteToggledMsg(movieID string, favourite bool, err error) Msg {
	return Msg{kind: MsgFavouriteToggled, data: toggled{movieID, favourite}, err: err}
}

// dialogOpenedMsg is the constructor for [MsgDialogOpened]
func dialogOpenedMsg(d views.Dialog, err error) Msg {
	return Msg{kind: MsgDialogOpened, data: d, err: err}
}

// profileLoadedMsg is the constructor for [MsgProfileLoaded]
func profileLoadedMsg(err error) Msg {
	return Msg{kind: MsgProfileLoaded, err: err}
}

// profileSavedMsg is the constructor for [MsgProfileSaved]
func profileSavedMsg(err error) Msg {
	return Msg{kind: MsgProfileSaved, err: err}
}

// favouriteRemovedMsg is the constructor for [MsgFavouriteRemoved]
func favouriteRemovedMsg(movieID string, err error) Msg {
	return Msg{kind: MsgFavouriteRemoved, data: movieID, err: err}
}

// accountDeletedMsg is the constructor for [MsgAccountDeleted]
func accountDeletedMsg(dest router.Destination, err error) Msg {
	return Msg{kind: MsgAccountDeleted, data: dest, err: err}
}
