// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The router decides which screen is drawn:
//  1. Welcome : log in, or sign up with ctrl+r
//  2. Movies : browse the catalogue six at a time, toggle favorites, open detail dialogs
//  3. Profile : edit the account, manage favorites, delete the account
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// The screens delegate to the state machines in internal/views; their notices flow through a channel that the
// model drains with a re-armed command, so a slow render never blocks a request.
//
// Keyboard navigation uses vim-style bindings (j/k, h/l, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
