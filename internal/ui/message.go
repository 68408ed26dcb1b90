package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/predictx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgUploadComplete MsgKind = iota
	MsgResultSaved
)

// uploadCompleteMsg is the constructor for [MsgUploadComplete]
func uploadCompleteMsg(outcome tasks.Outcome) Msg {
	return Msg{kind: MsgUploadComplete, data: outcome}
}

// resultSavedMsg is the constructor for [MsgResultSaved]
func resultSavedMsg(path string, err error) Msg {
	return Msg{
		kind: MsgResultSaved,
		data: struct {
			path string
			err  error
		}{path, err},
	}
}
