package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotex/internal/tasks"
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
	MsgProgressUpdate MsgKind = iota
	MsgUpdatesDrained
	MsgRunComplete
)

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// updatesDrainedMsg is the constructor for [MsgUpdatesDrained]
func updatesDrainedMsg() Msg {
	return Msg{kind: MsgUpdatesDrained}
}

// runCompleteMsg is the constructor for [MsgRunComplete]
func runCompleteMsg(stats *tasks.RunStats, err error) Msg {
	return Msg{
		kind: MsgRunComplete,
		data: struct {
			stats *tasks.RunStats
			err   error
		}{stats, err},
	}
}
