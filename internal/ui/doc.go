// Package ui implements a terminal progress view for extraction runs
// using bubbletea's Elm architecture.
//
// The [Model] starts the extraction engine in the background and drains
// its progress channel, rendering a bubbles progress bar per phase. The
// (view) Model implements bubbletea/Elm's standard Init/Update/View
// pattern, receiving messages via the Msg union type; updates flow
// through a channel from the ExtractEngine, providing non-blocking
// status reporting during the run.
package ui
