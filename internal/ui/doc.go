// Package ui implements the interactive terminal client using bubbletea's Elm architecture.
//
// The TUI is a single screen that mirrors the upload form:
//   - a path input standing in for the file picker
//   - a submit control whose label toggles between "Upload" and a spinner with "Loading..."
//   - an error line shown only when the session Failed
//   - a download line shown only when it Succeeded, saved as predictions.xlsx with ctrl+s
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// The prediction call runs as a [tea.Cmd]; its [tasks.Outcome] comes back as a message and is applied on the event loop,
// so the [tasks.UploadController] is only ever touched from Update.
package ui
