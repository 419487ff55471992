// Package browser drives a headless Chromium through go-rod.
//
// All browser work goes through one owner goroutine (Actor). Callers hand
// it an operation and block until the result arrives or a hard ceiling
// passes. The browser handle never leaves that goroutine.
//
// On top of the actor the package provides page rendering, the chat
// widget state machine (over the Surface interface so it can be tested
// without a browser), a pool of warm chat sessions, the wiki's search
// page and the "request a repository" form.
package browser
