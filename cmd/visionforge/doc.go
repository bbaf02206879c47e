// Package main hosts the visionforge CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into HTTP
// calls against the daemon: script inspection and saves, render control and
// history, daemon status, and configuration scaffolding. The serve command
// runs the daemon itself in the foreground.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
