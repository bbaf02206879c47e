// Package daemon hosts the long-running backend process: it enforces
// single-instance execution with a file lock and serves the HTTP API that
// the editor and CLI talk to.
package daemon
