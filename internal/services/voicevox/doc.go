// Package voicevox is the client for the VOICEVOX speech synthesis service,
// a query-then-synthesize two-step HTTP API.
package voicevox
