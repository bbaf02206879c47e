// Package render owns the single-flight render job: admission control over
// the external renderer subprocess, inline asset materialization, streamed
// progress tracking, and the pollable state snapshot.
package render
