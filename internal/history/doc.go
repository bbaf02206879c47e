// Package history journals render job outcomes in SQLite so past attempts
// can be inspected after the volatile render state resets.
package history
