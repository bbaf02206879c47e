// Package media measures properties of synthesized audio files.
package media
