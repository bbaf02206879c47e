// Package scenesync reconciles edited scene lists against the previous save:
// it decides per scene whether narration audio must be resynthesized, which
// action label applies, and what duration to persist, then replaces the
// script store contents atomically.
package scenesync
