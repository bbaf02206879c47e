// Package actions infers a pose/animation label for a scene from its
// narration text using an ordered keyword table.
package actions
