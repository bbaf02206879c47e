// Package script defines the scene data model and the durable script store,
// a JSON document replaced atomically on every save.
package script
