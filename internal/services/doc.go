// Package services defines the shared error taxonomy for external
// collaborators and hosts their client implementations in subpackages.
package services
