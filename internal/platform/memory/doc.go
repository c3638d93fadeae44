// Package memory provides in-process implementations of the store
// interfaces. It backs the service tests and the "memory" database driver
// used for local development.
package memory
