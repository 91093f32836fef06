// Package memory implements the repository interfaces on process memory.
// It backs STORE=memory for local runs and the service and handler tests.
// Records are copied on the way in and out so callers never share state with
// the store.
package memory
