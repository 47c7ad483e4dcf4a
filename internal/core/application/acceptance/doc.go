// Package acceptance runs the package lifecycle scenarios in
// features/*.feature with godog against the use case handlers and the
// in-memory store.
package acceptance
