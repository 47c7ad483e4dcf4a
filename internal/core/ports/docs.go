// Package ports declares what the application core needs from the outside
// world: package storage with transactional units of work, per-package write
// locks, event delivery and a clock. Adapters under internal/adapters/out
// implement them.
package ports
