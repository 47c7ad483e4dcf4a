package ports

import "time"

// Clock supplies the instants recorded in package history.
type Clock interface {
	Now() time.Time
}
