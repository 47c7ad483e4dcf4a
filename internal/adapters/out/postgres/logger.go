package postgres

import (
	"context"
	"fmt"
	"log/slog"
)

// printfAdapter routes the Printf-style output of goose and gorm into slog.
type printfAdapter struct {
	log *slog.Logger
}

func newPrintfAdapter(log *slog.Logger) *printfAdapter {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &printfAdapter{log: log}
}

func (a *printfAdapter) Fatalf(format string, v ...any) {
	a.log.ErrorContext(context.Background(), fmt.Sprintf(format, v...))
}

func (a *printfAdapter) Printf(format string, v ...any) {
	a.log.InfoContext(context.Background(), fmt.Sprintf(format, v...))
}
