package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/transync/transync/internal/utils"
)

// logLevel is the console level. Per-file results are printed, so the console
// only shows warnings unless --verbose is set.
var logLevel = func() *slog.LevelVar {
	lv := &slog.LevelVar{}
	lv.Set(slog.LevelWarn)
	return lv
}()

func newConsoleHandler(w *os.File) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      logLevel,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(w.Fd()),
	})
}

func newFileHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		// Do not include time as it is added by the log interceptor.
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	})
}

// attachLogFile sends every record, debug included, to path as well as the console.
func attachLogFile(path string) (func(), error) {
	if err := utils.EnsureParent(path); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	previous := slog.Default()
	interceptor := utils.NewLogInterceptor(file)
	handler := utils.NewMultiLogHandler(newConsoleHandler(os.Stderr), newFileHandler(interceptor))
	slog.SetDefault(slog.New(handler))

	return func() {
		slog.SetDefault(previous)
		interceptor.Close()
		file.Close()
	}, nil
}
