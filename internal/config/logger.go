package config

import (
	"io"
	"log/slog"
	"os"
)

// InitLogger instala um logger JSON como default, marcando cada linha com o
// serviço (api, ws) que a emitiu.
func InitLogger(level slog.Level, svc string) *slog.Logger {
	return initLogger(os.Stdout, level, svc)
}

func initLogger(w io.Writer, level slog.Level, svc string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	l := slog.New(h).With("svc", svc)
	slog.SetDefault(l)
	return l
}
