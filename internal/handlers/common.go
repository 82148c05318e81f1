package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Werneck0live/cadastro-colaboradores/internal/broker"
	"github.com/Werneck0live/cadastro-colaboradores/internal/utils"
	"github.com/Werneck0live/cadastro-colaboradores/internal/validation"
)

func Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// segments devolve os segmentos do path depois do prefixo.
// Ex.: segments("/api/companies/acme/stats", "api", "companies") -> [acme stats]
func segments(path string, prefix ...string) ([]string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < len(prefix) {
		return nil, false
	}
	for i, p := range prefix {
		if parts[i] != p {
			return nil, false
		}
	}
	rest := parts[len(prefix):]
	for _, s := range rest {
		if s == "" {
			return nil, false
		}
	}
	return rest, true
}

func notFound(w http.ResponseWriter, msg string) {
	utils.WriteError(w, http.StatusNotFound, msg)
}

func methodNotAllowed(w http.ResponseWriter) {
	w.WriteHeader(http.StatusMethodNotAllowed)
}

func internalError(w http.ResponseWriter, log *slog.Logger, event string, err error) {
	log.Error(event, "err", err)
	utils.WriteError(w, http.StatusInternalServerError, "Erro interno")
}

// conflict responde 409 no mesmo formato dos erros de validação.
func conflict(w http.ResponseWriter, field, msg string) {
	var errs validation.FieldErrors
	errs.Add(field, msg)
	utils.WriteFieldErrors(w, http.StatusConflict, errs)
}

// publish é best-effort: falha na fila não desfaz a operação já gravada.
func publish(pub Publisher, log *slog.Logger, ev broker.Event) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pub.Publish(ctx, ev); err != nil {
		log.Warn("event_publish_failed", "action", ev.Action, "entity", ev.Entity, "company", ev.CompanySlug, "err", err)
	}
}

func loggerOr(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

func clock(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}
