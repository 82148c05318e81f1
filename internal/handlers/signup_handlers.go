package handlers

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Werneck0live/cadastro-colaboradores/internal/broker"
	"github.com/Werneck0live/cadastro-colaboradores/internal/checker"
	"github.com/Werneck0live/cadastro-colaboradores/internal/models"
	"github.com/Werneck0live/cadastro-colaboradores/internal/repository"
	"github.com/Werneck0live/cadastro-colaboradores/internal/utils"
	"github.com/Werneck0live/cadastro-colaboradores/internal/validation"
)

//go:embed templates/landing.html
var templatesFS embed.FS

var landingTmpl = template.Must(template.ParseFS(templatesFS, "templates/landing.html"))

const (
	msgEmpresaNaoEncontrada = "Empresa não encontrada"
	msgCadastroRealizado    = "Cadastro realizado com sucesso"
)

// SignupHandler atende a página pública da empresa e o auto-cadastro.
type SignupHandler struct {
	CompanyRepo CompanyRepository
	ColabRepo   ColaboradorRepository
	Checker     *checker.Checker
	Pub         Publisher
	Log         *slog.Logger
	Now         func() time.Time
}

type landingData struct {
	Slug          string
	Nome          string
	Cor           string
	Logo          string
	UFs           []string
	ExigeAdmissao bool
	Limits        validation.Limits
}

// Empresa roteia /empresa/{slug} (GET) e /empresa/{slug}/cadastro (POST).
func (h *SignupHandler) Empresa(w http.ResponseWriter, r *http.Request) {
	parts, ok := segments(r.URL.Path, "empresa")
	switch {
	case ok && len(parts) == 1:
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.landing(w, r, parts[0])
	case ok && len(parts) == 2 && parts[1] == "cadastro":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.register(w, r, parts[0])
	default:
		notFound(w, "not found")
	}
}

// activeCompany devolve nil (já respondido 404/500) quando não há empresa ativa.
func (h *SignupHandler) activeCompany(ctx context.Context, w http.ResponseWriter, slug string) *models.Company {
	c, err := h.CompanyRepo.GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !c.Ativo) {
		notFound(w, msgEmpresaNaoEncontrada)
		return nil
	}
	if err != nil {
		internalError(w, loggerOr(h.Log), "company_lookup_error", err)
		return nil
	}
	return c
}

func (h *SignupHandler) landing(w http.ResponseWriter, r *http.Request, slug string) {
	ctx, cancel := context.WithTimeout(r.Context(), reqTimeout)
	defer cancel()

	c := h.activeCompany(ctx, w, slug)
	if c == nil {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := landingTmpl.Execute(w, landingData{
		Slug:          c.Slug,
		Nome:          c.DisplayName(),
		Cor:           c.Cor,
		Logo:          c.Logo,
		UFs:           validation.UFs(),
		ExigeAdmissao: c.RequiresField("dataAdmissao"),
		Limits:        h.Checker.Limits(),
	})
	if err != nil {
		loggerOr(h.Log).Error("landing_render_error", "slug", slug, "err", err)
	}
}

func (h *SignupHandler) register(w http.ResponseWriter, r *http.Request, slug string) {
	log := loggerOr(h.Log)

	in, err := decodeEmployee(r)
	if err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reqTimeout)
	defer cancel()

	c := h.activeCompany(ctx, w, slug)
	if c == nil {
		return
	}

	v, ferrs, err := h.Checker.CheckEmployee(ctx, c, in)
	if err != nil {
		internalError(w, log, "employee_check_error", err)
		return
	}
	if len(ferrs) > 0 {
		utils.WriteFieldErrors(w, http.StatusBadRequest, ferrs)
		return
	}

	col := v.Colaborador(clock(h.Now).UTC())
	id, err := h.ColabRepo.Create(ctx, &col)
	if err != nil {
		// corrida entre a checagem e o insert: o índice único decide
		if errors.Is(err, repository.ErrDuplicateCPF) {
			conflict(w, "cpf", checker.MsgCPFDuplicado)
			return
		}
		internalError(w, log, "colaborador_create_error", err)
		return
	}

	log.Info("colaborador_created", "company", c.Slug, "id", id)
	publish(h.Pub, log, broker.ColaboradorCreated(c.Slug, c.DisplayName(), id, col.Nome))

	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": msgCadastroRealizado,
		"id":      id,
	})
}

// decodeEmployee aceita JSON (fetch da landing) ou formulário urlencoded.
func decodeEmployee(r *http.Request) (checker.EmployeeInput, error) {
	var in checker.EmployeeInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := utils.DecodeStrict(r.Body, &in)
		return in, err
	}
	if err := r.ParseForm(); err != nil {
		return in, err
	}
	f := r.PostForm
	in = checker.EmployeeInput{
		CPF:            f.Get("cpf"),
		Nome:           f.Get("nome"),
		DataNascimento: f.Get("dataNascimento"),
		RG:             f.Get("rg"),
		DataEmissaoRG:  f.Get("dataEmissaoRg"),
		OrgaoEmissorRG: f.Get("orgaoEmissorRg"),
		UFEmissao:      f.Get("ufEmissao"),
		DataAdmissao:   f.Get("dataAdmissao"),
		Matricula:      f.Get("matricula"),
		TipoContrato:   f.Get("tipoContrato"),
		Observacoes:    f.Get("observacoes"),
	}
	return in, nil
}
