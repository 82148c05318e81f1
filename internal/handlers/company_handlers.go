package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Werneck0live/cadastro-colaboradores/internal/auth"
	"github.com/Werneck0live/cadastro-colaboradores/internal/broker"
	"github.com/Werneck0live/cadastro-colaboradores/internal/checker"
	"github.com/Werneck0live/cadastro-colaboradores/internal/export"
	"github.com/Werneck0live/cadastro-colaboradores/internal/models"
	"github.com/Werneck0live/cadastro-colaboradores/internal/repository"
	"github.com/Werneck0live/cadastro-colaboradores/internal/utils"
	"github.com/Werneck0live/cadastro-colaboradores/internal/validation"
)

const msgColaboradorNaoEncontrado = "Colaborador não encontrado"

type CompanyHandler struct {
	CompanyRepo CompanyRepository
	ColabRepo   ColaboradorRepository
	Deleter     CompanyDeleter
	Checker     *checker.Checker
	Pub         Publisher
	Sheets      *export.Generator
	Archive     export.Archive // opcional
	Log         *slog.Logger
	Now         func() time.Time
}

// lê limit/skip da query; limit fora de 1..200 cai no default
func pagination(r *http.Request) (limit, skip int64) {
	q := r.URL.Query()
	limit, skip = 50, 0
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.ParseInt(l, 10, 64); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if s := q.Get("skip"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v >= 0 {
			skip = v
		}
	}
	return limit, skip
}

// Companies: GET (lista) e POST (cria) em /api/companies. Só super admin.
func (h *CompanyHandler) Companies(w http.ResponseWriter, r *http.Request) {
	if !auth.PrincipalFrom(r.Context()).SuperAdmin {
		utils.WriteError(w, http.StatusForbidden, msgAcessoNegado)
		return
	}

	switch r.Method {
	case http.MethodGet:
		limit, skip := pagination(r)
		ctx, cancel := context.WithTimeout(r.Context(), reqTimeout)
		defer cancel()
		list, err := h.CompanyRepo.GetAll(ctx, limit, skip)
		if err != nil {
			internalError(w, h.log(), "company_list_error", err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, list)

	case http.MethodPost:
		h.createCompany(w, r)

	default:
		methodNotAllowed(w)
	}
}

func (h *CompanyHandler) createCompany(w http.ResponseWriter, r *http.Request) {
	var in checker.CompanyInput
	if err := utils.DecodeStrict(r.Body, &in); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reqTimeout)
	defer cancel()

	v, ferrs, err := h.Checker.CheckCompany(ctx, in)
	if err != nil {
		internalError(w, h.log(), "company_check_error", err)
		return
	}
	if len(ferrs) > 0 {
		utils.WriteFieldErrors(w, http.StatusBadRequest, ferrs)
		return
	}

	hash, err := auth.HashPassword(v.Senha)
	if err != nil {
		internalError(w, h.log(), "password_hash_error", err)
		return
	}
	c := models.Company{
		Slug:      v.Slug,
		Nome:      v.Nome,
		SenhaHash: hash,
		Cor:       v.Cor,
		Logo:      v.Logo,
		Ativo:     true,
		Configuracoes: models.CompanySettings{
			MaxColaboradores:   v.MaxColaboradores,
			CamposObrigatorios: v.CamposObrigatorios,
		},
	}
	if _, err := h.CompanyRepo.Create(ctx, &c); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			conflict(w, "slug", checker.MsgSlugEmUso)
			return
		}
		internalError(w, h.log(), "company_create_error", err)
		return
	}

	h.log().Info("company_created", "slug", c.Slug, "id", c.ID)
	h.publishCompany(broker.ActionCreated, &c, "Cadastro de EMPRESA ")
	utils.WriteJSON(w, http.StatusCreated, c)
}

// CompanyBySlug roteia tudo abaixo de /api/companies/{slug}.
func (h *CompanyHandler) CompanyBySlug(w http.ResponseWriter, r *http.Request) {
	parts, ok := segments(r.URL.Path, "api", "companies")
	if !ok || len(parts) == 0 {
		notFound(w, "not found")
		return
	}

	p := auth.PrincipalFrom(r.Context())
	slug := parts[0]
	if !p.CanAccessCompany(slug) {
		utils.WriteError(w, http.StatusForbidden, msgAcessoNegado)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reqTimeout)
	defer cancel()

	c, err := h.CompanyRepo.GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		notFound(w, msgEmpresaNaoEncontrada)
		return
	}
	if err != nil {
		internalError(w, h.log(), "company_lookup_error", err)
		return
	}
	r = r.WithContext(ctx)

	switch {
	case len(parts) == 1:
		h.company(w, r, p, c)
	case len(parts) == 2 && parts[1] == "stats":
		h.stats(w, r, c)
	case len(parts) == 2 && parts[1] == "export":
		h.export(w, r, c)
	case len(parts) == 2 && parts[1] == "colaboradores":
		h.colaboradores(w, r, c)
	case len(parts) == 3 && parts[1] == "colaboradores":
		h.colaborador(w, r, c, parts[2])
	default:
		notFound(w, "not found")
	}
}

func (h *CompanyHandler) company(w http.ResponseWriter, r *http.Request, p auth.Principal, c *models.Company) {
	switch r.Method {
	case http.MethodGet:
		utils.WriteJSON(w, http.StatusOK, c)

	case http.MethodPatch:
		if !p.SuperAdmin {
			utils.WriteError(w, http.StatusForbidden, msgAcessoNegado)
			return
		}
		h.patchCompany(w, r, c)

	case http.MethodDelete:
		if !p.SuperAdmin {
			utils.WriteError(w, http.StatusForbidden, msgAcessoNegado)
			return
		}
		n, err := h.Deleter.DeleteCompanyCascade(r.Context(), c)
		if err != nil {
			internalError(w, h.log(), "company_delete_error", err)
			return
		}
		h.log().Info("company_deleted", "slug", c.Slug, "colaboradores_removidos", n)
		h.publishCompany(broker.ActionDeleted, c, "Exclusão de EMPRESA ")
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

func (h *CompanyHandler) patchCompany(w http.ResponseWriter, r *http.Request, c *models.Company) {
	var dto CompanyPatchDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}
	ctx := r.Context()

	ferrs, err := h.Checker.CheckCompanyUpdate(ctx, c, dto.toPatch())
	if err != nil {
		internalError(w, h.log(), "company_check_error", err)
		return
	}
	if len(ferrs) > 0 {
		utils.WriteFieldErrors(w, http.StatusBadRequest, ferrs)
		return
	}

	cor := dto.Cor
	if cor != nil && *cor == "" {
		def := models.DefaultColor
		cor = &def
	}
	upd := repository.CompanyUpdate{
		Nome:               dto.Nome,
		Cor:                cor,
		Logo:               dto.Logo,
		Ativo:              dto.Ativo,
		MaxColaboradores:   dto.MaxColaboradores,
		CamposObrigatorios: dto.CamposObrigatorios,
	}
	if dto.Senha != nil {
		hash, err := auth.HashPassword(*dto.Senha)
		if err != nil {
			internalError(w, h.log(), "password_hash_error", err)
			return
		}
		upd.SenhaHash = &hash
	}

	if err := h.CompanyRepo.Update(ctx, c.ID, upd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, msgEmpresaNaoEncontrada)
			return
		}
		internalError(w, h.log(), "company_update_error", err)
		return
	}

	updated, err := h.CompanyRepo.GetBySlug(ctx, c.Slug)
	if err != nil {
		internalError(w, h.log(), "company_lookup_error", err)
		return
	}
	h.publishCompany(broker.ActionUpdated, updated, "Edição de EMPRESA ")
	utils.WriteJSON(w, http.StatusOK, updated)
}

func (h *CompanyHandler) stats(w http.ResponseWriter, r *http.Request, c *models.Company) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	ctx := r.Context()

	total, err := h.ColabRepo.Count(ctx, c.ID)
	if err != nil {
		internalError(w, h.log(), "stats_count_error", err)
		return
	}
	now := clock(h.Now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	novos, err := h.ColabRepo.CountSince(ctx, c.ID, monthStart)
	if err != nil {
		internalError(w, h.log(), "stats_count_error", err)
		return
	}

	capacity := c.Capacity()
	utils.WriteJSON(w, http.StatusOK, StatsView{
		Total:              total,
		NovosEsteMes:       novos,
		Capacidade:         capacity,
		PercentualOcupacao: occupancy(total, capacity),
	})
}

func (h *CompanyHandler) colaboradores(w http.ResponseWriter, r *http.Request, c *models.Company) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	limit, skip := pagination(r)
	f := repository.ListFilter{Limit: limit, Skip: skip}
	if st := models.Status(r.URL.Query().Get("status")); st != "" {
		if !st.Valid() {
			var errs validation.FieldErrors
			errs.Add("status", "Status inválido")
			utils.WriteFieldErrors(w, http.StatusBadRequest, errs)
			return
		}
		f.Status = st
	}

	list, err := h.ColabRepo.List(r.Context(), c.ID, f)
	if err != nil {
		internalError(w, h.log(), "colaborador_list_error", err)
		return
	}
	now := clock(h.Now)
	out := make([]ColaboradorView, 0, len(list))
	for _, col := range list {
		out = append(out, newColaboradorView(col, now))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *CompanyHandler) colaborador(w http.ResponseWriter, r *http.Request, c *models.Company, id string) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		col, err := h.ColabRepo.GetByID(ctx, c.ID, id)
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, msgColaboradorNaoEncontrado)
			return
		}
		if err != nil {
			internalError(w, h.log(), "colaborador_lookup_error", err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, newColaboradorView(*col, clock(h.Now)))

	case http.MethodPatch:
		var dto StatusPatchDTO
		if err := utils.DecodeStrict(r.Body, &dto); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		if !dto.Status.Valid() {
			var errs validation.FieldErrors
			errs.Add("status", "Status inválido")
			utils.WriteFieldErrors(w, http.StatusBadRequest, errs)
			return
		}
		if err := h.ColabRepo.UpdateStatus(ctx, c.ID, id, dto.Status); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				notFound(w, msgColaboradorNaoEncontrado)
				return
			}
			internalError(w, h.log(), "colaborador_update_error", err)
			return
		}
		col, err := h.ColabRepo.GetByID(ctx, c.ID, id)
		if err != nil {
			internalError(w, h.log(), "colaborador_lookup_error", err)
			return
		}
		publish(h.Pub, h.log(), broker.Event{
			Action:      broker.ActionUpdated,
			Entity:      broker.EntityColaborador,
			CompanySlug: c.Slug,
			Subject:     id,
			Message:     "Edição de COLABORADOR " + col.Nome + " na EMPRESA " + c.DisplayName(),
			At:          time.Now().UTC(),
		})
		utils.WriteJSON(w, http.StatusOK, newColaboradorView(*col, clock(h.Now)))

	case http.MethodDelete:
		if err := h.ColabRepo.Delete(ctx, c.ID, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				notFound(w, msgColaboradorNaoEncontrado)
				return
			}
			internalError(w, h.log(), "colaborador_delete_error", err)
			return
		}
		publish(h.Pub, h.log(), broker.Event{
			Action:      broker.ActionDeleted,
			Entity:      broker.EntityColaborador,
			CompanySlug: c.Slug,
			Subject:     id,
			Message:     "Exclusão de COLABORADOR na EMPRESA " + c.DisplayName(),
			At:          time.Now().UTC(),
		})
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

// export gera o .xlsx; com Archive configurado também sobe para o bucket e
// devolve a URL temporária em X-Export-URL.
func (h *CompanyHandler) export(w http.ResponseWriter, r *http.Request, c *models.Company) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	ctx := r.Context()

	list, err := h.ColabRepo.ListAll(ctx, c.ID)
	if err != nil {
		internalError(w, h.log(), "export_list_error", err)
		return
	}
	data, err := h.Sheets.Build(list)
	if err != nil {
		internalError(w, h.log(), "export_build_error", err)
		return
	}

	if h.Archive != nil {
		url, err := h.Archive.Put(ctx, export.ObjectKey(c.Slug), data)
		if err != nil {
			h.log().Warn("export_archive_failed", "slug", c.Slug, "err", err)
		} else {
			w.Header().Set("X-Export-URL", url)
		}
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(c.Slug)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *CompanyHandler) publishCompany(action string, c *models.Company, prefix string) {
	publish(h.Pub, h.log(), broker.Event{
		Action:      action,
		Entity:      broker.EntityEmpresa,
		CompanySlug: c.Slug,
		Subject:     c.ID,
		Message:     prefix + c.DisplayName(),
		At:          time.Now().UTC(),
	})
}

func (h *CompanyHandler) log() *slog.Logger { return loggerOr(h.Log) }
