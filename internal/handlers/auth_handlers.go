package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Werneck0live/cadastro-colaboradores/internal/auth"
	"github.com/Werneck0live/cadastro-colaboradores/internal/ratelimit"
	"github.com/Werneck0live/cadastro-colaboradores/internal/utils"
)

const (
	tipoSuperAdmin = "superadmin"
	tipoEmpresa    = "empresa"

	msgCredenciaisInvalidas = "Credenciais inválidas"
	msgLoginBloqueado       = "Muitas tentativas de login. Tente novamente mais tarde."
	msgNaoAutenticado       = "Não autenticado"
	msgAcessoNegado         = "Acesso negado"
)

type AuthHandler struct {
	Auth     *auth.Authenticator
	Sessions *auth.Sessions
	Proxies  *ratelimit.Proxies // nil = só o par TCP identifica o cliente
	Log      *slog.Logger
}

// Login: POST /admin/login com tipo=superadmin (usuario/senha) ou
// tipo=empresa (slug/senha; "empresa" também é aceito). JSON ou formulário.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	log := loggerOr(h.Log)

	dto, err := decodeLogin(r)
	if err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reqTimeout)
	defer cancel()

	ip := h.Proxies.ClientIP(r)
	var p auth.Principal
	switch dto.Tipo {
	case tipoSuperAdmin:
		user := dto.Usuario
		if user == "" {
			user = dto.Empresa
		}
		p, err = h.Auth.LoginSuperAdmin(ctx, user, dto.Senha, ip)
	case tipoEmpresa:
		p, err = h.Auth.LoginCompany(ctx, dto.companySlug(), dto.Senha, ip)
	default:
		utils.BadRequest(w, "tipo deve ser superadmin ou empresa")
		return
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		log.Warn("login_failed", "tipo", dto.Tipo, "remote", ip)
		utils.WriteError(w, http.StatusUnauthorized, msgCredenciaisInvalidas)
		return
	case errors.Is(err, auth.ErrLocked):
		log.Warn("login_locked", "tipo", dto.Tipo, "remote", ip)
		utils.WriteError(w, http.StatusTooManyRequests, msgLoginBloqueado)
		return
	case err != nil:
		internalError(w, log, "login_error", err)
		return
	}

	if err := h.Sessions.Save(w, r, p); err != nil {
		internalError(w, log, "session_save_error", err)
		return
	}
	log.Info("login_ok", "tipo", dto.Tipo, "company", p.CompanySlug)
	utils.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "principal": p})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if err := h.Sessions.Clear(w, r); err != nil {
		internalError(w, loggerOr(h.Log), "session_clear_error", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me devolve o principal da sessão atual.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p := h.Sessions.Load(r)
	if !p.Authenticated() {
		utils.WriteError(w, http.StatusUnauthorized, msgNaoAutenticado)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

// RequireLogin barra requisições sem sessão e injeta o Principal no contexto.
func (h *AuthHandler) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := h.Sessions.Load(r)
		if !p.Authenticated() {
			utils.WriteError(w, http.StatusUnauthorized, msgNaoAutenticado)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
	})
}

func decodeLogin(r *http.Request) (LoginDTO, error) {
	var dto LoginDTO
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := utils.DecodeStrict(r.Body, &dto)
		return dto, err
	}
	if err := r.ParseForm(); err != nil {
		return dto, err
	}
	dto = LoginDTO{
		Tipo:    r.PostForm.Get("tipo"),
		Usuario: r.PostForm.Get("usuario"),
		Slug:    r.PostForm.Get("slug"),
		Empresa: r.PostForm.Get("empresa"),
		Senha:   r.PostForm.Get("senha"),
	}
	return dto, nil
}
