package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	SessionName = "sid"

	keySuperAdmin  = "super_admin"
	keyCompanySlug = "company_slug"
)

// Principal é quem está logado: o super admin ou o admin de uma empresa.
type Principal struct {
	SuperAdmin  bool   `json:"superAdmin"`
	CompanySlug string `json:"companySlug,omitempty"`
}

func (p Principal) Authenticated() bool { return p.SuperAdmin || p.CompanySlug != "" }

// CanAccessCompany: super admin vê tudo, empresa só a si mesma.
func (p Principal) CanAccessCompany(slug string) bool {
	return p.SuperAdmin || (p.CompanySlug != "" && p.CompanySlug == slug)
}

type SessionOptions struct {
	MaxAge int // segundos
	Secure bool
}

// Sessions guarda o Principal em cookie assinado (gorilla/sessions).
// O mesmo segredo é usado pela API e pelo serviço de WS.
type Sessions struct {
	store *sessions.CookieStore
}

func NewSessions(secret []byte, opts SessionOptions) *Sessions {
	st := sessions.NewCookieStore(secret)
	st.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: st}
}

// Load nunca falha: cookie ausente, expirado ou adulterado é só "não logado".
func (s *Sessions) Load(r *http.Request) Principal {
	sess, err := s.store.Get(r, SessionName)
	if err != nil || sess.IsNew {
		return Principal{}
	}
	var p Principal
	p.SuperAdmin, _ = sess.Values[keySuperAdmin].(bool)
	p.CompanySlug, _ = sess.Values[keyCompanySlug].(string)
	return p
}

func (s *Sessions) Save(w http.ResponseWriter, r *http.Request, p Principal) error {
	sess, _ := s.store.Get(r, SessionName)
	sess.Values[keySuperAdmin] = p.SuperAdmin
	sess.Values[keyCompanySlug] = p.CompanySlug
	return sess.Save(r, w)
}

func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, SessionName)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func PrincipalFrom(ctx context.Context) Principal {
	p, _ := ctx.Value(ctxKey{}).(Principal)
	return p
}
