package auth

/*

go test -v ./internal/auth -count=1

*/

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Werneck0live/cadastro-colaboradores/internal/models"
)

type finderMock struct {
	FindFn func(ctx context.Context, slug string) (*models.Company, error)
}

func (m *finderMock) FindCompanyBySlug(ctx context.Context, slug string) (*models.Company, error) {
	return m.FindFn(ctx, slug)
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := HashPassword(plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return h
}

func TestPassword(t *testing.T) {
	h := mustHash(t, "senha123")
	if !CheckPassword(h, "senha123") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(h, "senha124") || CheckPassword("", "senha123") || CheckPassword("not-a-hash", "x") {
		t.Fatal("wrong password accepted")
	}
}

func TestSessions_SaveLoadClear(t *testing.T) {
	s := NewSessions([]byte("0123456789abcdef0123456789abcdef"), SessionOptions{MaxAge: 3600})

	// sem cookie
	if p := s.Load(httptest.NewRequest(http.MethodGet, "/", nil)); p.Authenticated() {
		t.Fatalf("want anonymous, got %#v", p)
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	if err := s.Save(rr, req, Principal{CompanySlug: "acme"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionName || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookies: %#v", cookies)
	}

	next := httptest.NewRequest(http.MethodGet, "/api/companies/acme", nil)
	next.AddCookie(cookies[0])
	p := s.Load(next)
	if p.SuperAdmin || p.CompanySlug != "acme" {
		t.Fatalf("loaded principal mismatch: %#v", p)
	}
	if !p.CanAccessCompany("acme") || p.CanAccessCompany("globex") {
		t.Fatalf("access rules mismatch: %#v", p)
	}

	// cookie assinado com outro segredo não vale
	other := NewSessions([]byte("ffffffffffffffffffffffffffffffff"), SessionOptions{})
	if p := other.Load(next); p.Authenticated() {
		t.Fatalf("foreign cookie accepted: %#v", p)
	}

	rr = httptest.NewRecorder()
	if err := s.Clear(rr, next); err != nil {
		t.Fatalf("clear: %v", err)
	}
	cleared := rr.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("clear should expire the cookie: %#v", cleared)
	}
}

func TestPrincipal_SuperAdmin(t *testing.T) {
	p := Principal{SuperAdmin: true}
	if !p.CanAccessCompany("qualquer") {
		t.Fatal("super admin must access every company")
	}
	if (Principal{}).CanAccessCompany("") {
		t.Fatal("anonymous must not match empty slug")
	}
	ctx := WithPrincipal(context.Background(), p)
	if !PrincipalFrom(ctx).SuperAdmin {
		t.Fatal("principal lost in context")
	}
}

func TestMemoryThrottle_Window(t *testing.T) {
	th := NewMemoryThrottle(time.Minute)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	th.now = func() time.Time { return now }
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		if n, _ := th.RecordFailure(ctx, "k"); n != i {
			t.Fatalf("attempt %d: count=%d", i, n)
		}
	}
	now = now.Add(61 * time.Second)
	if n, _ := th.Failures(ctx, "k"); n != 0 {
		t.Fatalf("window should have expired, count=%d", n)
	}

	_, _ = th.RecordFailure(ctx, "k")
	_ = th.Reset(ctx, "k")
	if n, _ := th.Failures(ctx, "k"); n != 0 {
		t.Fatalf("reset failed, count=%d", n)
	}
}

func TestAuthenticator_SuperAdmin(t *testing.T) {
	a := &Authenticator{
		SuperAdminUser: DefaultSuperAdminUser,
		SuperAdminHash: mustHash(t, "Adm1n@2024"),
		Throttle:       NewMemoryThrottle(time.Minute),
		MaxAttempts:    3,
	}
	ctx := context.Background()

	p, err := a.LoginSuperAdmin(ctx, DefaultSuperAdminUser, "Adm1n@2024", "1.1.1.1")
	if err != nil || !p.SuperAdmin {
		t.Fatalf("login: p=%#v err=%v", p, err)
	}
	if _, err := a.LoginSuperAdmin(ctx, "root", "Adm1n@2024", "1.1.1.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong user: %v", err)
	}
}

func TestAuthenticator_LockoutAfterMaxAttempts(t *testing.T) {
	a := &Authenticator{
		SuperAdminUser: DefaultSuperAdminUser,
		SuperAdminHash: mustHash(t, "certa"),
		Throttle:       NewMemoryThrottle(time.Minute),
		MaxAttempts:    3,
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := a.LoginSuperAdmin(ctx, DefaultSuperAdminUser, "errada", "1.1.1.1"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: %v", i, err)
		}
	}
	// bloqueado mesmo com a senha certa
	if _, err := a.LoginSuperAdmin(ctx, DefaultSuperAdminUser, "certa", "1.1.1.1"); !errors.Is(err, ErrLocked) {
		t.Fatalf("want ErrLocked, got %v", err)
	}
	// outro IP não é afetado
	if _, err := a.LoginSuperAdmin(ctx, DefaultSuperAdminUser, "certa", "2.2.2.2"); err != nil {
		t.Fatalf("other ip: %v", err)
	}
}

func TestAuthenticator_Company(t *testing.T) {
	hash := mustHash(t, "senha123")
	companies := map[string]*models.Company{
		"acme":    {ID: "1", Slug: "acme", SenhaHash: hash, Ativo: true},
		"inativa": {ID: "2", Slug: "inativa", SenhaHash: hash, Ativo: false},
	}
	a := &Authenticator{Companies: &finderMock{FindFn: func(_ context.Context, slug string) (*models.Company, error) {
		return companies[slug], nil
	}}}
	ctx := context.Background()

	p, err := a.LoginCompany(ctx, "acme", "senha123", "ip")
	if err != nil || p.CompanySlug != "acme" || p.SuperAdmin {
		t.Fatalf("login: p=%#v err=%v", p, err)
	}
	for _, tc := range []struct{ slug, senha string }{
		{"acme", "errada"}, {"inativa", "senha123"}, {"nao-existe", "senha123"},
	} {
		if _, err := a.LoginCompany(ctx, tc.slug, tc.senha, "ip"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%s/%s: want ErrInvalidCredentials, got %v", tc.slug, tc.senha, err)
		}
	}

	boom := errors.New("mongo down")
	a.Companies = &finderMock{FindFn: func(context.Context, string) (*models.Company, error) { return nil, boom }}
	if _, err := a.LoginCompany(ctx, "acme", "senha123", "ip"); !errors.Is(err, boom) {
		t.Fatalf("want wrapped store error, got %v", err)
	}
}
