package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Werneck0live/cadastro-colaboradores/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLocked             = errors.New("too many failed attempts")
)

const (
	DefaultSuperAdminUser = "admin_master_2024"
	// hash bcrypt da senha padrão do super admin; troque via SUPER_ADMIN_PASS_HASH
	DefaultSuperAdminHash = "$2a$10$HosiuIDD2JpSECeoCU8KqehF1Yyr/sn/DFsIgIVLwNKESPNEoeyDC"

	DefaultMaxAttempts = 5
	DefaultLockout     = 15 * time.Minute
)

// CompanyFinder: (nil, nil) quando o slug não existe.
type CompanyFinder interface {
	FindCompanyBySlug(ctx context.Context, slug string) (*models.Company, error)
}

type Authenticator struct {
	Companies      CompanyFinder
	SuperAdminUser string
	SuperAdminHash string
	Throttle       Throttle
	MaxAttempts    int64
	Log            *slog.Logger
}

// LoginSuperAdmin confere usuário e senha do super admin. ip entra na chave de
// bloqueio.
func (a *Authenticator) LoginSuperAdmin(ctx context.Context, user, senha, ip string) (Principal, error) {
	key := "superadmin:" + strings.ToLower(strings.TrimSpace(user)) + ":" + ip
	if err := a.checkLocked(ctx, key); err != nil {
		return Principal{}, err
	}
	if user != a.SuperAdminUser || !CheckPassword(a.SuperAdminHash, senha) {
		return Principal{}, a.fail(ctx, key)
	}
	a.reset(ctx, key)
	return Principal{SuperAdmin: true}, nil
}

// LoginCompany autentica o admin de uma empresa ativa pelo slug.
func (a *Authenticator) LoginCompany(ctx context.Context, slug, senha, ip string) (Principal, error) {
	slug = strings.TrimSpace(slug)
	key := "empresa:" + slug + ":" + ip
	if err := a.checkLocked(ctx, key); err != nil {
		return Principal{}, err
	}

	c, err := a.Companies.FindCompanyBySlug(ctx, slug)
	if err != nil {
		return Principal{}, fmt.Errorf("find company: %w", err)
	}
	if c == nil || !c.Ativo || !CheckPassword(c.SenhaHash, senha) {
		return Principal{}, a.fail(ctx, key)
	}
	a.reset(ctx, key)
	return Principal{CompanySlug: c.Slug}, nil
}

func (a *Authenticator) checkLocked(ctx context.Context, key string) error {
	if a.Throttle == nil || a.MaxAttempts <= 0 {
		return nil
	}
	n, err := a.Throttle.Failures(ctx, key)
	if err != nil {
		// sem contador não bloqueia o login
		a.logger().Warn("login_throttle_error", "err", err)
		return nil
	}
	if n >= a.MaxAttempts {
		return ErrLocked
	}
	return nil
}

func (a *Authenticator) fail(ctx context.Context, key string) error {
	if a.Throttle == nil {
		return ErrInvalidCredentials
	}
	n, err := a.Throttle.RecordFailure(ctx, key)
	if err != nil {
		a.logger().Warn("login_throttle_error", "err", err)
		return ErrInvalidCredentials
	}
	if a.MaxAttempts > 0 && n >= a.MaxAttempts {
		a.logger().Warn("login_locked", "key", key, "attempts", n)
	}
	return ErrInvalidCredentials
}

func (a *Authenticator) reset(ctx context.Context, key string) {
	if a.Throttle == nil {
		return
	}
	if err := a.Throttle.Reset(ctx, key); err != nil {
		a.logger().Warn("login_throttle_error", "err", err)
	}
}

func (a *Authenticator) logger() *slog.Logger {
	if a.Log != nil {
		return a.Log
	}
	return slog.Default()
}
