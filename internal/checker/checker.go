// Package checker compõe os validadores em regras de entidade (colaborador e
// empresa) e consulta o gateway de persistência para unicidade e capacidade.
//
// Falhas esperadas de entrada voltam como validation.FieldErrors; o error de
// retorno fica reservado para defeitos de integração (ErrPrecondition) e falhas
// do gateway.
package checker

import (
	"context"
	"errors"
	"time"

	"github.com/Werneck0live/cadastro-colaboradores/internal/models"
	"github.com/Werneck0live/cadastro-colaboradores/internal/validation"
)

var ErrPrecondition = errors.New("checker precondition failed")

// Gateway é tudo que o checker lê do armazenamento. "Não encontrado" é (nil, nil).
type Gateway interface {
	FindColaboradorByCPF(ctx context.Context, companyID, cpf string) (*models.Colaborador, error)
	CountColaboradores(ctx context.Context, companyID string) (int64, error)
	FindCompanyBySlug(ctx context.Context, slug string) (*models.Company, error)
}

type Checker struct {
	gw     Gateway
	limits validation.Limits
	now    func() time.Time
}

func New(gw Gateway, limits validation.Limits) *Checker {
	return &Checker{gw: gw, limits: limits, now: time.Now}
}

// WithClock troca o relógio (testes de fronteira de idade).
func (c *Checker) WithClock(now func() time.Time) *Checker {
	cp := *c
	cp.now = now
	return &cp
}

func (c *Checker) Limits() validation.Limits { return c.limits }

func (c *Checker) ready() error {
	if c == nil || c.gw == nil {
		return errors.Join(ErrPrecondition, errors.New("gateway not configured"))
	}
	return nil
}
