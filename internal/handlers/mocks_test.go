package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Werneck0live/cadastro-colaboradores/internal/broker"
	"github.com/Werneck0live/cadastro-colaboradores/internal/models"
	"github.com/Werneck0live/cadastro-colaboradores/internal/repository"
)

type companyRepoMock struct {
	GetAllFn    func(ctx context.Context, limit, skip int64) ([]models.Company, error)
	CreateFn    func(ctx context.Context, c *models.Company) (string, error)
	GetBySlugFn func(ctx context.Context, slug string) (*models.Company, error)
	UpdateFn    func(ctx context.Context, id string, u repository.CompanyUpdate) error
}

func (m *companyRepoMock) GetAll(ctx context.Context, limit, skip int64) ([]models.Company, error) {
	if m.GetAllFn == nil {
		return nil, errors.New("GetAllFn not set")
	}
	return m.GetAllFn(ctx, limit, skip)
}
func (m *companyRepoMock) Create(ctx context.Context, c *models.Company) (string, error) {
	if m.CreateFn == nil {
		return "", errors.New("CreateFn not set")
	}
	return m.CreateFn(ctx, c)
}
func (m *companyRepoMock) GetBySlug(ctx context.Context, slug string) (*models.Company, error) {
	if m.GetBySlugFn == nil {
		return nil, errors.New("GetBySlugFn not set")
	}
	return m.GetBySlugFn(ctx, slug)
}
func (m *companyRepoMock) Update(ctx context.Context, id string, u repository.CompanyUpdate) error {
	if m.UpdateFn == nil {
		return errors.New("UpdateFn not set")
	}
	return m.UpdateFn(ctx, id, u)
}

type colabRepoMock struct {
	CreateFn       func(ctx context.Context, c *models.Colaborador) (string, error)
	GetByIDFn      func(ctx context.Context, companyID, id string) (*models.Colaborador, error)
	CountFn        func(ctx context.Context, companyID string) (int64, error)
	CountSinceFn   func(ctx context.Context, companyID string, since time.Time) (int64, error)
	ListFn         func(ctx context.Context, companyID string, f repository.ListFilter) ([]models.Colaborador, error)
	ListAllFn      func(ctx context.Context, companyID string) ([]models.Colaborador, error)
	UpdateStatusFn func(ctx context.Context, companyID, id string, st models.Status) error
	DeleteFn       func(ctx context.Context, companyID, id string) error
}

func (m *colabRepoMock) Create(ctx context.Context, c *models.Colaborador) (string, error) {
	if m.CreateFn == nil {
		return "", errors.New("CreateFn not set")
	}
	return m.CreateFn(ctx, c)
}
func (m *colabRepoMock) GetByID(ctx context.Context, companyID, id string) (*models.Colaborador, error) {
	if m.GetByIDFn == nil {
		return nil, errors.New("GetByIDFn not set")
	}
	return m.GetByIDFn(ctx, companyID, id)
}
func (m *colabRepoMock) Count(ctx context.Context, companyID string) (int64, error) {
	if m.CountFn == nil {
		return 0, errors.New("CountFn not set")
	}
	return m.CountFn(ctx, companyID)
}
func (m *colabRepoMock) CountSince(ctx context.Context, companyID string, since time.Time) (int64, error) {
	if m.CountSinceFn == nil {
		return 0, errors.New("CountSinceFn not set")
	}
	return m.CountSinceFn(ctx, companyID, since)
}
func (m *colabRepoMock) List(ctx context.Context, companyID string, f repository.ListFilter) ([]models.Colaborador, error) {
	if m.ListFn == nil {
		return nil, errors.New("ListFn not set")
	}
	return m.ListFn(ctx, companyID, f)
}
func (m *colabRepoMock) ListAll(ctx context.Context, companyID string) ([]models.Colaborador, error) {
	if m.ListAllFn == nil {
		return nil, errors.New("ListAllFn not set")
	}
	return m.ListAllFn(ctx, companyID)
}
func (m *colabRepoMock) UpdateStatus(ctx context.Context, companyID, id string, st models.Status) error {
	if m.UpdateStatusFn == nil {
		return errors.New("UpdateStatusFn not set")
	}
	return m.UpdateStatusFn(ctx, companyID, id, st)
}
func (m *colabRepoMock) Delete(ctx context.Context, companyID, id string) error {
	if m.DeleteFn == nil {
		return errors.New("DeleteFn not set")
	}
	return m.DeleteFn(ctx, companyID, id)
}

// gateway do checker; funções não definidas = "não encontrado"/zero
type gatewayMock struct {
	FindColaboradorByCPFFn func(ctx context.Context, companyID, cpf string) (*models.Colaborador, error)
	CountColaboradoresFn   func(ctx context.Context, companyID string) (int64, error)
	FindCompanyBySlugFn    func(ctx context.Context, slug string) (*models.Company, error)
}

func (g *gatewayMock) FindColaboradorByCPF(ctx context.Context, companyID, cpf string) (*models.Colaborador, error) {
	if g.FindColaboradorByCPFFn == nil {
		return nil, nil
	}
	return g.FindColaboradorByCPFFn(ctx, companyID, cpf)
}
func (g *gatewayMock) CountColaboradores(ctx context.Context, companyID string) (int64, error) {
	if g.CountColaboradoresFn == nil {
		return 0, nil
	}
	return g.CountColaboradoresFn(ctx, companyID)
}
func (g *gatewayMock) FindCompanyBySlug(ctx context.Context, slug string) (*models.Company, error) {
	if g.FindCompanyBySlugFn == nil {
		return nil, nil
	}
	return g.FindCompanyBySlugFn(ctx, slug)
}

type deleterMock struct {
	DeleteFn func(ctx context.Context, c *models.Company) (int64, error)
}

func (d *deleterMock) DeleteCompanyCascade(ctx context.Context, c *models.Company) (int64, error) {
	if d.DeleteFn == nil {
		return 0, errors.New("DeleteFn not set")
	}
	return d.DeleteFn(ctx, c)
}

// pubMock guarda os eventos publicados
type pubMock struct {
	mu        sync.Mutex
	events    []broker.Event
	PublishFn func(ctx context.Context, ev broker.Event) error
}

func (p *pubMock) Publish(ctx context.Context, ev broker.Event) error {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
	if p.PublishFn == nil {
		return nil
	}
	return p.PublishFn(ctx, ev)
}

func (p *pubMock) Events() []broker.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]broker.Event(nil), p.events...)
}

type archiveMock struct {
	PutFn func(ctx context.Context, key string, data []byte) (string, error)
}

func (a *archiveMock) Put(ctx context.Context, key string, data []byte) (string, error) {
	return a.PutFn(ctx, key, data)
}
