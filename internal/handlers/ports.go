package handlers

import (
	"context"
	"time"

	"github.com/Werneck0live/cadastro-colaboradores/internal/broker"
	"github.com/Werneck0live/cadastro-colaboradores/internal/models"
	"github.com/Werneck0live/cadastro-colaboradores/internal/repository"
)

const reqTimeout = 5 * time.Second

type CompanyRepository interface {
	GetAll(ctx context.Context, limit, skip int64) ([]models.Company, error)
	Create(ctx context.Context, c *models.Company) (string, error)
	GetBySlug(ctx context.Context, slug string) (*models.Company, error)
	Update(ctx context.Context, id string, u repository.CompanyUpdate) error
}

type ColaboradorRepository interface {
	Create(ctx context.Context, c *models.Colaborador) (string, error)
	GetByID(ctx context.Context, companyID, id string) (*models.Colaborador, error)
	Count(ctx context.Context, companyID string) (int64, error)
	CountSince(ctx context.Context, companyID string, since time.Time) (int64, error)
	List(ctx context.Context, companyID string, f repository.ListFilter) ([]models.Colaborador, error)
	ListAll(ctx context.Context, companyID string) ([]models.Colaborador, error)
	UpdateStatus(ctx context.Context, companyID, id string, st models.Status) error
	Delete(ctx context.Context, companyID, id string) error
}

// CompanyDeleter remove a empresa junto com os colaboradores.
type CompanyDeleter interface {
	DeleteCompanyCascade(ctx context.Context, c *models.Company) (int64, error)
}

type Publisher interface {
	Publish(ctx context.Context, ev broker.Event) error
}
