package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Werneck0live/cadastro-colaboradores/internal/models"
)

// Store agrupa os repositórios de um mesmo database e implementa o
// checker.Gateway (não encontrado = nil, nil).
type Store struct {
	Companies     *CompanyRepository
	Colaboradores *ColaboradorRepository
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		Companies:     NewCompanyRepository(db),
		Colaboradores: NewColaboradorRepository(db),
	}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	if err := s.Companies.EnsureIndexes(ctx); err != nil {
		return err
	}
	return s.Colaboradores.EnsureIndexes(ctx)
}

func (s *Store) FindColaboradorByCPF(ctx context.Context, companyID, cpf string) (*models.Colaborador, error) {
	c, err := s.Colaboradores.FindByCPF(ctx, companyID, cpf)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return c, err
}

func (s *Store) CountColaboradores(ctx context.Context, companyID string) (int64, error) {
	return s.Colaboradores.Count(ctx, companyID)
}

func (s *Store) FindCompanyBySlug(ctx context.Context, slug string) (*models.Company, error) {
	c, err := s.Companies.GetBySlug(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return c, err
}

// DeleteCompanyCascade desativa a empresa (fecha o cadastro público), remove os
// colaboradores e por fim a própria empresa. Se falhar no meio, a empresa fica
// inativa e a operação pode ser repetida.
func (s *Store) DeleteCompanyCascade(ctx context.Context, c *models.Company) (int64, error) {
	inactive := false
	if err := s.Companies.Update(ctx, c.ID, CompanyUpdate{Ativo: &inactive}); err != nil {
		return 0, fmt.Errorf("deactivate company: %w", err)
	}
	n, err := s.Colaboradores.DeleteByCompany(ctx, c.ID)
	if err != nil {
		return 0, err
	}
	if err := s.Companies.Delete(ctx, c.ID); err != nil {
		return n, err
	}
	return n, nil
}
