package admin

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Werneck0live/cadastro-colaboradores/internal/auth"
	"github.com/Werneck0live/cadastro-colaboradores/internal/checker"
	"github.com/Werneck0live/cadastro-colaboradores/internal/models"
	"github.com/Werneck0live/cadastro-colaboradores/internal/repository"
)

//go:embed seeds/companies.json
var companiesJSON []byte

type CompanyCreator interface {
	Create(ctx context.Context, c *models.Company) (string, error)
}

// SeedCompanies é idempotente: cria o que não existe e ignora o resto.
func SeedCompanies(ctx context.Context, repo CompanyCreator, chk *checker.Checker, log *slog.Logger) error {
	return seed(ctx, companiesJSON, repo, chk, log)
}

func seed(ctx context.Context, raw []byte, repo CompanyCreator, chk *checker.Checker, log *slog.Logger) error {
	var items []checker.CompanyInput
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}

	created := 0
	for _, in := range items {
		// timeout curto por item pra não travar
		ictx, cancel := context.WithTimeout(ctx, 3*time.Second)
		ok, err := seedOne(ictx, in, repo, chk, log)
		cancel()
		if err != nil {
			return err
		}
		if ok {
			created++
		}
	}

	log.Info("seed_companies_done", "count", len(items), "created", created)
	return nil
}

func seedOne(ctx context.Context, in checker.CompanyInput, repo CompanyCreator, chk *checker.Checker, log *slog.Logger) (bool, error) {
	v, ferrs, err := chk.CheckCompany(ctx, in)
	if err != nil {
		return false, err
	}
	if len(ferrs) > 0 {
		if len(ferrs) == 1 && ferrs[0].Field == "slug" && ferrs[0].Message == checker.MsgSlugEmUso {
			log.Info("seed_company_exists", "slug", in.Slug)
			return false, nil
		}
		log.Warn("seed_skip_invalid", "slug", in.Slug, "errors", ferrs.Error())
		return false, nil
	}

	hash, err := auth.HashPassword(v.Senha)
	if err != nil {
		return false, err
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
	if _, err := repo.Create(ctx, &c); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			log.Info("seed_company_exists", "slug", c.Slug)
			return false, nil
		}
		return false, err
	}
	log.Info("seed_company_created", "slug", c.Slug, "id", c.ID)
	return true, nil
}
