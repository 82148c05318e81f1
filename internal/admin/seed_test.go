package admin

/*

go test -v ./internal/admin -count=1

*/

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Werneck0live/cadastro-colaboradores/internal/auth"
	"github.com/Werneck0live/cadastro-colaboradores/internal/checker"
	"github.com/Werneck0live/cadastro-colaboradores/internal/models"
	"github.com/Werneck0live/cadastro-colaboradores/internal/repository"
	"github.com/Werneck0live/cadastro-colaboradores/internal/validation"
)

// repositório em memória que atende o checker e o seed
type memRepo struct {
	bySlug    map[string]*models.Company
	createErr error
}

func newMemRepo() *memRepo { return &memRepo{bySlug: map[string]*models.Company{}} }

func (m *memRepo) Create(_ context.Context, c *models.Company) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	if _, ok := m.bySlug[c.Slug]; ok {
		return "", repository.ErrDuplicateSlug
	}
	c.ID = "id-" + c.Slug
	m.bySlug[c.Slug] = c
	return c.ID, nil
}

func (m *memRepo) FindCompanyBySlug(_ context.Context, slug string) (*models.Company, error) {
	return m.bySlug[slug], nil
}

func (m *memRepo) FindColaboradorByCPF(context.Context, string, string) (*models.Colaborador, error) {
	return nil, nil
}

func (m *memRepo) CountColaboradores(context.Context, string) (int64, error) { return 0, nil }

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestSeedCompanies_Idempotent(t *testing.T) {
	repo := newMemRepo()
	chk := checker.New(repo, validation.DefaultLimits())

	if err := SeedCompanies(context.Background(), repo, chk, quiet); err != nil {
		t.Fatalf("first run: %v", err)
	}
	c, ok := repo.bySlug["empresa-padrao"]
	if !ok {
		t.Fatal("empresa-padrao not created")
	}
	if !c.Ativo || c.Nome != "Empresa Padrão" || c.Configuracoes.MaxColaboradores != 1000 {
		t.Fatalf("unexpected company: %#v", c)
	}
	if !auth.CheckPassword(c.SenhaHash, "senha123") {
		t.Fatal("seed password should be hashed")
	}

	if err := SeedCompanies(context.Background(), repo, chk, quiet); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(repo.bySlug) != 1 {
		t.Fatalf("want 1 company, got %d", len(repo.bySlug))
	}
}

func TestSeed_SkipsInvalidAndStopsOnStoreError(t *testing.T) {
	repo := newMemRepo()
	chk := checker.New(repo, validation.DefaultLimits())

	raw := []byte(`[{"nome":"X","slug":"Bad Slug","senha":"1"},{"nome":"Boa Empresa","slug":"boa","senha":"segredo"}]`)
	if err := seed(context.Background(), raw, repo, chk, quiet); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, ok := repo.bySlug["boa"]; !ok || len(repo.bySlug) != 1 {
		t.Fatalf("companies=%v", repo.bySlug)
	}

	boom := errors.New("boom")
	repo = newMemRepo()
	repo.createErr = boom
	chk = checker.New(repo, validation.DefaultLimits())
	if err := seed(context.Background(), raw, repo, chk, quiet); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}

	if err := seed(context.Background(), []byte(`{`), repo, chk, quiet); err == nil {
		t.Fatal("want parse error")
	}
}
