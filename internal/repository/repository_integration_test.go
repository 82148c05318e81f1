//go:build integration
// +build integration

package repository

/*
	Para Rodar: go test -tags=integration -v ./internal/repository -count=1

	obs: Rodar todos os de integração: go test -tags=integration -v ./... -count=1
*/

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Werneck0live/cadastro-colaboradores/internal/db"
	"github.com/Werneck0live/cadastro-colaboradores/internal/models"
)

func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	mongoC, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	t.Cleanup(func() { _ = mongoC.Terminate(ctx) })

	uri, err := mongoC.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("conn string: %v", err)
	}
	client, err := db.NewMongoClient(uri)
	if err != nil {
		t.Fatalf("mongo client: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	return client.Database("testdb")
}

func newCompany(slug string) *models.Company {
	return &models.Company{
		Slug:  slug,
		Nome:  "Empresa " + slug,
		Cor:   models.DefaultColor,
		Ativo: true,
		Configuracoes: models.CompanySettings{
			MaxColaboradores:   10,
			CamposObrigatorios: models.DefaultCamposObrigatorios,
		},
	}
}

func newColaborador(companyID, cpf string, at time.Time) *models.Colaborador {
	return &models.Colaborador{
		CompanyID:         companyID,
		CPF:               cpf,
		Nome:              "Ana Maria",
		DataNascimento:    time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
		RG:                "123456789",
		DataEmissaoRG:     time.Date(2010, 1, 10, 0, 0, 0, 0, time.UTC),
		OrgaoEmissorRG:    "SSP",
		UFEmissao:         "SP",
		Matricula:         "A-001",
		TipoContrato:      "CLT",
		Status:            models.StatusAtivo,
		DataRegistro:      at,
		UltimaAtualizacao: at,
	}
}

// Exercita: Create -> GetBySlug -> Update -> slug duplicado -> Delete
func TestCompanyRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore(startMongo(t))
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	repo := store.Companies

	id, err := repo.Create(ctx, newCompany("acme"))
	if err != nil || id == "" {
		t.Fatalf("create: id=%q err=%v", id, err)
	}

	got, err := repo.GetBySlug(ctx, "acme")
	if err != nil || got.ID != id || got.Configuracoes.MaxColaboradores != 10 {
		t.Fatalf("get mismatch: %#v err=%v", got, err)
	}

	nome := "Acme Novo"
	if err := repo.Update(ctx, id, CompanyUpdate{Nome: &nome}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = repo.GetBySlug(ctx, "acme")
	if got.Nome != nome || got.UpdatedAt.Before(got.CreatedAt) {
		t.Fatalf("after update mismatch: %#v", got)
	}

	if _, err := repo.Create(ctx, newCompany("acme")); !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("want ErrDuplicateSlug, got %v", err)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetBySlug(ctx, "acme"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
	if err := repo.Update(ctx, id, CompanyUpdate{Nome: &nome}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: want ErrNotFound, got %v", err)
	}
}

func TestColaboradorRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore(startMongo(t))
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	repo := store.Colaboradores

	now := time.Now().UTC().Truncate(time.Millisecond)
	id, err := repo.Create(ctx, newColaborador("c1", "11144477735", now.AddDate(0, -2, 0)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, newColaborador("c1", "08301661305", now)); err != nil {
		t.Fatalf("create 2: %v", err)
	}

	// mesmo CPF na mesma empresa viola o índice; em outra empresa é permitido
	if _, err := repo.Create(ctx, newColaborador("c1", "11144477735", now)); !errors.Is(err, ErrDuplicateCPF) {
		t.Fatalf("want ErrDuplicateCPF, got %v", err)
	}
	if _, err := repo.Create(ctx, newColaborador("c2", "11144477735", now)); err != nil {
		t.Fatalf("other company: %v", err)
	}

	if n, _ := repo.Count(ctx, "c1"); n != 2 {
		t.Fatalf("count=%d want=2", n)
	}
	if n, _ := repo.CountSince(ctx, "c1", now.AddDate(0, 0, -1)); n != 1 {
		t.Fatalf("countSince=%d want=1", n)
	}

	if err := repo.UpdateStatus(ctx, "c1", id, models.StatusInativo); err != nil {
		t.Fatalf("update status: %v", err)
	}
	list, err := repo.List(ctx, "c1", ListFilter{Status: models.StatusInativo})
	if err != nil || len(list) != 1 || list[0].ID != id {
		t.Fatalf("list inativos: %#v err=%v", list, err)
	}

	// gateway: não encontrado vira nil, nil
	if c, err := store.FindColaboradorByCPF(ctx, "c3", "11144477735"); c != nil || err != nil {
		t.Fatalf("gateway miss: %#v %v", c, err)
	}

	if err := repo.Delete(ctx, "c2", id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-company delete must not match, got %v", err)
	}
}

func TestStore_DeleteCompanyCascade_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore(startMongo(t))
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("indexes: %v", err)
	}

	c := newCompany("globex")
	if _, err := store.Companies.Create(ctx, c); err != nil {
		t.Fatalf("create company: %v", err)
	}
	for _, cpf := range []string{"11144477735", "08301661305", "18609139034"} {
		if _, err := store.Colaboradores.Create(ctx, newColaborador(c.ID, cpf, time.Now().UTC())); err != nil {
			t.Fatalf("create colaborador: %v", err)
		}
	}

	n, err := store.DeleteCompanyCascade(ctx, c)
	if err != nil || n != 3 {
		t.Fatalf("cascade: n=%d err=%v", n, err)
	}
	if got, _ := store.FindCompanyBySlug(ctx, "globex"); got != nil {
		t.Fatalf("company still present: %#v", got)
	}
	if total, _ := store.CountColaboradores(ctx, c.ID); total != 0 {
		t.Fatalf("colaboradores left: %d", total)
	}
}
