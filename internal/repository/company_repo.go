package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Werneck0live/cadastro-colaboradores/internal/models"
)

type CompanyRepository struct {
	coll *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{coll: db.Collection("companies")}
}

func (r *CompanyRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_slug"),
	}
	return ensureIndex(ctx, r.coll, model, "uniq_slug")
}

// Create gera o ID (uuid) quando ausente e preenche os timestamps.
func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) (string, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt

	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		if isDuplicateKey(err) {
			return "", ErrDuplicateSlug
		}
		return "", fmt.Errorf("insert company: %w", err)
	}
	return c.ID, nil
}

func (r *CompanyRepository) GetBySlug(ctx context.Context, slug string) (*models.Company, error) {
	var c models.Company
	if err := r.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&c); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *CompanyRepository) GetAll(ctx context.Context, limit int64, skip int64) ([]models.Company, error) {
	opts := options.Find().SetLimit(limit).SetSkip(skip).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.Company{}
	for cur.Next(ctx) {
		var c models.Company
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, cur.Err()
}

// CompanyUpdate: só os campos não-nil entram no $set.
type CompanyUpdate struct {
	Nome               *string
	SenhaHash          *string
	Cor                *string
	Logo               *string
	Ativo              *bool
	MaxColaboradores   *int
	CamposObrigatorios []string
}

func (u CompanyUpdate) set(now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if u.Nome != nil {
		set["nome"] = *u.Nome
	}
	if u.SenhaHash != nil {
		set["senha_hash"] = *u.SenhaHash
	}
	if u.Cor != nil {
		set["cor"] = *u.Cor
	}
	if u.Logo != nil {
		set["logo"] = *u.Logo
	}
	if u.Ativo != nil {
		set["ativo"] = *u.Ativo
	}
	if u.MaxColaboradores != nil {
		set["configuracoes.max_colaboradores"] = *u.MaxColaboradores
	}
	if u.CamposObrigatorios != nil {
		set["configuracoes.campos_obrigatorios"] = u.CamposObrigatorios
	}
	return set
}

func (r *CompanyRepository) Update(ctx context.Context, id string, u CompanyUpdate) error {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": u.set(time.Now().UTC())})
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
