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

const defaultListLimit = 50

type ColaboradorRepository struct {
	coll *mongo.Collection
}

func NewColaboradorRepository(db *mongo.Database) *ColaboradorRepository {
	return &ColaboradorRepository{coll: db.Collection("colaboradores")}
}

// EnsureIndexes: unicidade (company_id, cpf) + índices de listagem.
func (r *ColaboradorRepository) EnsureIndexes(ctx context.Context) error {
	idx := []struct {
		name  string
		model mongo.IndexModel
	}{
		{"uniq_company_cpf", mongo.IndexModel{
			Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "cpf", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_company_cpf"),
		}},
		{"company_data_registro", mongo.IndexModel{
			Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "data_registro", Value: -1}},
			Options: options.Index().SetName("company_data_registro"),
		}},
		{"company_status", mongo.IndexModel{
			Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("company_status"),
		}},
	}
	for _, m := range idx {
		if err := ensureIndex(ctx, r.coll, m.model, m.name); err != nil {
			return err
		}
	}
	return nil
}

func (r *ColaboradorRepository) Create(ctx context.Context, c *models.Colaborador) (string, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		if isDuplicateKey(err) {
			return "", ErrDuplicateCPF
		}
		return "", fmt.Errorf("insert colaborador: %w", err)
	}
	return c.ID, nil
}

func (r *ColaboradorRepository) GetByID(ctx context.Context, companyID, id string) (*models.Colaborador, error) {
	return r.findOne(ctx, bson.M{"_id": id, "company_id": companyID})
}

func (r *ColaboradorRepository) FindByCPF(ctx context.Context, companyID, cpf string) (*models.Colaborador, error) {
	return r.findOne(ctx, bson.M{"company_id": companyID, "cpf": cpf})
}

func (r *ColaboradorRepository) findOne(ctx context.Context, filter bson.M) (*models.Colaborador, error) {
	var c models.Colaborador
	if err := r.coll.FindOne(ctx, filter).Decode(&c); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *ColaboradorRepository) Count(ctx context.Context, companyID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"company_id": companyID})
}

// CountSince conta registros com data_registro >= since.
func (r *ColaboradorRepository) CountSince(ctx context.Context, companyID string, since time.Time) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{
		"company_id":    companyID,
		"data_registro": bson.M{"$gte": since},
	})
}

type ListFilter struct {
	Status models.Status
	Limit  int64
	Skip   int64
}

// List devolve os mais recentes primeiro. Limit <= 0 usa o default.
func (r *ColaboradorRepository) List(ctx context.Context, companyID string, f ListFilter) ([]models.Colaborador, error) {
	filter := bson.M{"company_id": companyID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	opts := options.Find().
		SetLimit(limit).
		SetSkip(f.Skip).
		SetSort(bson.D{{Key: "data_registro", Value: -1}})
	return r.find(ctx, filter, opts)
}

// ListAll é usado pela exportação; ordena por nome.
func (r *ColaboradorRepository) ListAll(ctx context.Context, companyID string) ([]models.Colaborador, error) {
	opts := options.Find().SetSort(bson.D{{Key: "nome", Value: 1}})
	return r.find(ctx, bson.M{"company_id": companyID}, opts)
}

func (r *ColaboradorRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Colaborador, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.Colaborador{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ColaboradorRepository) UpdateStatus(ctx context.Context, companyID, id string, st models.Status) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "company_id": companyID},
		bson.M{"$set": bson.M{"status": st, "ultima_atualizacao": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update colaborador status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ColaboradorRepository) Delete(ctx context.Context, companyID, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "company_id": companyID})
	if err != nil {
		return fmt.Errorf("delete colaborador: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ColaboradorRepository) DeleteByCompany(ctx context.Context, companyID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"company_id": companyID})
	if err != nil {
		return 0, fmt.Errorf("delete colaboradores: %w", err)
	}
	return res.DeletedCount, nil
}
