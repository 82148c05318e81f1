package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateSlug = errors.New("slug already exists")
	ErrDuplicateCPF  = errors.New("cpf already registered for company")
)

const codeIndexOptionsConflict = 85

// isDuplicateKey cobre tanto WriteException quanto BulkWrite/CommandError (E11000).
func isDuplicateKey(err error) bool {
	return err != nil && mongo.IsDuplicateKeyError(err)
}

// notFound traduz ErrNoDocuments para o sentinel do pacote.
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
