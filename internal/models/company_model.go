package models

import "time"

const (
	DefaultColor            = "#007bff"
	DefaultMaxColaboradores = 1000
)

// campos do colaborador que a empresa exige por padrão
var DefaultCamposObrigatorios = []string{"cpf", "nome", "dataNascimento", "rg"}

type CompanySettings struct {
	MaxColaboradores   int      `bson:"max_colaboradores" json:"maxColaboradores"`
	CamposObrigatorios []string `bson:"campos_obrigatorios" json:"camposObrigatorios"`
}

type Company struct {
	ID            string          `bson:"_id,omitempty" json:"id"`
	Slug          string          `bson:"slug" json:"slug"` // imutável depois de criado
	Nome          string          `bson:"nome" json:"nome"`
	SenhaHash     string          `bson:"senha_hash" json:"-"`
	Cor           string          `bson:"cor" json:"cor"`
	Logo          string          `bson:"logo,omitempty" json:"logo,omitempty"`
	Ativo         bool            `bson:"ativo" json:"ativo"`
	Configuracoes CompanySettings `bson:"configuracoes" json:"configuracoes"`
	CreatedAt     time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `bson:"updated_at" json:"updated_at"`
}

func (c *Company) RequiresField(field string) bool {
	for _, f := range c.Configuracoes.CamposObrigatorios {
		if f == field {
			return true
		}
	}
	return false
}

// Capacity: registros antigos sem max_colaboradores (ou com 0) usam o padrão.
func (c *Company) Capacity() int {
	if c.Configuracoes.MaxColaboradores <= 0 {
		return DefaultMaxColaboradores
	}
	return c.Configuracoes.MaxColaboradores
}

func (c *Company) DisplayName() string {
	if c.Nome != "" {
		return c.Nome
	}
	return c.Slug
}
