package handlers

import (
	"math"
	"time"

	"github.com/Werneck0live/cadastro-colaboradores/internal/checker"
	"github.com/Werneck0live/cadastro-colaboradores/internal/models"
	"github.com/Werneck0live/cadastro-colaboradores/internal/validation"
)

// Update parcial; ponteiros distinguem "omitido" de "informado".
// O slug é aceito só para devolver erro caso o cliente tente trocá-lo.
type CompanyPatchDTO struct {
	Slug               *string  `json:"slug,omitempty"`
	Nome               *string  `json:"nome,omitempty"`
	Senha              *string  `json:"senha,omitempty"`
	Cor                *string  `json:"cor,omitempty"`
	Logo               *string  `json:"logo,omitempty"`
	Ativo              *bool    `json:"ativo,omitempty"`
	MaxColaboradores   *int     `json:"maxColaboradores,omitempty"`
	CamposObrigatorios []string `json:"camposObrigatorios,omitempty"`
}

func (d CompanyPatchDTO) toPatch() checker.CompanyPatch {
	return checker.CompanyPatch{
		Slug:               d.Slug,
		Nome:               d.Nome,
		Senha:              d.Senha,
		Cor:                d.Cor,
		Logo:               d.Logo,
		Ativo:              d.Ativo,
		MaxColaboradores:   d.MaxColaboradores,
		CamposObrigatorios: d.CamposObrigatorios,
	}
}

type StatusPatchDTO struct {
	Status models.Status `json:"status"`
}

type LoginDTO struct {
	Tipo    string `json:"tipo"` // superadmin | empresa
	Usuario string `json:"usuario,omitempty"`
	Slug    string `json:"slug,omitempty"`
	Empresa string `json:"empresa,omitempty"` // slug, ou usuário do super admin (formulário antigo)
	Senha   string `json:"senha"`
}

// companySlug: slug tem precedência; empresa é o nome antigo do campo.
func (d LoginDTO) companySlug() string {
	if d.Slug != "" {
		return d.Slug
	}
	return d.Empresa
}

// ColaboradorView acrescenta os campos derivados ao registro.
type ColaboradorView struct {
	models.Colaborador
	Idade            int  `json:"idade"`
	TempoEmpresaDias *int `json:"tempoEmpresaDias,omitempty"`
}

func newColaboradorView(c models.Colaborador, now time.Time) ColaboradorView {
	v := ColaboradorView{Colaborador: c, Idade: validation.ComputeAge(c.DataNascimento, now)}
	if c.DataAdmissao != nil {
		d := validation.TenureDays(*c.DataAdmissao, now)
		v.TempoEmpresaDias = &d
	}
	return v
}

type StatsView struct {
	Total              int64 `json:"total"`
	NovosEsteMes       int64 `json:"novosEsteMes"`
	Capacidade         int   `json:"capacidade"`
	PercentualOcupacao int   `json:"percentualOcupacao"`
}

func occupancy(total int64, capacity int) int {
	if capacity <= 0 {
		return 0
	}
	return int(math.Round(float64(total) * 100 / float64(capacity)))
}
