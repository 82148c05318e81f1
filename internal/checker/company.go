package checker

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Werneck0live/cadastro-colaboradores/internal/models"
	"github.com/Werneck0live/cadastro-colaboradores/internal/validation"
)

const (
	minSenhaLen = 6
	minSlugLen  = 2
)

const (
	MsgSlugEmUso    = "Slug já existe"
	MsgSlugImutavel = "Slug não pode ser alterado"
)

// campos do colaborador que podem ser marcados como obrigatórios
var knownFields = map[string]struct{}{
	"cpf": {}, "nome": {}, "dataNascimento": {}, "rg": {}, "dataEmissaoRg": {},
	"orgaoEmissorRg": {}, "ufEmissao": {}, "dataAdmissao": {}, "matricula": {},
	"tipoContrato": {}, "observacoes": {},
}

type CompanyInput struct {
	Nome               string   `json:"nome"`
	Slug               string   `json:"slug"`
	Senha              string   `json:"senha"`
	Cor                string   `json:"cor,omitempty"`
	Logo               string   `json:"logo,omitempty"`
	MaxColaboradores   *int     `json:"maxColaboradores,omitempty"`
	CamposObrigatorios []string `json:"camposObrigatorios,omitempty"`
}

// ValidatedCompany traz os defaults aplicados. A senha continua em texto puro:
// o hash é responsabilidade de quem persiste.
type ValidatedCompany struct {
	Nome               string
	Slug               string
	Senha              string
	Cor                string
	Logo               string
	MaxColaboradores   int
	CamposObrigatorios []string
}

// Update parcial; ponteiros distinguem "omitido" de "informado".
type CompanyPatch struct {
	Slug               *string
	Nome               *string
	Senha              *string
	Cor                *string
	Logo               *string
	Ativo              *bool
	MaxColaboradores   *int
	CamposObrigatorios []string
}

// CheckCompany valida nome, slug, senha, cor, logo e configurações e, por
// último, a unicidade do slug.
func (c *Checker) CheckCompany(ctx context.Context, in CompanyInput) (ValidatedCompany, validation.FieldErrors, error) {
	if err := c.ready(); err != nil {
		return ValidatedCompany{}, nil, err
	}

	var errs validation.FieldErrors
	out := ValidatedCompany{
		Nome:               strings.TrimSpace(in.Nome),
		Slug:               strings.TrimSpace(in.Slug),
		Senha:              in.Senha,
		Cor:                in.Cor,
		Logo:               strings.TrimSpace(in.Logo),
		MaxColaboradores:   models.DefaultMaxColaboradores,
		CamposObrigatorios: models.DefaultCamposObrigatorios,
	}

	c.checkCompanyName(&errs, in.Nome)
	slugOK := c.checkSlug(&errs, out.Slug)
	checkSenha(&errs, in.Senha)

	if in.Cor == "" {
		out.Cor = models.DefaultColor
	} else if !validation.ValidateColorHex(in.Cor) {
		errs.Add("cor", "Cor deve estar no formato hexadecimal (#RRGGBB)")
	}

	if !validation.ValidateLogoURL(out.Logo) {
		errs.Add("logo", "Logo deve ser uma URL válida")
	}

	if in.MaxColaboradores != nil {
		if *in.MaxColaboradores <= 0 {
			errs.Add("maxColaboradores", "Capacidade deve ser um inteiro positivo")
		} else {
			out.MaxColaboradores = *in.MaxColaboradores
		}
	}

	if in.CamposObrigatorios != nil {
		if checkCampos(&errs, in.CamposObrigatorios) {
			out.CamposObrigatorios = in.CamposObrigatorios
		}
	}

	if slugOK {
		existing, err := c.gw.FindCompanyBySlug(ctx, out.Slug)
		if err != nil {
			return ValidatedCompany{}, nil, fmt.Errorf("check slug uniqueness: %w", err)
		}
		if existing != nil {
			errs.Add("slug", MsgSlugEmUso)
		}
	}

	if len(errs) > 0 {
		return ValidatedCompany{}, errs, nil
	}
	return out, nil, nil
}

// CheckCompanyUpdate aplica as mesmas regras apenas aos campos presentes no patch.
func (c *Checker) CheckCompanyUpdate(_ context.Context, existing *models.Company, p CompanyPatch) (validation.FieldErrors, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: missing company", ErrPrecondition)
	}

	var errs validation.FieldErrors
	if p.Slug != nil && *p.Slug != existing.Slug {
		errs.Add("slug", MsgSlugImutavel)
	}
	if p.Nome != nil {
		c.checkCompanyName(&errs, *p.Nome)
	}
	if p.Senha != nil {
		checkSenha(&errs, *p.Senha)
	}
	// "" volta para a cor padrão, como no cadastro
	if p.Cor != nil && *p.Cor != "" && !validation.ValidateColorHex(*p.Cor) {
		errs.Add("cor", "Cor deve estar no formato hexadecimal (#RRGGBB)")
	}
	if p.Logo != nil && !validation.ValidateLogoURL(strings.TrimSpace(*p.Logo)) {
		errs.Add("logo", "Logo deve ser uma URL válida")
	}
	if p.MaxColaboradores != nil && *p.MaxColaboradores <= 0 {
		errs.Add("maxColaboradores", "Capacidade deve ser um inteiro positivo")
	}
	if p.CamposObrigatorios != nil {
		checkCampos(&errs, p.CamposObrigatorios)
	}
	return errs, nil
}

func (c *Checker) checkCompanyName(errs *validation.FieldErrors, nome string) {
	if !validation.ValidateName(nome, c.limits.MaxNameLength) {
		errs.Add("nome", "Nome da empresa inválido")
	}
}

func (c *Checker) checkSlug(errs *validation.FieldErrors, slug string) bool {
	n := utf8.RuneCountInString(slug)
	switch {
	case n < minSlugLen || n > c.limits.MaxSlugLength:
		errs.Add("slug", "Slug inválido")
	case !validation.ValidateSlugFormat(slug):
		errs.Add("slug", "Slug deve conter apenas letras minúsculas, números e hífens")
	default:
		return true
	}
	return false
}

func checkSenha(errs *validation.FieldErrors, senha string) {
	if len(senha) < minSenhaLen {
		errs.Add("senha", fmt.Sprintf("Senha deve ter pelo menos %d caracteres", minSenhaLen))
	}
}

func checkCampos(errs *validation.FieldErrors, campos []string) bool {
	for _, f := range campos {
		if _, ok := knownFields[f]; !ok {
			errs.Add("camposObrigatorios", fmt.Sprintf("Campo desconhecido: %s", f))
			return false
		}
	}
	return true
}
