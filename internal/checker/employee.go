package checker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Werneck0live/cadastro-colaboradores/internal/models"
	"github.com/Werneck0live/cadastro-colaboradores/internal/validation"
)

const (
	minAge             = 14
	maxAge             = 100
	maxOrgaoEmissor    = 10
	maxObservacoes     = 500
	minTipoContratoLen = 2
)

const (
	MsgCPFInvalido      = "CPF inválido"
	MsgCPFDuplicado     = "CPF já cadastrado nesta empresa"
	MsgEmpresaLotada    = "Empresa atingiu o limite de colaboradores"
	MsgEmpresaInativa   = "Empresa inativa"
	msgCampoObrigatorio = "Campo obrigatório"
)

// EmployeeInput é a submissão crua do formulário de auto-cadastro.
type EmployeeInput struct {
	CPF            string `json:"cpf"`
	Nome           string `json:"nome"`
	DataNascimento string `json:"dataNascimento"`
	RG             string `json:"rg"`
	DataEmissaoRG  string `json:"dataEmissaoRg"`
	OrgaoEmissorRG string `json:"orgaoEmissorRg"`
	UFEmissao      string `json:"ufEmissao"`
	DataAdmissao   string `json:"dataAdmissao,omitempty"`
	Matricula      string `json:"matricula"`
	TipoContrato   string `json:"tipoContrato"`
	Observacoes    string `json:"observacoes,omitempty"`
}

// ValidatedEmployee carrega os valores já normalizados.
type ValidatedEmployee struct {
	CompanyID      string
	CPF            string
	Nome           string
	DataNascimento time.Time
	RG             string
	DataEmissaoRG  time.Time
	OrgaoEmissorRG string
	UFEmissao      string
	DataAdmissao   *time.Time
	Matricula      string
	TipoContrato   string
	Observacoes    string
}

// Colaborador monta o registro a persistir; status inicial é ativo.
func (v ValidatedEmployee) Colaborador(now time.Time) models.Colaborador {
	return models.Colaborador{
		CompanyID:         v.CompanyID,
		CPF:               v.CPF,
		Nome:              v.Nome,
		DataNascimento:    v.DataNascimento,
		RG:                v.RG,
		DataEmissaoRG:     v.DataEmissaoRG,
		OrgaoEmissorRG:    v.OrgaoEmissorRG,
		UFEmissao:         v.UFEmissao,
		DataAdmissao:      v.DataAdmissao,
		Matricula:         v.Matricula,
		TipoContrato:      v.TipoContrato,
		Observacoes:       v.Observacoes,
		Status:            models.StatusAtivo,
		DataRegistro:      now,
		UltimaAtualizacao: now,
	}
}

// CheckEmployee avalia todas as regras (sem parar na primeira falha), na ordem:
// cpf, nome, rg, dataNascimento, dataEmissaoRg, dataAdmissao, orgaoEmissorRg,
// ufEmissao, matricula, tipoContrato, observacoes; depois unicidade do CPF na
// empresa e capacidade.
func (c *Checker) CheckEmployee(ctx context.Context, company *models.Company, in EmployeeInput) (ValidatedEmployee, validation.FieldErrors, error) {
	if err := c.ready(); err != nil {
		return ValidatedEmployee{}, nil, err
	}
	if company == nil || company.ID == "" {
		return ValidatedEmployee{}, nil, errors.Join(ErrPrecondition, errors.New("missing company context"))
	}

	now := c.now()
	var errs validation.FieldErrors
	out := ValidatedEmployee{CompanyID: company.ID}

	cpfOK := len(in.CPF) <= c.limits.MaxCPFLength && validation.ValidateCPF(in.CPF)
	if cpfOK {
		out.CPF = validation.SanitizeDigits(in.CPF)
	} else {
		errs.Add("cpf", MsgCPFInvalido)
	}

	if validation.ValidateName(in.Nome, c.limits.MaxNameLength) {
		out.Nome = strings.Join(strings.Fields(in.Nome), " ")
	} else {
		errs.Add("nome", "Nome inválido")
	}

	if len(in.RG) <= c.limits.MaxRGLength && validation.ValidateRG(in.RG) {
		out.RG = validation.SanitizeDigits(in.RG)
	} else {
		errs.Add("rg", "RG inválido")
	}

	if birth, ok := parseValidDate(in.DataNascimento, now); !ok {
		errs.Add("dataNascimento", "Data de nascimento inválida")
	} else if age := validation.ComputeAge(birth, now); age < minAge || age > maxAge {
		errs.Add("dataNascimento", fmt.Sprintf("Idade deve ser entre %d e %d anos", minAge, maxAge))
	} else {
		out.DataNascimento = birth
	}

	if issued, ok := parseValidDate(in.DataEmissaoRG, now); ok {
		out.DataEmissaoRG = issued
	} else {
		errs.Add("dataEmissaoRg", "Data de emissão do RG inválida")
	}

	if strings.TrimSpace(in.DataAdmissao) == "" {
		if company.RequiresField("dataAdmissao") {
			errs.Add("dataAdmissao", msgCampoObrigatorio)
		}
	} else if adm, ok := parseValidDate(in.DataAdmissao, now); ok {
		out.DataAdmissao = &adm
	} else {
		errs.Add("dataAdmissao", "Data de admissão inválida")
	}

	orgao := strings.TrimSpace(in.OrgaoEmissorRG)
	if n := utf8.RuneCountInString(orgao); n < 2 || n > maxOrgaoEmissor {
		errs.Add("orgaoEmissorRg", "Órgão emissor inválido")
	} else {
		out.OrgaoEmissorRG = strings.ToUpper(orgao)
	}

	if validation.ValidateUF(in.UFEmissao) {
		out.UFEmissao = in.UFEmissao
	} else {
		errs.Add("ufEmissao", "UF inválida")
	}

	if validation.ValidateMatricula(in.Matricula, c.limits.MaxMatriculaLength) {
		out.Matricula = strings.TrimSpace(in.Matricula)
	} else {
		errs.Add("matricula", "Matrícula inválida")
	}

	if tc := strings.TrimSpace(in.TipoContrato); utf8.RuneCountInString(tc) < minTipoContratoLen {
		errs.Add("tipoContrato", "Tipo de contrato inválido")
	} else {
		out.TipoContrato = tc
	}

	obs := strings.TrimSpace(in.Observacoes)
	switch {
	case utf8.RuneCountInString(obs) > maxObservacoes:
		errs.Add("observacoes", fmt.Sprintf("Observações não podem ter mais de %d caracteres", maxObservacoes))
	case obs == "" && company.RequiresField("observacoes"):
		errs.Add("observacoes", msgCampoObrigatorio)
	default:
		out.Observacoes = obs
	}

	// regras que dependem do armazenamento
	if cpfOK {
		existing, err := c.gw.FindColaboradorByCPF(ctx, company.ID, out.CPF)
		if err != nil {
			return ValidatedEmployee{}, nil, fmt.Errorf("check cpf uniqueness: %w", err)
		}
		if existing != nil {
			errs.Add("cpf", MsgCPFDuplicado)
		}
	}

	if !company.Ativo {
		errs.Add("empresa", MsgEmpresaInativa)
	} else {
		total, err := c.gw.CountColaboradores(ctx, company.ID)
		if err != nil {
			return ValidatedEmployee{}, nil, fmt.Errorf("count colaboradores: %w", err)
		}
		if total >= int64(company.Capacity()) {
			errs.Add("empresa", MsgEmpresaLotada)
		}
	}

	if len(errs) > 0 {
		return ValidatedEmployee{}, errs, nil
	}
	return out, nil, nil
}

func parseValidDate(raw string, now time.Time) (time.Time, bool) {
	t, err := validation.ParseDate(raw, now.Location())
	if err != nil || !validation.ValidateDate(t, now) {
		return time.Time{}, false
	}
	return t, true
}
