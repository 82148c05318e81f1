package models

import "time"

type Status string

const (
	StatusAtivo    Status = "ativo"
	StatusInativo  Status = "inativo"
	StatusPendente Status = "pendente"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAtivo, StatusInativo, StatusPendente:
		return true
	}
	return false
}

// Colaborador pertence a exatamente uma empresa; (company_id, cpf) é único.
type Colaborador struct {
	ID                string     `bson:"_id,omitempty" json:"id"`
	CompanyID         string     `bson:"company_id" json:"companyId"`
	CPF               string     `bson:"cpf" json:"cpf"` // apenas dígitos
	Nome              string     `bson:"nome" json:"nome"`
	DataNascimento    time.Time  `bson:"data_nascimento" json:"dataNascimento"`
	RG                string     `bson:"rg" json:"rg"`
	DataEmissaoRG     time.Time  `bson:"data_emissao_rg" json:"dataEmissaoRg"`
	OrgaoEmissorRG    string     `bson:"orgao_emissor_rg" json:"orgaoEmissorRg"`
	UFEmissao         string     `bson:"uf_emissao" json:"ufEmissao"`
	DataAdmissao      *time.Time `bson:"data_admissao,omitempty" json:"dataAdmissao,omitempty"`
	Matricula         string     `bson:"matricula" json:"matricula"`
	TipoContrato      string     `bson:"tipo_contrato" json:"tipoContrato"`
	Observacoes       string     `bson:"observacoes,omitempty" json:"observacoes,omitempty"`
	Status            Status     `bson:"status" json:"status"`
	DataRegistro      time.Time  `bson:"data_registro" json:"dataRegistro"`
	UltimaAtualizacao time.Time  `bson:"ultima_atualizacao" json:"ultimaAtualizacao"`
}
