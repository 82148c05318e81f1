// Package export gera a planilha de colaboradores de uma empresa e,
// opcionalmente, arquiva o arquivo num bucket S3.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Werneck0live/cadastro-colaboradores/internal/models"
	"github.com/Werneck0live/cadastro-colaboradores/internal/validation"
)

const (
	SheetName   = "Colaboradores"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	dateLayout = "02/01/2006"
)

var header = []any{
	"Nome", "CPF", "RG", "Órgão Emissor", "UF Emissão", "Data de Nascimento", "Idade",
	"Data de Emissão do RG", "Data de Admissão", "Tempo de Empresa (dias)", "Matrícula",
	"Tipo de Contrato", "Status", "Observações", "Data de Registro",
}

type Generator struct {
	Now func() time.Time
}

func NewGenerator() *Generator { return &Generator{Now: time.Now} }

// Build monta o .xlsx com uma linha por colaborador, na ordem recebida.
func (g *Generator) Build(list []models.Colaborador) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(SheetName, "A", lastCol, 18)

	now := g.Now()
	for i, c := range list {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := g.row(c, now)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) row(c models.Colaborador, now time.Time) []any {
	admissao, tempo := "", ""
	if c.DataAdmissao != nil {
		admissao = c.DataAdmissao.Format(dateLayout)
		tempo = fmt.Sprint(validation.TenureDays(*c.DataAdmissao, now))
	}
	return []any{
		c.Nome,
		FormatCPF(c.CPF),
		c.RG,
		c.OrgaoEmissorRG,
		c.UFEmissao,
		fmtDate(c.DataNascimento),
		validation.ComputeAge(c.DataNascimento, now),
		fmtDate(c.DataEmissaoRG),
		admissao,
		tempo,
		c.Matricula,
		c.TipoContrato,
		string(c.Status),
		c.Observacoes,
		fmtDate(c.DataRegistro),
	}
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// FormatCPF: 11144477735 -> 111.444.777-35. Outros tamanhos voltam intactos.
func FormatCPF(cpf string) string {
	if len(cpf) != 11 {
		return cpf
	}
	return cpf[:3] + "." + cpf[3:6] + "." + cpf[6:9] + "-" + cpf[9:]
}

// FileName é o nome sugerido no download.
func FileName(slug string) string { return "colaboradores_" + slug + ".xlsx" }

// ObjectKey é onde a planilha fica no bucket.
func ObjectKey(slug string) string { return "planilhas/" + slug + "/colaboradores.xlsx" }
