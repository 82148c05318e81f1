package validation

import "strings"

// FieldError descreve um problema corrigível pelo usuário em um único campo.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors é o lote devolvido aos chamadores: todos os problemas de uma
// submissão, na ordem em que as regras foram avaliadas.
type FieldErrors []FieldError

func (es FieldErrors) Error() string {
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

func (es *FieldErrors) Add(field, message string) {
	*es = append(*es, FieldError{Field: field, Message: message})
}

func (es FieldErrors) Has(field string) bool {
	for _, e := range es {
		if e.Field == field {
			return true
		}
	}
	return false
}

func (es FieldErrors) Fields() []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Field)
	}
	return out
}
