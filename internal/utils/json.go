package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Werneck0live/cadastro-colaboradores/internal/validation"
)

const MsgErroValidacao = "Erro de validação"

// envelope padrão das respostas de erro
type ErrorBody struct {
	Success bool                    `json:"success"`
	Error   string                  `json:"error"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, ErrorBody{Error: msg})
}

// WriteFieldErrors devolve a lista completa de erros por campo.
func WriteFieldErrors(w http.ResponseWriter, code int, errs validation.FieldErrors) {
	WriteJSON(w, code, ErrorBody{Error: MsgErroValidacao, Errors: errs})
}

func BadRequest(w http.ResponseWriter, msg string) {
	WriteError(w, http.StatusBadRequest, msg)
}

/*
DecodeStrict decodifica JSON rejeitando chaves desconhecidas
e garantindo que exista exatamente UM objeto JSON.
*/
func DecodeStrict(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		// ex.: "json: unknown field \"foo\""
		return err
	}
	// lixo depois do objeto
	if dec.More() {
		return errors.New("unexpected additional JSON content")
	}
	return nil
}
