package broker

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	HeaderAction      = "action"
	HeaderEntity      = "entity"
	HeaderCompanySlug = "company_slug"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"

	EntityColaborador = "colaborador"
	EntityEmpresa     = "empresa"
)

// Event é o que trafega na fila e chega aos painéis via websocket.
type Event struct {
	Action      string    `json:"action"`
	Entity      string    `json:"entity"`
	CompanySlug string    `json:"companySlug"`
	Subject     string    `json:"subject,omitempty"` // id do registro afetado
	Message     string    `json:"message"`
	At          time.Time `json:"at"`
}

// ColaboradorCreated monta o evento de auto-cadastro.
func ColaboradorCreated(companySlug, companyName, colaboradorID, nome string) Event {
	return Event{
		Action:      ActionCreated,
		Entity:      EntityColaborador,
		CompanySlug: companySlug,
		Subject:     colaboradorID,
		Message:     fmt.Sprintf("Cadastro de COLABORADOR %s na EMPRESA %s", nome, companyName),
		At:          time.Now().UTC(),
	}
}

func (e Event) Headers() amqp.Table {
	return amqp.Table{
		HeaderAction:      e.Action,
		HeaderEntity:      e.Entity,
		HeaderCompanySlug: e.CompanySlug,
	}
}

// ParseDelivery lê o evento do corpo; se o corpo não for JSON (mensagens
// antigas em texto puro) usa os headers e o texto como Message.
func ParseDelivery(d amqp.Delivery) Event {
	var ev Event
	if err := json.Unmarshal(d.Body, &ev); err == nil && ev.Action != "" {
		return ev
	}
	ev = Event{Message: string(d.Body), At: d.Timestamp}
	ev.Action, _ = d.Headers[HeaderAction].(string)
	ev.Entity, _ = d.Headers[HeaderEntity].(string)
	ev.CompanySlug, _ = d.Headers[HeaderCompanySlug].(string)
	return ev
}
