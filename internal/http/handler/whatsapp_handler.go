package handler

import (
	"fmt"
	"net/http"

	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/http/middleware"
	"github.com/avrentops/rentalctl/internal/http/response"
	"github.com/avrentops/rentalctl/internal/repository"
)

// WhatsAppHandler records outbound messages. rentald has no gateway
// attached, so every message is stored as sent straight away.
type WhatsAppHandler struct {
	messages repository.WhatsAppRepository
	events   repository.EventRepository
	activity repository.ActivityRepository
}

func NewWhatsAppHandler(messages repository.WhatsAppRepository, events repository.EventRepository, activity repository.ActivityRepository) *WhatsAppHandler {
	return &WhatsAppHandler{messages: messages, events: events, activity: activity}
}

func (h *WhatsAppHandler) Send(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RecipientPhone string                     `json:"recipient_phone"`
		RecipientName  string                     `json:"recipient_name"`
		MessageContent string                     `json:"message_content"`
		MessageType    domain.WhatsAppMessageType `json:"message_type"`
		EventID        string                     `json:"event_id"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.RecipientPhone == "" || body.MessageContent == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "recipient_phone and message_content are required", nil)
		return
	}
	if body.EventID != "" {
		if _, err := h.events.FindByID(body.EventID); err != nil {
			writeError(w, r, err)
			return
		}
	}
	msgType := body.MessageType
	if msgType == "" {
		msgType = domain.MessageOther
	}
	msg := domain.WhatsAppMessage{
		RecipientPhone: body.RecipientPhone,
		RecipientName:  body.RecipientName,
		MessageContent: body.MessageContent,
		MessageType:    msgType,
		EventID:        body.EventID,
		Status:         domain.MessageSent,
		SentBy:         middleware.UserIDFromContext(r.Context()),
	}
	if err := h.messages.Append(&msg); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "SEND", "whatsapp_message", msg.ID, body.RecipientPhone)
	response.JSON(w, r, http.StatusCreated, msg)
}

// EventInvitation fans one invitation out to the event's assigned
// technicians, or to an explicit phone list when given.
func (h *WhatsAppHandler) EventInvitation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EventID         string   `json:"event_id"`
		RecipientPhones []string `json:"recipient_phones"`
		Message         string   `json:"message"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.EventID == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "event_id is required", nil)
		return
	}
	event, err := h.events.FindByID(body.EventID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	type recipient struct{ phone, name string }
	var recipients []recipient
	if len(body.RecipientPhones) > 0 {
		for _, phone := range body.RecipientPhones {
			recipients = append(recipients, recipient{phone: phone})
		}
	} else {
		assignments, err := h.events.ListTechnicians(event.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		for _, a := range assignments {
			if a.Technician == nil || a.Technician.Phone == "" {
				continue
			}
			recipients = append(recipients, recipient{phone: a.Technician.Phone, name: a.Technician.FullName})
		}
	}
	if len(recipients) == 0 {
		response.Error(w, r, http.StatusBadRequest, "NO_RECIPIENTS", "no technician with a phone number is assigned to this event", nil)
		return
	}

	content := body.Message
	if content == "" {
		content = fmt.Sprintf("Vous êtes convoqué(e) pour l'événement %q le %s à %s.",
			event.EventName, event.EventDate.Format("02/01/2006"), event.Address)
	}

	userID := middleware.UserIDFromContext(r.Context())
	sent := make([]domain.WhatsAppMessage, 0, len(recipients))
	for _, rcpt := range recipients {
		msg := domain.WhatsAppMessage{
			RecipientPhone: rcpt.phone,
			RecipientName:  rcpt.name,
			MessageContent: content,
			MessageType:    domain.MessageInvitation,
			EventID:        event.ID,
			Status:         domain.MessageSent,
			SentBy:         userID,
		}
		if err := h.messages.Append(&msg); err != nil {
			writeError(w, r, err)
			return
		}
		sent = append(sent, msg)
	}
	audit(h.activity, r, "SEND", "whatsapp_message", event.ID, fmt.Sprintf("invitation to %d recipient(s)", len(sent)))
	response.JSON(w, r, http.StatusCreated, sent)
}

func (h *WhatsAppHandler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.messages.ListPaged(repository.WhatsAppListQuery{
		PageRequest: pageRequest(r),
		EventID:     q.Get("event_id"),
		Status:      q.Get("status"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toPage(res))
}
