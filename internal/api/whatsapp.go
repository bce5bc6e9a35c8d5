package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/avrentops/rentalctl/internal/domain"
)

type WhatsAppSend struct {
	RecipientPhone string                     `json:"recipient_phone"`
	RecipientName  string                     `json:"recipient_name,omitempty"`
	MessageContent string                     `json:"message_content"`
	MessageType    domain.WhatsAppMessageType `json:"message_type"`
	EventID        string                     `json:"event_id,omitempty"`
}

func (c *Client) SendWhatsAppMessage(ctx context.Context, msg WhatsAppSend) (*domain.WhatsAppMessage, error) {
	var sent domain.WhatsAppMessage
	if err := c.do(ctx, http.MethodPost, "/whatsapp-messages/send", nil, msg, &sent); err != nil {
		return nil, err
	}
	return &sent, nil
}

// SendEventInvitation messages every technician assigned to the event, or
// the explicit phone list when given.
func (c *Client) SendEventInvitation(ctx context.Context, eventID string, phones []string, message string) ([]domain.WhatsAppMessage, error) {
	body := map[string]any{"event_id": eventID}
	if len(phones) > 0 {
		body["recipient_phones"] = phones
	}
	if message != "" {
		body["message"] = message
	}
	var sent []domain.WhatsAppMessage
	if err := c.do(ctx, http.MethodPost, "/whatsapp-messages/event-invitation", nil, body, &sent); err != nil {
		return nil, err
	}
	return sent, nil
}

type WhatsAppHistoryParams struct {
	EventID        string
	RecipientPhone string
	Status         string
	Page           int
	Limit          int
}

func (p *WhatsAppHistoryParams) values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	setStr(v, "event_id", p.EventID)
	setStr(v, "recipient_phone", p.RecipientPhone)
	setStr(v, "status", p.Status)
	setInt(v, "page", p.Page)
	setInt(v, "limit", p.Limit)
	return v
}

func (c *Client) WhatsAppHistory(ctx context.Context, params *WhatsAppHistoryParams) (*domain.Page[domain.WhatsAppMessage], error) {
	var page domain.Page[domain.WhatsAppMessage]
	if err := c.do(ctx, http.MethodGet, "/whatsapp-messages", params.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
