package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/avrentops/rentalctl/internal/domain"
)

type EventListParams struct {
	Status    string
	Category  string
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

func (p *EventListParams) values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	setStr(v, "status", p.Status)
	setStr(v, "category", p.Category)
	setStr(v, "start_date", p.StartDate)
	setStr(v, "end_date", p.EndDate)
	setInt(v, "page", p.Page)
	setInt(v, "limit", p.Limit)
	return v
}

func (c *Client) ListEvents(ctx context.Context, params *EventListParams) (*domain.Page[domain.Event], error) {
	var page domain.Page[domain.Event]
	if err := c.do(ctx, http.MethodGet, "/events", params.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	var event domain.Event
	if err := c.do(ctx, http.MethodGet, "/events/"+id, nil, nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) CreateEvent(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	var created domain.Event
	if err := c.do(ctx, http.MethodPost, "/events", nil, event, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, event *domain.Event) (*domain.Event, error) {
	var updated domain.Event
	if err := c.do(ctx, http.MethodPut, "/events/"+id, nil, event, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+id, nil, nil, nil)
}

func (c *Client) ListEventEquipment(ctx context.Context, eventID string) ([]domain.EventEquipment, error) {
	var items []domain.EventEquipment
	if err := c.do(ctx, http.MethodGet, "/events/"+eventID+"/equipment", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) AddEventEquipment(ctx context.Context, eventID string, item *domain.EventEquipment) (*domain.EventEquipment, error) {
	var created domain.EventEquipment
	if err := c.do(ctx, http.MethodPost, "/events/"+eventID+"/equipment", nil, item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateEquipmentReservation(ctx context.Context, eventID, reservationID string, item *domain.EventEquipment) (*domain.EventEquipment, error) {
	path := fmt.Sprintf("/events/%s/equipment/%s", eventID, reservationID)
	var updated domain.EventEquipment
	if err := c.do(ctx, http.MethodPut, path, nil, item, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) RemoveEventEquipment(ctx context.Context, eventID, reservationID string) error {
	path := fmt.Sprintf("/events/%s/equipment/%s", eventID, reservationID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) ListEventTechnicians(ctx context.Context, eventID string) ([]domain.EventTechnician, error) {
	var items []domain.EventTechnician
	if err := c.do(ctx, http.MethodGet, "/events/"+eventID+"/technicians", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) AssignTechnician(ctx context.Context, eventID, technicianID, role string) (*domain.EventTechnician, error) {
	body := map[string]string{"technician_id": technicianID}
	if role != "" {
		body["role"] = role
	}
	var created domain.EventTechnician
	if err := c.do(ctx, http.MethodPost, "/events/"+eventID+"/technicians", nil, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) RemoveTechnician(ctx context.Context, eventID, assignmentID string) error {
	path := fmt.Sprintf("/events/%s/technicians/%s", eventID, assignmentID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// EventDocument downloads a generated document (quote, delivery note, …)
// for an event as raw bytes.
func (c *Client) EventDocument(ctx context.Context, eventID, docType string) ([]byte, error) {
	return c.download(ctx, fmt.Sprintf("/events/%s/documents/%s", eventID, docType))
}
