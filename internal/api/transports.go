package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/avrentops/rentalctl/internal/domain"
)

type VehicleListParams struct {
	Status string
	Type   string
}

func (p *VehicleListParams) values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	setStr(v, "status", p.Status)
	setStr(v, "type", p.Type)
	return v
}

func (c *Client) ListVehicles(ctx context.Context, params *VehicleListParams) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	if err := c.do(ctx, http.MethodGet, "/vehicles", params.values(), nil, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (c *Client) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	if err := c.do(ctx, http.MethodGet, "/vehicles/"+id, nil, nil, &vehicle); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (c *Client) CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	var created domain.Vehicle
	if err := c.do(ctx, http.MethodPost, "/vehicles", nil, vehicle, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateVehicle(ctx context.Context, id string, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	var updated domain.Vehicle
	if err := c.do(ctx, http.MethodPut, "/vehicles/"+id, nil, vehicle, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteVehicle(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/vehicles/"+id, nil, nil, nil)
}

type TransportListParams struct {
	EventID   string
	VehicleID string
	Status    string
}

func (p *TransportListParams) values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	setStr(v, "event_id", p.EventID)
	setStr(v, "vehicle_id", p.VehicleID)
	setStr(v, "status", p.Status)
	return v
}

func (c *Client) ListTransports(ctx context.Context, params *TransportListParams) ([]domain.Transport, error) {
	var transports []domain.Transport
	if err := c.do(ctx, http.MethodGet, "/transports", params.values(), nil, &transports); err != nil {
		return nil, err
	}
	return transports, nil
}

func (c *Client) GetTransport(ctx context.Context, id string) (*domain.Transport, error) {
	var transport domain.Transport
	if err := c.do(ctx, http.MethodGet, "/transports/"+id, nil, nil, &transport); err != nil {
		return nil, err
	}
	return &transport, nil
}

func (c *Client) CreateTransport(ctx context.Context, transport *domain.Transport) (*domain.Transport, error) {
	var created domain.Transport
	if err := c.do(ctx, http.MethodPost, "/transports", nil, transport, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateTransport(ctx context.Context, id string, transport *domain.Transport) (*domain.Transport, error) {
	var updated domain.Transport
	if err := c.do(ctx, http.MethodPut, "/transports/"+id, nil, transport, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) UpdateTransportStatus(ctx context.Context, id string, status domain.TransportStatus) (*domain.Transport, error) {
	body := map[string]domain.TransportStatus{"status": status}
	var updated domain.Transport
	if err := c.do(ctx, http.MethodPut, "/transports/"+id+"/status", nil, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
