package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/avrentops/rentalctl/internal/domain"
)

type MaintenanceListParams struct {
	EquipmentID  string
	TechnicianID string
	Status       string
	Priority     string
	Page         int
	Limit        int
}

func (p *MaintenanceListParams) values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	setStr(v, "equipment_id", p.EquipmentID)
	setStr(v, "technician_id", p.TechnicianID)
	setStr(v, "status", p.Status)
	setStr(v, "priority", p.Priority)
	setInt(v, "page", p.Page)
	setInt(v, "limit", p.Limit)
	return v
}

func (c *Client) ListMaintenances(ctx context.Context, params *MaintenanceListParams) (*domain.Page[domain.Maintenance], error) {
	var page domain.Page[domain.Maintenance]
	if err := c.do(ctx, http.MethodGet, "/maintenances", params.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetMaintenance(ctx context.Context, id string) (*domain.Maintenance, error) {
	var ticket domain.Maintenance
	if err := c.do(ctx, http.MethodGet, "/maintenances/"+id, nil, nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (c *Client) CreateMaintenance(ctx context.Context, ticket *domain.Maintenance) (*domain.Maintenance, error) {
	var created domain.Maintenance
	if err := c.do(ctx, http.MethodPost, "/maintenances", nil, ticket, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateMaintenance(ctx context.Context, id string, ticket *domain.Maintenance) (*domain.Maintenance, error) {
	var updated domain.Maintenance
	if err := c.do(ctx, http.MethodPut, "/maintenances/"+id, nil, ticket, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// MaintenanceCompletion closes a ticket; photos, when present, switch the
// request to multipart.
type MaintenanceCompletion struct {
	SolutionDescription string
	Cost                float64
	Photos              []File
}

func (c *Client) CompleteMaintenance(ctx context.Context, id string, completion MaintenanceCompletion) (*domain.Maintenance, error) {
	path := "/maintenances/" + id + "/complete"
	var closed domain.Maintenance
	if len(completion.Photos) == 0 {
		body := map[string]any{
			"solution_description": completion.SolutionDescription,
			"cost":                 completion.Cost,
		}
		if err := c.do(ctx, http.MethodPost, path, nil, body, &closed); err != nil {
			return nil, err
		}
		return &closed, nil
	}
	form := NewForm().
		Set("solution_description", completion.SolutionDescription).
		Set("cost", strconv.FormatFloat(completion.Cost, 'f', -1, 64))
	for _, photo := range completion.Photos {
		form.AddFile("photos", photo)
	}
	if err := c.doForm(ctx, http.MethodPost, path, form, &closed); err != nil {
		return nil, err
	}
	return &closed, nil
}

func (c *Client) AddMaintenanceLog(ctx context.Context, id, content string, photos []File) (*domain.MaintenanceLog, error) {
	path := "/maintenances/" + id + "/logs"
	var log domain.MaintenanceLog
	if len(photos) == 0 {
		body := map[string]string{"content": content}
		if err := c.do(ctx, http.MethodPost, path, nil, body, &log); err != nil {
			return nil, err
		}
		return &log, nil
	}
	form := NewForm().Set("content", content)
	for _, photo := range photos {
		form.AddFile("photos", photo)
	}
	if err := c.doForm(ctx, http.MethodPost, path, form, &log); err != nil {
		return nil, err
	}
	return &log, nil
}
