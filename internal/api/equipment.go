package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/avrentops/rentalctl/internal/domain"
)

type EquipmentListParams struct {
	Search        string
	CategoryID    string
	SubcategoryID string
	Status        string
	Page          int
	Limit         int
}

func (p *EquipmentListParams) values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	setStr(v, "search", p.Search)
	setStr(v, "category_id", p.CategoryID)
	setStr(v, "subcategory_id", p.SubcategoryID)
	setStr(v, "status", p.Status)
	setInt(v, "page", p.Page)
	setInt(v, "limit", p.Limit)
	return v
}

func (c *Client) ListEquipment(ctx context.Context, params *EquipmentListParams) (*domain.Page[domain.Equipment], error) {
	var page domain.Page[domain.Equipment]
	if err := c.do(ctx, http.MethodGet, "/equipment", params.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetEquipment(ctx context.Context, id string) (*domain.Equipment, error) {
	var item domain.Equipment
	if err := c.do(ctx, http.MethodGet, "/equipment/"+id, nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) CreateEquipment(ctx context.Context, item *domain.Equipment) (*domain.Equipment, error) {
	var created domain.Equipment
	if err := c.do(ctx, http.MethodPost, "/equipment", nil, item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateEquipment(ctx context.Context, id string, item *domain.Equipment) (*domain.Equipment, error) {
	var updated domain.Equipment
	if err := c.do(ctx, http.MethodPut, "/equipment/"+id, nil, item, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteEquipment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/equipment/"+id, nil, nil, nil)
}

// EquipmentAvailability reports free units between two dates (YYYY-MM-DD).
func (c *Client) EquipmentAvailability(ctx context.Context, id, startDate, endDate string) (*domain.AvailabilityWindow, error) {
	v := url.Values{}
	v.Set("start_date", startDate)
	v.Set("end_date", endDate)
	var window domain.AvailabilityWindow
	if err := c.do(ctx, http.MethodGet, "/equipment/"+id+"/availability", v, nil, &window); err != nil {
		return nil, err
	}
	return &window, nil
}

func (c *Client) EquipmentHistory(ctx context.Context, id string) ([]domain.EquipmentStatusHistory, error) {
	var history []domain.EquipmentStatusHistory
	if err := c.do(ctx, http.MethodGet, "/equipment/"+id+"/history", nil, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// ScanQRCode resolves a scanned QR payload to the equipment item it tags.
func (c *Client) ScanQRCode(ctx context.Context, qrData string) (*domain.Equipment, error) {
	body := map[string]string{"qr_data": qrData}
	var item domain.Equipment
	if err := c.do(ctx, http.MethodPost, "/equipment/scan-qr", nil, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

type QRExport struct {
	EquipmentID string `json:"equipment_id"`
	QRCodeURL   string `json:"qr_code_url"`
}

func (c *Client) BulkQRExport(ctx context.Context, equipmentIDs []string) ([]QRExport, error) {
	body := map[string][]string{"equipment_ids": equipmentIDs}
	var exports []QRExport
	if err := c.do(ctx, http.MethodPost, "/equipment/bulk-qr-export", nil, body, &exports); err != nil {
		return nil, err
	}
	return exports, nil
}
