// Package eventsync saves an edited event together with its equipment
// reservations and technician assignments. The parent record is written
// first; the two child collections are then reconciled concurrently.
package eventsync

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/reconcile"
)

var tracer = otel.Tracer("eventsync")

// API is the slice of the HTTP client the syncer needs.
type API interface {
	UpdateEvent(ctx context.Context, id string, event *domain.Event) (*domain.Event, error)
	AddEventEquipment(ctx context.Context, eventID string, item *domain.EventEquipment) (*domain.EventEquipment, error)
	UpdateEquipmentReservation(ctx context.Context, eventID, reservationID string, item *domain.EventEquipment) (*domain.EventEquipment, error)
	RemoveEventEquipment(ctx context.Context, eventID, reservationID string) error
	AssignTechnician(ctx context.Context, eventID, technicianID, role string) (*domain.EventTechnician, error)
	RemoveTechnician(ctx context.Context, eventID, assignmentID string) error
}

type Syncer struct {
	api    API
	logger *slog.Logger
}

func NewSyncer(api API, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{api: api, logger: logger}
}

// Input carries the edited event and the before/after child lists. The
// original lists are what the editor loaded; the current lists are what
// the user saved.
type Input struct {
	EventID string
	Event   *domain.Event

	OriginalEquipment []domain.EventEquipment
	CurrentEquipment  []domain.EventEquipment

	OriginalTechnicians []domain.EventTechnician
	CurrentTechnicians  []domain.EventTechnician
}

// Result reports the saved parent and the outcome of every child
// operation. Child failures are partial: the event itself and sibling
// operations may well have succeeded.
type Result struct {
	Event       *domain.Event
	Equipment   *reconcile.Result[domain.EventEquipment]
	Technicians *reconcile.Result[domain.EventTechnician]
}

// Err rolls all child failures into one error, nil when everything
// succeeded.
func (r *Result) Err() error {
	if err := r.Equipment.Err(); err != nil {
		return err
	}
	return r.Technicians.Err()
}

// Save updates the parent event, then reconciles equipment and technician
// assignments concurrently. If the parent update fails nothing else runs:
// there is no point adjusting children of a save that did not happen.
// Child reconciliation runs all operations to completion and reports
// partial failures through the Result.
func (s *Syncer) Save(ctx context.Context, in Input) (*Result, error) {
	if in.EventID == "" {
		return nil, fmt.Errorf("event id is required")
	}

	ctx, span := tracer.Start(ctx, "eventsync.Save",
		trace.WithAttributes(attribute.String("event.id", in.EventID)))
	defer span.End()

	event, err := s.api.UpdateEvent(ctx, in.EventID, in.Event)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	result := &Result{Event: event}

	// The two collections are independent; reconcile them in parallel.
	// errgroup is only a join here, the goroutines never return errors:
	// partial failure lives inside the reconcile results.
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.Equipment = reconcile.Run(ctx, s.equipmentOpts(in.EventID), in.OriginalEquipment, in.CurrentEquipment)
		return nil
	})
	g.Go(func() error {
		result.Technicians = reconcile.Run(ctx, s.technicianOpts(in.EventID), in.OriginalTechnicians, in.CurrentTechnicians)
		return nil
	})
	_ = g.Wait()

	if failed := len(result.Equipment.Failed()) + len(result.Technicians.Failed()); failed > 0 {
		span.SetAttributes(attribute.Int("eventsync.failed_operations", failed))
		s.logger.Warn("event saved with partial child failures",
			"event_id", in.EventID, "failed_operations", failed)
	}
	return result, nil
}

func (s *Syncer) equipmentOpts(eventID string) reconcile.Options[domain.EventEquipment] {
	return reconcile.Options[domain.EventEquipment]{
		Kind: "equipment",
		ID:   func(item domain.EventEquipment) string { return item.ID },
		// A new row without an equipment reference is a line the user
		// never filled in; sending it would only bounce off validation.
		Complete: func(item domain.EventEquipment) bool { return item.EquipmentID != "" },
		Equal: func(a, b domain.EventEquipment) bool {
			return a.EquipmentID == b.EquipmentID &&
				a.QuantityReserved == b.QuantityReserved &&
				a.Status == b.Status &&
				a.Notes == b.Notes
		},
		Create: func(ctx context.Context, item domain.EventEquipment) error {
			_, err := s.api.AddEventEquipment(ctx, eventID, &item)
			return err
		},
		Update: func(ctx context.Context, item domain.EventEquipment) error {
			_, err := s.api.UpdateEquipmentReservation(ctx, eventID, item.ID, &item)
			return err
		},
		Delete: func(ctx context.Context, item domain.EventEquipment) error {
			return s.api.RemoveEventEquipment(ctx, eventID, item.ID)
		},
	}
}

func (s *Syncer) technicianOpts(eventID string) reconcile.Options[domain.EventTechnician] {
	return reconcile.Options[domain.EventTechnician]{
		Kind:     "technician",
		ID:       func(item domain.EventTechnician) string { return item.ID },
		Complete: func(item domain.EventTechnician) bool { return item.TechnicianID != "" },
		// Assignments have no mutable fields worth a PUT; a changed role
		// is modeled as remove-and-reassign by the editor, so surviving
		// assignments are always no-ops.
		Equal: func(a, b domain.EventTechnician) bool { return true },
		Create: func(ctx context.Context, item domain.EventTechnician) error {
			_, err := s.api.AssignTechnician(ctx, eventID, item.TechnicianID, item.Role)
			return err
		},
		Update: func(ctx context.Context, item domain.EventTechnician) error {
			return nil
		},
		Delete: func(ctx context.Context, item domain.EventTechnician) error {
			return s.api.RemoveTechnician(ctx, eventID, item.ID)
		},
	}
}
