package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avrentops/rentalctl/internal/api"
	"github.com/avrentops/rentalctl/internal/cli/ui"
	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/eventsync"
)

func newEventsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage events",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return requireSession(rt, cmd)
		},
	}
	cmd.AddCommand(
		newEventsListCommand(rt),
		newEventsGetCommand(rt),
		newEventsCreateCommand(rt),
		newEventsEditCommand(rt),
		newEventsDeleteCommand(rt),
		newEventsDocumentCommand(rt),
	)
	return cmd
}

func newEventsListCommand(rt *runtime) *cobra.Command {
	params := &api.EventListParams{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		RunE: func(cmd *cobra.Command, args []string) error {
			var page *domain.Page[domain.Event]
			err := ui.Spin("loading events", func() error {
				var err error
				page, err = rt.client.ListEvents(cmd.Context(), params)
				return err
			})
			if err != nil {
				return err
			}
			return emit(rt, page, func() {
				rows := make([][]string, 0, len(page.Items))
				for _, e := range page.Items {
					rows = append(rows, []string{
						e.ID, e.EventName, e.ClientName,
						e.EventDate.Format("2006-01-02"),
						string(e.Category), string(e.Status),
					})
				}
				fmt.Print(ui.Table([]string{"ID", "EVENT", "CLIENT", "DATE", "CATEGORY", "STATUS"}, rows))
				fmt.Println(ui.Pager(page.Page, page.TotalPages, page.Total))
			})
		},
	}
	cmd.Flags().StringVar(&params.Status, "status", "", "filter by status")
	cmd.Flags().StringVar(&params.Category, "category", "", "filter by category")
	cmd.Flags().StringVar(&params.StartDate, "start-date", "", "events on or after (YYYY-MM-DD)")
	cmd.Flags().StringVar(&params.EndDate, "end-date", "", "events on or before (YYYY-MM-DD)")
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "page size")
	return cmd
}

func newEventsGetCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one event with its equipment and technicians",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			event, err := rt.client.GetEvent(ctx, args[0])
			if err != nil {
				return err
			}
			equipment, err := rt.client.ListEventEquipment(ctx, event.ID)
			if err != nil {
				return err
			}
			technicians, err := rt.client.ListEventTechnicians(ctx, event.ID)
			if err != nil {
				return err
			}
			payload := map[string]any{"event": event, "equipment": equipment, "technicians": technicians}
			return emit(rt, payload, func() {
				fmt.Printf("%s — %s (%s)\n", event.EventName, event.ClientName, event.Status)
				fmt.Printf("%s → %s @ %s\n\n",
					event.InstallationDate.Format("2006-01-02"),
					event.DismantlingDate.Format("2006-01-02"),
					event.Address)
				rows := make([][]string, 0, len(equipment))
				for _, line := range equipment {
					name := line.EquipmentID
					if line.Equipment != nil {
						name = line.Equipment.Name
					}
					rows = append(rows, []string{name, fmt.Sprint(line.QuantityReserved), string(line.Status)})
				}
				fmt.Print(ui.Table([]string{"EQUIPMENT", "QTY", "STATUS"}, rows))
				fmt.Println()
				rows = rows[:0]
				for _, a := range technicians {
					name := a.TechnicianID
					if a.Technician != nil {
						name = a.Technician.FullName
					}
					rows = append(rows, []string{name, a.Role})
				}
				fmt.Print(ui.Table([]string{"TECHNICIAN", "ROLE"}, rows))
			})
		},
	}
}

func newEventsCreateCommand(rt *runtime) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create --file event.json",
		Short: "Create an event from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := loadJSONFile[domain.Event](file)
			if err != nil {
				return err
			}
			created, err := rt.client.CreateEvent(cmd.Context(), event)
			if err != nil {
				return err
			}
			return emit(rt, created, func() {
				fmt.Printf("created event %s (%s)\n", created.ID, created.EventName)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON payload ('-' for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// editPayload is the on-disk shape `events edit` works with: the event
// plus its full child lists.
type editPayload struct {
	Event       domain.Event             `json:"event"`
	Equipment   []domain.EventEquipment  `json:"equipment"`
	Technicians []domain.EventTechnician `json:"technicians"`
}

func newEventsEditCommand(rt *runtime) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "edit <id> --file edited.json",
		Short: "Save an edited event, reconciling equipment and technicians",
		Long: "Reads the edited event document and saves it: the event record is\n" +
			"updated first, then equipment reservations and technician assignments\n" +
			"are diffed against the server state and created, updated or removed\n" +
			"as needed. Lines without an id are treated as new.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eventID := args[0]
			edited, err := loadJSONFile[editPayload](file)
			if err != nil {
				return err
			}

			// Server state is the reconciliation baseline.
			originalEquipment, err := rt.client.ListEventEquipment(ctx, eventID)
			if err != nil {
				return err
			}
			originalTechnicians, err := rt.client.ListEventTechnicians(ctx, eventID)
			if err != nil {
				return err
			}

			var result *eventsync.Result
			err = ui.Spin("saving event", func() error {
				var err error
				result, err = rt.syncer.Save(ctx, eventsync.Input{
					EventID:             eventID,
					Event:               &edited.Event,
					OriginalEquipment:   originalEquipment,
					CurrentEquipment:    edited.Equipment,
					OriginalTechnicians: originalTechnicians,
					CurrentTechnicians:  edited.Technicians,
				})
				return err
			})
			if err != nil {
				return err
			}

			if rt.jsonOut {
				return printJSON(map[string]any{
					"event":               result.Event,
					"equipment_failures":  len(result.Equipment.Failed()),
					"technician_failures": len(result.Technicians.Failed()),
				})
			}
			fmt.Printf("saved event %s\n", result.Event.ID)
			if err := result.Err(); err != nil {
				return fmt.Errorf("some changes were not applied: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "edited event JSON ('-' for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newEventsDeleteCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.client.DeleteEvent(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("event deleted")
			return nil
		},
	}
}

func newEventsDocumentCommand(rt *runtime) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "document <id> <quote|delivery-note>",
		Short: "Download a generated event document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := rt.client.EventDocument(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d bytes)\n", output, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
