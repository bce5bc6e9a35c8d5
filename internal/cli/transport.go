package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avrentops/rentalctl/internal/api"
	"github.com/avrentops/rentalctl/internal/cli/ui"
	"github.com/avrentops/rentalctl/internal/domain"
)

func newVehiclesCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "Manage the vehicle fleet",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return requireSession(rt, cmd)
		},
	}

	params := &api.VehicleListParams{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List vehicles",
		RunE: func(cmd *cobra.Command, args []string) error {
			vehicles, err := rt.client.ListVehicles(cmd.Context(), params)
			if err != nil {
				return err
			}
			return emit(rt, vehicles, func() {
				rows := make([][]string, 0, len(vehicles))
				for _, v := range vehicles {
					rows = append(rows, []string{
						v.ID, v.RegistrationNumber, string(v.Type),
						fmt.Sprintf("%s %s", v.Brand, v.Model), string(v.Status),
					})
				}
				fmt.Print(ui.Table([]string{"ID", "PLATE", "TYPE", "VEHICLE", "STATUS"}, rows))
			})
		},
	}
	list.Flags().StringVar(&params.Status, "status", "", "filter by status")
	list.Flags().StringVar(&params.Type, "type", "", "filter by type")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vehicle, err := rt.client.GetVehicle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(rt, vehicle, func() {
				fmt.Printf("%s %s (%s), %s\n", vehicle.Brand, vehicle.Model, vehicle.RegistrationNumber, vehicle.Status)
				if vehicle.LoadCapacityKg > 0 {
					fmt.Printf("capacity: %.0f kg\n", vehicle.LoadCapacityKg)
				}
				if vehicle.CurrentMileage > 0 {
					fmt.Printf("mileage: %d km\n", vehicle.CurrentMileage)
				}
			})
		},
	}

	var createFile string
	create := &cobra.Command{
		Use:   "create --file vehicle.json",
		Short: "Register a vehicle",
		RunE: func(cmd *cobra.Command, args []string) error {
			vehicle, err := loadJSONFile[domain.Vehicle](createFile)
			if err != nil {
				return err
			}
			created, err := rt.client.CreateVehicle(cmd.Context(), vehicle)
			if err != nil {
				return err
			}
			return emit(rt, created, func() {
				fmt.Printf("registered vehicle %s (%s)\n", created.ID, created.RegistrationNumber)
			})
		},
	}
	create.Flags().StringVar(&createFile, "file", "", "JSON payload ('-' for stdin)")
	_ = create.MarkFlagRequired("file")

	var updateFile string
	update := &cobra.Command{
		Use:   "update <id> --file vehicle.json",
		Short: "Update a vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vehicle, err := loadJSONFile[domain.Vehicle](updateFile)
			if err != nil {
				return err
			}
			updated, err := rt.client.UpdateVehicle(cmd.Context(), args[0], vehicle)
			if err != nil {
				return err
			}
			return emit(rt, updated, func() {
				fmt.Printf("updated vehicle %s\n", updated.ID)
			})
		},
	}
	update.Flags().StringVar(&updateFile, "file", "", "JSON payload ('-' for stdin)")
	_ = update.MarkFlagRequired("file")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a vehicle from the fleet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.client.DeleteVehicle(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("vehicle deleted")
			return nil
		},
	}

	cmd.AddCommand(list, get, create, update, del)
	return cmd
}

// transportRow renders one transport as a table row, preferring the
// preloaded event name and vehicle plate over raw ids.
func transportRow(t domain.Transport) []string {
	event := t.EventID
	if t.Event != nil {
		event = t.Event.EventName
	}
	vehicle := t.VehicleID
	if t.Vehicle != nil {
		vehicle = t.Vehicle.RegistrationNumber
	}
	return []string{
		t.ID, event, vehicle,
		t.DepartureDate.Format("2006-01-02 15:04"), string(t.Status),
	}
}

func newTransportsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transports",
		Short: "Manage deliveries and pickups",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return requireSession(rt, cmd)
		},
	}

	params := &api.TransportListParams{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List transports",
		RunE: func(cmd *cobra.Command, args []string) error {
			transports, err := rt.client.ListTransports(cmd.Context(), params)
			if err != nil {
				return err
			}
			return emit(rt, transports, func() {
				rows := make([][]string, 0, len(transports))
				for _, t := range transports {
					rows = append(rows, transportRow(t))
				}
				fmt.Print(ui.Table([]string{"ID", "EVENT", "VEHICLE", "DEPARTURE", "STATUS"}, rows))
			})
		},
	}
	list.Flags().StringVar(&params.EventID, "event", "", "filter by event id")
	list.Flags().StringVar(&params.VehicleID, "vehicle", "", "filter by vehicle id")
	list.Flags().StringVar(&params.Status, "status", "", "filter by status")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one transport",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transport, err := rt.client.GetTransport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(rt, transport, func() {
				fmt.Printf("%s → %s (%s)\n", transport.DepartureAddress, transport.ArrivalAddress, transport.Status)
				fmt.Printf("departure: %s\n", transport.DepartureDate.Format("2006-01-02 15:04"))
				if transport.ReturnDate != nil {
					fmt.Printf("returned: %s\n", transport.ReturnDate.Format("2006-01-02 15:04"))
				}
			})
		},
	}

	var createFile string
	create := &cobra.Command{
		Use:   "create --file transport.json",
		Short: "Plan a transport",
		RunE: func(cmd *cobra.Command, args []string) error {
			transport, err := loadJSONFile[domain.Transport](createFile)
			if err != nil {
				return err
			}
			created, err := rt.client.CreateTransport(cmd.Context(), transport)
			if err != nil {
				return err
			}
			return emit(rt, created, func() {
				fmt.Printf("planned transport %s\n", created.ID)
			})
		},
	}
	create.Flags().StringVar(&createFile, "file", "", "JSON payload ('-' for stdin)")
	_ = create.MarkFlagRequired("file")

	var updateFile string
	update := &cobra.Command{
		Use:   "update <id> --file transport.json",
		Short: "Update a transport",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transport, err := loadJSONFile[domain.Transport](updateFile)
			if err != nil {
				return err
			}
			updated, err := rt.client.UpdateTransport(cmd.Context(), args[0], transport)
			if err != nil {
				return err
			}
			return emit(rt, updated, func() {
				fmt.Printf("updated transport %s\n", updated.ID)
			})
		},
	}
	update.Flags().StringVar(&updateFile, "file", "", "JSON payload ('-' for stdin)")
	_ = update.MarkFlagRequired("file")

	status := &cobra.Command{
		Use:   "status <id> <PLANIFIE|EN_ROUTE|LIVRE|RETOUR|TERMINE>",
		Short: "Advance a transport through its lifecycle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			next := domain.TransportStatus(strings.ToUpper(args[1]))
			updated, err := rt.client.UpdateTransportStatus(cmd.Context(), args[0], next)
			if err != nil {
				return err
			}
			return emit(rt, updated, func() {
				fmt.Printf("transport %s is now %s\n", updated.ID, updated.Status)
			})
		},
	}

	cmd.AddCommand(list, get, create, update, status)
	return cmd
}
