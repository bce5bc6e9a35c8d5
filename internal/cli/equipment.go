package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avrentops/rentalctl/internal/api"
	"github.com/avrentops/rentalctl/internal/cli/ui"
	"github.com/avrentops/rentalctl/internal/domain"
)

func newEquipmentCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "equipment",
		Short: "Manage the equipment catalog",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return requireSession(rt, cmd)
		},
	}
	cmd.AddCommand(
		newEquipmentListCommand(rt),
		newEquipmentGetCommand(rt),
		newEquipmentCreateCommand(rt),
		newEquipmentUpdateCommand(rt),
		newEquipmentDeleteCommand(rt),
		newEquipmentAvailabilityCommand(rt),
		newEquipmentHistoryCommand(rt),
		newEquipmentScanCommand(rt),
		newEquipmentQRExportCommand(rt),
	)
	return cmd
}

func newEquipmentListCommand(rt *runtime) *cobra.Command {
	params := &api.EquipmentListParams{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List equipment",
		RunE: func(cmd *cobra.Command, args []string) error {
			var page *domain.Page[domain.Equipment]
			err := ui.Spin("loading equipment", func() error {
				var err error
				page, err = rt.client.ListEquipment(cmd.Context(), params)
				return err
			})
			if err != nil {
				return err
			}
			return emit(rt, page, func() {
				rows := make([][]string, 0, len(page.Items))
				for _, e := range page.Items {
					category := ""
					if e.Category != nil {
						category = e.Category.Name
					}
					rows = append(rows, []string{
						e.ID, e.Reference, e.Name, category,
						fmt.Sprintf("%d/%d", e.QuantityAvailable, e.QuantityTotal),
						string(e.Status),
					})
				}
				fmt.Print(ui.Table([]string{"ID", "REF", "NAME", "CATEGORY", "AVAIL/TOTAL", "STATUS"}, rows))
				fmt.Println(ui.Pager(page.Page, page.TotalPages, page.Total))
			})
		},
	}
	cmd.Flags().StringVar(&params.Search, "search", "", "search name, reference or brand")
	cmd.Flags().StringVar(&params.CategoryID, "category", "", "filter by category id")
	cmd.Flags().StringVar(&params.SubcategoryID, "subcategory", "", "filter by subcategory id")
	cmd.Flags().StringVar(&params.Status, "status", "", "filter by status")
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "page size")
	return cmd
}

func newEquipmentGetCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one equipment item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := rt.client.GetEquipment(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(rt, item, func() {
				fmt.Printf("%s (%s)\n", item.Name, item.Reference)
				fmt.Printf("brand: %s %s\n", item.Brand, item.Model)
				fmt.Printf("stock: %d/%d, status %s\n", item.QuantityAvailable, item.QuantityTotal, item.Status)
				if item.DailyRentalPrice > 0 {
					fmt.Printf("daily rate: %.2f\n", item.DailyRentalPrice)
				}
			})
		},
	}
}

func newEquipmentCreateCommand(rt *runtime) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create --file equipment.json",
		Short: "Create an equipment item from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := loadJSONFile[domain.Equipment](file)
			if err != nil {
				return err
			}
			created, err := rt.client.CreateEquipment(cmd.Context(), item)
			if err != nil {
				return err
			}
			return emit(rt, created, func() {
				fmt.Printf("created equipment %s (%s)\n", created.ID, created.Name)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON payload ('-' for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newEquipmentUpdateCommand(rt *runtime) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update <id> --file equipment.json",
		Short: "Replace an equipment item from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := loadJSONFile[domain.Equipment](file)
			if err != nil {
				return err
			}
			updated, err := rt.client.UpdateEquipment(cmd.Context(), args[0], item)
			if err != nil {
				return err
			}
			return emit(rt, updated, func() {
				fmt.Printf("updated equipment %s\n", updated.ID)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON payload ('-' for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newEquipmentDeleteCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an equipment item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.client.DeleteEquipment(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("equipment deleted")
			return nil
		},
	}
}

func newEquipmentAvailabilityCommand(rt *runtime) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "availability <id>",
		Short: "Check free units over a date range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := rt.client.EquipmentAvailability(cmd.Context(), args[0], start, end)
			if err != nil {
				return err
			}
			return emit(rt, window, func() {
				fmt.Printf("%s → %s: %d free (%d reserved)\n",
					window.StartDate.Format("2006-01-02"),
					window.EndDate.Format("2006-01-02"),
					window.QuantityAvailable, window.QuantityReserved)
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newEquipmentHistoryCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show status history for an equipment item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := rt.client.EquipmentHistory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(rt, entries, func() {
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						e.ChangedAt.Format("2006-01-02 15:04"),
						string(e.Status), fmt.Sprint(e.Quantity), e.Notes,
					})
				}
				fmt.Print(ui.Table([]string{"WHEN", "STATUS", "QTY", "NOTES"}, rows))
			})
		},
	}
}

func newEquipmentScanCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <qr-data>",
		Short: "Resolve a scanned QR payload to its equipment item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := rt.client.ScanQRCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(rt, item, func() {
				fmt.Printf("%s\t%s\t%s\n", item.ID, item.Reference, item.Name)
			})
		},
	}
}

func newEquipmentQRExportCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "qr-export <id>...",
		Short: "Export QR code URLs for one or more items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exports, err := rt.client.BulkQRExport(cmd.Context(), args)
			if err != nil {
				return err
			}
			return emit(rt, exports, func() {
				rows := make([][]string, 0, len(exports))
				for _, e := range exports {
					rows = append(rows, []string{e.EquipmentID, e.QRCodeURL})
				}
				fmt.Print(ui.Table([]string{"EQUIPMENT", "QR URL"}, rows))
			})
		},
	}
}
