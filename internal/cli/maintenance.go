package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/avrentops/rentalctl/internal/api"
	"github.com/avrentops/rentalctl/internal/cli/ui"
	"github.com/avrentops/rentalctl/internal/domain"
)

func readPhotoFiles(paths []string) ([]api.File, error) {
	files := make([]api.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, api.File{Name: filepath.Base(path), Data: data})
	}
	return files, nil
}

func newMaintenanceCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Manage maintenance tickets",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return requireSession(rt, cmd)
		},
	}

	params := &api.MaintenanceListParams{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List maintenance tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			var page *domain.Page[domain.Maintenance]
			err := ui.Spin("loading tickets", func() error {
				var err error
				page, err = rt.client.ListMaintenances(cmd.Context(), params)
				return err
			})
			if err != nil {
				return err
			}
			return emit(rt, page, func() {
				rows := make([][]string, 0, len(page.Items))
				for _, m := range page.Items {
					equipment := m.EquipmentID
					if m.Equipment != nil {
						equipment = m.Equipment.Name
					}
					rows = append(rows, []string{
						m.ID, equipment, string(m.Priority), string(m.Status),
						m.StartDate.Format("2006-01-02"),
					})
				}
				fmt.Print(ui.Table([]string{"ID", "EQUIPMENT", "PRIORITY", "STATUS", "OPENED"}, rows))
				fmt.Println(ui.Pager(page.Page, page.TotalPages, page.Total))
			})
		},
	}
	list.Flags().StringVar(&params.EquipmentID, "equipment", "", "filter by equipment id")
	list.Flags().StringVar(&params.TechnicianID, "technician", "", "filter by technician id")
	list.Flags().StringVar(&params.Status, "status", "", "filter by status")
	list.Flags().StringVar(&params.Priority, "priority", "", "filter by priority")
	list.Flags().IntVar(&params.Page, "page", 0, "page number")
	list.Flags().IntVar(&params.Limit, "limit", 0, "page size")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one ticket with its log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticket, err := rt.client.GetMaintenance(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(rt, ticket, func() {
				fmt.Printf("[%s/%s] %s\n", ticket.Priority, ticket.Status, ticket.ProblemDescription)
				if ticket.SolutionDescription != "" {
					fmt.Printf("solution: %s (cost %.2f)\n", ticket.SolutionDescription, ticket.Cost)
				}
				for _, entry := range ticket.Logs {
					fmt.Printf("  %s  %s\n", entry.CreatedAt.Format("2006-01-02 15:04"), entry.Content)
				}
			})
		},
	}

	var createFile string
	create := &cobra.Command{
		Use:   "create --file ticket.json",
		Short: "Open a maintenance ticket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ticket, err := loadJSONFile[domain.Maintenance](createFile)
			if err != nil {
				return err
			}
			created, err := rt.client.CreateMaintenance(cmd.Context(), ticket)
			if err != nil {
				return err
			}
			return emit(rt, created, func() {
				fmt.Printf("opened ticket %s\n", created.ID)
			})
		},
	}
	create.Flags().StringVar(&createFile, "file", "", "JSON payload ('-' for stdin)")
	_ = create.MarkFlagRequired("file")

	var solution string
	var cost float64
	var photos []string
	complete := &cobra.Command{
		Use:   "complete <id>",
		Short: "Close a ticket and return the equipment to service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			photoFiles, err := readPhotoFiles(photos)
			if err != nil {
				return err
			}
			var closed *domain.Maintenance
			err = ui.Spin("completing ticket", func() error {
				var err error
				closed, err = rt.client.CompleteMaintenance(cmd.Context(), args[0], api.MaintenanceCompletion{
					SolutionDescription: solution,
					Cost:                cost,
					Photos:              photoFiles,
				})
				return err
			})
			if err != nil {
				return err
			}
			return emit(rt, closed, func() {
				fmt.Printf("ticket %s closed\n", closed.ID)
			})
		},
	}
	complete.Flags().StringVar(&solution, "solution", "", "what was done")
	complete.Flags().Float64Var(&cost, "cost", 0, "repair cost")
	complete.Flags().StringSliceVar(&photos, "photo", nil, "repair photo file (repeatable)")
	_ = complete.MarkFlagRequired("solution")

	var logContent string
	var logPhotos []string
	addLog := &cobra.Command{
		Use:   "log <id>",
		Short: "Append a comment to a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			photoFiles, err := readPhotoFiles(logPhotos)
			if err != nil {
				return err
			}
			entry, err := rt.client.AddMaintenanceLog(cmd.Context(), args[0], logContent, photoFiles)
			if err != nil {
				return err
			}
			return emit(rt, entry, func() {
				fmt.Printf("logged entry %s\n", entry.ID)
			})
		},
	}
	addLog.Flags().StringVar(&logContent, "message", "", "comment text")
	addLog.Flags().StringSliceVar(&logPhotos, "photo", nil, "photo file (repeatable)")
	_ = addLog.MarkFlagRequired("message")

	cmd.AddCommand(list, get, create, complete, addLog)
	return cmd
}
