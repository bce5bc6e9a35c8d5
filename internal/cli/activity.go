package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avrentops/rentalctl/internal/api"
	"github.com/avrentops/rentalctl/internal/cli/ui"
	"github.com/avrentops/rentalctl/internal/domain"
)

func newActivityCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Review the audit trail (admin only)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return requireSession(rt, cmd)
		},
	}

	params := &api.ActivityLogParams{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List audit entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			var page *domain.Page[domain.ActivityLog]
			err := ui.Spin("loading activity", func() error {
				var err error
				page, err = rt.client.ListActivityLogs(cmd.Context(), params)
				return err
			})
			if err != nil {
				return err
			}
			return emit(rt, page, func() {
				rows := make([][]string, 0, len(page.Items))
				for _, entry := range page.Items {
					who := entry.UserID
					if entry.User != nil {
						who = entry.User.Email
					}
					rows = append(rows, []string{
						entry.CreatedAt.Format("2006-01-02 15:04"),
						who, entry.Action, entry.EntityType, entry.Description,
					})
				}
				fmt.Print(ui.Table([]string{"WHEN", "USER", "ACTION", "ENTITY", "DESCRIPTION"}, rows))
				fmt.Println(ui.Pager(page.Page, page.TotalPages, page.Total))
			})
		},
	}
	list.Flags().StringVar(&params.UserID, "user", "", "filter by user id")
	list.Flags().StringVar(&params.Action, "action", "", "filter by action")
	list.Flags().StringVar(&params.EntityType, "entity", "", "filter by entity type")
	list.Flags().StringVar(&params.StartDate, "start", "", "entries after this date (YYYY-MM-DD)")
	list.Flags().StringVar(&params.EndDate, "end", "", "entries before this date (YYYY-MM-DD)")
	list.Flags().IntVar(&params.Page, "page", 0, "page number")
	list.Flags().IntVar(&params.Limit, "limit", 0, "page size")

	cmd.AddCommand(list)
	return cmd
}
