package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avrentops/rentalctl/internal/api"
	"github.com/avrentops/rentalctl/internal/cli/ui"
	"github.com/avrentops/rentalctl/internal/domain"
)

func newUsersCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage staff accounts (admin only)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return requireSession(rt, cmd)
		},
	}

	params := &api.UserListParams{}
	var activeFlag string
	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch activeFlag {
			case "true":
				v := true
				params.IsActive = &v
			case "false":
				v := false
				params.IsActive = &v
			}
			var page *domain.Page[domain.User]
			err := ui.Spin("loading users", func() error {
				var err error
				page, err = rt.client.ListUsers(cmd.Context(), params)
				return err
			})
			if err != nil {
				return err
			}
			return emit(rt, page, func() {
				rows := make([][]string, 0, len(page.Items))
				for _, u := range page.Items {
					active := "yes"
					if !u.IsActive {
						active = "no"
					}
					rows = append(rows, []string{u.ID, u.Email, u.FullName, string(u.Role), active})
				}
				fmt.Print(ui.Table([]string{"ID", "EMAIL", "NAME", "ROLE", "ACTIVE"}, rows))
				fmt.Println(ui.Pager(page.Page, page.TotalPages, page.Total))
			})
		},
	}
	list.Flags().StringVar(&params.Role, "role", "", "filter by role")
	list.Flags().StringVar(&activeFlag, "active", "", "filter by active state (true|false)")
	list.Flags().IntVar(&params.Page, "page", 0, "page number")
	list.Flags().IntVar(&params.Limit, "limit", 0, "page size")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := rt.client.GetUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(rt, user, func() {
				fmt.Printf("%s\t%s\t%s\n", user.FullName, user.Email, user.Role)
			})
		},
	}

	var createFile string
	create := &cobra.Command{
		Use:   "create --file user.json",
		Short: "Provision an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadJSONFile[domain.Registration](createFile)
			if err != nil {
				return err
			}
			user, err := rt.client.CreateUser(cmd.Context(), *reg)
			if err != nil {
				return err
			}
			return emit(rt, user, func() {
				fmt.Printf("created user %s (%s)\n", user.ID, user.Email)
			})
		},
	}
	create.Flags().StringVar(&createFile, "file", "", "JSON payload ('-' for stdin)")
	_ = create.MarkFlagRequired("file")

	var updateFile string
	update := &cobra.Command{
		Use:   "update <id> --file user.json",
		Short: "Update an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := loadJSONFile[domain.User](updateFile)
			if err != nil {
				return err
			}
			updated, err := rt.client.UpdateUser(cmd.Context(), args[0], user)
			if err != nil {
				return err
			}
			return emit(rt, updated, func() {
				fmt.Printf("updated user %s\n", updated.ID)
			})
		},
	}
	update.Flags().StringVar(&updateFile, "file", "", "JSON payload ('-' for stdin)")
	_ = update.MarkFlagRequired("file")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.client.DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("user deleted")
			return nil
		},
	}

	cmd.AddCommand(list, get, create, update, del)
	return cmd
}
