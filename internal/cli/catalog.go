package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avrentops/rentalctl/internal/domain"
)

func newCategoriesCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage equipment categories",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return requireSession(rt, cmd)
		},
	}

	var includeSubs bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := rt.client.ListCategories(cmd.Context(), includeSubs)
			if err != nil {
				return err
			}
			return emit(rt, categories, func() {
				for _, c := range categories {
					fmt.Printf("%s\t%s\n", c.ID, c.Name)
					for _, s := range c.Subcategories {
						fmt.Printf("  %s\t%s\n", s.ID, s.Name)
					}
				}
			})
		},
	}
	list.Flags().BoolVar(&includeSubs, "subcategories", false, "include subcategories")

	var createFile string
	create := &cobra.Command{
		Use:   "create --file category.json",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := loadJSONFile[domain.Category](createFile)
			if err != nil {
				return err
			}
			created, err := rt.client.CreateCategory(cmd.Context(), category)
			if err != nil {
				return err
			}
			return emit(rt, created, func() {
				fmt.Printf("created category %s (%s)\n", created.ID, created.Name)
			})
		},
	}
	create.Flags().StringVar(&createFile, "file", "", "JSON payload ('-' for stdin)")
	_ = create.MarkFlagRequired("file")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category and its subcategories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.client.DeleteCategory(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("category deleted")
			return nil
		},
	}

	var subFile string
	subCreate := &cobra.Command{
		Use:   "add-subcategory --file subcategory.json",
		Short: "Create a subcategory",
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := loadJSONFile[domain.Subcategory](subFile)
			if err != nil {
				return err
			}
			created, err := rt.client.CreateSubcategory(cmd.Context(), sub)
			if err != nil {
				return err
			}
			return emit(rt, created, func() {
				fmt.Printf("created subcategory %s (%s)\n", created.ID, created.Name)
			})
		},
	}
	subCreate.Flags().StringVar(&subFile, "file", "", "JSON payload ('-' for stdin)")
	_ = subCreate.MarkFlagRequired("file")

	subDelete := &cobra.Command{
		Use:   "delete-subcategory <id>",
		Short: "Delete a subcategory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.client.DeleteSubcategory(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("subcategory deleted")
			return nil
		},
	}

	cmd.AddCommand(list, create, del, subCreate, subDelete)
	return cmd
}
