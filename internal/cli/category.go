package cli

import (
	"fmt"

	"github.com/blogicum/internal/service"
	"github.com/spf13/cobra"
)

func (a *app) newCategoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage post categories",
	}

	var (
		title       string
		slug        string
		description string
		hidden      bool
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gdb, err := a.open()
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			category, err := service.NewCategoryService(gdb).Create(service.CategoryInput{
				Title:       title,
				Slug:        slug,
				Description: description,
				IsPublished: !hidden,
			})
			if err != nil {
				return fmt.Errorf("add category: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created category %s (id %d)\n", category.Slug, category.ID)
			return nil
		},
	}
	add.Flags().StringVar(&title, "title", "", "Category title (required)")
	add.Flags().StringVar(&slug, "slug", "", "URL slug (required)")
	add.Flags().StringVar(&description, "description", "", "Description")
	add.Flags().BoolVar(&hidden, "hidden", false, "Create the category unpublished")
	_ = add.MarkFlagRequired("title")
	_ = add.MarkFlagRequired("slug")

	cmd.AddCommand(add)
	return cmd
}

func (a *app) newLocationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Manage post locations",
	}

	var hidden bool
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := a.open()
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			location, err := service.NewCategoryService(gdb).CreateLocation(args[0], !hidden)
			if err != nil {
				return fmt.Errorf("add location: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created location %s (id %d)\n", location.Name, location.ID)
			return nil
		},
	}
	add.Flags().BoolVar(&hidden, "hidden", false, "Create the location unpublished")

	cmd.AddCommand(add)
	return cmd
}
