package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xcursocr/shopkit/internal/adapter/outbound/rest"
	"github.com/xcursocr/shopkit/internal/domain/catalog"
)

var (
	namedName     string
	namedSlug     string
	namedImage    string
	namedCategory int64
)

func init() {
	rootCmd.AddCommand(
		newNamedCommand(rest.CollectionBrands, "brands", "brand"),
		newNamedCommand(rest.CollectionCategories, "categories", "category"),
		newNamedCommand(rest.CollectionSubcategories, "subcategories", "subcategory"),
	)
}

// newNamedCommand builds the command tree for one of the three named lookup
// collections. They share payload shape and behavior, so one constructor
// covers all of them.
func newNamedCommand(collection, use, singular string) *cobra.Command {
	parent := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Browse and manage %s", use),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", use),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNamedList(cmd, collection)
		},
	}
	addListFlags(list)

	get := &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show one %s", singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNamedGet(cmd, collection, singular, args[0])
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s (admin)", singular),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			if err := a.catalog.CreateNamed(cmd.Context(), collection, namedPayloadFromFlags(cmd)); err != nil {
				return err
			}
			fmt.Printf("Created %s %q\n", singular, namedName)
			return nil
		},
	}

	update := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update a %s (admin)", singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.catalog.UpdateNamed(cmd.Context(), collection, id, namedPayloadFromFlags(cmd)); err != nil {
				return err
			}
			fmt.Printf("Updated %s %d\n", singular, id)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s (admin)", singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			deleted, err := a.catalog.DeleteNamed(cmd.Context(), collection, id)
			if err != nil {
				var conflict *rest.ConflictError
				if errors.As(err, &conflict) {
					return fmt.Errorf("%s %d is still referenced and cannot be deleted: %s", singular, id, conflict.Message)
				}
				return err
			}
			fmt.Printf("Deleted %s %d\n", singular, deleted)
			return nil
		},
	}

	for _, c := range []*cobra.Command{create, update} {
		c.Flags().StringVar(&namedName, "name", "", singular+" name")
		c.Flags().StringVar(&namedSlug, "slug", "", "URL slug (kebab-case)")
		c.Flags().StringVar(&namedImage, "image", "", "image URL")
		if collection == rest.CollectionSubcategories {
			c.Flags().Int64Var(&namedCategory, "category", 0, "parent category id")
		}
	}

	parent.AddCommand(list, get, create, update, del)
	return parent
}

func runNamedList(cmd *cobra.Command, collection string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	q, err := buildListQuery()
	if err != nil {
		return err
	}

	switch collection {
	case rest.CollectionBrands:
		page, err := a.catalog.Brands(cmd.Context(), q)
		if err != nil {
			return err
		}
		if outputJSON {
			return printPayload(page)
		}
		for _, b := range page.Items {
			fmt.Printf("%6d  %s\n", b.ID, b.Name)
		}
		printMeta(page.Meta)
	case rest.CollectionCategories:
		page, err := a.catalog.Categories(cmd.Context(), q)
		if err != nil {
			return err
		}
		if outputJSON {
			return printPayload(page)
		}
		for _, c := range page.Items {
			fmt.Printf("%6d  %s\n", c.ID, c.Name)
		}
		printMeta(page.Meta)
	case rest.CollectionSubcategories:
		page, err := a.catalog.Subcategories(cmd.Context(), q)
		if err != nil {
			return err
		}
		if outputJSON {
			return printPayload(page)
		}
		for _, s := range page.Items {
			parent := ""
			if s.Category != nil {
				parent = "  (" + s.Category.Name + ")"
			}
			fmt.Printf("%6d  %s%s\n", s.ID, s.Name, parent)
		}
		printMeta(page.Meta)
	}
	return nil
}

func runNamedGet(cmd *cobra.Command, collection, singular, arg string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	var (
		payload any
		line    string
	)
	switch collection {
	case rest.CollectionBrands:
		b, err := a.catalog.Brand(cmd.Context(), id)
		if err != nil {
			return namedGetErr(err, singular, id)
		}
		payload, line = b, fmt.Sprintf("%s (id %d, slug %s)", b.Name, b.ID, b.Slug)
	case rest.CollectionCategories:
		c, err := a.catalog.Category(cmd.Context(), id)
		if err != nil {
			return namedGetErr(err, singular, id)
		}
		payload, line = c, fmt.Sprintf("%s (id %d, slug %s)", c.Name, c.ID, c.Slug)
	case rest.CollectionSubcategories:
		s, err := a.catalog.Subcategory(cmd.Context(), id)
		if err != nil {
			return namedGetErr(err, singular, id)
		}
		payload, line = s, fmt.Sprintf("%s (id %d, slug %s, category %d)", s.Name, s.ID, s.Slug, s.CategoryID)
	}

	if outputJSON {
		return printPayload(payload)
	}
	fmt.Println(line)
	return nil
}

func namedGetErr(err error, singular string, id int64) error {
	if errors.Is(err, rest.ErrNotFound) {
		return fmt.Errorf("%s %d not found", singular, id)
	}
	return err
}

func printMeta(m *rest.Meta) {
	if m != nil {
		fmt.Printf("page %d/%d, %d total\n", m.CurrentPage, m.LastPage, m.Total)
	}
}

func namedPayloadFromFlags(cmd *cobra.Command) catalog.NamedPayload {
	var p catalog.NamedPayload
	if cmd.Flags().Changed("name") {
		p.Name = &namedName
	}
	if cmd.Flags().Changed("slug") {
		p.Slug = &namedSlug
	}
	if cmd.Flags().Changed("image") {
		p.Image = &namedImage
	}
	if cmd.Flags().Changed("category") {
		p.CategoryID = &namedCategory
	}
	return p
}
