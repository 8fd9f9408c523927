package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xcursocr/shopkit/internal/adapter/outbound/rest"
	"github.com/xcursocr/shopkit/internal/domain/catalog"
)

var (
	listPage    int
	listLimit   int
	listSort    string
	listSearch  string
	listInclude []string
	listFilters []string

	productName        string
	productSlug        string
	productDescription string
	productPrice       float64
	productStock       int
	productBrand       int64
	productCategory    int64
	productSubcategory int64
	productImageURL    string
	productActive      bool
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse and manage products",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Long: `List products with the backend's standard query parameters.

Examples:
  shopkit products list --sort id:DESC --limit 8 --include brands
  shopkit products list --search nike --filter is_active=true`,
	RunE: runProductsList,
}

var productsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsGet,
}

var productsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product (admin)",
	RunE:  runProductsCreate,
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update product fields (admin)",
	Long: `Update a product. Only the flags you set are sent, so
"shopkit products update 5 --price 99.9" changes the price and nothing else.`,
	Args: cobra.ExactArgs(1),
	RunE: runProductsUpdate,
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product (admin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsDelete,
}

func init() {
	addListFlags(productsListCmd)

	for _, c := range []*cobra.Command{productsCreateCmd, productsUpdateCmd} {
		c.Flags().StringVar(&productName, "name", "", "product name")
		c.Flags().StringVar(&productSlug, "slug", "", "URL slug (kebab-case)")
		c.Flags().StringVar(&productDescription, "description", "", "description")
		c.Flags().Float64Var(&productPrice, "price", 0, "price")
		c.Flags().IntVar(&productStock, "stock", -1, "stock count")
		c.Flags().Int64Var(&productBrand, "brand", 0, "brand id")
		c.Flags().Int64Var(&productCategory, "category", 0, "category id")
		c.Flags().Int64Var(&productSubcategory, "subcategory", 0, "subcategory id")
		c.Flags().StringVar(&productImageURL, "image-url", "", "image URL (use `shopkit upload` first)")
		c.Flags().BoolVar(&productActive, "active", true, "whether the product is visible")
	}

	productsCmd.AddCommand(productsListCmd, productsGetCmd, productsCreateCmd, productsUpdateCmd, productsDeleteCmd)
	rootCmd.AddCommand(productsCmd)
}

// addListFlags registers the shared list query flags on a list subcommand.
func addListFlags(c *cobra.Command) {
	c.Flags().IntVar(&listPage, "page", 0, "page number")
	c.Flags().IntVar(&listLimit, "limit", 0, "page size")
	c.Flags().StringVar(&listSort, "sort", "", "sort expression, e.g. id:DESC")
	c.Flags().StringVar(&listSearch, "search", "", "free-text search")
	c.Flags().StringSliceVar(&listInclude, "include", nil, "relations to embed, e.g. brands,categories")
	c.Flags().StringArrayVar(&listFilters, "filter", nil, "equality filter key=value (repeatable)")
}

// buildListQuery assembles a ListQuery from the shared flags.
func buildListQuery() (rest.ListQuery, error) {
	q := rest.ListQuery{
		Page:    listPage,
		Limit:   listLimit,
		Search:  listSearch,
		Include: listInclude,
	}
	if listSort != "" {
		field, dir, ok := strings.Cut(listSort, ":")
		if !ok {
			q = q.Sort(listSort, rest.SortAsc)
		} else {
			switch strings.ToUpper(dir) {
			case string(rest.SortAsc):
				q = q.Sort(field, rest.SortAsc)
			case string(rest.SortDesc):
				q = q.Sort(field, rest.SortDesc)
			default:
				return q, fmt.Errorf("invalid sort direction %q (want ASC or DESC)", dir)
			}
		}
	}
	if len(listFilters) > 0 {
		q.Filters = make(map[string]string, len(listFilters))
		for _, f := range listFilters {
			k, v, ok := strings.Cut(f, "=")
			if !ok {
				return q, fmt.Errorf("invalid filter %q (want key=value)", f)
			}
			q.Filters[k] = v
		}
	}
	return q, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func runProductsList(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	q, err := buildListQuery()
	if err != nil {
		return err
	}

	page, err := a.catalog.Products(cmd.Context(), q)
	if err != nil {
		return err
	}
	if outputJSON {
		return printPayload(page)
	}

	for _, p := range page.Items {
		brand := ""
		if p.Brand != nil {
			brand = " [" + p.Brand.Name + "]"
		}
		fmt.Printf("%6d  %-40s %10.2f  stock %d%s\n", p.ID, p.Name, p.Price, p.Stock, brand)
	}
	if page.Meta != nil {
		fmt.Printf("page %d/%d, %d total\n", page.Meta.CurrentPage, page.Meta.LastPage, page.Meta.Total)
	}
	return nil
}

func runProductsGet(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	p, err := a.catalog.Product(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, rest.ErrNotFound) {
			return fmt.Errorf("product %d not found", id)
		}
		return err
	}
	if outputJSON {
		return printPayload(p)
	}

	fmt.Printf("%s (id %d, slug %s)\n", p.Name, p.ID, p.Slug)
	fmt.Printf("  Price: %.2f  Stock: %d  Active: %v\n", p.Price, p.Stock, p.IsActive)
	if p.Description != "" {
		fmt.Printf("  %s\n", p.Description)
	}
	return nil
}

func runProductsCreate(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	p, err := a.catalog.CreateProduct(cmd.Context(), productPayloadFromFlags(cmd))
	if err != nil {
		return err
	}
	fmt.Printf("Created product %d (%s)\n", p.ID, p.Name)
	return nil
}

func runProductsUpdate(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	p, err := a.catalog.UpdateProduct(cmd.Context(), id, productPayloadFromFlags(cmd))
	if err != nil {
		return err
	}
	fmt.Printf("Updated product %d (%s)\n", p.ID, p.Name)
	return nil
}

func runProductsDelete(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	deleted, err := a.catalog.DeleteProduct(cmd.Context(), id)
	if err != nil {
		var conflict *rest.ConflictError
		if errors.As(err, &conflict) {
			return fmt.Errorf("product %d is still referenced (probably by an order) and cannot be deleted: %s", id, conflict.Message)
		}
		return err
	}
	fmt.Printf("Deleted product %d\n", deleted)
	return nil
}

// productPayloadFromFlags builds a partial payload from exactly the flags
// the user set, so updates do not clobber untouched fields.
func productPayloadFromFlags(cmd *cobra.Command) catalog.ProductPayload {
	var p catalog.ProductPayload
	if cmd.Flags().Changed("name") {
		p.Name = &productName
	}
	if cmd.Flags().Changed("slug") {
		p.Slug = &productSlug
	}
	if cmd.Flags().Changed("description") {
		p.Description = &productDescription
	}
	if cmd.Flags().Changed("price") {
		p.Price = &productPrice
	}
	if cmd.Flags().Changed("stock") {
		p.Stock = &productStock
	}
	if cmd.Flags().Changed("brand") {
		p.BrandID = &productBrand
	}
	if cmd.Flags().Changed("category") {
		p.CategoryID = &productCategory
	}
	if cmd.Flags().Changed("subcategory") {
		p.SubcategoryID = &productSubcategory
	}
	if cmd.Flags().Changed("image-url") {
		p.ImageURL = &productImageURL
	}
	if cmd.Flags().Changed("active") {
		p.IsActive = &productActive
	}
	return p
}
