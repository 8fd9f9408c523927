package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xcursocr/shopkit/internal/adapter/outbound/rest"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the local cart",
	Long: `Manage the cart. Items persist locally across runs, so you can add
products in one invocation and check out from another.`,
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add one unit of a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartAdd,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product's line item from the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart with totals",
	RunE:  runCartShow,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE:  runCartClear,
}

var cartRefresh bool

func init() {
	cartShowCmd.Flags().BoolVar(&cartRefresh, "refresh", false, "re-fetch products and update stale prices before showing")
	cartCmd.AddCommand(cartAddCmd, cartRemoveCmd, cartShowCmd, cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	item, err := a.carts.Add(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, rest.ErrNotFound) {
			return fmt.Errorf("product %d not found", id)
		}
		return err
	}
	fmt.Printf("Added %s (now %d in cart)\n", item.Name, item.Quantity)
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a.carts.Remove(id)
	fmt.Printf("Removed product %d from the cart\n", id)
	return nil
}

func runCartShow(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	if cartRefresh {
		dropped, err := a.carts.Refresh(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range dropped {
			fmt.Fprintf(cmd.ErrOrStderr(), "Dropped %q: no longer available\n", name)
		}
	}

	items, count, total := a.carts.Summary()
	if outputJSON {
		return printPayload(map[string]any{
			"items":       items,
			"total_items": count,
			"total_price": total,
		})
	}

	if len(items) == 0 {
		fmt.Println("Cart is empty.")
		return nil
	}
	for _, it := range items {
		fmt.Printf("%6d  %-40s %3d x %8.2f = %9.2f\n", it.ID, it.Name, it.Quantity, it.Price, float64(it.Quantity)*it.Price)
	}
	fmt.Printf("\n%d item(s), total %.2f\n", count, total)
	return nil
}

func runCartClear(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	a.carts.Clear()
	fmt.Println("Cart cleared.")
	return nil
}
