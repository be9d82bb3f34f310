package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	inventoryCmd := &cobra.Command{Use: "inventory", Short: "Inventory operations"}

	// list
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List inventory items",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/inventory", nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	inventoryCmd.AddCommand(listCmd)

	// add
	var name, category, unit string
	var quantity, price float64
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add or merge an inventory item",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"name":     name,
				"quantity": quantity,
				"category": category,
			}
			if unit != "" {
				payload["unit"] = unit
			}
			if price > 0 {
				payload["price"] = price
			}
			data, err := doPostJSON("/api/inventory", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	addCmd.Flags().StringVarP(&name, "name", "n", "", "Item name (required)")
	addCmd.Flags().Float64VarP(&quantity, "quantity", "q", 1, "Quantity")
	addCmd.Flags().StringVarP(&category, "category", "c", "other", "Category")
	addCmd.Flags().StringVar(&unit, "unit", "", "Unit of measure")
	addCmd.Flags().Float64VarP(&price, "price", "p", 0, "Unit price")
	_ = addCmd.MarkFlagRequired("name")
	inventoryCmd.AddCommand(addCmd)

	// expiring
	var days int
	expiringCmd := &cobra.Command{
		Use:   "expiring",
		Short: "List items expiring within N days",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/inventory/expiring", map[string]string{"days": strconv.Itoa(days)})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	expiringCmd.Flags().IntVarP(&days, "days", "d", 2, "Look-ahead window in days")
	inventoryCmd.AddCommand(expiringCmd)

	rootCmd.AddCommand(inventoryCmd)
}
