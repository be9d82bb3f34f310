package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	budgetCmd := &cobra.Command{Use: "budget", Short: "Budget operations"}

	// set
	var capAmount float64
	var period string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Set the budget cap",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{"cap": capAmount}
			if period != "" {
				payload["period"] = period
			}
			data, err := doPostJSON("/api/budget", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	setCmd.Flags().Float64VarP(&capAmount, "cap", "c", 0, "Budget cap amount (required)")
	setCmd.Flags().StringVarP(&period, "period", "p", "", "Budget period (monthly or weekly)")
	_ = setCmd.MarkFlagRequired("cap")
	budgetCmd.AddCommand(setCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Show the current budget cap",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/budget", nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	budgetCmd.AddCommand(getCmd)

	// spending
	var spendingPeriod string
	spendingCmd := &cobra.Command{
		Use:   "spending",
		Short: "Show spending against the current budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{}
			if spendingPeriod != "" {
				query["period"] = spendingPeriod
			}
			data, err := doGet("/api/budget/spending", query)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	spendingCmd.Flags().StringVarP(&spendingPeriod, "period", "p", "", "Budget period (monthly or weekly)")
	budgetCmd.AddCommand(spendingCmd)

	rootCmd.AddCommand(budgetCmd)
}
