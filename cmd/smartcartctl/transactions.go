package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	txnCmd := &cobra.Command{Use: "transactions", Short: "Purchase approval operations"}

	// pending
	pendingCmd := &cobra.Command{
		Use:   "pending",
		Short: "List transactions awaiting approval",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/transactions/pending", nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	txnCmd.AddCommand(pendingCmd)

	// approve
	var approveReason string
	approveCmd := &cobra.Command{
		Use:   "approve TRANSACTION_ID",
		Short: "Approve a pending transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{}
			if approveReason != "" {
				payload["reason"] = approveReason
			}
			data, err := doPostJSON(fmt.Sprintf("/api/transactions/%s/approve", args[0]), payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	approveCmd.Flags().StringVarP(&approveReason, "reason", "r", "", "Approval note")
	txnCmd.AddCommand(approveCmd)

	// reject
	var rejectReason string
	rejectCmd := &cobra.Command{
		Use:   "reject TRANSACTION_ID",
		Short: "Reject a pending transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rejectReason == "" {
				return fmt.Errorf("--reason required")
			}
			data, err := doPostJSON(fmt.Sprintf("/api/transactions/%s/reject", args[0]), map[string]interface{}{"reason": rejectReason})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rejectCmd.Flags().StringVarP(&rejectReason, "reason", "r", "", "Rejection reason (required)")
	_ = rejectCmd.MarkFlagRequired("reason")
	txnCmd.AddCommand(rejectCmd)

	rootCmd.AddCommand(txnCmd)
}
