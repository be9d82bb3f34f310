package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	auditCmd := &cobra.Command{Use: "audit", Short: "Audit log operations"}

	// log
	var action, entityType, auditUser string
	var limit, offset int
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "List audit entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{
				"limit":  strconv.Itoa(limit),
				"offset": strconv.Itoa(offset),
			}
			if action != "" {
				query["action"] = action
			}
			if entityType != "" {
				query["entity_type"] = entityType
			}
			if auditUser != "" {
				query["user_id"] = auditUser
			}
			data, err := doGet("/api/audit", query)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	logCmd.Flags().StringVar(&action, "action", "", "Filter by action")
	logCmd.Flags().StringVar(&entityType, "entity-type", "", "Filter by entity type")
	logCmd.Flags().StringVar(&auditUser, "by-user", "", "Filter by acting user")
	logCmd.Flags().IntVarP(&limit, "limit", "l", 50, "Page size")
	logCmd.Flags().IntVarP(&offset, "offset", "o", 0, "Page offset")
	auditCmd.AddCommand(logCmd)

	// report
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a compliance report",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/audit/report", nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	auditCmd.AddCommand(reportCmd)

	// purge
	var days int
	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove audit entries older than N days",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON(fmt.Sprintf("/api/audit/purge?days=%d", days), nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	purgeCmd.Flags().IntVarP(&days, "days", "d", 365, "Retention window in days")
	auditCmd.AddCommand(purgeCmd)

	rootCmd.AddCommand(auditCmd)
}
