package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/history"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newHistoryCmd(v *viper.Viper) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List a user's conversions from the SQLite history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			if cfg.HistoryDB == "" {
				return fmt.Errorf("HISTORY_DB must be set (or pass --history-db)")
			}

			rec, err := history.OpenSQLite(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer rec.Close()

			convs, err := rec.ListByUser(cmd.Context(), userID)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CREATED\tSTATUS\tIMAGES\tPAGES\tERROR")
			for _, c := range convs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
					c.CreatedAt.Format(time.RFC3339), c.Status, c.ImageCount, c.PageCount, c.ErrorDetails)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Telegram user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
