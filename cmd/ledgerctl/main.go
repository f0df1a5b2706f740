package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/clinicbackend/internal/config"
	"github.com/clinicbackend/internal/ledger"
)

// ledgerctl is an ops tool for poking the history ledger directly, without
// going through the API: connectivity checks and raw history reads.

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operational access to the prescription history ledger",
	}
	rootCmd.AddCommand(pingCmd(), historyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func connect() (*ledger.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return ledger.Connect(cfg.Ledger)
}

func pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity to the ledger node",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connect()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := client.Ping(ctx); err != nil {
				return err
			}
			fmt.Println("ledger node reachable")
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <patientId>",
		Short: "Read a patient's prescription history straight off the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connect()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			entries, err := client.QueryHistory(ctx, args[0])
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
