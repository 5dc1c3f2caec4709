package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/calvindb/calvindb/pkg/client"
)

var runCmd = &cobra.Command{
	Use:   "run <statement>",
	Short: "Submit a single statement to a running node and print its result",
	Long: `run connects to a node's RunStmt API, submits one statement, and
prints whatever rows it returns. It exists for manual poking at a
cluster directly from the command line.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("addr", "127.0.0.1:7477", "Node gRPC address")
	runCmd.Flags().Duration("timeout", 5*time.Second, "RPC timeout")
}

func runRun(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	c, err := client.NewClient(addr)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	query := strings.Join(args, " ")
	resp, err := c.RunStmt(ctx, query)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if len(resp.Results) == 0 {
		fmt.Println("OK")
		return nil
	}
	for _, row := range resp.Results {
		fmt.Printf("%d\n", row.Val)
	}
	return nil
}
