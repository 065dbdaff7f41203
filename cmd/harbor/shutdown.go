package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/harbor/pkg/cli"
	"mercator-hq/harbor/pkg/config"
	"mercator-hq/harbor/pkg/downstream"
)

var shutdownFlags struct {
	addr    string
	output  string
	timeout time.Duration
}

// shutdownReply is what the shutdown command prints.
type shutdownReply struct {
	Address string `json:"address"`
	Status  int    `json:"status"`
	Reply   string `json:"reply"`
}

func (r shutdownReply) String() string {
	return r.Reply
}

var shutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "Ask a running harbor instance to shut down gracefully",
	Long: `Call the /shutdown endpoint of a running instance and print its reply.

The instance stops accepting connections and exits once its in-flight
requests have completed. The command returns as soon as the instance has
acknowledged the request.

Examples:
  # Local instance on the default port
  harbor shutdown

  # Remote instance, JSON output
  harbor shutdown --addr 10.0.0.5:3000 --output json`,
	RunE: runShutdown,
}

func init() {
	rootCmd.AddCommand(shutdownCmd)

	shutdownCmd.Flags().StringVarP(&shutdownFlags.addr, "addr", "a",
		net.JoinHostPort(config.DefaultHost, strconv.Itoa(config.DefaultPort)), "address of the running instance")
	shutdownCmd.Flags().StringVarP(&shutdownFlags.output, "output", "o", "text", "output format (text, json)")
	shutdownCmd.Flags().DurationVar(&shutdownFlags.timeout, "timeout", 10*time.Second, "how long to wait for the reply")
}

func runShutdown(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(shutdownFlags.output)
	if err != nil {
		return cli.NewCommandError("shutdown", err)
	}

	client, err := downstream.New("http://"+shutdownFlags.addr, config.DownstreamConfig{})
	if err != nil {
		return cli.NewCommandError("shutdown", err)
	}
	defer client.CloseIdleConnections()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownFlags.timeout)
	defer cancel()

	resp, err := client.Get(ctx, "/shutdown")
	if err != nil {
		return cli.NewCommandError("shutdown", err)
	}
	if resp.Status != http.StatusOK {
		return cli.NewCommandError("shutdown",
			fmt.Errorf("unexpected status %d: %s", resp.Status, resp.Body))
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), shutdownReply{
		Address: client.BaseURL(),
		Status:  resp.Status,
		Reply:   string(resp.Body),
	})
}
