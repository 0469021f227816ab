package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/listnode/node"
)

var (
	listenAddr   string
	webhookTopic string
)

// webhookCmd groups the webhook commands
var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Receive inbound webhooks",
}

var webhookServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve one webhook node and print every delivery",
	Long: `Start the webhook server with a single webhook node registered under a
random token. Every POST to the printed path is written to stdout as a JSON
message until the command is interrupted.`,
	RunE: runWebhookServe,
}

func init() {
	webhookServeCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (default from webhook.listen)")
	webhookServeCmd.Flags().StringVar(&webhookTopic, "topic", "", "topic set on delivered messages")

	webhookCmd.AddCommand(webhookServeCmd)
}

func runWebhookServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Webhook.Listen
	if listenAddr != "" {
		addr = listenAddr
	}

	n, err := registry.Create("webhook", node.Config{"topic": webhookTopic}, nil)
	if err != nil {
		return err
	}
	src, ok := n.(node.Source)
	if !ok {
		return fmt.Errorf("webhook node is not a source")
	}

	var mu sync.Mutex
	enc := json.NewEncoder(os.Stdout)
	if err := src.Start(func(m node.Message) {
		mu.Lock()
		defer mu.Unlock()
		if err := enc.Encode(m); err != nil {
			logger.Error().Err(err).Msg("Failed to print delivery")
		}
	}); err != nil {
		return err
	}
	defer src.Close()

	if err := hooks.Start(addr); err != nil {
		return err
	}

	if p, ok := n.(interface{ Path() string }); ok {
		fmt.Fprintf(os.Stderr, "Listening on %s%s\n", addr, p.Path())
	}

	<-cmd.Context().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hooks.Shutdown(ctx)
}
