package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/comfy"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the ComfyUI server and report queue depth",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		client := comfy.New(cfg.APIURL, cfg.ClientID, cfg.SubmitTimeout)
		ctx := context.Background()

		if err := client.Ping(ctx); err != nil {
			return fmt.Errorf("%s: unreachable: %w", cfg.APIURL, err)
		}
		info, err := client.QueueStatus(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s: up, %d prompt(s) in queue\n", cfg.APIURL, info.ExecInfo.QueueRemaining)
		return nil
	},
}
