package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/clipboard"
	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/comfy"
	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/logutil"
	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/watcher"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit the current clipboard content once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logutil.Setup(cfg.EnableFileLogging)

		if err := clipboard.Init(); err != nil {
			return fmt.Errorf("failed to initialize clipboard: %w", err)
		}

		client := comfy.New(cfg.APIURL, cfg.ClientID, cfg.SubmitTimeout)
		loop := watcher.New(cfg, readerFunc(clipboard.Read), client)

		ack, err := loop.RunOnce(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Prompt queued: %s\n", ack.PromptID)
		return nil
	},
}
