package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/clipboard"
	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/comfy"
	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/logutil"
	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the clipboard and queue a workflow on every new image or text",
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

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Fail fast when ComfyUI is unreachable instead of on the first
		// clipboard change.
		if err := client.Ping(ctx); err != nil {
			return fmt.Errorf("startup check failed: %w (is ComfyUI running at %s?)", err, cfg.APIURL)
		}

		log.Printf("Using workflow template: %s", cfg.WorkflowTemplate)
		log.Printf("ComfyUI API: %s (client id %s)", cfg.APIURL, cfg.ClientID)

		loop := watcher.New(cfg, readerFunc(clipboard.Read), client)
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

// readerFunc adapts the clipboard package's Read to the watcher interface.
type readerFunc func() clipboard.Snapshot

func (f readerFunc) Read() clipboard.Snapshot { return f() }
