package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/config"
)

// version is set at build time via -ldflags.
var version = "dev"

var envPath string

var rootCmd = &cobra.Command{
	Use:   "clipcomfy",
	Short: "Submit clipboard content to ComfyUI workflows",
	Long: "Clipcomfy watches the OS clipboard and injects new images or text\n" +
		"into a ComfyUI workflow template, then queues it for execution.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envPath, "env", "", "path to a .env configuration file")
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.Version = version
}

// loadConfig loads configuration honoring the --env flag.
func loadConfig() (*config.Config, error) {
	return config.LoadWithOptions(config.LoadOptions{EnvPathOverride: envPath})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
