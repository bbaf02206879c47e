package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon runtime information",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			status, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, status)
			}
			colorize := shouldColorize(out)

			running := "stopped"
			if status.Running {
				running = "running"
			}
			fmt.Fprintf(out, "Daemon:   %s (pid %d)\n", colorState(running, status.Running, colorize), status.PID)
			fmt.Fprintf(out, "Script:   %s (%d scenes)\n", status.ScriptPath, status.SceneCount)
			fmt.Fprintf(out, "Lock:     %s\n", status.LockFilePath)
			fmt.Fprintf(out, "Render:   %s at %d%%\n", status.Render.Status, status.Render.Progress)
			if status.Render.Error != "" {
				fmt.Fprintf(out, "Error:    %s\n", colorText(status.Render.Error, ansiRed, colorize))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit raw JSON instead of text")
	return cmd
}

func colorState(label string, healthy, colorize bool) string {
	if !colorize {
		return label
	}
	if healthy {
		return ansiGreen + label + ansiReset
	}
	return ansiYellow + label + ansiReset
}

func colorText(value, color string, colorize bool) string {
	if !colorize {
		return value
	}
	return color + value + ansiReset
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
