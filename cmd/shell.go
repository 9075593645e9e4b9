package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/corpeningc/unconflict/internal/logging"
	"github.com/corpeningc/unconflict/internal/ui"
)

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive unconflict shell",
		Long:  "Launch an interactive shell for running unconflict commands without repeating the 'unconflict' prefix",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runInteractiveShell(cmd.Root())
		},
	}
}

func runInteractiveShell(root *cobra.Command) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	historyFile := getHistoryFilePath()
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	commands := getCommandNames(root)
	line.SetCompleter(func(line string) (c []string) {
		for _, name := range commands {
			if strings.HasPrefix(name, strings.ToLower(line)) {
				c = append(c, name)
			}
		}
		return
	})

	fmt.Println("unconflict interactive shell. Type 'exit' or press Ctrl+D to quit.")
	fmt.Println("Type 'help' to see available commands.")

	for {
		input, err := line.Prompt("unconflict> ")
		if err != nil {
			// EOF (Ctrl+D) or Ctrl+C
			fmt.Println()
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if quit := handleSpecialCommand(root, input); quit {
			break
		}
	}

	if err := os.MkdirAll(filepath.Dir(historyFile), 0755); err == nil {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}
}

// handleSpecialCommand runs one shell line and reports whether the shell
// should exit.
func handleSpecialCommand(root *cobra.Command, input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit":
		fmt.Println("Goodbye!")
		return true
	case "clear", "cls":
		fmt.Print("\033[H\033[2J")
		return false
	case "help":
		root.Help()
		return false
	}

	executeCommand(input)
	return false
}

// executeCommand runs input through a fresh command tree; errors are printed
// instead of ending the shell.
func executeCommand(input string) {
	parts := parseCommandLine(input)
	if len(parts) == 0 {
		return
	}
	if parts[0] == "unconflict" {
		parts = parts[1:]
	}

	rootCmd := NewRootCmd()
	rootCmd.SetArgs(parts)
	if err := rootCmd.Execute(); err != nil {
		ui.NewReporter(os.Stderr).Error(err)
	}
}

// parseCommandLine splits on spaces, keeping single- or double-quoted
// sections together.
func parseCommandLine(input string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)

	for _, char := range input {
		switch {
		case (char == '"' || char == '\'') && !inQuotes:
			inQuotes = true
			quoteChar = char
		case char == quoteChar && inQuotes:
			inQuotes = false
			quoteChar = 0
		case char == ' ' && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

func getCommandNames(root *cobra.Command) []string {
	var names []string
	for _, cmd := range root.Commands() {
		if cmd.Name() == "shell" || cmd.Hidden {
			continue
		}
		names = append(names, cmd.Name())
	}
	return names
}

func getHistoryFilePath() string {
	return filepath.Join(xdg.StateHome, logging.AppName, "history")
}
