package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/argolab/floatchat/internal/tui"
)

var chatUseTUI bool

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question answering session",
	Long: `Starts an interactive session against the persisted profile index.
Type a question and press enter; type "exit" or "quit" to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		chat, err := newChat(cmd.Context())
		if err != nil {
			return err
		}

		if chatUseTUI {
			return tui.Run(cmd.Context(), chat)
		}
		return runREPL(cmd.Context(), chat, os.Stdin, os.Stdout)
	},
}

type asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// runREPL reads questions until EOF or an exit word. A failed question
// is reported and the loop keeps prompting.
func runREPL(ctx context.Context, chat asker, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, faintStyle.Render(`Ask a question about the ocean float profiles ("exit" or "quit" to leave).`))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, promptStyle.Render("> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(question) {
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(out, faintStyle.Render("Goodbye."))
			return nil
		}

		answer, err := chat.Ask(ctx, question)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
			continue
		}
		fmt.Fprintln(out, answerStyle.Render(answer))
		fmt.Fprintln(out)
	}
}

func init() {
	chatCmd.Flags().BoolVar(&chatUseTUI, "tui", false, "use the full-screen terminal interface")
}
