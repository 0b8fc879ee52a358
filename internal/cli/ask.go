package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.TrimSpace(strings.Join(args, " "))

		chat, err := newChat(cmd.Context())
		if err != nil {
			return err
		}

		answer, err := chat.Ask(cmd.Context(), question)
		if err != nil {
			return err
		}

		fmt.Println(answer)
		return nil
	},
}
