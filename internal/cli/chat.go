package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mekorot-project/mekorot/internal/chat"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open an interactive study conversation",
	Long: `Chat opens a multi-turn conversation with a Torah-scholar persona.
History is kept for the duration of the session; exit with "exit",
"quit", or Ctrl-D.

Chat answers are conversational and not quote-verified; use 'ask' when
you need checked citations.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	manager := chat.NewManager(provider, cfg.Chat.SessionTTL)
	session, err := manager.NewSession(ctx, language())
	if err != nil {
		return err
	}
	defer manager.Close(session.ID)

	fmt.Println("Chat session started. Type 'exit' to leave.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			return nil
		}

		answer, err := session.Ask(ctx, text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Printf("\n%s\n\n", answer)
	}
}
