package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ayeco/segnalago/config"
	"github.com/ayeco/segnalago/internal/chat"
	"github.com/ayeco/segnalago/internal/vlm"
)

// runChat starts the interactive assistant session on the terminal.
func runChat(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	model, err := vlm.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize model client: %w", err)
	}

	session := chat.NewSession(model)

	fmt.Println(titleStyle.Render("💬 Assistente Comunale"))
	fmt.Println("Scrivi un messaggio, oppure 'esci' per terminare.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("🧑 > ")
		line, err := reader.ReadString('\n')
		if err != nil {
			// EOF ends the session
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if lower := strings.ToLower(line); lower == "esci" || lower == "exit" || lower == "quit" {
			fmt.Println("👋 Arrivederci!")
			return nil
		}

		session.AppendUserTurn(line, nil)
		reply, err := session.RequestReply(ctx)
		if err != nil {
			var callErr *vlm.ModelCallError
			if errors.As(err, &callErr) {
				fmt.Println(warnStyle.Render("Errore di comunicazione con il modello: " + callErr.Err.Error()))
				fmt.Println(warnStyle.Render("Riprova tra qualche istante."))
				continue
			}
			return err
		}

		fmt.Println(assistantStyle.Render("🏛️  " + vlm.MessageText(reply)))
		fmt.Println()
	}
}
