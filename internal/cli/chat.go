package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"vaulta-banking-be/internal/dto"
	"vaulta-banking-be/internal/repository/memory"
	"vaulta-banking-be/internal/service"
	"vaulta-banking-be/pkg/ai/router"
	"vaulta-banking-be/pkg/auth"
	"vaulta-banking-be/pkg/banking"
	"vaulta-banking-be/pkg/flow"
	"vaulta-banking-be/pkg/store"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant in-process against the demo customers",
		Long: "Starts a REPL backed by the embedded fast-path data and an in-memory session store. " +
			"Nothing is persisted and no external service is contacted.",
		RunE: runChat,
	}

	cmd.Flags().StringP("channel", "c", "web_chat", "Channel: phone, sms, web_voice or web_chat")

	RootCmd.AddCommand(cmd)
}

// newLocalAssistant builds the turn engine over the fast path only.
func newLocalAssistant() (service.IAssistantService, error) {
	fast, err := banking.NewDemoFastPath()
	if err != nil {
		return nil, err
	}
	bank := banking.NewService([]banking.Provider{fast})
	return service.NewAssistantService(
		memory.NewSessionRepository(store.DefaultTTLs()),
		store.NewKeyedMutex(),
		router.NewRouter(nil, nil, 0),
		auth.NewGate(bank, []byte("vaultactl")),
		flow.NewHandlers(bank),
	), nil
}

func runChat(cmd *cobra.Command, args []string) error {
	channel, _ := cmd.Flags().GetString("channel")

	assistant, err := newLocalAssistant()
	if err != nil {
		return fmt.Errorf("load demo data: %w", err)
	}

	out := cmd.OutOrStdout()
	you := color.New(color.FgCyan, color.Bold)
	bot := color.New(color.FgGreen)
	meta := color.New(color.FgYellow)

	sessionID := "cli-" + uuid.NewString()
	meta.Fprintf(out, "session %s on %s. Type /reset to start over, /quit to exit.\n", sessionID, channel)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		you.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			sessionID = "cli-" + uuid.NewString()
			meta.Fprintf(out, "new session %s\n", sessionID)
			continue
		}

		res, err := assistant.HandleTurn(context.Background(), &dto.TurnRequest{
			SessionID: sessionID,
			Channel:   channel,
			Text:      line,
		})
		if err != nil {
			color.New(color.FgRed).Fprintf(out, "error: %v\n", err)
			continue
		}
		bot.Fprintf(out, "bot> %s\n", res.Reply)

		var tags []string
		tags = append(tags, "intent="+res.Intent)
		if res.Verified {
			tags = append(tags, "verified")
		}
		if res.Reference != "" {
			tags = append(tags, "ref="+res.Reference)
		}
		if res.Escalate {
			tags = append(tags, "escalated")
		}
		meta.Fprintf(out, "     [%s]\n", strings.Join(tags, " "))

		if res.EndSession {
			meta.Fprintln(out, "session ended")
			return nil
		}
	}
}
