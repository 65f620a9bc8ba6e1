package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"vaulta-banking-be/internal/pkg/serverutils"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator JWT for the admin API",
		RunE:  runToken,
	}

	cmd.Flags().StringP("subject", "s", "", "Operator name (required)")
	cmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
	cmd.Flags().String("secret", "", "Signing secret (default: $JWT_SECRET)")

	_ = cmd.MarkFlagRequired("subject")

	RootCmd.AddCommand(cmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	subject, _ := cmd.Flags().GetString("subject")
	ttl, _ := cmd.Flags().GetDuration("ttl")
	secret, _ := cmd.Flags().GetString("secret")
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		return errors.New("no signing secret: pass --secret or set JWT_SECRET")
	}

	token, err := serverutils.IssueOperatorToken(secret, subject, ttl)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
