package cli

import (
	"encoding/json"
	"fmt"

	"vaulta-banking-be/pkg/credentials"

	"github.com/spf13/cobra"
)

func init() {
	redactCmd := &cobra.Command{
		Use:   "redact [text...]",
		Short: "Print text with credentials replaced by placeholders",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), credentials.Redact(text))
			return nil
		},
	}

	extractCmd := &cobra.Command{
		Use:   "extract [text...]",
		Short: "Show which customer ID and PIN the assistant would read from text",
		Long:  "Prints the extracted credentials as JSON. The PIN is masked unless --reveal is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			reveal, _ := cmd.Flags().GetBool("reveal")

			creds := credentials.Extract(text)
			pin := creds.PIN
			if pin != "" && !reveal {
				pin = "****"
			}
			b, _ := json.MarshalIndent(map[string]string{
				"customer_id": creds.CustomerID,
				"pin":         pin,
				"normalized":  credentials.NormalizeSpokenDigits(text),
			}, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	extractCmd.Flags().Bool("reveal", false, "Print the PIN in clear")

	RootCmd.AddCommand(redactCmd, extractCmd)
}
