package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/stock-console/internal/session"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Inspect session credentials",
}

var tokenInspectCmd = &cobra.Command{
	Use:   "inspect <token>",
	Short: "Decode a credential the way the session guard does",
	Long:  `Decodes the credential payload without verifying its signature and prints the role, user and expiry the console would route with.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		claims, err := session.Decode(args[0])
		if err != nil {
			return err
		}
		exp := claims.ExpiresAt.Time
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Role:          %s\n", session.ParseRole(claims.Role))
		if claims.Username != "" {
			fmt.Fprintf(w, "Username:      %s\n", claims.Username)
		}
		if claims.Subject != "" {
			fmt.Fprintf(w, "Subject:       %s\n", claims.Subject)
		}
		fmt.Fprintf(w, "Expires:       %s\n", exp.Format(time.RFC3339))
		authenticated := exp.After(time.Now())
		fmt.Fprintf(w, "Authenticated: %t\n", authenticated)
		if !authenticated {
			fmt.Fprintf(os.Stderr, "Credential expired %s ago\n", time.Since(exp).Round(time.Second))
		}
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenInspectCmd)
	rootCmd.AddCommand(tokenCmd)
}
