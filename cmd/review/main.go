package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"studyreview/internal/client"
)

var rootCmd = &cobra.Command{
	Use:   "review",
	Short: "Work through due study reviews from the terminal",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if viper.GetString("email") == "" || viper.GetString("password") == "" {
			return fmt.Errorf("--email and --password (or REVISA_EMAIL and REVISA_PASSWORD) are required")
		}
		return nil
	},
}

func init() {
	viper.SetEnvPrefix("revisa")
	viper.AutomaticEnv()

	flags := rootCmd.PersistentFlags()
	flags.String("server", "http://localhost:8080", "base URL of the review server")
	flags.String("email", "", "account email")
	flags.String("password", "", "account password")
	flags.Duration("timeout", 10*time.Second, "timeout of each request")

	for _, name := range []string{"server", "email", "password", "timeout"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(newSessionCmd(), newAddCmd())
}

// connect logs in with the configured account
func connect(ctx context.Context) (*client.Client, error) {
	c, err := client.New(viper.GetString("server"), viper.GetDuration("timeout"))
	if err != nil {
		return nil, err
	}
	if err := c.Login(ctx, viper.GetString("email"), viper.GetString("password")); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return c, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
