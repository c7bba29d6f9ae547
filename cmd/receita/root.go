package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/receitaapp/receita-server/internal/config"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// flags collects the persistent flags shared by every command.
var flags config.Flags

var rootCmd = &cobra.Command{
	Use:   "receita",
	Short: "Recipe catalog server",
	Long: `Receita serves a private recipe catalog per account: tags, ingredients
and recipes with images, behind a token-authenticated JSON API.

Settings come from flags, then environment variables, then a .env file.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.Env, "env", "", "Environment: development, staging or production (env ENV)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn or error (env LOG_LEVEL)")
	pf.StringVar(&flags.DataPath, "data-path", "", "Directory for the database and auth key (env DATA_PATH)")
	pf.StringVar(&flags.MediaRoot, "media-root", "", "Directory for uploaded images (env MEDIA_ROOT)")
	pf.StringVar(&flags.EnvFile, "env-file", "", "Path to a .env file (default .env)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createSuperuserCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "receita %s\n", Version)
	},
}
