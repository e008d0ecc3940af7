package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexroster/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Show or create the lexroster configuration file.

Values are read from ~/.lexroster/config.toml (or --config) and can be
overridden by LEXROSTER_* environment variables.`,
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE:        runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show the effective configuration",
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE:        runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a default configuration file",
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE:        runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the configuration file path",
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE:        runConfigPath,
}

var configForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func resolvedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	masked := *cfg
	masked.Engine.Password = maskSecret(cfg.Engine.Password)
	masked.Engine.APIKey = maskSecret(cfg.Engine.APIKey)
	masked.Blob.SecretAccessKey = maskSecret(cfg.Blob.SecretAccessKey)
	masked.Mongo.URI = maskURI(cfg.Mongo.URI)

	data, err := toml.Marshal(&masked)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	cmd.Print(string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	cmd.Printf("Wrote %s\n", path)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}
	cmd.Println(path)
	return nil
}

// maskAPIKey masks an API key for display, showing only the first and last 4 characters.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// maskSecret masks a non-empty secret and leaves an unset one empty.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return maskAPIKey(s)
}

// maskURI hides the password of a connection string.
func maskURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
