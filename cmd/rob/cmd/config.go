package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rustyeddy/rob/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Store brokerage credentials",
	Long: `Write credentials to the user-level credentials file
(~/.config/rob/.env, owner-readable only). Values not passed as flags
are prompted for, with existing values as defaults.

Examples:
  rob config
  rob config --username me@example.com --totp-secret JBSWY3DPEHPK3PXP
  rob config init`,
	RunE: runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default settings file",
	Long: `Create the settings file with default values (rounding increment,
journal database, session cache path).

Example:
  rob config init`,
	RunE: runConfigInit,
}

var (
	configUsername   string
	configPassword   string
	configTOTPSecret string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configCmd.Flags().StringVarP(&configUsername, "username", "u", "", "brokerage username (email)")
	configCmd.Flags().StringVarP(&configPassword, "password", "p", "", "brokerage password")
	configCmd.Flags().StringVarP(&configTOTPSecret, "totp-secret", "t", "", "TOTP secret for automatic 2FA")
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := config.UserEnvPath()
	if path == "" {
		return fmt.Errorf("cannot resolve home directory")
	}

	existing := config.ReadCredentialsFile(path)
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	creds := config.Credentials{
		Username:   configUsername,
		Password:   configPassword,
		TOTPSecret: configTOTPSecret,
	}

	if creds.Username == "" {
		fmt.Fprintf(out, "Enter brokerage username (email) [%s]: ", existing.Username)
		line, err := in.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read username: %w", err)
		}
		creds.Username = strings.TrimSpace(line)
		if creds.Username == "" {
			creds.Username = existing.Username
		}
	}

	if creds.Password == "" {
		fmt.Fprint(out, "Enter brokerage password: ")
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		creds.Password = string(pw)
		if creds.Password == "" {
			creds.Password = existing.Password
		}
	}

	if creds.TOTPSecret == "" {
		fmt.Fprintf(out, "Enter TOTP secret (optional, for automatic 2FA) [%s]: ", existing.TOTPSecret)
		line, err := in.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read TOTP secret: %w", err)
		}
		creds.TOTPSecret = strings.TrimSpace(line)
		if creds.TOTPSecret == "" {
			creds.TOTPSecret = existing.TOTPSecret
		}
	}

	if err := config.SaveCredentials(path, creds); err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Credentials saved to %s\n", path)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := settingsPath
	if path == "" {
		path = config.DefaultSettingsPath()
	}
	if path == "" {
		return fmt.Errorf("cannot resolve home directory")
	}

	if err := config.DefaultSettings().SaveToFile(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created default settings: %s\n", path)
	return nil
}
