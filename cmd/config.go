package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/datalens/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set DataLens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		b, err := yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			p, err := cfgpkg.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
		// defaults only: ignore environment overrides and any existing file
		if err := cfgpkg.Save(cfgpkg.Defaults(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote config to %s\n", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := currentConfig()
		if err != nil {
			return err
		}
		positive := func() (int, error) {
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return 0, fmt.Errorf("invalid positive int for %s: %v", key, val)
			}
			return i, nil
		}
		switch key {
		case "listen_addr":
			c.ListenAddr = val
		case "allowed_origins":
			var origins []string
			for _, o := range strings.Split(val, ",") {
				if o = strings.TrimSpace(o); o != "" {
					origins = append(origins, o)
				}
			}
			c.AllowedOrigins = origins
		case "max_upload_mb":
			if c.MaxUploadMB, err = positive(); err != nil {
				return err
			}
		case "read_timeout_sec":
			if c.ReadTimeoutSec, err = positive(); err != nil {
				return err
			}
		case "write_timeout_sec":
			if c.WriteTimeoutSec, err = positive(); err != nil {
				return err
			}
		case "idle_timeout_sec":
			if c.IdleTimeoutSec, err = positive(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
}
