/*
Copyright © 2025 Paul Evans
*/
package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/PaulEvans8669/incidents/pkg/deprecation"
)

const (
	exampleConfig = `
# Example incidents configuration file
---
# This is an example configuration file for incidents.  It is intended to be
# used as a reference for the configuration options available to the user.
# The configuration file is located at ~/.config/incidents/incidents.yaml

# Required configuration options

# Base URL of the incident tracking API
api_url: http://localhost:8080/api

# Optional configuration options

# Name recorded as the actor on timeline events and notes
actor: system

# Seconds between background refreshes of the incident list
refresh_interval_seconds: 30

# Enable debug logging
debug: false`
)

const description = `The config command is used to create or validate the incidents config file.
The config file is located at ~/.config/incidents/incidents.yaml and is used
to store the configuration options for the incidents application.`

var (
	requiredKeys = map[string]string{
		"api_url": "Base URL of the incident tracking API",
	}
	defaultOptionalKeys = map[string]string{
		"actor":                    defaultActor,
		"refresh_interval_seconds": fmt.Sprintf("%d", defaultRefreshSeconds),
		"debug":                    "false",
	}
	optionalKeys = map[string]string{
		"actor":                    fmt.Sprintf("Name recorded on timeline events and notes (default: %v)", defaultOptionalKeys["actor"]),
		"refresh_interval_seconds": fmt.Sprintf("Seconds between list refreshes (default: %v)", defaultOptionalKeys["refresh_interval_seconds"]),
		"debug":                    "Enable debug logging (default: false)",
	}
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:          "config",
	Short:        "Create or validate the incidents config file",
	Long:         description + "\n\n" + exampleConfig,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case cmd.Flag("create").Value.String() == "true":
			fmt.Println(exampleConfig)
			return nil
		case cmd.Flag("validate").Value.String() == "true":
			err := validateConfig()
			if err != nil {
				return err
			}
			fmt.Printf("Config file is valid\n")
			return nil
		default:
			err := cmd.Usage()
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolP("create", "c", false, "print a sample config file")
	configCmd.Flags().BoolP("validate", "v", false, "validate the config file")
	configCmd.MarkFlagsMutuallyExclusive("create", "validate")
}

// validateConfig prints the viper info passed into the program
func validateConfig() error {
	errs := []error{}
	settings := viper.GetViper().AllSettings()
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if deprecation.Deprecated(k) {
			log.Info("Found deprecated key; you may remove this from your config", "key_name", k)
			continue
		}

		log.Debug("Found key", k, fmt.Sprintf("%v", settings[k]))
	}

	for k, v := range requiredKeys {
		if _, ok := settings[k]; !ok {
			errs = append(errs, fmt.Errorf("missing required key: %s ", k))
			log.Error("Missing required key", "key_name", k, "key_description", v)
		}
	}

	for k := range optionalKeys {
		_, ok := settings[k]
		if !ok {
			log.Warn("missing optional key: " + k + "; using default value " + defaultOptionalKeys[k])
			viper.Set(k, defaultOptionalKeys[k])
		}
	}

	return errors.Join(errs...)
}
