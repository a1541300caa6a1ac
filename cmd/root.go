/*
Copyright © 2025 Paul Evans

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package cmd

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/PaulEvans8669/incidents/pkg/api"
	"github.com/PaulEvans8669/incidents/pkg/cache"
	"github.com/PaulEvans8669/incidents/pkg/tui"
)

const cfgFile = "incidents.yaml"
const cfgFilePath = ".config/incidents/"

const (
	defaultActor          = "system"
	defaultRefreshSeconds = 30
)

var debug bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "incidents",
	Short: "TUI for tracking and working incidents",
	Long: `'incidents' is a TUI client for an incident tracking service.
It lists the open incident feed, supports filtering by text, status
and severity, and lets the operator create incidents, edit them,
resolve them with a note, and append timeline events and notes --
without leaving the terminal.`,

	Run: func(cmd *cobra.Command, args []string) {
		if debug {
			log.SetLevel(log.DebugLevel)
			for k, v := range viper.GetViper().AllSettings() {
				log.Debug("config", "key", k, "value", v)
			}
		}

		apiURL := viper.GetString("api_url")
		if apiURL == "" {
			fmt.Fprintln(os.Stderr, "api_url is required; run 'incidents config --create' for an example config")
			os.Exit(1)
		}

		actor := viper.GetString("actor")
		if actor == "" {
			actor = defaultActor
		}

		refreshSeconds := viper.GetInt("refresh_interval_seconds")
		if refreshSeconds <= 0 {
			refreshSeconds = defaultRefreshSeconds
		}
		refresh := time.Duration(refreshSeconds) * time.Second

		client := api.New(apiURL)
		store := cache.New(refresh)

		m := tui.InitialModel(tui.Config{
			Client:       client,
			Store:        store,
			Actor:        actor,
			RefreshEvery: refresh,
		})

		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			log.Fatal(err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debugging output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Find home directory.
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.AddConfigPath(home + "/" + cfgFilePath)
	viper.SetConfigName(cfgFile)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Fprintln(os.Stderr, "Config file not found: "+err.Error())
		} else {
			fmt.Fprintln(os.Stderr, "Config file error: "+err.Error())
		}
	}
}
