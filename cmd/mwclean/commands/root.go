// Package commands implements the CLI commands for mwclean.
package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "mwclean",
	Short: "Strip MediaWiki skin furniture from rendered wiki pages",
	Long: `mwclean turns skinned MediaWiki page HTML into portable markup.

It removes edit-section links, the sidebar, category links, the print
footer and other skin furniture, and folds legacy <a name="..."> deep-link
anchors into heading ids. Use it when a wiki's parse API
(api.php?action=parse) is unavailable and only the rendered pages can be
fetched.

Examples:
  # Clean a saved page
  mwclean clean page.html

  # Clean straight off a wiki
  mwclean clean https://wiki.example.org/wiki/Main_Page

  # Prefer the wiki's own clean output, fall back to local cleanup
  mwclean clean --api https://wiki.example.org/w/api.php "Main Page"

  # Clean stdin to stdout, with a YAML report on stderr
  mwclean clean --report yaml < page.html > cleaned.html`,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.mwclean.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().Bool("log-json", false, "log in JSON format")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".mwclean")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("MWCLEAN")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
