package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mekorot-project/mekorot/internal/version"
)

var (
	cfgFile string
	verbose bool
	jsonOut bool
	langStr string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mekorot",
	Short: "Mekorot - quote-verified Torah source search",
	Long: `Mekorot is a research assistant for Halachic and Torah questions.

It finds sources with a generative model, then fetches every cited text
from the Sefaria repository and keeps only quotes that literally appear
in the retrieved text. The model proposes; the repository disposes.

Results are study aids, not rulings. For practical Halacha, consult a
qualified authority.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.mekorot/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().StringVar(&langStr, "lang", "he", "prompt and output language (he, en)")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output.json", rootCmd.PersistentFlags().Lookup("json"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.mekorot")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match MEKOROT_*
	viper.SetEnvPrefix("MEKOROT")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
