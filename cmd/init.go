package cmd

import (
	"fmt"

	"github.com/nikogura/resume-builder/pkg/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long: `Create a config file with default settings at the --config path, or at
$HOME/.resume-builder/config.json. An existing file is never overwritten.

The API key may be left as a placeholder and supplied with RESUME_BUILDER_API_KEY,
PERPLEXITY_API_KEY, or a .env file instead.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	path := getConfigFile()
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	err = config.InitConfig(path)
	if err != nil {
		err = errors.Wrap(err, "failed to create config")
		return err
	}

	fmt.Printf("Config written to %s\n", path)
	fmt.Println("Set api_key in the file, or export RESUME_BUILDER_API_KEY.")
	return err
}
