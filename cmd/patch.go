/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/allbin/fwkit/internal/patcher"
)

// patchCmd represents the patch command
var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Fix the admin page body block in the firmware source",
	Long: `Replace the broken admin page body assignment in handleAdminPage with
the corrected block.

The file is rewritten in place only when the block was found. When it was
not, the text following 'void handleAdminPage' is printed to help locate
it. Running the command again on a patched file changes nothing.

Examples:
  fwkit patch
  fwkit patch --file firmware/src/main.cpp`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		result, err := patcher.New(afero.NewOsFs()).Run(cfg.Patch.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := patcher.Report(os.Stdout, result); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(patchCmd)

	patchCmd.Flags().StringP("file", "f", patcher.DefaultFile, "Firmware source file to patch")
	v.BindPFlag("patch.file", patchCmd.Flags().Lookup("file"))
}
