package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amd-chrissosa/SHARK-Platform/internal/system"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Shortfin v0.1.0")
		fmt.Println("A host and device storage runtime")
		fmt.Println("")
		fmt.Printf("Platform: %s/%s\n", system.Platform(), system.Architecture())
		fmt.Println("Go version: 1.22+")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
