// Version command for the trove CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/trove/pkg/trove"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the trove version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("trove", trove.Version)
	},
}
