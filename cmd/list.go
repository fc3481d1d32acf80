package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scuellar/cerberus/internal/litmus"
)

var listCommand = &cobra.Command{
	Use:   "list",
	Short: "list the built-in litmus tests",
	Long:  ``,
	Run: func(*cobra.Command, []string) {
		for _, prog := range litmus.Programs() {
			fmt.Printf("%-12s %s\n", prog.Name, prog.Description)
		}
	},
}
