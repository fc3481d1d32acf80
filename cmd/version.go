package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set at link time.
var (
	BuildBranch  string
	BuildVersion string
	BuildTime    string
	Builder      string
)

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "show version",
	Long:  ``,
	Run: func(*cobra.Command, []string) {
		if err := printVersion(); err != nil {
			fmt.Printf("service err: %v", err)
		} else {
			fmt.Printf("service quit")
		}
	},
}

func printVersion() error {
	fmt.Println("cerberus-bmc")
	fields := []struct {
		name  string
		value string
	}{
		{"BuildBranch", BuildBranch},
		{"BuildVersion", BuildVersion},
		{"BuildTime", BuildTime},
		{"Builder", Builder},
	}
	for _, f := range fields {
		fmt.Printf("\033[36m%-16s\033[0m %s\n", f.name, f.value)
	}
	return nil
}
