// Package cmd wires the asm16 CLI: a cobra root command carrying the
// assemble and dump subcommands, with configuration loaded through viper
// the same way the reference CLI's root command does.
package cmd

import (
	"os"

	"github.com/Manu343726/asm16/cmd/asm"
	"github.com/spf13/cobra"
)

var cfgFile string

// RootCmd is the base command when asm16 is invoked without a subcommand.
var RootCmd = &cobra.Command{
	Use:   "asm16",
	Short: "A single-pass assembler for a small 16-bit instruction set",
	Long: `asm16 assembles 16-bit assembly source into a relocatable object:
a symbol table, per-section machine code, and per-section relocation records.`,
}

// Execute runs RootCmd, whose subcommands are registered in init. Called
// once from main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.asm16.yaml)")
	RootCmd.AddCommand(asm.AssembleCmd, asm.DumpCmd)
}
