// Package asm implements the `assemble` and `dump` subcommands of the
// asm16 CLI.
package asm

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Manu343726/asm16/pkg/asm16"
	"github.com/Manu343726/asm16/pkg/asm16/assembler"
	"github.com/Manu343726/asm16/pkg/asm16/object"
	"github.com/Manu343726/asm16/pkg/asmconfig"
	"github.com/Manu343726/asm16/pkg/asmlog"
	"github.com/spf13/cobra"
)

var assembleOutputFile string

// AssembleCmd assembles a source file and writes its object dump.
var AssembleCmd = &cobra.Command{
	Use:   "assemble <file>",
	Short: "Assemble a source file into a relocatable object dump",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfgFile, _ := cmd.Flags().GetString("config")
		runAssemble(cfgFile, args[0])
	},
}

func init() {
	AssembleCmd.Flags().StringVarP(&assembleOutputFile, "output", "o", "", "output file (default stdout)")
}

func runAssemble(cfgFile, path string) {
	cfg, err := asmconfig.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := asmlog.New(asmlog.Options{Level: cfg.SlogLevel(), FilePath: cfg.LogFile, Color: cfg.Color})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error setting up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	src, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening %s: %v\n", path, err)
		os.Exit(1)
	}
	defer src.Close()

	sink := asm16.NewSink(logger)
	sink.Strict = cfg.StrictMode
	a := assembler.New(sink)
	if err := a.Run(src); err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", path, err)
		os.Exit(1)
	}
	if sink.Failed() {
		msg := fmt.Sprintf("assembly of %s failed with %d diagnostic(s)", path, len(sink.Diagnostics()))
		fmt.Fprintln(os.Stderr, asmlog.Colorize(slog.LevelError, msg))
		os.Exit(2)
	}

	out := os.Stdout
	if assembleOutputFile != "" {
		f, err := os.Create(assembleOutputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating %s: %v\n", assembleOutputFile, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	obj := object.Build(a.Registry, a.Emitter)
	if err := renderObject(out, obj, cfg.OutputFormat); err != nil {
		fmt.Fprintf(os.Stderr, "error writing output: %v\n", err)
		os.Exit(1)
	}
}

func renderObject(out *os.File, obj *object.Object, format string) error {
	if format == "yaml" {
		return object.DumpYAML(out, obj)
	}
	return object.Dump(out, obj)
}
