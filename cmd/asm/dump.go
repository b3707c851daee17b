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

var dumpFormat string

// DumpCmd assembles a source file and always prints its object dump to
// stdout in the requested format, ignoring the config file's output_format.
var DumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Assemble a source file and print its object dump",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfgFile, _ := cmd.Flags().GetString("config")
		runDump(cfgFile, args[0])
	},
}

func init() {
	DumpCmd.Flags().StringVar(&dumpFormat, "format", "text", `dump format: "text" (bit-exact) or "yaml"`)
}

func runDump(cfgFile, path string) {
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

	obj := object.Build(a.Registry, a.Emitter)
	if err := renderObject(os.Stdout, obj, dumpFormat); err != nil {
		fmt.Fprintf(os.Stderr, "error writing output: %v\n", err)
		os.Exit(1)
	}
}
