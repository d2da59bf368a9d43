package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nihei9/docblock/docblock"
	"github.com/nihei9/docblock/grammar"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output *string
	report *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Generate parse tables of the docblock grammar",
		Example: `  docblock compile -o docblock.json -r docblock-report.json`,
		Args:    cobra.NoArgs,
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.report = cmd.Flags().StringP("report", "r", "", "report file path (no report by default)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	var opts []grammar.CompileOption
	if *compileFlags.report != "" {
		opts = append(opts, grammar.EnableReporting())
	}

	tab, report, err := docblock.Compile(opts...)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *compileFlags.output != "" {
		f, err := os.OpenFile(*compileFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("Cannot open the output file %s: %w", *compileFlags.output, err)
		}
		defer f.Close()
		w = f
	}
	err = tab.Write(w)
	if err != nil {
		return err
	}

	if report != nil {
		b, err := json.Marshal(report)
		if err != nil {
			return err
		}
		err = os.WriteFile(*compileFlags.report, b, 0644)
		if err != nil {
			return fmt.Errorf("Cannot write the report %s: %w", *compileFlags.report, err)
		}
	}

	return nil
}
