package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/nihei9/docblock/config"
	"github.com/nihei9/docblock/docblock"
	"github.com/nihei9/docblock/driver/parser"
	spec "github.com/nihei9/docblock/spec/grammar"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var parseFlags = struct {
	source *string
	format *string
	tables *string
	trace  *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse",
		Short:   "Parse a docblock comment",
		Example: `  cat comment.txt | docblock parse --format json`,
		Args:    cobra.NoArgs,
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.format = cmd.Flags().StringP("format", "f", "", "output format: tree, json, or yaml (default tree)")
	parseFlags.tables = cmd.Flags().StringP("tables", "t", "", "tables file path `docblock compile` wrote (default built-in tables)")
	parseFlags.trace = cmd.Flags().Bool("trace", false, "print every step of the parser to stderr")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v != nil {
			err, ok := v.(error)
			if !ok {
				err = fmt.Errorf("an unexpected error occurred: %v", v)
			}
			fmt.Fprintf(os.Stderr, "%v:\n%v", err, string(debug.Stack()))
			retErr = err
		}
	}()

	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("format") {
		c.Output.Format = *parseFlags.format
	}
	if cmd.Flags().Changed("tables") {
		c.Parser.Tables = *parseFlags.tables
	}
	if cmd.Flags().Changed("trace") {
		c.Parser.Trace = *parseFlags.trace
	}
	err = c.Validate()
	if err != nil {
		return err
	}

	p, err := newParser(c)
	if err != nil {
		return err
	}

	var doc *docblock.Docblock
	{
		src := os.Stdin
		if *parseFlags.source != "" {
			f, err := os.Open(*parseFlags.source)
			if err != nil {
				return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
			}
			defer f.Close()
			src = f
		}

		doc, err = p.Parse(src)
		if err != nil {
			return err
		}
	}

	return writeDocblock(os.Stdout, c.Output.Format, doc)
}

func newParser(c *config.Config) (*docblock.Parser, error) {
	var opts []docblock.ParserOption

	var ptab *spec.ParseTables
	if c.Parser.Tables != "" {
		var err error
		ptab, err = readTables(c.Parser.Tables)
		if err != nil {
			return nil, err
		}
		opts = append(opts, docblock.WithTables(ptab))
	}

	if c.Parser.Trace {
		if ptab == nil {
			var err error
			ptab, err = docblock.Tables()
			if err != nil {
				return nil, err
			}
		}
		tab, err := parser.NewTables(ptab)
		if err != nil {
			return nil, err
		}
		opts = append(opts, docblock.WithObserver(parser.NewTracer(os.Stderr, tab)))
	}

	return docblock.NewParser(opts...)
}

func readTables(path string) (*spec.ParseTables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the tables file %s: %w", path, err)
	}
	defer f.Close()

	tab, err := spec.ReadTables(f)
	if err != nil {
		return nil, fmt.Errorf("Cannot read the tables file %s: %w", path, err)
	}
	return tab, nil
}

func writeDocblock(w io.Writer, format string, doc *docblock.Docblock) error {
	switch format {
	case config.FormatJSON:
		b, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(b))
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err := enc.Encode(doc)
		if err != nil {
			return err
		}
		return enc.Close()
	default:
		docblock.PrintTree(w, doc)
	}
	return nil
}
