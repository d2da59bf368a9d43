package main

import (
	"fmt"
	"os"

	"github.com/nihei9/docblock/driver/lexer"
	"github.com/spf13/cobra"
)

var tokenizeFlags = struct {
	source *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "tokenize",
		Short:   "Tokenize a docblock comment",
		Example: `  cat comment.txt | docblock tokenize`,
		Args:    cobra.NoArgs,
		RunE:    runTokenize,
	}
	tokenizeFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	rootCmd.AddCommand(cmd)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	src := os.Stdin
	if *tokenizeFlags.source != "" {
		f, err := os.Open(*tokenizeFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *tokenizeFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	lex, err := lexer.NewLexer(nil, src)
	if err != nil {
		return err
	}
	for {
		tok, err := lex.Next()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%v:%v: %v\n", tok.Row+1, tok.Col+1, tok)
		if tok.EOF {
			break
		}
	}

	return nil
}
