package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/hlvm-dev/hql/internal/diagnostics"
	"github.com/hlvm-dev/hql/internal/reader"
	"github.com/spf13/cobra"
)

var (
	readExpr   string
	readFormat string
)

var readCmd = &cobra.Command{
	Use:   "read [file]",
	Short: "Tokenize and parse HQL source, printing the resulting AST",
	Long: `read runs the reader (tokenizer + parser) over HQL source and prints
the resulting top-level AST forms.

If no file is provided, reads from stdin. Use -e to read a single
expression from the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().StringVarP(&readExpr, "eval", "e", "", "read inline source instead of a file")
	readCmd.Flags().StringVar(&readFormat, "format", "", "output format: text (default) or json")
}

func runRead(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	source, filePath, err := readSourceArg(readExpr, args)
	if err != nil {
		return err
	}

	forms, perr := reader.Read(source, filePath)
	if perr != nil {
		diag := &diagnostics.Diagnostic{
			Kind:    diagnostics.KindParse,
			Message: perr.Error(),
			Pos:     perr.Pos,
			Source:  source,
		}
		fmt.Fprintln(os.Stderr, diag.Format(!noColor))
		return fmt.Errorf("read failed")
	}

	format := readFormat
	if format == "" {
		format = cfg.OutputMode
	}
	if format == "json" {
		return printFormsJSON(forms)
	}
	return printFormsText(forms)
}

func printFormsText(forms []*ast.Node) error {
	for _, f := range forms {
		fmt.Println(f.String())
	}
	return nil
}

func printFormsJSON(forms []*ast.Node) error {
	values := make([]any, len(forms))
	for i, f := range forms {
		values[i] = toJSONValue(f)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(values)
}

// readSourceArg resolves the read/lower commands' shared input precedence:
// inline expression, then file argument, then stdin.
func readSourceArg(expr string, args []string) (source, filePath string, err error) {
	if expr != "" {
		return expr, "<eval>", nil
	}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("error reading file: %w", err)
		}
		return string(data), args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("error reading stdin: %w", err)
	}
	return string(data), "<stdin>", nil
}
