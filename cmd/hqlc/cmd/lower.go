package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hlvm-dev/hql/internal/diagnostics"
	"github.com/hlvm-dev/hql/internal/lower"
	"github.com/hlvm-dev/hql/internal/reader"
	"github.com/spf13/cobra"
)

var lowerExpr string

var lowerCmd = &cobra.Command{
	Use:   "lower [file]",
	Short: "Lower HQL source to IR and print the IR tree as JSON",
	Long: `lower runs the full read → AST→IR pipeline and prints the resulting
IR program as JSON.

This is the boundary artifact the (out-of-scope) JavaScript emitter would
consume; hqlc itself does not generate JavaScript source text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLower,
}

func init() {
	rootCmd.AddCommand(lowerCmd)
	lowerCmd.Flags().StringVarP(&lowerExpr, "eval", "e", "", "lower inline source instead of a file")
}

func runLower(cmd *cobra.Command, args []string) error {
	source, filePath, err := readSourceArg(lowerExpr, args)
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

	currentDir := "."
	if filePath != "<eval>" && filePath != "<stdin>" {
		currentDir = filepath.Dir(filePath)
	}

	prog, lerr := lower.Lower(forms, currentDir)
	if lerr != nil {
		var diag *diagnostics.Diagnostic
		if errors.As(lerr, &diag) {
			diag.Source = source
			fmt.Fprintln(os.Stderr, diag.Format(!noColor))
		} else {
			fmt.Fprintln(os.Stderr, lerr)
		}
		return fmt.Errorf("lowering failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSONValue(prog.Body))
}
