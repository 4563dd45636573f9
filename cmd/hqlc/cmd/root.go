package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information, set by build flags the way go-dws's cmd/dwscript/cmd
// sets them.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "hqlc",
	Short: "HQL compiler core: reader and AST→IR lowering",
	Long: `hqlc is the command-line front-end for the HQL compiler core.

HQL is a LISP-family surface syntax that lowers to an ECMAScript-compatible
intermediate representation. hqlc exposes the two hard boundary stages of
the core as commands:

  read   tokenize + parse source into the AST and print it
  lower  AST→IR lowering, printing the IR tree as JSON

Code generation from IR to JavaScript text is out of scope for this core;
the JSON that "lower" prints is the boundary artifact an external emitter
would consume.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to .hqlconfig.yaml (default: search cwd and parents)")
}

var noColor bool
