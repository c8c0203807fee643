package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lrgrep",
	Short: "Compile error-matching patterns into a recognizer over LR(1) stack suffixes",
	Long: `lrgrep compiles a declarative specification of error-matching patterns,
written against a compiled LR(1) grammar table, into a deterministic
recognizer DFA over reduction-reachable stack suffixes.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
