package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nihei9/lrgrep/internal/dfa"
	"github.com/nihei9/lrgrep/internal/dsl/lex"
	"github.com/nihei9/lrgrep/internal/dsl/parse"
	"github.com/nihei9/lrgrep/internal/dsl/resolve"
	"github.com/nihei9/lrgrep/internal/kre"
	"github.com/nihei9/lrgrep/internal/lerr"
	"github.com/nihei9/lrgrep/internal/lr1"
)

// version is lrgrep's own release version, printed by '-v'/'--version' and
// '--vnum' (§6.3).
const version = "0.1.0"

var compileFlags = struct {
	output         *string
	grammar        *string
	quiet          *bool
	dryRun         *bool
	dumpTree       *bool
	compress       *bool
	showVersion    *bool
	showVersionNum *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a pattern spec into a recognizer DFA",
		Example: `  lrgrep compile -g grammar.json -o recognizer.go spec.lrgrep`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.grammar = cmd.Flags().StringP("grammar", "g", "", "compiled LR(1) grammar table (§6.1)")
	compileFlags.quiet = cmd.Flags().BoolP("quiet", "q", false, "suppress informational output")
	compileFlags.dryRun = cmd.Flags().BoolP("dry-run", "n", false, "parse the spec only, write nothing")
	compileFlags.dumpTree = cmd.Flags().BoolP("dump-tree", "d", false, "dump the parsed clause tree instead of compiling")
	compileFlags.compress = cmd.Flags().BoolP("compress", "c", false, "pack the generated transition table (row displacement) instead of emitting it as a map")
	compileFlags.showVersion = cmd.Flags().BoolP("version", "v", false, "print the version and exit")
	compileFlags.showVersionNum = cmd.Flags().Bool("vnum", false, "print the bare version number and exit")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	if *compileFlags.showVersion {
		fmt.Fprintf(os.Stdout, "lrgrep version %v\n", version)
		return nil
	}
	if *compileFlags.showVersionNum {
		fmt.Fprintf(os.Stdout, "%v\n", version)
		return nil
	}

	if *compileFlags.grammar == "" {
		return lerr.ConfigErr(fmt.Errorf("missing required -g/--grammar flag"))
	}

	var specPath string
	if len(args) > 0 {
		specPath = args[0]
	}

	src, sourceName, err := readSpecSource(specPath)
	if err != nil {
		return lerr.ConfigErr(err)
	}

	g, err := loadGrammarTable(*compileFlags.grammar)
	if err != nil {
		return lerr.ConfigErr(err)
	}

	lexer, err := lex.New()
	if err != nil {
		return lerr.ConfigErr(err)
	}

	file, errs := parse.Parse(sourceName, src, lexer)
	if errs != nil {
		return errs
	}

	if *compileFlags.dumpTree {
		pterm.DefaultBasicText.Println(dumpTree(file))
		return nil
	}

	rules, errs := resolve.Resolve(g, file)
	if errs != nil {
		return errs
	}

	if *compileFlags.dryRun {
		if !*compileFlags.quiet {
			pterm.Info.Printfln("parsed %v rule(s), %v clause(s) total, no output written", len(rules), totalClauses(rules))
		}
		return nil
	}

	var out strings.Builder
	out.WriteString(file.Header)
	for _, r := range rules {
		d, err := dfa.Compile(g, ruleClauses(r))
		if err != nil {
			return err
		}
		if !*compileFlags.quiet {
			pterm.Info.Printfln("rule %v: %v clause(s), %v DFA state(s)", r.Name, len(r.Patterns), len(d.States))
		}
		if *compileFlags.compress {
			tables, err := dfa.RenderCompressedTables(r.Name, d, g)
			if err != nil {
				return err
			}
			out.WriteString(tables)
		} else {
			out.WriteString(dfa.RenderTables(r.Name, d))
		}
		out.WriteString("\n")
	}
	out.WriteString(file.Trailer)

	return writeOutput(*compileFlags.output, out.String())
}

// readSpecSource reads the DSL spec from a file path, or from stdin when
// no positional argument is given (§6.3: "source spec file"), mirroring
// vartan compile's own stdin-fallback convention.
func readSpecSource(path string) ([]byte, string, error) {
	if path == "" {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", err
		}
		return src, "stdin", nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("cannot open the spec file %s: %w", path, err)
	}
	return src, path, nil
}

func loadGrammarTable(path string) (*lr1.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open the grammar table %s: %w", path, err)
	}
	defer f.Close()

	tab, err := lr1.LoadTable(f)
	if err != nil {
		return nil, err
	}
	return lr1.FromTable(tab)
}

// ruleClauses assembles r's resolved patterns and their §6.4 action-dispatch
// metadata (code body, partial/unreachable kind) into the kre.Clause form
// dfa.Compile needs.
func ruleClauses(r *resolve.Rule) []kre.Clause {
	clauses := make([]kre.Clause, len(r.Patterns))
	for i, p := range r.Patterns {
		clauses[i] = kre.Clause{
			Pattern:     p,
			Code:        r.Code[i],
			Partial:     r.Partial[i],
			Unreachable: r.Unreachable[i],
		}
	}
	return clauses
}

func writeOutput(path, content string) error {
	if path == "" {
		fmt.Fprint(os.Stdout, content)
		return nil
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func totalClauses(rules []*resolve.Rule) int {
	n := 0
	for _, r := range rules {
		n += len(r.Patterns)
	}
	return n
}
