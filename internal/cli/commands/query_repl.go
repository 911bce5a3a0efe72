package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapodbc/pkg/adapter"
	"github.com/spf13/cobra"
)

const (
	replPrompt         = "leapodbc> "
	replContinuePrompt = "     ...> "
	historyFileName    = ".leapodbc_history"
)

func runQueryREPL(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cmdCtx := NewCommandContext(cmd)

	a, err := cmdCtx.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     filepath.Join(cmdCtx.Cfg.ProjectRoot, historyFileName),
		AutoComplete:    newDotCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	caps := a.Capabilities()
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "leapodbc REPL (%s %s, database: %s)\n", caps.DBMSName, caps.DBMSVersion, caps.DatabaseName)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	repl := &replSession{
		adapter: a,
		cmdCtx:  cmdCtx,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
	}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			repl.buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		done, pending := repl.feed(ctx, line)
		if done {
			break
		}
		if pending {
			rl.SetPrompt(replContinuePrompt)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}
	return nil
}

// replSession accumulates input lines and dispatches statements and
// dot-commands against one open adapter.
type replSession struct {
	adapter *adapter.Adapter
	cmdCtx  *CommandContext
	out     io.Writer
	errOut  io.Writer
	buf     strings.Builder
}

// feed consumes one input line. It reports whether the session should end
// and whether a statement is still waiting for its terminating semicolon.
func (r *replSession) feed(ctx context.Context, line string) (done, pending bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, r.buf.Len() > 0
	}

	if r.buf.Len() == 0 && strings.HasPrefix(line, ".") {
		return r.dotCommand(line), false
	}

	r.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		r.buf.WriteString("\n")
		return false, true
	}

	query := strings.TrimSuffix(r.buf.String(), ";")
	r.buf.Reset()

	if err := r.run(ctx, query); err != nil {
		_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
	}
	_, _ = fmt.Fprintln(r.out)
	return false, false
}

// run renders a row-returning statement or prints the affected count.
func (r *replSession) run(ctx context.Context, query string) error {
	if returnsRows(query) {
		return executeAndRender(ctx, r.out, r.adapter, query, r.cmdCtx.Cfg.OutputFormat)
	}
	n, err := r.adapter.Execute(ctx, strings.TrimSpace(query))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(r.out, "%d rows affected\n", n)
	return nil
}

func (r *replSession) dotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	var err error
	switch command {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(r.out)
	case ".info":
		err = renderCapabilities(r.out, capabilityRows(r.adapter), r.cmdCtx.Cfg.OutputFormat)
	case ".sources":
		sources, serr := r.cmdCtx.Sources()
		if serr != nil {
			err = serr
			break
		}
		err = renderSources(r.out, sources, r.cmdCtx.Cfg.OutputFormat)
	case ".begin":
		err = r.adapter.Begin()
	case ".commit":
		err = r.adapter.Commit()
	case ".rollback":
		err = r.adapter.Rollback()
	case ".clear":
		_, _ = fmt.Fprint(r.out, "\033[H\033[2J")
	default:
		_, _ = fmt.Fprintf(r.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	if err != nil {
		_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
	}
	return false
}

var rowKeywords = map[string]bool{
	"SELECT":   true,
	"WITH":     true,
	"VALUES":   true,
	"SHOW":     true,
	"PRAGMA":   true,
	"EXPLAIN":  true,
	"DESCRIBE": true,
	"TABLE":    true,
}

// returnsRows guesses from the leading keyword whether a statement produces
// a result set.
func returnsRows(query string) bool {
	fields := strings.Fields(strings.TrimLeft(query, "( \t\n"))
	if len(fields) == 0 {
		return false
	}
	return rowKeywords[strings.ToUpper(fields[0])]
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .info           Show the session's capabilities
  .sources        List the named data sources
  .begin          Turn auto-commit off
  .commit         Commit and turn auto-commit back on
  .rollback       Roll back and turn auto-commit back on
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Statements that do not return rows print the affected row count
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

func newDotCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".info"),
		readline.PcItem(".sources"),
		readline.PcItem(".begin"),
		readline.PcItem(".commit"),
		readline.PcItem(".rollback"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
