package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gomdscan/internal/logging"
	"github.com/yaklabco/gomdscan/internal/ui/pretty"
	"github.com/yaklabco/gomdscan/pkg/scanner"
)

type tokensFlags struct {
	format     string
	tabWidth   int
	summary    bool
	debugState bool
}

func newTokensCommand() *cobra.Command {
	flags := &tokensFlags{}

	cmd := &cobra.Command{
		Use:   "tokens [files...]",
		Short: "Scan files and dump the token stream",
		Long:  tokensLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json")
	cmd.Flags().IntVar(&flags.tabWidth, "tab-width", scanner.DefaultTabWidth,
		"tab stop width for column tracking: 4 or 8")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print a summary block after the stream")
	cmd.Flags().BoolVar(&flags.debugState, "debug-state", false,
		"print the scanner state snapshot after each file")

	return cmd
}

const tokensLongDescription = `Scan Markdown files and dump the resolved token stream.

Reads from stdin when no files are given (or when a file is "-"). Each
token line shows the byte range, kind, materialized text, and flags.

Examples:
  gomdscan tokens README.md            # Dump one file
  gomdscan tokens --format table *.md  # Styled table per file
  gomdscan tokens --format json doc.md # Machine-readable output
  cat doc.md | gomdscan tokens         # Scan stdin
  gomdscan tokens --summary docs/a.md  # Append kind counts`

func runTokens(cmd *cobra.Command, args []string, flags *tokensFlags) error {
	logger := logging.FromContext(cmd.Context())

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	cfg, err := LoadConfig(configPath, workDir)
	if err != nil {
		return err
	}

	// Flags override file values.
	if cmd.Flags().Changed("format") {
		cfg.Format = flags.format
	}
	if cmd.Flags().Changed("tab-width") {
		cfg.TabWidth = flags.tabWidth
	}
	if colorMode, colorErr := cmd.Flags().GetString("color"); colorErr == nil && cmd.Flags().Changed("color") {
		cfg.Color = colorMode
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(cfg.Color, out))
	sc := scanner.New(scanner.WithTabWidth(cfg.TabWidth))

	stats := pretty.ScanStats{ByKind: map[string]int{}}
	started := time.Now()

	inputs := args
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	showHeaders := len(inputs) > 1

	for _, path := range inputs {
		src, name, err := readInput(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}

		logger.Debug("scanning",
			logging.FieldPath, name,
			logging.FieldBytes, len(src),
			logging.FieldTabWidth, cfg.TabWidth,
		)

		tokens := scanTokens(sc, src)
		addStats(&stats, src, tokens)

		switch cfg.Format {
		case "json":
			if err := writeJSON(out, name, tokens); err != nil {
				return err
			}
		case "table":
			writeTable(out, styles, name, tokens, showHeaders)
		default:
			writeText(out, styles, name, tokens, showHeaders)
		}

		if flags.debugState && cfg.Format != "json" {
			fmt.Fprint(out, styles.FormatDebugState(sc.DebugState()))
		}
	}

	if cfg.Format != "json" {
		if flags.summary {
			fmt.Fprint(out, styles.FormatSummary(stats))
		} else if showHeaders {
			fmt.Fprint(out, styles.FormatSummaryOneLine(stats))
		}
	}

	logger.Debug("scan complete",
		logging.FieldFilesRead, stats.Files,
		logging.FieldTokens, stats.Tokens,
		logging.FieldDuration, time.Since(started).String(),
	)

	return nil
}

// readInput reads a named file, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "<stdin>", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return data, path, nil
}

// scanTokens runs the scanner over src and collects the full stream,
// including the terminating EndOfFile token.
func scanTokens(sc *scanner.Scanner, src []byte) []scanner.Token {
	sc.SetText(src)

	var tokens []scanner.Token
	for {
		kind := sc.Scan()
		tokens = append(tokens, sc.TokenValue())
		if kind == scanner.TokEndOfFile {
			return tokens
		}
	}
}

func addStats(stats *pretty.ScanStats, src []byte, tokens []scanner.Token) {
	stats.Files++
	stats.Bytes += len(src)

	lines := 0
	for _, tok := range tokens {
		stats.Tokens++
		stats.ByKind[tok.Kind.String()]++
		if tok.Kind == scanner.TokNewline {
			lines++
		}
	}
	if len(src) > 0 {
		lines++
	}
	stats.Lines += lines
}

func writeText(out io.Writer, styles *pretty.Styles, name string, tokens []scanner.Token, header bool) {
	if header {
		fmt.Fprintln(out, styles.FormatFileHeader(name, len(tokens)))
	}
	for _, tok := range tokens {
		fmt.Fprint(out, styles.FormatToken(tok))
	}
}

func writeTable(out io.Writer, styles *pretty.Styles, name string, tokens []scanner.Token, header bool) {
	if header {
		fmt.Fprintln(out, styles.FormatFileHeader(name, len(tokens)))
	}

	rows := make([]pretty.TableRow, 0, len(tokens))
	for _, tok := range tokens {
		rows = append(rows, pretty.TokenToRow(tok))
	}

	formatter := pretty.NewTableFormatter(styles, terminalWidth(out))
	fmt.Fprint(out, formatter.FormatTable(rows))
}

type tokenJSON struct {
	Kind  string `json:"kind"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text,omitempty"`
	Flags string `json:"flags,omitempty"`
}

type fileJSON struct {
	Path   string      `json:"path"`
	Tokens []tokenJSON `json:"tokens"`
}

func writeJSON(out io.Writer, name string, tokens []scanner.Token) error {
	doc := fileJSON{Path: name, Tokens: make([]tokenJSON, 0, len(tokens))}
	for _, tok := range tokens {
		flags := ""
		if tok.Flags != 0 {
			flags = tok.Flags.String()
		}
		doc.Tokens = append(doc.Tokens, tokenJSON{
			Kind:  tok.Kind.String(),
			Start: tok.Start,
			End:   tok.End,
			Text:  tok.Text,
			Flags: flags,
		})
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	return nil
}

// terminalWidth attempts to get the terminal width from the writer.
func terminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return 0
}
