package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"p4g/internal/flat"
	"p4g/internal/model"
	"p4g/internal/printer"
	"p4g/internal/stream"
	"p4g/internal/tui"
	"p4g/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "p4g",
		Repository: "p4g",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/p4g/p4g/releases")
	} else if pflag.Lookup("update").Changed {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: p4 -G <command> | p4g [options] [field ...]\n\n")
		fmt.Fprintf(os.Stderr, "p4g turns the marshaled output of 'p4 -G' into text.\n")
		fmt.Fprintf(os.Stderr, "Indexed fields (rev0, rev1, how0,0 ...) are grouped into arrays.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  p4 -G files //... | p4g                      # Every field of every record\n")
		fmt.Fprintf(os.Stderr, "  p4 -G files //... | p4g depotFile rev        # One line per record\n")
		fmt.Fprintf(os.Stderr, "  p4 -G filelog f | p4g -m rev change          # One line per revision\n")
		fmt.Fprintf(os.Stderr, "  p4 -G filelog f | p4g -K                     # Summary of every key\n")
		fmt.Fprintf(os.Stderr, "  p4 -G filelog f | p4g -S --json              # One JSON object per revision\n")
	}

	cfg := model.DefaultConfig()

	fmtFlag := pflag.StringP("format", "f", "", "Format string for the named fields (only %s is supported)")
	multiFlag := pflag.BoolP("multi", "m", false, "Print one line per index of the named indexed fields")
	keysFlag := pflag.BoolP("keys", "k", false, "Print the set of keys seen in the input")
	detailsFlag := pflag.BoolP("key-details", "K", false, "Print counts, index ranges and values of every key")
	splitFlag := pflag.BoolP("split", "S", false, "Split records with indexed fields into one record per index")
	pflag.StringVarP(&cfg.Separator, "separator", "s", cfg.Separator, "Separator between values")
	pflag.StringVarP(&cfg.NullStr, "null", "n", cfg.NullStr, "Text printed for missing values")
	pflag.StringVarP(&cfg.EmptyStr, "empty", "e", cfg.EmptyStr, "Text printed for empty values")
	pflag.IntVar(&cfg.MaxUniqueValues, "max-values", cfg.MaxUniqueValues, "Distinct values kept per key by --key-details")
	pflag.Int64Var(&cfg.TimestampThreshold, "timestamp-threshold", cfg.TimestampThreshold, "Integers above this are shown as times too")
	utcFlag := pflag.Bool("utc", false, "Show times in UTC instead of local time")
	pflag.IntVar(&cfg.MaxIndex, "max-index", cfg.MaxIndex, "Names with a larger index are not treated as indexed (0: no limit)")
	pflag.StringArrayVar(&cfg.ScalarKeys, "scalar", nil, "Field ending in digits that is not indexed (repeatable)")
	inputFlag := pflag.StringP("input", "i", "", "Read from file instead of stdin (gzip, zstd, lz4 and s2 are detected)")
	inputFormatFlag := pflag.String("input-format", stream.FormatMarshal, "Input format: marshal or json")
	jsonFlag := pflag.Bool("json", false, "Print records as JSON, indexed fields as arrays")
	yamlFlag := pflag.Bool("yaml", false, "Print records as YAML, indexed fields as arrays")
	tuiFlag := pflag.Bool("tui", false, "Browse the key summary interactively")
	webFlag := pflag.BoolP("web", "w", false, "Serve the records and key summary on http://localhost:8080")
	portFlag := pflag.Int("port", 8080, "Port for --web")
	debugFlag := pflag.Bool("debug", false, "Log diagnostics to stderr")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("p4g version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	if *inputFlag == "" && isatty.IsTerminal(os.Stdin.Fd()) {
		pflag.Usage()
		os.Exit(1)
	}

	if *utcFlag {
		cfg.Location = time.UTC
	}
	cfg.FmtString = *fmtFlag
	cfg.Split = *splitFlag
	fields := pflag.Args()

	level := slog.LevelWarn
	if *debugFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	in, err := openInput(*inputFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()

	reader, err := stream.NewReader(*inputFormatFlag, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *tuiFlag:
		runTuiMode(ctx, reader, cfg)
		return
	case *webFlag:
		runWebMode(ctx, reader, cfg, *portFlag, logger)
		return
	}

	kind := printerKind(fields, *multiFlag, *keysFlag, *detailsFlag, *jsonFlag, *yamlFlag)
	logger.Debug("printing", "kind", kind, "fields", fields, "split", cfg.Split)
	p, err := printer.New(os.Stdout, kind, fields, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = readAll(ctx, reader, p.PrintRecord)
	if err == nil {
		err = p.Done()
	}
	exitOnError(err)
}

// printerKind picks the output from the flags. The first matching flag wins.
func printerKind(fields []string, multi, keys, details, asJSON, asYAML bool) string {
	switch {
	case details:
		return printer.KindDetails
	case keys:
		return printer.KindKeys
	case asJSON:
		return printer.KindJSON
	case asYAML:
		return printer.KindYAML
	case multi:
		return printer.KindMulti
	case len(fields) > 0:
		return printer.KindSingle
	}
	return printer.KindSimple
}

// openInput opens path (stdin when empty) and unwraps compressed input.
func openInput(path string) (io.ReadCloser, error) {
	f, err := stream.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := stream.Decompress(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return readCloser{Reader: r, closers: []io.Closer{r, f}}, nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc readCloser) Close() error {
	var errs []error
	for _, c := range rc.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// readAll feeds every record to fn, stopping early when ctx is cancelled.
func readAll(ctx context.Context, r stream.Reader, fn func(num int, rec model.Record) error) error {
	return stream.Each(r, func(num int, rec model.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(num, rec)
	})
}

// collect reads the whole stream into memory.
func collect(ctx context.Context, r stream.Reader) ([]model.Record, error) {
	var records []model.Record
	err := readAll(ctx, r, func(_ int, rec model.Record) error {
		records = append(records, rec)
		return nil
	})
	return records, err
}

func exitOnError(err error) {
	if err != nil {
		os.Exit(reportError(os.Stdout, os.Stderr, err))
	}
}

// reportError prints err and returns the exit code for it. Bad marshal data in
// the first record usually means p4 was run without -G; that hint goes to
// stdout with the output it replaces.
func reportError(stdout, stderr io.Writer, err error) int {
	if errors.Is(err, context.Canceled) {
		return 2
	}
	var recErr *stream.RecordError
	if errors.As(err, &recErr) && recErr.Num == 1 && errors.Is(err, stream.ErrBadMarshal) {
		fmt.Fprintln(stdout, "Are you using 'p4 -G' as input? Input has bad marshal data.")
		return 2
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func runTuiMode(ctx context.Context, r stream.Reader, cfg model.Config) {
	load := func() (model.Summary, error) {
		asm := flat.NewAssembler(flat.NewParser(cfg), flat.NewFormatter(cfg))
		analyzer := flat.NewAnalyzer(asm, cfg)
		err := readAll(ctx, r, func(_ int, rec model.Record) error {
			analyzer.Add(rec)
			return nil
		})
		return analyzer.Result(), err
	}

	m := tui.InitialModel(load, flat.NewFormatter(cfg))
	// Stdin carries the records, so keys are read from the terminal.
	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithInputTTY())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}

func runWebMode(ctx context.Context, r stream.Reader, cfg model.Config, port int, logger *slog.Logger) {
	records, err := collect(ctx, r)
	exitOnError(err)

	if err := web.StartServer(web.NewServer(records, cfg, logger), port); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
