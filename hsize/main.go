package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func main() {
	if err := realMain(
		context.Background(),
		os.Stdin,
		os.Stdout,
		os.Stderr,
		os.Args,
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func realMain(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	osargs []string,
) error {
	exec := osargs[0]

	fs := flag.NewFlagSet(exec, flag.ExitOnError)
	fs.SetOutput(stderr)

	var (
		flagDelim   string
		flagField   int
		flagInUnit  string
		flagOutUnit string
		flagBase10  bool
		flagColor   bool
		flagVerbose bool
	)

	fs.StringVar(&flagDelim, "d", "\t", "field delimiter")
	fs.IntVar(&flagField, "f", 0, "zero-based index of the field holding the size")
	fs.StringVar(&flagInUnit, "u", "", "input unit, overrides the unit found in the field")
	fs.StringVar(&flagOutUnit, "o", "", "output unit, disables automatic scaling")
	fs.BoolVar(&flagBase10, "t", false, "use base 1000 instead of 1024")
	fs.BoolVar(&flagColor, "c", false, "colorize the converted field by magnitude")
	fs.BoolVar(&flagVerbose, "v", false, "verbose mode")

	unitsCmd := &ffcli.Command{
		Name:      "units",
		ShortHelp: "List known units, their aliases and factors",
		Exec: func(_ context.Context, _ []string) error {
			printUnits(stdout)
			return nil
		},
	}

	rootCmd := &ffcli.Command{
		ShortUsage:  fmt.Sprintf("%v [flags] < input", exec),
		FlagSet:     fs,
		Subcommands: []*ffcli.Command{unitsCmd},
		Exec: func(_ context.Context, _ []string) error {
			logger := func(format string, args ...any) {
				if flagVerbose {
					fmt.Fprintf(stderr, format, args...)
				}
			}

			base := 1024
			if flagBase10 {
				base = 1000
			}

			cfg := config{
				inputUnit:  flagInUnit,
				outputUnit: flagOutUnit,
				base:       base,
			}

			err := run(stdin, stdout, cfg, flagDelim, flagField, flagColor, logger)
			if err != nil {
				fs.Usage()
			}

			return err
		},
	}

	return rootCmd.ParseAndRun(ctx, osargs[1:])
}

func run(
	in io.Reader,
	out io.Writer,
	cfg config,
	delim string,
	field int,
	colorize bool,
	logger func(string, ...any),
) error {
	scanner := bufio.NewScanner(in)

	var lineno int64
	for scanner.Scan() {
		lineno++
		fields := strings.Split(scanner.Text(), delim)
		if field < 0 || field >= len(fields) {
			return fmt.Errorf("line# %v: field %v out of range, got %v fields", lineno, field, len(fields))
		}

		formatted, exp, err := convertField(fields[field], cfg)
		if err != nil {
			return fmt.Errorf("line# %v: %w", lineno, err)
		}

		logger("line# %v: %q -> %q\n", lineno, fields[field], formatted)

		if colorize {
			formatted = tierColor(formatted, exp)
		}

		fields[field] = formatted
		fmt.Fprintln(out, strings.Join(fields, delim))
	}

	return scanner.Err()
}

func tierColor(s string, exp int) string {
	switch {
	case exp >= 4:
		return color.RedString(s)
	case exp == 3:
		return color.HiYellowString(s)
	case exp == 2:
		return color.YellowString(s)
	case exp == 1:
		return color.GreenString(s)
	default:
		return s
	}
}

func printUnits(out io.Writer) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"exp", "suffix", "aliases", "x1024", "x1000"})

	for exp, suffix := range suffixes {
		table.Append([]string{
			strconv.Itoa(exp),
			suffix,
			strings.Join(unitAliases[exp], ", "),
			fmt.Sprintf("%.0f", factor(exp, 1024)),
			fmt.Sprintf("%.0f", factor(exp, 1000)),
		})
	}

	table.Render()
}
