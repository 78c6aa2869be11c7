package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

func main() {
	if err := realMain(
		os.Args,
		os.Stdin,
		os.Stdout,
	); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func realMain(
	args []string,
	in io.Reader,
	out io.Writer,
) error {
	fs := flag.NewFlagSet(args[0], flag.ExitOnError)
	flagDelim := fs.String("d", "\t", "field delimiter")
	flagField := fs.Int("f", 0, "zero-based index of the field holding the size")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)

	var lineno int64
	for scanner.Scan() {
		lineno++
		fields := strings.Split(scanner.Text(), *flagDelim)
		if *flagField < 0 || *flagField >= len(fields) {
			return fmt.Errorf("line# %v: field %v out of range, got %v fields", lineno, *flagField, len(fields))
		}

		b, err := humanize.ParseBytes(fields[*flagField])
		if err != nil {
			return fmt.Errorf("line# %v: %w", lineno, err)
		}

		fields[*flagField] = strconv.FormatUint(b, 10)
		fmt.Fprintln(out, strings.Join(fields, *flagDelim))
	}

	return scanner.Err()
}
