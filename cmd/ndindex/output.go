package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-isatty"

	"github.com/born-ml/ndindex/internal/config"
)

// printer writes rows either as aligned columns or as tab-separated values.
type printer struct {
	out io.Writer
	tw  *tabwriter.Writer
}

func newPrinter(out io.Writer, format string) (*printer, error) {
	if format == config.FormatAuto {
		format = config.FormatTSV
		if isTerminal(out) {
			format = config.FormatTable
		}
	}
	switch format {
	case config.FormatTable:
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		return &printer{out: tw, tw: tw}, nil
	case config.FormatTSV:
		return &printer{out: out}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *printer) row(cells ...string) {
	fmt.Fprintln(p.out, strings.Join(cells, "\t"))
}

func (p *printer) flush() error {
	if p.tw != nil {
		return p.tw.Flush()
	}
	return nil
}
