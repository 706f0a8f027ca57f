// Package main provides the ndindex CLI: it prints how the indexer walks,
// partitions and composes index spaces.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/ndindex/internal/config"
	"github.com/born-ml/ndindex/internal/indexer"
	"github.com/born-ml/ndindex/internal/kernel"
	"github.com/born-ml/ndindex/internal/tensor"
)

const version = "v0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stdout)
		return 0
	}

	var err error
	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "ndindex %s\n", version)
	case "help", "-h", "--help":
		usage(stdout)
	case "walk":
		err = walkCmd(args[1:], stdout, stderr)
	case "partition":
		err = partitionCmd(args[1:], stdout, stderr)
	case "compose":
		err = composeCmd(args[1:], stdout, stderr)
	case "sum":
		err = sumCmd(args[1:], stdout, stderr)
	case "wgsl":
		err = wgslCmd(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "ndindex: unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "ndindex: %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "ndindex %s - N-dimensional index iteration\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  walk       -shape 2,3 [-start 0] [-step 1]     list positions and coordinates")
	fmt.Fprintln(w, "  partition  -shape 2,3 [-workers N]             split positions across workers")
	fmt.Fprintln(w, "  compose    -shape 2,3,4 -split 1,2 -at 1,5     combine sub-iterators")
	fmt.Fprintln(w, "  sum        -shape 2,3,4 -axes 1                reduce an arange buffer over axes")
	fmt.Fprintln(w, "  wgsl       -ndim 3                             print the compute-shader mirror")
	fmt.Fprintln(w, "  version                                        show version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Common flags: -config FILE (YAML), -format auto|table|tsv")
}

// options holds the flags shared by every command.
type options struct {
	configPath string
	format     string
}

func newFlagSet(name string, stderr io.Writer, opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&opts.format, "format", "", "output format: auto, table or tsv (overrides config)")
	return fs
}

// load resolves the configuration and the output printer for a command.
func (o options) load(stdout io.Writer) (config.Config, *printer, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, nil, err
		}
	}
	if o.format != "" {
		cfg.Output.Format = o.format
	}
	p, err := newPrinter(stdout, cfg.Output.Format)
	return cfg, p, err
}

func walkCmd(args []string, stdout, stderr io.Writer) error {
	var opts options
	fs := newFlagSet("walk", stderr, &opts)
	shapeFlag := fs.String("shape", "", "comma-separated extents")
	start := fs.Int64("start", 0, "first linear index")
	step := fs.Int64("step", 1, "linear index increment")
	if err := fs.Parse(args); err != nil {
		return err
	}
	shape, err := parseShape(*shapeFlag)
	if err != nil {
		return err
	}
	if *step == 0 {
		return fmt.Errorf("step must not be zero")
	}
	_, p, err := opts.load(stdout)
	if err != nil {
		return err
	}

	p.row("raw", "index")
	switch len(shape) {
	case 1:
		it := indexer.New1(shape).It(*start, *step)
		walk(p, &it)
	case 2:
		it := indexer.New[[2]int64](shape).It(*start, *step)
		walk(p, &it)
	case 3:
		it := indexer.New[[3]int64](shape).It(*start, *step)
		walk(p, &it)
	default:
		it := indexer.NewDynamic(shape).It(*start, *step)
		walk(p, &it)
	}
	return p.flush()
}

func walk(p *printer, it indexer.Cursor) {
	for ; it.Valid(); it.Next() {
		p.row(strconv.FormatInt(it.Raw(), 10), formatIndex(it.Index()))
	}
}

func partitionCmd(args []string, stdout, stderr io.Writer) error {
	var opts options
	fs := newFlagSet("partition", stderr, &opts)
	shapeFlag := fs.String("shape", "", "comma-separated extents")
	workers := fs.Int("workers", 0, "number of workers (default: parallel.workers from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	shape, err := parseShape(*shapeFlag)
	if err != nil {
		return err
	}
	cfg, p, err := opts.load(stdout)
	if err != nil {
		return err
	}
	n := int64(*workers)
	if n == 0 {
		n = int64(cfg.Parallel.NumWorkers)
	}
	if n < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", n)
	}

	ix := indexer.NewDynamic(shape)
	p.row("worker", "visits", "raw", "index")
	for w := int64(0); w < n; w++ {
		visits := strconv.FormatInt(indexer.Span(ix.TotalSize(), w, n), 10)
		for it := ix.It(w, n); it.Valid(); it.Next() {
			p.row(strconv.FormatInt(w, 10), visits, strconv.FormatInt(it.Raw(), 10), formatIndex(it.Index()))
		}
	}
	return p.flush()
}

func composeCmd(args []string, stdout, stderr io.Writer) error {
	var opts options
	fs := newFlagSet("compose", stderr, &opts)
	shapeFlag := fs.String("shape", "", "comma-separated extents of the full space")
	splitFlag := fs.String("split", "", "comma-separated ranks of consecutive axis groups")
	atFlag := fs.String("at", "", "comma-separated linear index inside each group")
	if err := fs.Parse(args); err != nil {
		return err
	}
	shape, err := parseShape(*shapeFlag)
	if err != nil {
		return err
	}
	split, err := parseInts(*splitFlag)
	if err != nil {
		return fmt.Errorf("split: %w", err)
	}
	at, err := parseInts(*atFlag)
	if err != nil {
		return fmt.Errorf("at: %w", err)
	}
	if len(at) != len(split) {
		return fmt.Errorf("got %d positions for %d groups", len(at), len(split))
	}
	_, p, err := opts.load(stdout)
	if err != nil {
		return err
	}

	parts := make([]indexer.DynamicIterator, len(split))
	axis := int64(0)
	for i, rank := range split {
		if rank < 0 || rank > int64(len(shape))-axis {
			return fmt.Errorf("groups %v do not fit shape %v", split, shape)
		}
		sub := indexer.NewDynamic(shape[axis : axis+rank])
		if at[i] < 0 || at[i] >= sub.TotalSize() {
			return fmt.Errorf("position %d outside group %d of %d elements", at[i], i, sub.TotalSize())
		}
		parts[i] = sub.It(at[i], 1)
		axis += rank
	}
	if axis != int64(len(shape)) {
		return fmt.Errorf("groups %v cover %d of %d axes", split, axis, len(shape))
	}

	subs := make([][]int64, len(parts))
	p.row("part", "raw", "index")
	for i := range parts {
		subs[i] = parts[i].Index()
		p.row(strconv.Itoa(i), strconv.FormatInt(parts[i].Raw(), 10), formatIndex(parts[i].Index()))
	}
	full := indexer.NewDynamic(shape).Combine(subs...)
	offset := kernel.Offset(full.Index(), shape.ComputeStrides())
	p.row("combined", strconv.FormatInt(offset, 10), formatIndex(full.Index()))
	return p.flush()
}

func sumCmd(args []string, stdout, stderr io.Writer) error {
	var opts options
	fs := newFlagSet("sum", stderr, &opts)
	shapeFlag := fs.String("shape", "", "comma-separated extents")
	axesFlag := fs.String("axes", "", "comma-separated axes to reduce")
	if err := fs.Parse(args); err != nil {
		return err
	}
	shape, err := parseShape(*shapeFlag)
	if err != nil {
		return err
	}
	axes64, err := parseInts(*axesFlag)
	if err != nil {
		return fmt.Errorf("axes: %w", err)
	}
	cfg, p, err := opts.load(stdout)
	if err != nil {
		return err
	}

	data := make([]float64, shape.NumElements())
	for i := range data {
		data[i] = float64(i)
	}
	axes := make([]int, len(axes64))
	for i, ax := range axes64 {
		axes[i] = int(ax)
	}
	out, outShape, err := kernel.SumAxes(data, shape, axes, cfg.Parallel)
	if err != nil {
		return err
	}

	p.row("raw", "index", "sum")
	for raw, index := range indexer.NewDynamic(outShape).All() {
		p.row(strconv.FormatInt(raw, 10), formatIndex(index), strconv.FormatFloat(out[raw], 'g', -1, 64))
	}
	return p.flush()
}

func wgslCmd(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("wgsl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	ndim := fs.Int("ndim", 1, "rank the shader is compiled for")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ndim < 1 || *ndim > indexer.MaxNdim {
		return fmt.Errorf("ndim %d outside [1, %d]", *ndim, indexer.MaxNdim)
	}
	src, err := indexer.WGSL(int8(*ndim))
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, src)
	return err
}

func parseShape(s string) (tensor.Shape, error) {
	dims, err := parseInts(s)
	if err != nil {
		return nil, fmt.Errorf("shape: %w", err)
	}
	shape := tensor.Shape(dims)
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("shape: %w", err)
	}
	return shape, nil
}

// parseInts parses "1,2,3". The empty string yields an empty list.
func parseInts(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int64{}, nil
	}
	fields := strings.Split(s, ",")
	out := make([]int64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", f)
		}
		out[i] = v
	}
	return out, nil
}

func formatIndex(index []int64) string {
	return fmt.Sprint(index)
}
