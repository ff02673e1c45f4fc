package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"reflect"

	"github.com/hashicorp/go-hclog"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
	"lab47.dev/esyopam/pkg/progress"
)

// Cmd adapts a func(context.Context, Opts) error into a cli.Command, with
// Opts parsed by go-flags.
type Cmd struct {
	syn, name string
	f         reflect.Value

	opts   reflect.Value
	parser *flags.Parser

	out io.Writer
}

func New(name, syn string, f interface{}) *Cmd {
	rv := reflect.ValueOf(f)

	if rv.Kind() != reflect.Func {
		panic("must pass a function")
	}

	rt := rv.Type()

	if rt.NumIn() != 2 {
		panic("must provide two arguments only")
	}

	if rt.NumOut() != 1 {
		panic("must return one argument only")
	}

	in := rt.In(1)

	if in.Kind() != reflect.Struct {
		panic("argument must be a struct")
	}

	sv := reflect.New(in)

	parser := flags.NewNamedParser(name, flags.Default)
	parser.ShortDescription = syn
	parser.LongDescription = syn

	_, err := parser.AddGroup("Application Options", "", sv.Interface())
	if err != nil {
		panic(err)
	}

	return &Cmd{
		syn:    syn,
		name:   name,
		f:      rv,
		opts:   sv,
		parser: parser,
		out:    os.Stdout,
	}
}

func (w *Cmd) Help() string {
	var buf bytes.Buffer
	w.parser.WriteHelp(&buf)
	return buf.String()
}

func (w *Cmd) Synopsis() string {
	return w.syn
}

func (w *Cmd) Run(args []string) int {
	_, err := w.parser.ParseArgs(args)
	if err != nil {
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cancelOnSignal(cancel, os.Interrupt, unix.SIGQUIT, unix.SIGTERM)

	if term.IsTerminal(int(os.Stderr.Fd())) {
		ctx = progress.Open(ctx, os.Stderr)
	}

	setupLogger(w.name)

	rets := w.f.Call([]reflect.Value{reflect.ValueOf(ctx), w.opts.Elem()})

	if err, ok := rets[0].Interface().(error); ok {
		if err != nil {
			fmt.Fprintf(w.out, "! Error: %+v\n", err)
			return 1
		}
	}

	return 0
}

// setupLogger installs the default logger, honoring ESYOPAM_LOG
// (trace, debug, info, warn, error).
func setupLogger(name string) {
	level := hclog.Warn

	if l := os.Getenv("ESYOPAM_LOG"); l != "" {
		if lv := hclog.LevelFromString(l); lv != hclog.NoLevel {
			level = lv
		}
	}

	hclog.SetDefault(hclog.New(&hclog.LoggerOptions{
		Name:   "esyopam." + name,
		Level:  level,
		Output: os.Stderr,
	}))
}

func cancelOnSignal(cancel func(), signals ...os.Signal) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, signals...)

	go func() {
		for range c {
			cancel()
		}
	}()
}
