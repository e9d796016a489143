// Command svdcompress approximates an image by keeping the leading singular
// values of each RGBA channel.
//
// Usage:
//
//	svdcompress [flags] <input> <output>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	svdcompress "github.com/yyyoichi/svdcompress"
)

type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

func main() {
	log.SetFlags(0)
	log.SetPrefix("svdcompress: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stderr)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.As(err, new(usageError)):
		log.Print(err)
		os.Exit(2)
	default:
		log.Print(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("svdcompress", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: svdcompress [flags] <input> <output>")
		fs.PrintDefaults()
	}

	rank := fs.Int("r", svdcompress.DefaultRank, "number of singular values kept per channel")
	plotPath := fs.String("plot", "", "write the red channel's singular value decay to this file (.png, .svg, .pdf, .html, ...)")
	components := fs.Bool("components", false, "write the U, S and Vt factors of every channel next to the output")
	clamp := fs.Bool("clamp", false, "lower a rank above min(height, width) instead of failing")
	alpha := fs.Int("alpha", 255, "alpha for images without an alpha channel, -1 keeps the converted alpha")
	jobs := fs.Int("j", 1, "number of channels processed at the same time")
	verbose := fs.Bool("v", false, "report per-channel progress")

	pos, err := parseInterspersed(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError{msg: err.Error()}
	}
	if len(pos) != 2 {
		fs.Usage()
		return usageError{msg: fmt.Sprintf("expected <input> <output>, got %d arguments", len(pos))}
	}

	if *rank < 1 {
		return usageError{msg: fmt.Sprintf("-r %d must be positive", *rank)}
	}

	var opts []svdcompress.Option
	if *clamp {
		opts = append(opts, svdcompress.WithClampRank())
	}
	switch {
	case *alpha == -1:
		opts = append(opts, svdcompress.WithoutAlphaSynthesis())
	case *alpha >= 0 && *alpha <= 255:
		opts = append(opts, svdcompress.WithAlpha(uint8(*alpha)))
	default:
		return usageError{msg: fmt.Sprintf("-alpha %d not in [-1, 255]", *alpha)}
	}
	if *jobs < 1 {
		return usageError{msg: fmt.Sprintf("-j %d must be positive", *jobs)}
	}
	opts = append(opts, svdcompress.WithConcurrency(*jobs))

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(stderr, "svdcompress: ", 0)
	}

	return svdcompress.Run(ctx, svdcompress.Config{
		Input:      pos[0],
		Output:     pos[1],
		Rank:       *rank,
		PlotPath:   *plotPath,
		Components: *components,
		Options:    opts,
		Logger:     logger,
	})
}

// parseInterspersed allows flags after positional arguments, e.g. "in.png out.png -r 10".
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		// Everything after "--" is positional.
		if n := len(args) - len(rest); n > 0 && args[n-1] == "--" {
			return append(pos, rest...), nil
		}
		if len(rest) == 0 {
			return pos, nil
		}
		pos = append(pos, rest[0])
		args = rest[1:]
	}
}
