package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	ddns "github.com/ivo-tech/cloudflare-ddns"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command line and returns the process exit code: 0 on success, 1 otherwise.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var re reportedError
	if !errors.As(err, &re) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ddns.Classify(err).ExitCode()
}

// reportedError marks an error that has already been written to the log.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}
