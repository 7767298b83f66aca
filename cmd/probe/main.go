package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/unirank/internal/probe"
	"github.com/okian/unirank/pkg/logger"
)

const defaultRunTimeout = 2 * time.Minute

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:3000", "Base URL of the service")
		prefix  = flag.String("prefix", "/api", "Route prefix of the rankings API")
		timeout = flag.Duration("timeout", probe.DefaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Log passing checks too")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	if _, err := probe.Run(ctx, &probe.Config{
		BaseURL: *baseURL,
		Prefix:  *prefix,
		Timeout: *timeout,
		Verbose: *verbose,
	}); err != nil {
		os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
