// Command farmctl queries the FarmView gateway from a terminal.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"farmview-proxy/internal/apiclient"
	"farmview-proxy/internal/fleet"
)

// Set by goreleaser ldflags.
var version = "dev"

// CLI is the farmctl command tree.
type CLI struct {
	URL      string           `kong:"default='http://localhost:8080',env='FARMVIEW_URL',help='FarmView gateway base URL.'"`
	Timeout  time.Duration    `kong:"default='15s',help='Per-request timeout.'"`
	LogLevel string           `kong:"default='error',enum='debug,info,warn,error',help='Log level for request diagnostics on stderr.'"`
	Version  kong.VersionFlag `kong:"help='Print version and exit.'"`

	Servers    ServersCmd    `kong:"cmd,help='Physical servers.'"`
	VMs        VMsCmd        `kong:"cmd,name='vms',help='Virtual machines.'"`
	Clusters   ClustersCmd   `kong:"cmd,help='Kubernetes clusters.'"`
	Components ComponentsCmd `kong:"cmd,help='Hardware component catalog.'"`
	Search     SearchCmd     `kong:"cmd,help='Structured search tools.'"`
}

// App is bound into every command's Run method.
type App struct {
	Fleet *fleet.Fleet
	Out   io.Writer
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "farmctl:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("farmctl"),
		kong.Description("Terminal client for the FarmView gateway."),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": version},
		kong.UsageOnError(),
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: parseLevel(cli.LogLevel)}))
	client := apiclient.New(cli.URL, cli.Timeout, logger)
	app := &App{Fleet: fleet.New(client), Out: stdout}

	return ctx.Run(app)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
