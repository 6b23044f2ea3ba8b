package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"docdesk/internal/config"
	models "docdesk/internal/domain/models/workspace"
	"docdesk/internal/remote"
	"docdesk/internal/service/preview"
	"docdesk/internal/service/workspace"

	"github.com/docopt/docopt-go"
	"github.com/joho/godotenv"
)

const version = "0.1.0"

const usage = `Docdesk workspace client.

The API url defaults to DOCDESK_API_URL.

Usage:
    docdesk tree [options]
    docdesk cat [options] <path>
    docdesk preview [options] <path>
    docdesk new [options] [--folder=<folder_id>] <name>
    docdesk rm [options] [--yes] <path>
    docdesk mv [options] <path> <folder_id>
    docdesk rename [options] <path> <name>
    docdesk mkdir [options] [--parent=<folder_id>] <name>
    docdesk rmdir [options] [--yes] <folder_id>
    docdesk renamedir [options] <folder_id> <name>
    docdesk toggle [options] <folder_id>
    docdesk edit [options] [--pull] <path> <file>
    docdesk -h | --help
    docdesk --version

Options:
    -h --help                Show this screen.
    --version                Show version.
    --api_url=<api_url>      Document API base url.
    --verbose                Log workspace activity to stderr.
    --folder=<folder_id>     Create the document in this folder.
    --parent=<folder_id>     Create the folder under this parent.
    --yes                    Do not ask for confirmation.
    --pull                   Overwrite <file> with the stored content first.`

// app bundles what every command needs.
type app struct {
	ws     *workspace.Workspace
	term   *terminal
	out    io.Writer
	logger *slog.Logger
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	apiURL := cfg.APIURL
	if v, _ := opts.String("--api_url"); v != "" {
		apiURL = v
	}
	level := slog.LevelWarn
	if verbose, _ := opts.Bool("--verbose"); verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	assumeYes, _ := opts.Bool("--yes")
	term := newTerminal(os.Stdin, os.Stderr, assumeYes)

	client := remote.NewClientWithConfig(apiURL, cfg.HTTPTimeout, logger)
	ws := workspace.NewWorkspace(client, preview.NewRegistry(client, logger), term, logger, workspace.Options{
		AutosaveInterval: cfg.AutosaveInterval,
		OnStatus: func(path string, status models.SaveStatus) {
			logger.Info("save status", "path", path, "status", status)
		},
	})
	defer ws.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{ws: ws, term: term, out: os.Stdout, logger: logger}
	if err := ws.Load(ctx); err != nil {
		a.exit(fmt.Errorf("load workspace: %w", err))
	}

	if err := a.dispatch(ctx, opts); err != nil {
		a.exit(err)
	}
}

// exit reports err unless the workspace already alerted the user about it.
func (a *app) exit(err error) {
	if !a.term.Alerted() {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	a.ws.Close()
	os.Exit(1)
}
