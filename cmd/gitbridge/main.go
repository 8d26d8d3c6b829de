package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/dshills/gitbridge/internal/git"
	"github.com/dshills/gitbridge/internal/gitexec"
	"github.com/dshills/gitbridge/internal/settings"
)

const description = "gitbridge drives the git CLI for embedded version-control integration"

// CLI is the command tree.
type CLI struct {
	Debug    bool   `help:"Enable debug logging to stderr" short:"d"`
	Settings string `help:"Path to the settings file (defaults to the user config dir)"`

	Status    StatusCmd    `cmd:"" help:"Show the repository status snapshot for a project"`
	Preflight PreflightCmd `cmd:"" help:"Summarize what a push would carry"`
	Stage     StageCmd     `cmd:"" help:"Stage paths (or everything)"`
	Unstage   UnstageCmd   `cmd:"" help:"Unstage paths (or everything)"`
	Commit    CommitCmd    `cmd:"" help:"Commit exactly the given files"`
	Push      PushCmd      `cmd:"" help:"Push the current branch"`
	Pull      PullCmd      `cmd:"" help:"Pull the current branch"`
	Fetch     FetchCmd     `cmd:"" help:"Fetch and prune remote refs"`
	Branch    BranchCmd    `cmd:"" help:"List or create branches"`
	Checkout  CheckoutCmd  `cmd:"" help:"Switch branches, tracking remote ones on demand"`
	Tag       TagCmd       `cmd:"" help:"List, create, or push tags"`
	Remote    RemoteCmd    `cmd:"" help:"Show or configure a remote"`
	Rollback  RollbackCmd  `cmd:"" help:"Restore a file to its committed content"`
	Init      InitCmd      `cmd:"" help:"Initialize a repository for a project if needed"`
	Clone     CloneCmd     `cmd:"" help:"Clone a repository"`
	Watch     WatchCmd     `cmd:"" help:"Watch a project and stream status snapshots"`
}

// appContext carries the wired services into command Run methods.
type appContext struct {
	service *git.Service
	store   *settings.Store
	logger  *slog.Logger
}

// buildContext wires settings, the credential bridge, the runner, and the
// service together.
func buildContext(cli *CLI) (*appContext, error) {
	path := cli.Settings
	if path == "" {
		var err error
		if path, err = settings.DefaultPath(); err != nil {
			return nil, err
		}
	}
	store, err := settings.Load(path)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cli.Debug {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	auth := gitexec.NewAuthBridge(store.Token, store.UseStoredCredential)
	auth.TrustedHost = store.TrustedHost()

	runner := gitexec.NewRunner(
		gitexec.WithAuthBridge(auth),
		gitexec.WithLogger(logger),
	)
	service := git.NewService(runner, git.WithServiceLogger(logger))

	return &appContext{service: service, store: store, logger: logger}, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("gitbridge"),
		kong.Description(description),
		kong.UsageOnError(),
	)

	app, err := buildContext(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := ctx.Run(app); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", gitexec.Sanitize(err.Error()))
		os.Exit(1)
	}
}
