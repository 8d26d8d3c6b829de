package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/gitbridge/internal/git"
	"github.com/dshills/gitbridge/internal/orchestrator"
)

// repoFlag is the shared --repo flag, defaulting to the working directory.
type repoFlag struct {
	Repo string `help:"Repository or project path" default:"." type:"path"`
}

// StatusCmd prints the status snapshot for a project.
type StatusCmd struct {
	repoFlag
}

func (c *StatusCmd) Run(app *appContext) error {
	status := app.service.ReadStatus(context.Background(), c.Repo)
	if status.RepoRoot == "" {
		fmt.Println("not a git repository")
		return nil
	}
	fmt.Printf("repo: %s\n", status.RepoRoot)
	if status.CurrentBranch != "" {
		fmt.Printf("branch: %s\n", status.CurrentBranch)
	}
	for _, entry := range status.Changes {
		line := fmt.Sprintf("%s %s", entry.Code, entry.RelPath)
		if entry.OriginalRelPath != "" {
			line += " <- " + entry.OriginalRelPath
		}
		fmt.Println(line)
	}
	return nil
}

// PreflightCmd prints a push preflight summary.
type PreflightCmd struct {
	repoFlag
	Limit int `help:"Cap on each sample path list" default:"40"`
}

func (c *PreflightCmd) Run(app *appContext) error {
	report, err := app.service.Preflight(context.Background(), c.Repo, c.Limit)
	if err != nil {
		return err
	}
	fmt.Printf("branch: %s\n", report.CurrentBranch)
	if report.Upstream == "" {
		fmt.Println("upstream: (none)")
	} else {
		fmt.Printf("upstream: %s\n", report.Upstream)
		if report.CountsKnown {
			fmt.Printf("ahead: %d behind: %d\n", report.Ahead, report.Behind)
		} else {
			fmt.Println("ahead/behind: unknown")
		}
	}
	fmt.Printf("staged: %d unstaged: %d untracked: %d ignored: %d\n",
		report.StagedCount, report.UnstagedCount, report.UntrackedCount, report.IgnoredCount)
	for _, path := range report.StagedPaths {
		fmt.Printf("  staged: %s\n", path)
	}
	for _, path := range report.UnstagedPaths {
		fmt.Printf("  unstaged: %s\n", path)
	}
	for _, path := range report.UntrackedPaths {
		fmt.Printf("  untracked: %s\n", path)
	}
	return nil
}

// StageCmd stages paths, or everything with --all.
type StageCmd struct {
	repoFlag
	All   bool     `help:"Stage all changes"`
	Paths []string `arg:"" optional:"" help:"Paths to stage"`
}

func (c *StageCmd) Run(app *appContext) error {
	ctx := context.Background()
	if c.All {
		return app.service.StageAll(ctx, c.Repo)
	}
	return app.service.StagePaths(ctx, c.Repo, c.Paths)
}

// UnstageCmd unstages paths, or everything with --all.
type UnstageCmd struct {
	repoFlag
	All   bool     `help:"Unstage everything"`
	Paths []string `arg:"" optional:"" help:"Paths to unstage"`
}

func (c *UnstageCmd) Run(app *appContext) error {
	ctx := context.Background()
	if c.All {
		return app.service.UnstageAll(ctx, c.Repo)
	}
	return app.service.UnstagePaths(ctx, c.Repo, c.Paths)
}

// CommitCmd commits exactly the named files.
type CommitCmd struct {
	repoFlag
	Message string   `help:"Commit message" short:"m" required:""`
	Paths   []string `arg:"" help:"Files to commit"`
}

func (c *CommitCmd) Run(app *appContext) error {
	return app.service.CommitFiles(context.Background(), c.Repo, c.Paths, c.Message)
}

// PushCmd pushes the current branch.
type PushCmd struct {
	repoFlag
	SetUpstream bool `help:"Push HEAD to the default remote and set tracking" name:"set-upstream" short:"u"`
}

func (c *PushCmd) Run(app *appContext) error {
	ctx := context.Background()
	if c.SetUpstream {
		return app.service.PushHeadToOrigin(ctx, c.Repo, app.store.DefaultRemote())
	}
	return app.service.Push(ctx, c.Repo)
}

// PullCmd pulls the current branch.
type PullCmd struct {
	repoFlag
}

func (c *PullCmd) Run(app *appContext) error {
	return app.service.Pull(context.Background(), c.Repo)
}

// FetchCmd fetches and prunes.
type FetchCmd struct {
	repoFlag
}

func (c *FetchCmd) Run(app *appContext) error {
	return app.service.Fetch(context.Background(), c.Repo)
}

// BranchCmd lists branches or creates one.
type BranchCmd struct {
	repoFlag
	Create string `help:"Create a branch with this name and switch to it"`
}

func (c *BranchCmd) Run(app *appContext) error {
	ctx := context.Background()
	if c.Create != "" {
		return app.service.CreateBranch(ctx, c.Repo, c.Create)
	}
	info, err := app.service.ListBranches(ctx, c.Repo)
	if err != nil {
		return err
	}
	for _, name := range info.Branches {
		marker := "  "
		if name == info.Current {
			marker = "* "
		}
		fmt.Println(marker + name)
	}
	for _, name := range info.RemoteBranches {
		fmt.Println("  " + name)
	}
	return nil
}

// CheckoutCmd switches branches.
type CheckoutCmd struct {
	repoFlag
	Branch string `arg:"" help:"Branch to switch to"`
	Remote string `help:"Track this remote's branch instead of a local one"`
}

func (c *CheckoutCmd) Run(app *appContext) error {
	ctx := context.Background()
	if c.Remote != "" {
		return app.service.CheckoutRemoteBranch(ctx, c.Repo, c.Remote, c.Branch)
	}
	return app.service.Checkout(ctx, c.Repo, c.Branch)
}

// TagCmd lists, creates, or pushes tags.
type TagCmd struct {
	repoFlag
	Create  string `help:"Create an annotated tag with this name"`
	Message string `help:"Tag message (with --create)" short:"m"`
	Push    string `help:"Push this tag to the default remote"`
}

func (c *TagCmd) Run(app *appContext) error {
	ctx := context.Background()
	switch {
	case c.Create != "":
		return app.service.CreateAnnotatedTag(ctx, c.Repo, c.Create, c.Message)
	case c.Push != "":
		return app.service.PushTag(ctx, c.Repo, app.store.DefaultRemote(), c.Push)
	default:
		tags, err := app.service.ListTags(ctx, c.Repo)
		if err != nil {
			return err
		}
		for _, tag := range tags {
			fmt.Println(tag)
		}
		return nil
	}
}

// RemoteCmd shows or configures a remote.
type RemoteCmd struct {
	repoFlag
	Name    string `help:"Remote name" default:"origin"`
	SetURL  string `help:"Point the remote at this URL" name:"set-url"`
	Replace bool   `help:"Allow replacing a mismatched existing URL"`
}

func (c *RemoteCmd) Run(app *appContext) error {
	ctx := context.Background()
	if c.SetURL == "" {
		url := app.service.GetRemoteURL(ctx, c.Repo, c.Name)
		if url == "" {
			fmt.Println("(not configured)")
			return nil
		}
		fmt.Println(git.SanitizeRepoURL(url))
		return nil
	}

	res, err := app.service.ConfigureRemote(ctx, c.Repo, c.Name, c.SetURL, c.Replace)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s -> %s\n", res.Action, res.RemoteName, git.SanitizeRepoURL(res.URL))
	return nil
}

// RollbackCmd restores one file to its committed content.
type RollbackCmd struct {
	repoFlag
	Path string `arg:"" help:"Repository-relative path to restore"`
}

func (c *RollbackCmd) Run(app *appContext) error {
	return app.service.RollbackFile(context.Background(), c.Repo, c.Path)
}

// InitCmd makes sure a project has a repository.
type InitCmd struct {
	repoFlag
}

func (c *InitCmd) Run(app *appContext) error {
	root, err := app.service.EnsureRepoInitialized(context.Background(), c.Repo)
	if err != nil {
		return err
	}
	fmt.Println(root)
	return nil
}

// CloneCmd clones a repository.
type CloneCmd struct {
	URL    string `arg:"" help:"Repository URL"`
	Dir    string `help:"Directory to clone under" default:"." type:"path"`
	Branch string `help:"Clone only this branch"`
}

func (c *CloneCmd) Run(app *appContext) error {
	dest, err := app.service.Clone(context.Background(), git.CloneRequest{
		URL:     c.URL,
		BaseDir: c.Dir,
		Branch:  c.Branch,
	})
	if err != nil {
		return err
	}
	fmt.Println(dest)
	return nil
}

// WatchCmd streams status snapshots until interrupted.
type WatchCmd struct {
	repoFlag
}

func (c *WatchCmd) Run(app *appContext) error {
	orch := orchestrator.New(app.service, orchestrator.WithLogger(app.logger))
	defer orch.Close()

	events := orch.Subscribe()
	orch.RequestRefresh(c.Repo, true)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-stop:
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			status, isStatus := ev.(orchestrator.StatusEvent)
			if !isStatus {
				continue
			}
			if status.Status.RepoRoot == "" {
				fmt.Println("-- not a git repository")
				continue
			}
			fmt.Printf("-- %s (%s), %d change(s)\n",
				status.Status.RepoRoot, status.Status.CurrentBranch, len(status.Status.Changes))
			for _, entry := range status.Status.Changes {
				fmt.Printf("   %s %s\n", entry.Code, entry.RelPath)
			}
		}
	}
}
