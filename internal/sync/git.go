// Package sync keeps the moodlog data directory in a git repository.
// Saves are committed with debouncing and semantic messages such as
// "Add diary: Trip to the lake"; pull and push are explicit.
package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	gosync "sync"
	"time"

	"moodlog/internal/fsutil"
	"moodlog/internal/gallery"
	"moodlog/internal/storage"

	"github.com/dustin/go-humanize/english"
)

var (
	// ErrNotRepo is returned when the data directory has no repository.
	ErrNotRepo = errors.New("not a git repository - run 'moodlog sync --init' first")
	// ErrNoRemote is returned by pull and push without a configured remote.
	ErrNoRemote = errors.New("no remote configured - run 'moodlog sync --setup'")
)

// Config holds git sync configuration.
type Config struct {
	Enabled       bool
	AutoCommit    bool
	AutoPush      bool
	PullOnStartup bool
	CommitMessage string // "auto" or a fixed message
}

// Status represents the current git status.
type Status struct {
	IsRepo       bool
	HasRemote    bool
	RemoteName   string
	RemoteURL    string
	Branch       string
	Ahead        int
	Behind       int
	HasChanges   bool
	LastCommitAt *time.Time
}

// Commit is one entry of the history log.
type Commit struct {
	Hash    string
	When    time.Time
	Subject string
}

// GitSync manages git operations for the data directory.
type GitSync struct {
	dataDir string
	config  *Config

	mu              gosync.Mutex
	pendingFiles    map[string]bool
	pendingContexts []storage.SaveContext
	commitTimer     *time.Timer

	// opMu serializes git invocations so index.lock never collides.
	opMu gosync.Mutex

	debounceDuration time.Duration
}

const gitignoreContent = `# moodlog - git sync ignore file
backups/
*.bak
*.corrupt.*
*.tmp-*
debug.log
`

// New creates a new GitSync instance.
func New(dataDir string, cfg *Config) *GitSync {
	return &GitSync{
		dataDir:          dataDir,
		config:           cfg,
		pendingFiles:     make(map[string]bool),
		debounceDuration: 2 * time.Second,
	}
}

// IsGitInstalled checks if git is available on the system.
func IsGitInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo checks if the data directory is a git repository.
func (g *GitSync) IsRepo() bool {
	info, err := os.Stat(filepath.Join(g.dataDir, ".git"))
	return err == nil && info.IsDir()
}

const (
	gitTimeout    = 10 * time.Second
	commitTimeout = 15 * time.Second
	remoteTimeout = 60 * time.Second
)

// Init creates the repository with the moodlog ignore file as its first commit.
func (g *GitSync) Init() error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if !IsGitInstalled() {
		return errors.New("git is not installed")
	}
	if _, err := g.run(commitTimeout, "init"); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	if err := fsutil.WriteFileAtomic(filepath.Join(g.dataDir, ".gitignore"), []byte(gitignoreContent), 0600); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	return g.stageAndCommit([]string{".gitignore"}, "Initialize moodlog journal")
}

// Status reports branch, remote, tracking counts, local changes and the
// last commit time.
func (g *GitSync) Status() (*Status, error) {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	status := &Status{IsRepo: g.IsRepo()}
	if !status.IsRepo {
		return status, nil
	}

	if out, err := g.run(gitTimeout, "status", "--porcelain", "--branch"); err == nil {
		first, rest, _ := strings.Cut(out, "\n")
		parseBranchLine(first, status)
		status.HasChanges = rest != ""
	}

	if out, err := g.run(gitTimeout, "remote", "-v"); err == nil && out != "" {
		status.HasRemote = true
		status.RemoteName, status.RemoteURL = parseRemoteLine(out)
	}

	if out, err := g.run(gitTimeout, "log", "-1", "--format=%ct"); err == nil && out != "" {
		var unix int64
		if _, err := fmt.Sscanf(out, "%d", &unix); err == nil {
			t := time.Unix(unix, 0)
			status.LastCommitAt = &t
		}
	}
	return status, nil
}

// parseBranchLine reads the "## main...origin/main [ahead 1, behind 2]"
// header of porcelain status.
func parseBranchLine(line string, s *Status) {
	line = strings.TrimPrefix(line, "## ")
	line = strings.TrimPrefix(line, "No commits yet on ")
	head, counts, _ := strings.Cut(line, " [")
	s.Branch, _, _ = strings.Cut(head, "...")
	for _, part := range strings.Split(strings.TrimSuffix(counts, "]"), ", ") {
		var n int
		if _, err := fmt.Sscanf(part, "ahead %d", &n); err == nil {
			s.Ahead = n
		} else if _, err := fmt.Sscanf(part, "behind %d", &n); err == nil {
			s.Behind = n
		}
	}
}

// parseRemoteLine takes the first "origin\turl (fetch)" line of remote -v.
func parseRemoteLine(out string) (name, url string) {
	first, _, _ := strings.Cut(out, "\n")
	fields := strings.Fields(first)
	if len(fields) < 2 {
		return "", ""
	}
	return fields[0], fields[1]
}

// History returns up to limit recent commits, newest first.
func (g *GitSync) History(limit int) ([]Commit, error) {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if !g.IsRepo() {
		return nil, ErrNotRepo
	}
	if limit <= 0 {
		limit = 10
	}

	out, err := g.run(gitTimeout, "log", fmt.Sprintf("-%d", limit), "--format=%h%x09%ct%x09%s")
	if err != nil {
		if strings.Contains(err.Error(), "does not have any commits") {
			return nil, nil
		}
		return nil, err
	}

	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}
		var unix int64
		fmt.Sscanf(parts[1], "%d", &unix)
		commits = append(commits, Commit{Hash: parts[0], When: time.Unix(unix, 0), Subject: parts[2]})
	}
	return commits, nil
}

// CommitAll stages and commits every change in the data directory.
func (g *GitSync) CommitAll() error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if !g.IsRepo() {
		return ErrNotRepo
	}
	return g.stageAndCommit([]string{"."}, "Update journal")
}

// Pull rebases local commits onto the remote.
func (g *GitSync) Pull() error {
	g.opMu.Lock()
	defer g.opMu.Unlock()
	return g.remote("pull", "--rebase")
}

// Push sends local commits to the remote.
func (g *GitSync) Push() error {
	g.opMu.Lock()
	defer g.opMu.Unlock()
	return g.remote("push")
}

// remote runs a network operation. Callers hold opMu.
func (g *GitSync) remote(args ...string) error {
	if !g.IsRepo() {
		return ErrNotRepo
	}
	if out, err := g.run(gitTimeout, "remote"); err != nil || out == "" {
		return ErrNoRemote
	}
	if _, err := g.run(remoteTimeout, args...); err != nil {
		return fmt.Errorf("%s failed: %w", args[0], err)
	}
	return nil
}

// AddRemote adds a git remote, or updates its URL if it exists.
func (g *GitSync) AddRemote(name, url string) error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if !g.IsRepo() {
		return ErrNotRepo
	}
	if name == "" || url == "" {
		return errors.New("remote name and URL are required")
	}

	verb := "add"
	if _, err := g.run(gitTimeout, "remote", "get-url", name); err == nil {
		verb = "set-url"
	}
	if _, err := g.run(gitTimeout, "remote", verb, name, url); err != nil {
		return fmt.Errorf("git remote %s: %w", verb, err)
	}
	return nil
}

// OnFileSavedWithContext queues a save for a debounced commit. It is
// registered with storage.Storage.SetOnSaveWithContext.
func (g *GitSync) OnFileSavedWithContext(ctx storage.SaveContext) {
	if !g.config.Enabled || !g.config.AutoCommit || !g.IsRepo() {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.pendingFiles[ctx.Filename] = true
	g.pendingContexts = append(g.pendingContexts, ctx)

	if g.commitTimer != nil {
		g.commitTimer.Stop()
	}
	g.commitTimer = time.AfterFunc(g.debounceDuration, g.flushCommit)
}

// Flush commits pending saves now instead of waiting for the debounce.
func (g *GitSync) Flush() {
	g.mu.Lock()
	if g.commitTimer != nil {
		g.commitTimer.Stop()
		g.commitTimer = nil
	}
	g.mu.Unlock()

	g.flushCommit()
}

func (g *GitSync) flushCommit() {
	g.mu.Lock()
	files := make([]string, 0, len(g.pendingFiles))
	for f := range g.pendingFiles {
		files = append(files, f)
	}
	contexts := g.pendingContexts
	g.pendingFiles = make(map[string]bool)
	g.pendingContexts = nil
	g.mu.Unlock()

	if len(files) == 0 {
		return
	}
	if err := g.commitFiles(files, contexts); err != nil {
		log.Printf("sync: auto-commit: %v", err)
	}
}

// commitFiles commits the saved files with the images directory, then
// pushes when configured.
func (g *GitSync) commitFiles(files []string, contexts []storage.SaveContext) error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if !g.IsRepo() {
		return ErrNotRepo
	}
	if len(files) == 0 {
		return nil
	}

	// Entries reference attachments by path, so images travel with them.
	paths := append([]string{}, files...)
	if info, err := os.Stat(filepath.Join(g.dataDir, gallery.ImagesDir)); err == nil && info.IsDir() {
		paths = append(paths, gallery.ImagesDir)
	}
	if err := g.stageAndCommit(paths, g.commitMessage(files, contexts)); err != nil {
		return err
	}

	if g.config.AutoPush {
		if err := g.remote("push"); err != nil {
			return fmt.Errorf("committed locally, but %w", err)
		}
	}
	return nil
}

// stageAndCommit is a no-op when staging leaves the index clean.
func (g *GitSync) stageAndCommit(paths []string, message string) error {
	args := append([]string{"add", "-A", "--"}, paths...)
	if _, err := g.run(gitTimeout, args...); err != nil {
		return fmt.Errorf("staging: %w", err)
	}
	if staged, err := g.run(gitTimeout, "diff", "--cached", "--name-only"); err != nil || staged == "" {
		return nil
	}
	if err := g.commit(message); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (g *GitSync) commit(message string) error {
	_, err := g.run(commitTimeout, "-c", "commit.gpgsign=false", "commit", "-m", message)
	return err
}

// commitMessage builds e.g. "Add diary: Lake day", "Delete 3 diaries" or
// "Update: 4 changes". A custom configured message always wins.
func (g *GitSync) commitMessage(files []string, contexts []storage.SaveContext) string {
	if g.config.CommitMessage != "" && g.config.CommitMessage != "auto" {
		return g.config.CommitMessage
	}

	switch len(contexts) {
	case 0:
		if len(files) == 1 && files[0] == storage.DiariesFile {
			return "Update diaries"
		}
		if len(files) == 1 {
			return "Update " + files[0]
		}
		return "Update " + english.Plural(len(files), "file", "")
	case 1:
		return semanticMessage(contexts[0])
	}

	first := contexts[0]
	for _, ctx := range contexts[1:] {
		if ctx.Operation != first.Operation || ctx.ItemType != first.ItemType {
			return fmt.Sprintf("Update: %d changes", len(contexts))
		}
	}
	return capitalizeFirst(first.Operation) + " " + english.Plural(len(contexts), first.ItemType, "")
}

func semanticMessage(ctx storage.SaveContext) string {
	verb := capitalizeFirst(ctx.Operation)
	if ctx.ItemName == "" {
		return verb + " " + ctx.ItemType
	}
	return fmt.Sprintf("%s %s: %s", verb, ctx.ItemType, ctx.ItemName)
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// gitError carries git's stderr for a failed invocation.
type gitError struct {
	args   []string
	stderr string
	err    error
}

func (e *gitError) Error() string {
	if e.stderr != "" {
		return e.stderr
	}
	return fmt.Sprintf("git %s: %v", strings.Join(e.args, " "), e.err)
}

func (e *gitError) Unwrap() error { return e.err }

// run executes git in the data directory without a terminal and returns
// its trimmed stdout. Credential prompts are disabled so a missing login
// fails instead of hanging the UI.
func (g *GitSync) run(timeout time.Duration, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.dataDir
	// Later entries win over inherited ones.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "GIT_ASKPASS=", "SSH_ASKPASS=")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("git %s timed out after %s", args[0], timeout)
		}
		return "", &gitError{args: args, stderr: strings.TrimSpace(stderr.String()), err: err}
	}
	return strings.TrimSpace(stdout.String()), nil
}
