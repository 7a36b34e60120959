package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-search-assistant/internal/observability"
	"github.com/jonathan/job-search-assistant/internal/session"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive job search session",
	Long: `Start an interactive session on the terminal. Type 'help' for the commands.
The session lives only as long as the shell.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()

	source, closeSource, err := buildSource(ctx, cfg)
	defer closeSource()
	if err != nil {
		return fmt.Errorf("failed to set up search: %w", err)
	}
	generator, closeGenerator, err := buildGenerator(ctx, cfg)
	defer closeGenerator()
	if err != nil {
		return fmt.Errorf("failed to set up tailoring: %w", err)
	}

	sh := NewShell(session.New(source, generator), cmd.OutOrStdout())
	return sh.Run(ctx, cmd.InOrStdin())
}

const shellHelp = `Commands:
  upload [path]        Upload a resume (no path cancels)
  query <text>         Set the search text
  search [text]        Search (uses the current query when no text is given)
  select <n|listing>   Select a job
  save [n|listing]     Save a job (the selected one when no argument is given)
  remove <n|listing>   Remove a saved job
  tailor               Tailor the resume to the selected job
  tab <name>           Switch view: upload, search, saved, tailor
  show                 Print the current view
  help                 Show this help
  quit                 Leave the shell

Numbers refer to the list on screen: results on the search view, saved
jobs on the saved view.`

// errQuit ends the shell loop.
var errQuit = errors.New("quit")

// Shell drives one session from text commands.
type Shell struct {
	session *session.Session
	printer *observability.Printer
	out     io.Writer
	now     func() time.Time
}

// NewShell creates a shell over sess that writes to out.
func NewShell(sess *session.Session, out io.Writer) *Shell {
	return &Shell{
		session: sess,
		printer: observability.NewPrinter(out),
		out:     out,
		now:     time.Now,
	}
}

// Run reads commands from in until quit, end of input or ctx is done.
// Command errors are printed and do not stop the shell.
//
//nolint:errcheck // writing to the terminal; errors are not recoverable
func (sh *Shell) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(sh.out, "Job search assistant. Type 'help' for commands.")
	sh.printer.PrintSession(sh.session.State())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		err := sh.Exec(ctx, scanner.Text())
		switch {
		case errors.Is(err, errQuit):
			return nil
		case err != nil:
			fmt.Fprintf(sh.out, "Error: %v\n", err)
		}
	}
}

// Exec runs one command line and prints the resulting view.
func (sh *Shell) Exec(ctx context.Context, line string) error {
	command, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch strings.ToLower(command) {
	case "":
		return nil
	case "help", "?":
		_, err = fmt.Fprintln(sh.out, shellHelp)
		return err
	case "quit", "exit":
		return errQuit
	case "show":
	case "upload":
		err = sh.upload(arg)
	case "query":
		sh.session.SetQuery(arg)
		err = sh.switchTab(session.TabSearch)
	case "search":
		err = sh.search(ctx, arg)
	case "select":
		err = sh.withListing(arg, false, sh.session.SelectJob)
	case "save":
		err = sh.withListing(arg, true, sh.session.SaveJob)
	case "remove":
		err = sh.withListing(arg, false, func(job session.Listing) (session.State, error) {
			return sh.session.RemoveJob(job), nil
		})
	case "tailor":
		if _, err = sh.session.Tailor(ctx); err == nil {
			err = sh.switchTab(session.TabTailor)
		}
	case "tab":
		_, err = sh.session.SwitchTab(session.Tab(strings.ToLower(arg)))
	default:
		return fmt.Errorf("unknown command %q (type 'help')", command)
	}
	if err != nil {
		return err
	}

	sh.printer.PrintSession(sh.session.State())
	return nil
}

func (sh *Shell) upload(path string) error {
	if path == "" {
		sh.session.UploadResume(nil)
		return sh.switchTab(session.TabUpload)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read resume: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot read resume: %s is a directory", path)
	}

	sh.session.UploadResume(&session.Resume{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		UploadedAt:  sh.now().UTC(),
	})
	return sh.switchTab(session.TabUpload)
}

func (sh *Shell) search(ctx context.Context, query string) error {
	if query == "" {
		query = sh.session.State().Query
	}
	if _, err := sh.session.Search(ctx, query); err != nil {
		return err
	}
	return sh.switchTab(session.TabSearch)
}

// withListing resolves arg to a listing and applies action to it. With
// orSelected, an empty arg means the selected job.
func (sh *Shell) withListing(arg string, orSelected bool, action func(session.Listing) (session.State, error)) error {
	job, err := sh.resolveListing(arg, orSelected)
	if err != nil {
		return err
	}
	_, err = action(job)
	return err
}

// resolveListing turns a 1-based number into the listing at that position of
// the visible list, and anything else into a listing of that text.
func (sh *Shell) resolveListing(arg string, orSelected bool) (session.Listing, error) {
	state := sh.session.State()

	if arg == "" {
		if orSelected && state.Selected != nil {
			return *state.Selected, nil
		}
		if orSelected {
			return "", session.ErrNoSelection
		}
		return "", fmt.Errorf("a listing number or name is required")
	}

	n, err := strconv.Atoi(arg)
	if err != nil {
		return session.Listing(arg), nil
	}

	list := state.Results
	if state.Tab == session.TabSaved {
		list = state.Saved
	}
	if n < 1 || n > len(list) {
		return "", fmt.Errorf("no listing number %d (%d shown)", n, len(list))
	}
	return list[n-1], nil
}

func (sh *Shell) switchTab(tab session.Tab) error {
	_, err := sh.session.SwitchTab(tab)
	return err
}
