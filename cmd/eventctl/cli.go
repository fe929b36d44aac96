package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"evently/internal/app"
	"evently/internal/guard"
	"evently/internal/shared/config"
	"evently/pkg/logger"
)

// cli carries what every command needs. app is built lazily on the first
// command that runs, unless a test provided one.
type cli struct {
	app    *app.App
	owned  bool
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	jsonOutput bool
	logLevel   string

	// readSecret overrides the terminal prompt
	readSecret func(prompt string) (string, error)
	lines      *bufio.Reader
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "eventctl",
		Short:         "Browse events, buy tickets and run your events from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}
	root.SetIn(c.in)
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "print JSON instead of tables")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to LOG_LEVEL")

	root.AddCommand(
		loginCommand(c),
		registerCommand(c),
		logoutCommand(c),
		whoamiCommand(c),
		profileCommand(c),
		passwordCommand(c),
		eventsCommand(c),
		ticketsCommand(c),
		checkoutCommand(c),
		organizerCommand(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	if c.app != nil {
		return nil
	}

	cfg := config.Load()
	level := c.logLevel
	if level == "" {
		level = cfg.LogLevel
	}
	log := logger.NewWithOutput(c.errOut, level, false)

	a, err := app.New(cmd.Context(), cfg, app.Options{Logger: log})
	if err != nil {
		return err
	}
	c.app = a
	c.owned = true
	return nil
}

func (c *cli) close() {
	if c.owned && c.app != nil {
		_ = c.app.Close()
	}
}

// requireRoles refuses to run a command the route guard would not allow.
// No roles only requires a signed-in user.
func (c *cli) requireRoles(roles ...string) func(*cobra.Command, []string) error {
	return func(*cobra.Command, []string) error {
		switch guard.DecideFor(c.app.Session, roles) {
		case guard.RedirectLogin:
			return errors.New("not signed in; run `eventctl login` first")
		case guard.RedirectHome:
			return fmt.Errorf("requires one of the roles %s; signed in as %s",
				strings.Join(roles, ", "), c.app.Session.Role())
		default:
			return nil
		}
	}
}

// print writes v as indented JSON, or as a table when one is given and
// --json is off
func (c *cli) print(v any, table func(w io.Writer)) error {
	if c.jsonOutput || table == nil {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	table(w)
	return w.Flush()
}

// secret prompts for a value without echo when stdin is a terminal. Piped
// input is read one line at a time.
func (c *cli) secret(prompt string) (string, error) {
	if c.readSecret != nil {
		return c.readSecret(prompt)
	}

	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(c.errOut, prompt+": ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.errOut)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", strings.ToLower(prompt), err)
		}
		return string(b), nil
	}

	if c.lines == nil {
		c.lines = bufio.NewReader(c.in)
	}
	line, err := c.lines.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(prompt), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
