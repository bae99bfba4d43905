// Package console is an interactive terminal front end for the palette
// workspace. It reads one command per line and writes results to out.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/palette-peek/api/account"
	"github.com/palette-peek/api/colorconv"
	"github.com/palette-peek/api/datastore"
	"github.com/palette-peek/api/models"
	"github.com/palette-peek/api/palette"
	"github.com/palette-peek/api/session"
)

type Console struct {
	Session   *session.Session
	Prefs     *session.Preferences
	Accounts  *account.Provider
	Workspace *palette.Workspace
	// Clipboard may be nil, copy then prints the text instead.
	Clipboard Clipboard

	out      io.Writer
	commands map[string]command
}

type command struct {
	usage string
	help  string
	run   func(c *Console, args []string) error
}

var errQuit = errors.New("quit")

// New builds a console whose session, preferences, accounts and saved
// palettes all live in store.
func New(out io.Writer, store datastore.KeyValueStore, opts ...palette.Option) (*Console, error) {
	users, err := datastore.NewUserDatabase(store)
	if err != nil {
		return nil, err
	}
	palettes, err := datastore.NewPaletteDatabase(store)
	if err != nil {
		return nil, err
	}

	sess := session.Load(store)
	c := &Console{
		Session:   sess,
		Prefs:     session.LoadPreferences(store),
		Accounts:  account.NewProvider(users, sess),
		Workspace: palette.NewWorkspace(sess, palettes, opts...),
		out:       out,
	}
	c.commands = map[string]command{
		"random":   {"random [n]", "replace the working palette with n random colors", (*Console).random},
		"add":      {"add <hex>", "append a color", (*Console).add},
		"remove":   {"remove <id|index>", "drop a color from the working palette", (*Console).remove},
		"show":     {"show", "list the working palette", (*Console).show},
		"clear":    {"clear", "empty the working palette", (*Console).clear},
		"save":     {"save [name]", "save the working palette", (*Console).save},
		"saved":    {"saved", "list saved palettes", (*Console).saved},
		"delete":   {"delete <id|index>", "delete a saved palette", (*Console).deleteSaved},
		"load":     {"load <id|index>", "copy a saved palette into the working palette", (*Console).load},
		"convert":  {"convert <hex>", "show a color as hex, RGB and HSL", (*Console).convert},
		"copy":     {"copy <index> [hex|rgb|hsl]", "copy a color to the clipboard", (*Console).copy},
		"register": {"register <email> <password>", "create an account and log in", (*Console).register},
		"login":    {"login <email> <password>", "log in", (*Console).login},
		"logout":   {"logout", "log out", (*Console).logout},
		"whoami":   {"whoami", "show the active account", (*Console).whoami},
		"theme":    {"theme", "toggle between light and dark output", (*Console).theme},
		"help":     {"help", "list commands", (*Console).help},
		"quit":     {"quit", "exit", func(*Console, []string) error { return errQuit }},
	}
	return c, nil
}

func (c *Console) styles() styles {
	return stylesFor(c.Prefs.Theme())
}

// Run reads commands from in until quit or end of input.
func (c *Console) Run(in io.Reader) error {
	s := c.styles()
	fmt.Fprintln(c.out, s.heading.Sprint("Palette Peek"), s.muted.Sprint("type help for commands"))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.out, c.styles().accent.Sprint("> "))
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}
		if !c.Execute(scanner.Text()) {
			return nil
		}
	}
}

// Execute runs a single command line and reports whether the loop should
// continue. Command errors are printed and never stop the loop.
func (c *Console) Execute(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	name := strings.ToLower(fields[0])
	if name == "exit" {
		name = "quit"
	}
	cmd, ok := c.commands[name]
	if !ok {
		c.printError(fmt.Errorf("unknown command %q, type help for a list", fields[0]))
		return true
	}

	err := cmd.run(c, fields[1:])
	if errors.Is(err, errQuit) {
		return false
	}
	if err != nil {
		c.printError(err)
	}
	return true
}

func (c *Console) printError(err error) {
	fmt.Fprintln(c.out, c.styles().failure.Sprint("error: "+userMessage(err)))
}

// userMessage turns domain errors into short messages for the prompt.
func userMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		return "log in to save and manage palettes"
	case errors.Is(err, models.ErrEmptyPalette):
		return "the working palette is empty"
	case errors.Is(err, models.ErrDuplicateIdentity):
		return "an account with that email already exists"
	case errors.Is(err, models.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, models.ErrInvalidFormat):
		return "not a hex color, use #RGB or #RRGGBB"
	case errors.Is(err, models.ErrOutOfRange):
		return err.Error()
	case errors.Is(err, palette.ErrPaletteNotFound):
		return "no saved palette with that id"
	default:
		return err.Error()
	}
}

func usageError(usage string) error {
	return fmt.Errorf("usage: %s", usage)
}

func (c *Console) random(args []string) error {
	count := palette.DefaultSize
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return usageError(c.commands["random"].usage)
		}
		count = n
	}
	if err := c.Workspace.GenerateRandom(count); err != nil {
		return err
	}
	return c.show(nil)
}

func (c *Console) add(args []string) error {
	if len(args) != 1 {
		return usageError(c.commands["add"].usage)
	}
	color, err := c.Workspace.Add(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "added %s\n", describe(color))
	return nil
}

// colorAt resolves a 1-based index or a color id in the working palette.
func (c *Console) colorAt(ref string) (models.Color, bool) {
	colors := c.Workspace.Colors()
	if i, err := strconv.Atoi(ref); err == nil {
		if i < 1 || i > len(colors) {
			return models.Color{}, false
		}
		return colors[i-1], true
	}
	for _, color := range colors {
		if color.ID == ref {
			return color, true
		}
	}
	return models.Color{}, false
}

func (c *Console) remove(args []string) error {
	if len(args) != 1 {
		return usageError(c.commands["remove"].usage)
	}
	color, ok := c.colorAt(args[0])
	if !ok {
		return fmt.Errorf("no color %s in the working palette", args[0])
	}
	c.Workspace.Remove(color.ID)
	fmt.Fprintf(c.out, "removed %s\n", color.Hex)
	return nil
}

func (c *Console) show([]string) error {
	colors := c.Workspace.Colors()
	if len(colors) == 0 {
		fmt.Fprintln(c.out, c.styles().muted.Sprint("working palette is empty"))
		return nil
	}
	for i, color := range colors {
		fmt.Fprintf(c.out, "%2d. %s\n", i+1, describe(color))
	}
	return nil
}

func (c *Console) clear([]string) error {
	c.Workspace.Clear()
	fmt.Fprintln(c.out, "working palette cleared")
	return nil
}

func (c *Console) save(args []string) error {
	saved, err := c.Workspace.SaveAs(strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, c.styles().success.Sprintf("saved %s (%s)", saved.DisplayName(), saved.ID))
	return nil
}

func (c *Console) saved([]string) error {
	if _, ok := c.Session.Identity(); !ok {
		return models.ErrUnauthenticated
	}
	palettes := c.Workspace.Saved()
	if len(palettes) == 0 {
		fmt.Fprintln(c.out, c.styles().muted.Sprint("no saved palettes"))
		return nil
	}

	s := c.styles()
	for i, p := range palettes {
		swatches := make([]string, len(p.Colors))
		for j, color := range p.Colors {
			swatches[j] = swatch(color)
		}
		fmt.Fprintf(c.out, "%2d. %s %s %s\n    %s\n",
			i+1,
			s.heading.Sprint(p.DisplayName()),
			s.muted.Sprint(p.CreatedAt.Local().Format("2006-01-02 15:04")),
			s.muted.Sprint(p.ID),
			strings.Join(swatches, ""),
		)
	}
	return nil
}

// savedAt resolves a 1-based index or an id in the saved collection.
func (c *Console) savedAt(ref string) (models.Palette, error) {
	palettes := c.Workspace.Saved()
	if i, err := strconv.Atoi(ref); err == nil && i >= 1 && i <= len(palettes) {
		return palettes[i-1], nil
	}
	for _, p := range palettes {
		if p.ID == ref {
			return p, nil
		}
	}
	return models.Palette{}, palette.ErrPaletteNotFound
}

func (c *Console) deleteSaved(args []string) error {
	if len(args) != 1 {
		return usageError(c.commands["delete"].usage)
	}
	if _, ok := c.Session.Identity(); !ok {
		return models.ErrUnauthenticated
	}
	p, err := c.savedAt(args[0])
	if err != nil {
		return err
	}
	if err := c.Workspace.Delete(p.ID); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "deleted %s\n", p.DisplayName())
	return nil
}

func (c *Console) load(args []string) error {
	if len(args) != 1 {
		return usageError(c.commands["load"].usage)
	}
	p, err := c.savedAt(args[0])
	if err != nil {
		return err
	}
	if err := c.Workspace.Load(p.ID); err != nil {
		return err
	}
	return c.show(nil)
}

func (c *Console) convert(args []string) error {
	if len(args) != 1 {
		return usageError(c.commands["convert"].usage)
	}
	rgb, err := colorconv.HexToRGB(args[0])
	if err != nil {
		return err
	}
	color, err := models.NewColorFromRGB(rgb)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, describe(color))
	return nil
}

func (c *Console) copy(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError(c.commands["copy"].usage)
	}
	color, ok := c.colorAt(args[0])
	if !ok {
		return fmt.Errorf("no color %s in the working palette", args[0])
	}
	format := models.CopyHex
	if len(args) == 2 {
		format = models.CopyFormat(strings.ToLower(args[1]))
	}
	text, err := color.CopyText(format)
	if err != nil {
		return err
	}

	if c.Clipboard != nil {
		if err := c.Clipboard.WriteText(text); err == nil {
			fmt.Fprintln(c.out, c.styles().success.Sprintf("copied %s", text))
			return nil
		}
	}
	fmt.Fprintln(c.out, c.styles().warn.Sprintf("clipboard unavailable, copy manually: %s", text))
	return nil
}

func (c *Console) register(args []string) error {
	if len(args) != 2 {
		return usageError(c.commands["register"].usage)
	}
	user, err := c.Accounts.Register(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, c.styles().success.Sprintf("registered and logged in as %s", user.Email))
	return nil
}

func (c *Console) login(args []string) error {
	if len(args) != 2 {
		return usageError(c.commands["login"].usage)
	}
	user, err := c.Accounts.Login(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, c.styles().success.Sprintf("logged in as %s (%d saved palettes)", user.Email, len(c.Workspace.Saved())))
	return nil
}

func (c *Console) logout([]string) error {
	if _, ok := c.Session.Identity(); !ok {
		fmt.Fprintln(c.out, "not logged in")
		return nil
	}
	if err := c.Accounts.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "logged out")
	return nil
}

func (c *Console) whoami([]string) error {
	identity, ok := c.Session.Identity()
	if !ok {
		fmt.Fprintln(c.out, "not logged in")
		return nil
	}
	fmt.Fprintln(c.out, identity)
	return nil
}

func (c *Console) theme([]string) error {
	theme, err := c.Prefs.Toggle()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "theme is now %s\n", theme)
	return nil
}

func (c *Console) help([]string) error {
	names := []string{
		"random", "add", "remove", "show", "clear", "save", "saved", "delete", "load",
		"convert", "copy", "register", "login", "logout", "whoami", "theme", "help", "quit",
	}
	s := c.styles()
	for _, name := range names {
		cmd := c.commands[name]
		fmt.Fprintf(c.out, "  %-28s %s\n", s.accent.Sprint(cmd.usage), cmd.help)
	}
	return nil
}
