// Package main provides the CLI entrypoint for furitype.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/furitype/internal/config"
	"github.com/verte-zerg/furitype/internal/content"
	"github.com/verte-zerg/furitype/internal/logging"
	"github.com/verte-zerg/furitype/internal/model"
	"github.com/verte-zerg/furitype/internal/session"
	"github.com/verte-zerg/furitype/internal/store"
	"github.com/verte-zerg/furitype/internal/translit"
	"github.com/verte-zerg/furitype/internal/tui"
	"github.com/verte-zerg/furitype/internal/watch"
)

const (
	defaultWatch    = true
	defaultLogLevel = "info"
)

var (
	practiceLayout     string
	practiceContentDir string
	practiceWatch      bool
	practiceLogLevel   string

	layoutCheck string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "furitype",
		Short:         "Typing trainer for furigana-annotated text",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLayout, "layout", "", "spelling table file (.json, .yaml); built-in romaji when empty")
	rootCmd.Flags().StringVar(&practiceContentDir, "content-dir", config.DefaultContentDir(), "directory scanned for practice texts")
	rootCmd.Flags().BoolVar(&practiceWatch, "watch", defaultWatch, "load new texts from the content directory while running")
	rootCmd.Flags().StringVar(&practiceLogLevel, "log-level", defaultLogLevel, "log level: debug, info, warn, error, off")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLayoutCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "layout", &practiceLayout, fileCfg.Practice.Layout)
	applyStringConfig(cmd, "content-dir", &practiceContentDir, fileCfg.Practice.ContentDir)
	applyBoolConfig(cmd, "watch", &practiceWatch, fileCfg.Practice.Watch)
	applyStringConfig(cmd, "log-level", &practiceLogLevel, fileCfg.Log.Level)

	cfg := model.Config{
		LayoutPath: config.ExpandHome(practiceLayout),
		ContentDir: config.ExpandHome(practiceContentDir),
		Watch:      practiceWatch,
		Keymap:     fileCfg.Keymap,
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("furitype needs an interactive terminal")
	}

	logPath := config.DefaultLogPath()
	if fileCfg.Log.File != nil {
		logPath = config.ExpandHome(*fileCfg.Log.File)
	}
	logger, logCloser, err := logging.Open(logPath, practiceLogLevel)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logCloser.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	table, err := loadTable(cfg.LayoutPath)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	contents, err := collectContents(ctx, st, cfg.ContentDir, logger)
	if err != nil {
		return err
	}
	logger.Info("starting", "contents", len(contents), "layout", cfg.LayoutPath, "content_dir", cfg.ContentDir)

	machine := session.New(table, session.WithContents(contents...), session.WithLogger(logger))
	opts := tui.Options{
		Keymap:     keymapFromConfig(cfg.Keymap),
		Hinter:     table,
		Library:    st,
		ContentDir: cfg.ContentDir,
		Logger:     logger,
	}

	if cfg.Watch {
		w, err := watch.New(cfg.ContentDir, watch.WithLogger(logger))
		if err != nil {
			logErrf("content watcher disabled: %v\n", err)
		} else {
			opts.ContentDir = w.Dir()
			opts.Watch = w.Events()
			opts.WatchErrors = w.Errors()
			go func() {
				if err := w.Run(ctx); err != nil {
					logger.Warn("content watcher stopped", "error", err)
				}
			}()
		}
	}

	program := tea.NewProgram(tui.NewModel(machine, opts), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func loadTable(path string) (*translit.Table, error) {
	if path == "" {
		return translit.Default(), nil
	}
	return translit.LoadFile(path)
}

func keymapFromConfig(raw map[string]string) translit.Keymap {
	if len(raw) == 0 {
		return nil
	}
	km := make(translit.Keymap, len(raw))
	for from, to := range raw {
		km[translit.Key(from)] = translit.Key(to)
	}
	return km
}

// collectContents merges the library with the texts in dir. Library entries
// come first; directory texts with an already-listed title are skipped.
func collectContents(ctx context.Context, st *store.Store, dir string, logger *slog.Logger) ([]model.Content, error) {
	entries, err := st.ListContents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	var out []model.Content
	seen := map[string]struct{}{}
	for _, entry := range entries {
		c, err := content.Parse(entry.Source)
		if err != nil {
			logger.Warn("skipping stored content", "title", entry.Title, "error", err)
			continue
		}
		if c.Title == "" {
			c.Title = entry.Title
		}
		seen[c.Title] = struct{}{}
		out = append(out, c)
	}

	loaded, err := content.LoadDir(ctx, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return nil, fmt.Errorf("failed to load content dir: %w", err)
	}
	for _, l := range loaded {
		if _, ok := seen[l.Content.Title]; ok {
			continue
		}
		seen[l.Content.Title] = struct{}{}
		out = append(out, l.Content)
	}
	return out, nil
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>...",
		Short: "Add practice texts to the library",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAddCmd,
	}
}

func runAddCmd(cmd *cobra.Command, args []string) error {
	paths := make([]string, len(args))
	for i, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", arg, err)
		}
		paths[i] = abs
	}
	loaded, err := content.LoadFiles(cmd.Context(), paths)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	now := time.Now()
	for _, l := range loaded {
		entry := model.LibraryEntry{
			Title:   l.Content.Title,
			Source:  l.Source,
			Path:    l.Path,
			AddedAt: now,
		}
		if _, err := st.AddContent(cmd.Context(), entry); err != nil {
			return fmt.Errorf("failed to add %s: %w", l.Path, err)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "added %q (%d characters)\n", l.Content.Title, l.Content.Len()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the content library",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	entries, err := st.ListContents(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list contents: %w", err)
	}
	if len(entries) == 0 {
		logErrln("Library is empty. Add texts with: furitype add <file>")
		return nil
	}
	return writeEntries(cmd.OutOrStdout(), entries)
}

func writeEntries(w io.Writer, entries []model.LibraryEntry) error {
	for _, entry := range entries {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", entry.AddedAt.Local().Format("2006-01-02"), entry.Title, entry.Path); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <title>",
		Short: "Remove a text from the library",
		Args:  cobra.ExactArgs(1),
		RunE:  runRemoveCmd,
	}
}

func runRemoveCmd(cmd *cobra.Command, args []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	title := args[0]
	err = st.RemoveContent(cmd.Context(), title)
	if errors.Is(err, store.ErrNotFound) {
		titles, lerr := st.Titles(cmd.Context())
		if lerr == nil {
			if suggestions := suggestTitles(title, titles, 3); len(suggestions) > 0 {
				logErrf("Did you mean: %s\n", strings.Join(quoteAll(suggestions), ", "))
			}
		}
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to remove content: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "removed %q\n", title); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the spelling table or check a layout file",
		Args:  cobra.NoArgs,
		RunE:  runLayoutCmd,
	}
	cmd.Flags().StringVar(&layoutCheck, "check", "", "validate a layout file instead of printing the built-in table")
	return cmd
}

func runLayoutCmd(cmd *cobra.Command, _ []string) error {
	if layoutCheck != "" {
		table, err := loadTable(config.ExpandHome(layoutCheck))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %d characters\n", layoutCheck, table.Len()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	return writeTable(cmd.OutOrStdout(), translit.Default())
}

func writeTable(w io.Writer, table *translit.Table) error {
	chars := table.Chars()
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	for _, r := range chars {
		spellings := table.Spellings(r)
		parts := make([]string, len(spellings))
		for i, sp := range spellings {
			parts[i] = translit.JoinKeys(sp)
		}
		if _, err := fmt.Fprintf(w, "%c\t%s\n", r, strings.Join(parts, " ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# furitype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# layout = "~/.config/furitype/layout.yaml"  # Spelling table (built-in romaji when unset)
# content-dir = %q                           # Directory scanned for practice texts
# watch = %t                                 # Load new texts while running

# Remap keys before they are matched, one character each.
[keymap]
# ";" = "p"

[log]
# level = %q        # debug, info, warn, error, off
# file = %q
`,
		config.DefaultContentDir(),
		defaultWatch,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
