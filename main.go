// Package main provides the entry point for the rsvp CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/rogerjs93/rsvp/internal/cache"
	"github.com/rogerjs93/rsvp/internal/markdown"
	"github.com/rogerjs93/rsvp/internal/provider"
	"github.com/rogerjs93/rsvp/internal/utils"
	"github.com/rogerjs93/rsvp/reader"
	"github.com/rogerjs93/rsvp/reader/loader"
	"github.com/rogerjs93/rsvp/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	wpm        int
	profile    string
	loop       bool
	pages      int
	width      uint
	mouse      bool
	noWatch    bool

	keyword = lipgloss.NewStyle().Foreground(lipgloss.Color("#EE6FF8")).Render

	rootCmd = &cobra.Command{
		Use:   "rsvp [SOURCE]",
		Short: "Speed-read text on the CLI, one word at a time",
		Long: fmt.Sprintf(
			"\nRead text or markdown %s, flashed word by word at your own pace.",
			keyword("rapid-serial style"),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

// source provides a readable text source.
type source struct {
	reader io.ReadCloser
	path   string
}

// sourceFromArg parses an argument and creates a readable source for it.
func sourceFromArg(arg string) (*source, error) {
	if arg == "-" {
		return &source{reader: os.Stdin}, nil
	}

	path := utils.ExpandPath(arg)
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open source: %w", err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s is a directory, expected a text or markdown file", arg)
	}

	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path: %w", err)
	}
	return &source{r, abs}, nil
}

func validateOptions(cmd *cobra.Command) error {
	wpm = viper.GetInt("wpm")
	profile = viper.GetString("profile")
	loop = viper.GetBool("loop")
	mouse = viper.GetBool("mouse")
	width = viper.GetUint("width")

	if _, err := reader.ProfileByName(profile); err != nil {
		return fmt.Errorf("unknown pause profile %q (have: %s)",
			profile, strings.Join(reader.ProfileNames(), ", "))
	}

	// Detect terminal width
	if !cmd.Flags().Changed("width") {
		isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
		if isTerminal && width == 0 {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err == nil {
				width = uint(w) //nolint:gosec
			}
			if width > 120 {
				width = 120
			}
		}
		if width == 0 {
			width = 80
		}
	}
	return nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to stat stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

func execute(_ *cobra.Command, args []string) error {
	// if stdin is a pipe then use stdin for input. note that you can also
	// explicitly use a - to read from stdin.
	if len(args) == 0 {
		if yes, err := stdinIsPipe(); err != nil {
			return err
		} else if yes {
			src := &source{reader: os.Stdin}
			return runReader(src)
		}
		return errors.New("missing text source: pass a file or pipe text on stdin")
	}

	src, err := sourceFromArg(args[0])
	if err != nil {
		return err
	}
	return runReader(src)
}

// extractText reads the whole source and flattens markdown to plain
// text when the source looks like a markdown file (stdin is always
// treated as markdown; it degrades to plain text anyway).
func extractText(src *source) (string, error) {
	defer src.reader.Close() //nolint:errcheck

	b, err := io.ReadAll(src.reader)
	if err != nil {
		return "", fmt.Errorf("unable to read source: %w", err)
	}
	b = utils.RemoveFrontmatter(b)

	if src.path == "" || utils.IsMarkdownFile(src.path) {
		return markdown.Extract(string(b)), nil
	}
	return string(b), nil
}

func runReader(src *source) error {
	cfg, err := reader.LoadConfigFromViper()
	if err != nil {
		return err
	}

	text, err := extractText(src)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("source contains no readable text")
	}

	name := "(stdin)"
	if src.path != "" {
		name = filepath.Base(src.path)
	}

	// Remember the document so it shows up in `rsvp recent`.
	if cfg.CacheEnabled {
		store := openCache(cfg)
		if store != nil {
			store.Put(name, text, len(strings.Fields(text)))
			defer store.Close()
		}
	}

	ctx := context.Background()

	open := func() (*loader.Loader, error) {
		p := provider.NewPaginated(text, cfg.PageParagraphs)
		ldr, err := loader.Open(ctx, p, loader.Options{
			Lookahead:    cfg.Lookahead,
			YieldDelay:   cfg.YieldDelay,
			FailureDelay: cfg.FailureDelay,
		})
		if err != nil {
			return nil, err
		}
		if err := ldr.LoadInitial(ctx, cfg.InitialPages); err != nil {
			ldr.Close()
			return nil, err
		}
		ldr.StartBackgroundLoading()
		return ldr, nil
	}

	ldr, err := open()
	if err != nil {
		return err
	}

	pauseProfile, err := reader.ProfileByName(cfg.Profile)
	if err != nil {
		return err
	}
	sched := reader.NewScheduler(cfg.WPM, pauseProfile)
	if err := sched.AttachSequence(ldr); err != nil {
		return err
	}
	if cfg.Loop {
		if err := sched.SetLoop(true); err != nil {
			return err
		}
	}

	uiCfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}
	uiCfg.Path = src.path
	uiCfg.DocumentName = name
	uiCfg.WPM = cfg.WPM
	uiCfg.Profile = cfg.Profile
	uiCfg.Loop = cfg.Loop
	uiCfg.MaxWidth = width
	uiCfg.EnableMouse = mouse
	if noWatch {
		uiCfg.WatchFile = false
	}

	var reload ui.ReloadFunc
	if src.path != "" {
		path := src.path
		reload = func() (*loader.Loader, error) {
			s, err := sourceFromArg(path)
			if err != nil {
				return nil, err
			}
			t, err := extractText(s)
			if err != nil {
				return nil, err
			}
			text = t
			return open()
		}
	}

	if _, err := ui.NewProgram(uiCfg, sched, ldr, reload).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func openCache(cfg reader.Config) *cache.Manager {
	scope := gap.NewScope(gap.User, "rsvp")
	dir, err := scope.CacheDir()
	if err != nil {
		log.Warn("no cache directory available", "error", err)
		return nil
	}
	return cache.NewManager(filepath.Join(dir, "documents"), cfg.CacheMaxMB*1024*1024)
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().IntVar(&wpm, "wpm", 300, "playback rate in words per minute")
	rootCmd.Flags().StringVarP(&profile, "profile", "p", reader.DefaultProfileName, "pause profile (relaxed, normal, brisk)")
	rootCmd.Flags().BoolVarP(&loop, "loop", "l", false, "restart from the beginning when finished")
	rootCmd.Flags().IntVar(&pages, "pages", 3, "pages to load before playback starts")
	rootCmd.Flags().UintVarP(&width, "width", "w", 0, "maximum display width (set to 0 to autodetect)")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse wheel")
	_ = rootCmd.Flags().MarkHidden("mouse")
	rootCmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload when the source file changes")

	// Config bindings
	_ = viper.BindPFlag("wpm", rootCmd.Flags().Lookup("wpm"))
	_ = viper.BindPFlag("profile", rootCmd.Flags().Lookup("profile"))
	_ = viper.BindPFlag("loop", rootCmd.Flags().Lookup("loop"))
	_ = viper.BindPFlag("loader.initial_pages", rootCmd.Flags().Lookup("pages"))
	_ = viper.BindPFlag("width", rootCmd.Flags().Lookup("width"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	viper.SetDefault("wpm", 300)
	viper.SetDefault("profile", reader.DefaultProfileName)
	viper.SetDefault("width", 0)

	rootCmd.AddCommand(configCmd, recentCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "rsvp")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "rsvp")}, dirs...)
	}

	if c := os.Getenv("RSVP_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("rsvp")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("rsvp")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "rsvp.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
