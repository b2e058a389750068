package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"

	apppkg "github.com/kk-code-lab/tmenu/internal/app"
	"github.com/kk-code-lab/tmenu/internal/config"
	"github.com/kk-code-lab/tmenu/internal/modes"
)

const version = "0.3.0"

var (
	configPath string
	showMode   string
	dmenuFlag  bool
	lines      int
	columns    int
	prompt     string
	caseSens   bool
	sortFlag   bool
	autoSelect bool
	cycle      bool
	scroll     string
	threads    int
)

var rootCmd = &cobra.Command{
	Use:           "tmenu",
	Short:         "Terminal application launcher and dynamic menu",
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.Version = version
	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "Config file (default discovered under $XDG_CONFIG_HOME/tmenu)")
	flags.StringVar(&showMode, "show", "", "Show only the named mode")
	flags.BoolVar(&dmenuFlag, "dmenu", false, "Read entries from stdin and print the selection")
	flags.IntVar(&lines, "lines", 0, "Number of list rows")
	flags.IntVar(&columns, "columns", 0, "Number of list columns")
	flags.StringVarP(&prompt, "prompt", "p", "", "Prompt text")
	flags.BoolVar(&caseSens, "case-sensitive", false, "Match case sensitively")
	flags.BoolVar(&sortFlag, "sort", false, "Sort matches by edit distance to the query")
	flags.BoolVar(&autoSelect, "auto-select", false, "Accept automatically when one entry is left")
	flags.BoolVar(&cycle, "cycle", true, "Wrap the selection at the ends of the list")
	flags.StringVar(&scroll, "scroll", "", "Scroll method: paged or continuous")
	flags.IntVar(&threads, "threads", 0, "Filter worker count (0 = all cores)")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, apppkg.ErrCancelled) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	application, err := apppkg.NewApplication(cfg, registry)
	if err != nil {
		return err
	}
	defer application.Close()
	return application.Run()
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("lines") {
		cfg.Lines = lines
	}
	if flags.Changed("columns") {
		cfg.Columns = columns
	}
	if flags.Changed("prompt") {
		cfg.Prompt = prompt
	}
	if flags.Changed("case-sensitive") {
		cfg.CaseSensitive = caseSens
	}
	if flags.Changed("sort") {
		cfg.Sort = sortFlag
	}
	if flags.Changed("auto-select") {
		cfg.AutoSelect = autoSelect
	}
	if flags.Changed("cycle") {
		cfg.Cycle = cycle
	}
	if flags.Changed("scroll") {
		cfg.Scroll = scroll
	}
	if flags.Changed("threads") {
		cfg.Threads = threads
	}
}

func buildRegistry(cfg *config.Config) (*modes.Registry, error) {
	if dmenuFlag {
		mode, err := modes.NewLinesMode("dmenu", os.Stdin, os.Stdout)
		if err != nil {
			return nil, err
		}
		return modes.NewRegistry(mode)
	}

	names := cfg.Modes
	if showMode != "" {
		names = []string{showMode}
	}

	cacheDir, err := config.CacheDir()
	if err != nil {
		return nil, err
	}
	entryCache := cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)

	list := make([]modes.Mode, 0, len(names))
	for _, name := range names {
		mode, err := buildMode(name, cfg, entryCache, cacheDir)
		if err != nil {
			return nil, err
		}
		list = append(list, mode)
	}
	return modes.NewRegistry(list...)
}

func buildMode(name string, cfg *config.Config, c *cache.Cache, cacheDir string) (modes.Mode, error) {
	switch name {
	case "apps":
		hist, err := modes.LoadHistory(filepath.Join(cacheDir, "apps.history"), cfg.HistorySize)
		if err != nil {
			return nil, err
		}
		return modes.NewAppsMode(c, hist, cfg.Terminal)
	case "run":
		hist, err := modes.LoadHistory(filepath.Join(cacheDir, "run.history"), cfg.HistorySize)
		if err != nil {
			return nil, err
		}
		return modes.NewRunMode(c, hist, cfg.Terminal)
	default:
		return nil, fmt.Errorf("unknown mode %q", name)
	}
}
