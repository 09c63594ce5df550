package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/chronicle/internal/config"
	"github.com/pders01/chronicle/internal/debuglog"
	"github.com/pders01/chronicle/internal/nyt"
	"github.com/pders01/chronicle/internal/tui"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	flagConfig   string
	flagQuiet    bool
	flagLogLevel string
	flagQuery    string
	flagArticle  string
)

// newSearcher builds the archive client. Tests replace it.
var newSearcher = func(cfg *config.Config) nyt.Searcher {
	return nyt.NewClient(cfg.API)
}

var rootCmd = &cobra.Command{
	Use:           "chronicle",
	Short:         "Search the New York Times archive from the terminal",
	Long:          "chronicle searches the New York Times Article Search API and reads articles in a terminal UI.",
	SilenceUsage:  true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error, off); overrides config")
	rootCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "skip startup banner")
	rootCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "start with a keyword search instead of latest articles")
	rootCmd.Flags().StringVar(&flagArticle, "article", "", "open the article with this escaped URI on start")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(articleCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("chronicle %s\n", Version)
		fmt.Println("New York Times article search")
		fmt.Println("github.com/pders01/chronicle")
	},
}

var configGenCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Write the default config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := config.ConfigPath()
		if err := config.GenerateDefaultConfig(path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", path)
	},
}

// setup loads the config and starts logging. The caller closes the log.
func setup() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.Path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	if !flagQuiet {
		tui.ShowBanner(Version)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	opts := []tui.Option{tui.WithContext(ctx), tui.WithInitialQuery(flagQuery)}
	if flagArticle != "" {
		opts = append(opts, tui.WithArticle(flagArticle))
	}

	app := tui.NewApp(newSearcher(cfg), cfg, opts...)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	_, runErr := p.Run()
	cancel()
	app.Close()
	if runErr != nil {
		return fmt.Errorf("running ui: %w", runErr)
	}
	return nil
}
