package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TooEinfach/PlexSearch/internal/config"
	"github.com/TooEinfach/PlexSearch/internal/domain"
	"github.com/TooEinfach/PlexSearch/internal/log"
	"github.com/TooEinfach/PlexSearch/internal/plex"
	"github.com/TooEinfach/PlexSearch/internal/search"
	"github.com/TooEinfach/PlexSearch/internal/service"
	"github.com/TooEinfach/PlexSearch/internal/snapshot"
)

// Version is set at build time via -ldflags
var Version = "dev"

type rootFlags struct {
	configPath string
	section    string
	fuzzy      bool
	threshold  int
	refresh    bool
	title      string
	loop       bool
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "plexsearch",
		Short:         "Check Plex for a movie or show",
		Long:          "plexsearch looks a title up in a Plex library, exact match first with optional fuzzy matching against a cached copy of the catalog.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "configuration file path")
	cmd.Flags().StringVar(&flags.section, "section", "", "library section id or name to limit search")
	cmd.Flags().BoolVar(&flags.fuzzy, "fuzzy", false, "use fuzzy matching")
	cmd.Flags().IntVar(&flags.threshold, "threshold", 85, "fuzzy match threshold 0-100")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "force refresh cache")
	cmd.Flags().StringVar(&flags.title, "title", "", "title to search (non-interactive)")
	cmd.Flags().BoolVar(&flags.loop, "loop", false, "keep prompting until exit/quit (interactive)")

	return cmd
}

// resolveThreshold picks the fuzzy threshold for this invocation: an
// explicit --threshold wins, otherwise the configured value applies.
func resolveThreshold(cmd *cobra.Command, cfg *config.Config) int {
	if cmd.Flags().Changed("threshold") {
		v, _ := cmd.Flags().GetInt("threshold")
		return v
	}
	return cfg.Search.Threshold
}

func run(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Credentials are required before any search logic runs
	if !cfg.IsConfigured() {
		return fmt.Errorf("%w: set PLEX_BASE and PLEX_TOKEN in .env or your environment", domain.ErrNotConfigured)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting plexsearch", "version", Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := plex.NewClient(cfg.Server.URL, cfg.Server.Token, logger)
	store := snapshot.NewStore(cfg.Cache.File, logger)
	manager := snapshot.NewManager(store, client, cfg.Cache.TTL, logger)
	engine := search.NewEngine(client, cfg.Search.DefaultType, logger)
	librarySvc := service.NewLibraryService(client, logger)
	searchSvc := service.NewSearchService(engine, client, logger)

	opts := service.Options{
		Fuzzy:     flags.fuzzy,
		Threshold: resolveThreshold(cmd, cfg),
	}
	if flags.section != "" {
		sectionID, err := librarySvc.ResolveSection(ctx, flags.section)
		if err != nil {
			return fmt.Errorf("failed to resolve section %q: %w", flags.section, err)
		}
		opts.SectionID = sectionID
	}

	snap := manager.Fresh(ctx, flags.refresh)
	if err := ctx.Err(); err != nil {
		fmt.Println("Aborted by user.")
		return nil
	}

	// Non-interactive mode: run once and exit
	if flags.title != "" {
		runQuery(ctx, searchSvc, strings.TrimSpace(flags.title), snap, opts, cfg.Search.Limit)
		return nil
	}

	return interactive(ctx, searchSvc, snap, opts, cfg.Search.Limit, flags.loop)
}

// runQuery executes one query and prints its outcome. Failures are
// rendered, not returned: one bad query must not end a session.
func runQuery(ctx context.Context, svc *service.SearchService, query string, snap domain.Snapshot, opts service.Options, limit int) {
	out := svc.Run(ctx, query, snap, opts)
	fmt.Println()
	service.Render(os.Stdout, out, limit)
}

// interactive prompts for queries until exit/quit, EOF, or interrupt.
func interactive(ctx context.Context, svc *service.SearchService, snap domain.Snapshot, opts service.Options, limit int, loop bool) error {
	fmt.Println("Type a movie/show name to search. Type 'exit' or 'quit' to stop.")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			fmt.Println("\nAborted by user.")
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Println()
				return nil
			}
			query := strings.TrimSpace(line)
			if query == "" {
				continue
			}
			if q := strings.ToLower(query); q == "exit" || q == "quit" {
				fmt.Println("Goodbye.")
				return nil
			}
			runQuery(ctx, svc, query, snap, opts, limit)
			if ctx.Err() != nil {
				fmt.Println("Aborted by user.")
				return nil
			}
			if !loop {
				fmt.Println("\n(Use --loop to keep the program running continuously.)")
			}
		}
	}
}
