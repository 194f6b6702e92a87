package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wiki-explorer/cache"
	"wiki-explorer/config"
	"wiki-explorer/database"
	"wiki-explorer/explorer"
	"wiki-explorer/graph"
	"wiki-explorer/harvest"
	"wiki-explorer/query"
	"wiki-explorer/wikiapi"
)

var (
	// Shared flags
	edgeFileFlag  string
	cacheFileFlag string

	// Command-specific flags
	recommendTop int
	harvestOut   string
)

var rootCmd = &cobra.Command{
	Use:   "wiki-explorer",
	Short: "Explore the Wikipedia link graph",
	Long: `wiki-explorer maintains a directed graph of Wikipedia page titles
connected by hyperlinks and answers structural queries over it: shortest
paths, link-based article recommendations, and degree statistics.

The graph is built from a tab-separated edge dump and cached as JSON for
fast restarts.`,
	SilenceUsage: true,
}

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Run the interactive explorer",
	RunE:  runExplore,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the graph cache from an edge dump",
	RunE:  runBuild,
}

var harvestCmd = &cobra.Command{
	Use:   "harvest TITLE",
	Short: "Emit edge records for a live article's outgoing links",
	Args:  cobra.ExactArgs(1),
	RunE:  runHarvest,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Archive the loaded graph to postgres",
	RunE:  runExport,
}

var pathCmd = &cobra.Command{
	Use:   "path START END",
	Short: "Find the shortest link path between two pages",
	Args:  cobra.ExactArgs(2),
	RunE:  runPath,
}

var recommendCmd = &cobra.Command{
	Use:   "recommend TITLE",
	Short: "Recommend articles sharing out-links with a page",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecommend,
}

var degreesCmd = &cobra.Command{
	Use:   "degrees TITLE",
	Short: "Report the in-degree and out-degree of a page",
	Args:  cobra.ExactArgs(1),
	RunE:  runDegrees,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&edgeFileFlag, "edge-file", "", "edge dump to ingest (overrides EDGE_FILE)")
	rootCmd.PersistentFlags().StringVar(&cacheFileFlag, "cache-file", "", "graph cache path (overrides CACHE_FILE)")
	recommendCmd.Flags().IntVar(&recommendTop, "top", 3, "maximum number of recommendations")
	harvestCmd.Flags().StringVar(&harvestOut, "out", "", "output file (default stdout)")

	rootCmd.AddCommand(exploreCmd, buildCmd, harvestCmd, exportCmd, pathCmd, recommendCmd, degreesCmd)
}

func newLogger() *zap.Logger {
	log, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func loadConfig() *config.Config {
	cfg := config.Load()
	if edgeFileFlag != "" {
		cfg.EdgeFile = edgeFileFlag
	}
	if cacheFileFlag != "" {
		cfg.CacheFile = cacheFileFlag
	}
	return cfg
}

// loadGraph restores the graph from the JSON cache when one exists;
// otherwise it ingests the edge dump and writes a fresh cache.
func loadGraph(cfg *config.Config, log *zap.Logger) (*graph.Graph, error) {
	if _, err := os.Stat(cfg.CacheFile); err == nil {
		return cache.Load(cfg.CacheFile, log)
	}

	log.Info("no cache found, building graph from edge dump",
		zap.String("edge_file", cfg.EdgeFile))

	g := graph.New(log)
	if err := g.LoadFile(cfg.EdgeFile); err != nil {
		return nil, err
	}
	if err := cache.Save(cfg.CacheFile, g, log); err != nil {
		return nil, err
	}
	return g, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runExplore(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()
	cfg := loadConfig()

	g, err := loadGraph(cfg, log)
	if err != nil {
		return err
	}

	wiki, err := wikiapi.NewClient(cfg.APIEndpoint, cfg.UserAgent,
		time.Duration(cfg.RequestTimeout)*time.Second, log)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	engine := query.NewEngine(g, log)
	e := explorer.New(g, engine, wiki, cmd.InOrStdin(), cmd.OutOrStdout(), log)
	if err := e.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()
	cfg := loadConfig()

	g := graph.New(log)
	if err := g.LoadFile(cfg.EdgeFile); err != nil {
		return err
	}
	return cache.Save(cfg.CacheFile, g, log)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()
	cfg := loadConfig()

	ctx, cancel := signalContext()
	defer cancel()

	h := harvest.New(cfg.WikiBaseURL, cfg.UserAgent,
		time.Duration(cfg.RequestTimeout)*time.Second, log)
	edges, err := h.Edges(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if harvestOut != "" {
		f, err := os.Create(harvestOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return harvest.WriteTSV(out, edges)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()
	cfg := loadConfig()

	g, err := loadGraph(cfg, log)
	if err != nil {
		return err
	}

	store, err := database.NewStore(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := signalContext()
	defer cancel()
	return store.ExportGraph(ctx, g)
}

func runPath(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()
	cfg := loadConfig()

	g, err := loadGraph(cfg, log)
	if err != nil {
		return err
	}

	engine := query.NewEngine(g, log)
	path, err := engine.ShortestPath(args[0], args[1])
	if errors.Is(err, query.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "No path found between the given pages.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Shortest path (%d steps):\n", len(path)-1)
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(path, " -> "))
	return nil
}

func runRecommend(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()
	cfg := loadConfig()

	g, err := loadGraph(cfg, log)
	if err != nil {
		return err
	}

	engine := query.NewEngine(g, log)
	recs, err := engine.Recommend(args[0], recommendTop)
	if errors.Is(err, query.ErrNotFound) {
		fmt.Fprintf(cmd.OutOrStdout(), "Page '%s' not found in the network.\n", args[0])
		return nil
	}
	if errors.Is(err, query.ErrNoRecommendations) {
		fmt.Fprintf(cmd.OutOrStdout(), "No articles share links with '%s'.\n", args[0])
		return nil
	}
	if err != nil {
		return err
	}

	for _, rec := range recs {
		fmt.Fprintf(cmd.OutOrStdout(), "Page: %s, Number of Shared Links: %d\n", rec.Title, rec.SharedLinks)
	}
	return nil
}

func runDegrees(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()
	cfg := loadConfig()

	g, err := loadGraph(cfg, log)
	if err != nil {
		return err
	}

	engine := query.NewEngine(g, log)
	report := engine.Degrees(args[0])
	fmt.Fprintf(cmd.OutOrStdout(), "Page: %s\n", args[0])
	fmt.Fprintf(cmd.OutOrStdout(), "Out-degree: %d\n", report.OutDegree)
	fmt.Fprintf(cmd.OutOrStdout(), "In-degree: %d\n", report.InDegree)
	return nil
}
