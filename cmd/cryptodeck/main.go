// CryptoDeck — multi-exchange market observation deck
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/seenimoa/cryptodeck/api"
	"github.com/seenimoa/cryptodeck/internal/config"
	"github.com/seenimoa/cryptodeck/internal/model"
	"github.com/seenimoa/cryptodeck/internal/news"
	"github.com/seenimoa/cryptodeck/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cryptodeck",
	Short: "CryptoDeck — multi-exchange market observation deck",
	Long: `CryptoDeck observes cryptocurrency exchanges through one canonical
model: pairs, currencies, tickers, order books, balances and open
orders, normalized across Bittrex and Poloniex, with polling providers
that push changes to API and WebSocket consumers.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(marketsCmd)
	rootCmd.AddCommand(pairsCmd)
	rootCmd.AddCommand(tickerCmd)
	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("CryptoDeck %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		core := model.New(cfg)
		fmt.Printf("🌐 Starting CryptoDeck API server on %s (%d markets)\n",
			cfg.API.Addr(), len(core.Markets()))
		return api.NewServer(cfg, core).ListenAndServe(cfg.API.Addr())
	},
}

// --- Markets Command ---

var marketsCmd = &cobra.Command{
	Use:   "markets",
	Short: "List the configured markets",
	RunE: func(cmd *cobra.Command, args []string) error {
		core := model.New(cfg)
		for _, market := range core.Markets() {
			trade := ""
			if market.CanTrade() {
				trade = " (trading)"
			}
			fmt.Printf("  %s%s\n", market.Name(), trade)
		}
		return nil
	},
}

// --- Pairs Command ---

var pairsCmd = &cobra.Command{
	Use:   "pairs [market]",
	Short: "List tradable pairs, for one market or all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		core := model.New(cfg)
		ctx := cmd.Context()

		var pairs []models.PairOfMarket
		if len(args) == 1 {
			market, ok := core.Market(args[0])
			if !ok {
				return fmt.Errorf("unknown market: %s", args[0])
			}
			pairs = market.Pairs(ctx)
		} else {
			pairs = core.AllPairs(ctx)
		}

		for _, p := range pairs {
			flag := ""
			if !p.Active {
				flag = " (inactive)"
			}
			fmt.Printf("  %-12s %s%s\n", p.Pair, p.Market.Name(), flag)
		}
		fmt.Printf("%d pairs\n", len(pairs))
		return nil
	},
}

// --- Ticker Command ---

var tickerCmd = &cobra.Command{
	Use:   "ticker [market] [pair]",
	Short: "Show the current best bid/ask for a pair",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		core := model.New(cfg)
		market, ok := core.Market(args[0])
		if !ok {
			return fmt.Errorf("unknown market: %s", args[0])
		}
		pair, err := parsePairArg(args[1])
		if err != nil {
			return err
		}

		tick := market.Tick(cmd.Context(), pair)
		fmt.Printf("%s on %s\n", pair, market.Name())
		fmt.Printf("  bid:  %.8f\n", tick.Bid)
		fmt.Printf("  ask:  %.8f\n", tick.Ask)
		if tick.Last != nil {
			fmt.Printf("  last: %.8f\n", *tick.Last)
		}
		return nil
	},
}

// --- Book Command ---

var bookCmd = &cobra.Command{
	Use:   "book [market] [pair]",
	Short: "Show the order book for a pair",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		core := model.New(cfg)
		market, ok := core.Market(args[0])
		if !ok {
			return fmt.Errorf("unknown market: %s", args[0])
		}
		pair, err := parsePairArg(args[1])
		if err != nil {
			return err
		}

		depth, _ := cmd.Flags().GetInt("depth")
		side, err := parseSideFlag(cmd)
		if err != nil {
			return err
		}

		book := market.OrderBook(cmd.Context(), pair, depth, side)
		fmt.Printf("%s on %s\n", pair, market.Name())
		if asks := book.Asks(); len(asks) > 0 {
			fmt.Println("  asks:")
			for _, level := range asks {
				fmt.Printf("    %.8f × %.8f\n", level.Price, level.Quantity)
			}
		}
		if bids := book.Bids(); len(bids) > 0 {
			fmt.Println("  bids:")
			for _, level := range bids {
				fmt.Printf("    %.8f × %.8f\n", level.Price, level.Quantity)
			}
		}
		return nil
	},
}

func init() {
	bookCmd.Flags().Int("depth", 10, "levels per side")
	bookCmd.Flags().String("side", "both", "book side: both, buy or sell")
}

// --- Stats Command ---

var statsCmd = &cobra.Command{
	Use:   "stats [market]",
	Short: "Show per-pair statistics, for one market or all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		core := model.New(cfg)
		ctx := cmd.Context()

		byMarket := make(map[string][]models.MarketSummary)
		if len(args) == 1 {
			market, ok := core.Market(args[0])
			if !ok {
				return fmt.Errorf("unknown market: %s", args[0])
			}
			byMarket[market.Name()] = market.PairsStatistic(ctx)
		} else {
			byMarket = core.AllStatistics(ctx)
		}

		names := make([]string, 0, len(byMarket))
		for name := range byMarket {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Printf("%s:\n", name)
			for _, s := range byMarket[name] {
				fmt.Printf("  %-12s last %.8f  high %.8f  low %.8f  vol %.2f\n",
					s.Pair, s.Last, s.High, s.Low, s.Volume)
			}
		}
		return nil
	},
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Show recent exchange announcements",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		svc := newsService()

		items, err := svc.Announcements(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("failed to fetch announcements: %w", err)
		}
		for _, item := range items {
			fmt.Printf("📰 [%s] %s\n", item.Source, item.Title)
			fmt.Printf("   %s  %s\n", item.Published.Format("2006-01-02 15:04"), item.Link)
		}
		return nil
	},
}

func init() {
	newsCmd.Flags().Int("limit", 20, "maximum announcements to show")
}

func newsService() *news.Service {
	ttl := time.Duration(cfg.News.CacheTTLSec) * time.Second
	if len(cfg.News.Feeds) == 0 {
		return news.New(ttl)
	}
	sources := make([]news.Source, 0, len(cfg.News.Feeds))
	for _, url := range cfg.News.Feeds {
		sources = append(sources, news.Source{Name: url, URL: url})
	}
	return news.NewWithSources(sources, ttl)
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  CryptoDeck — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:     %s (%s)\n", version, commit)
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    Refresh:     every %s, depth %d\n", cfg.Refresh.Interval(), cfg.Refresh.Depth)
		fmt.Printf("    API Server:  %s\n", cfg.API.Addr())
		var enabled []string
		for name, ex := range cfg.Exchanges {
			if ex.Enabled {
				enabled = append(enabled, name)
			}
		}
		fmt.Printf("    Exchanges:   %s\n", strings.Join(enabled, ", "))
		fmt.Println()

		fmt.Println("  API Keys:")
		for _, k := range config.CheckAPIKeys(cfg) {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// --- Helpers ---

func parsePairArg(raw string) (models.Pair, error) {
	tokens := strings.Split(raw, "-")
	if len(tokens) != 2 || tokens[0] == "" || tokens[1] == "" {
		return models.Pair{}, fmt.Errorf("pair must be BASE-QUOTE, got %q", raw)
	}
	return models.NewPair(models.NewCurrency(tokens[0]), models.NewCurrency(tokens[1])), nil
}

func parseSideFlag(cmd *cobra.Command) (models.OrderBookSide, error) {
	raw, _ := cmd.Flags().GetString("side")
	switch raw {
	case "both", "":
		return models.SideBoth, nil
	case "buy":
		return models.SideBuy, nil
	case "sell":
		return models.SideSell, nil
	default:
		return models.SideBoth, fmt.Errorf("side must be both, buy or sell, got %q", raw)
	}
}
