package main

import (
	"bufio"
	"fadebot/internal/bootstrap"
	"fadebot/model"
	"fadebot/service"
	"fadebot/source"
	"fadebot/storage"
	"fadebot/types"
	"fadebot/utils"
	"fadebot/utils/config"
	"fmt"
	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
	"os"
	"strconv"
	"strings"
	"time"
)

func main() {
	app := &cli.App{
		Name:     "fadebot-tools",
		HelpName: "fadebot-tools",
		Usage:    "Maintenance utilities for the counter-trading store",
		Commands: []*cli.Command{
			{
				Name:      "collect",
				HelpName:  "collect",
				Usage:     "Collect positions and performance for addresses",
				ArgsUsage: "[address...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "file with one address per line",
					},
				},
				Action: func(c *cli.Context) error {
					addresses := c.Args().Slice()
					if file := c.String("file"); file != "" {
						fromFile, err := readAddresses(file)
						if err != nil {
							return err
						}
						addresses = append(addresses, fromFile...)
					}
					if len(addresses) == 0 {
						return cli.Exit("no addresses given", 1)
					}
					return withStorage(func(st storage.Storage, src source.MarketSource) error {
						collector := service.NewServiceCollector(st, src,
							service.WithFillsLimit(viper.GetInt("hyperliquid.fillsLimit")))
						return collect(c, collector, addresses)
					})
				},
			},
			{
				Name:     "discover",
				HelpName: "discover",
				Usage:    "Find losing accounts on the leaderboard and collect them",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Value:   viper.GetInt("discovery.limit"),
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "only list the accounts",
					},
				},
				Action: func(c *cli.Context) error {
					return withStorage(func(st storage.Storage, src source.MarketSource) error {
						discovery := service.NewServiceDiscovery(src,
							decimal.NewFromFloat(viper.GetFloat64("discovery.minAccountValue")),
							decimal.NewFromFloat(viper.GetFloat64("discovery.maxMonthRoi")),
							c.Int("limit"),
						)
						entries, err := discovery.Discover(c.Context)
						if err != nil {
							return err
						}
						table := tablewriter.NewWriter(os.Stdout)
						table.SetHeader([]string{"Address", "Name", "Account", "30d ROI"})
						for _, entry := range entries {
							table.Append([]string{
								entry.Address,
								entry.DisplayName,
								utils.FormatCurrency(entry.AccountValue),
								entry.MonthRoi().Mul(decimal.NewFromInt(100)).StringFixed(1) + "%",
							})
						}
						table.Render()
						if c.Bool("dry-run") {
							return nil
						}

						collector := service.NewServiceCollector(st, src)
						addresses := lo.Map(entries, func(entry model.LeaderboardEntry, _ int) string { return entry.Address })
						if err := collect(c, collector, addresses); err != nil {
							return err
						}
						return collector.SetDisplayNames(c.Context, entries)
					})
				},
			},
			{
				Name:     "analyze",
				HelpName: "analyze",
				Usage:    "Generate opportunities for recently opened positions",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "window",
						Aliases: []string{"w"},
						Usage:   "eg. 1h, 1d",
						Value:   viper.GetString("analysis.recentWindow"),
					},
					&cli.Float64Flag{
						Name:    "threshold",
						Aliases: []string{"t"},
						Value:   viper.GetFloat64("analysis.threshold"),
					},
				},
				Action: func(c *cli.Context) error {
					window, err := parseDuration(c.String("window"))
					if err != nil {
						return err
					}
					return withStorage(func(st storage.Storage, src source.MarketSource) error {
						prices, err := service.NewMidPriceCache(src, config.Duration("market.midPriceTTL"))
						if err != nil {
							return err
						}
						defer prices.Close()

						generator := service.NewServiceGenerator(st, service.NewServiceScorer(st, nil), prices,
							service.WithThreshold(c.Float64("threshold")),
							service.WithScoreLookback(config.Duration("analysis.lookback")),
						)
						created, err := generator.GenerateForRecentPositions(c.Context, window)
						if err != nil {
							return err
						}
						fmt.Printf("Generated %d opportunities\n", len(created))
						for _, opportunity := range created {
							fmt.Println(opportunity)
						}
						return nil
					})
				},
			},
			{
				Name:     "expire",
				HelpName: "expire",
				Usage:    "Expire ACTIVE opportunities older than the retention",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "retention",
						Aliases: []string{"r"},
						Usage:   "eg. 24h, 2d",
						Value:   viper.GetString("analysis.retention"),
					},
				},
				Action: func(c *cli.Context) error {
					retention, err := parseDuration(c.String("retention"))
					if err != nil {
						return err
					}
					return withStorage(func(st storage.Storage, _ source.MarketSource) error {
						count, err := service.NewServiceLifecycle(st, nil).ExpireOlderThan(c.Context, retention)
						if err != nil {
							return err
						}
						fmt.Printf("Expired %d opportunities\n", count)
						return nil
					})
				},
			},
			{
				Name:     "losers",
				HelpName: "losers",
				Usage:    "Show the worst traders of the last 30 days",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Value:   viper.GetInt("losers.limit"),
					},
					&cli.Float64Flag{
						Name:    "min-account-value",
						Aliases: []string{"m"},
						Value:   viper.GetFloat64("losers.minAccountValue"),
					},
				},
				Action: func(c *cli.Context) error {
					return withStorage(func(st storage.Storage, _ source.MarketSource) error {
						query := service.NewServiceQuery(st, viper.GetString("hyperliquid.explorerUrl"), nil)
						losers, err := query.ListTopLosers(c.Context, c.Int("limit"), decimal.NewFromFloat(c.Float64("min-account-value")))
						if err != nil {
							return err
						}
						printLosers(losers)
						return nil
					})
				},
			},
			{
				Name:     "opportunities",
				HelpName: "opportunities",
				Usage:    "Show active opportunities",
				Action: func(c *cli.Context) error {
					return withStorage(func(st storage.Storage, _ source.MarketSource) error {
						query := service.NewServiceQuery(st, viper.GetString("hyperliquid.explorerUrl"), nil)
						views, err := query.ListActiveOpportunities(c.Context)
						if err != nil {
							return err
						}
						table := tablewriter.NewWriter(os.Stdout)
						table.SetHeader([]string{"ID", "Trader", "Coin", "Suggested", "Loser Entry", "Suggested Entry", "Conf.", "Size", "Opened"})
						for _, view := range views {
							table.Append([]string{
								strconv.FormatInt(view.ID, 10),
								view.TraderAddress,
								view.Coin,
								string(view.SuggestedSide),
								view.LoserEntryPrice.String(),
								view.SuggestedEntryPrice.String(),
								fmt.Sprintf("%.1f", view.Confidence),
								view.FormattedSize,
								view.TimeAgo,
							})
						}
						table.Render()
						return nil
					})
				},
			},
			{
				Name:     "reset",
				HelpName: "reset",
				Usage:    "Drop and recreate every table",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "confirm dropping all data",
					},
				},
				Action: func(c *cli.Context) error {
					if !c.Bool("yes") {
						return cli.Exit("refusing to reset without --yes", 1)
					}
					return withStorage(func(st storage.Storage, _ source.MarketSource) error {
						if err := st.ResetTables(); err != nil {
							return err
						}
						fmt.Println("All tables recreated")
						return nil
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		utils.Log.Fatal(err)
	}
}

func withStorage(fn func(st storage.Storage, src source.MarketSource) error) error {
	st, err := bootstrap.OpenStorage()
	if err != nil {
		return err
	}
	defer st.Close()

	src, err := bootstrap.NewMarketSource()
	if err != nil {
		return err
	}
	return fn(st, src)
}

func collect(c *cli.Context, collector *service.ServiceCollector, addresses []string) error {
	addresses = lo.Uniq(addresses)
	bar := progressbar.Default(int64(len(addresses)), "collecting")
	failed := make([]string, 0)
	for _, address := range addresses {
		if c.Context.Err() != nil {
			return c.Context.Err()
		}
		if _, err := collector.CollectTrader(c.Context, address); err != nil {
			utils.Log.Errorf("[Tools] %s: %v", address, err)
			failed = append(failed, address)
		}
		_ = bar.Add(1)
	}
	fmt.Printf("\nCollected %d/%d traders\n", len(addresses)-len(failed), len(addresses))
	for _, address := range failed {
		fmt.Printf("  failed: %s\n", address)
	}
	return nil
}

func printLosers(losers []types.TopLoser) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Rank", "Address", "Avg PnL %", "Total PnL", "Win Rate", "Trades", "Account", "Days"})
	pnl := make([]float64, 0, len(losers))
	for _, loser := range losers {
		table.Append([]string{
			strconv.Itoa(loser.Rank),
			loser.Address,
			fmt.Sprintf("%.2f %%", loser.AvgPnlPercentage),
			loser.FormattedPnl,
			fmt.Sprintf("%.1f %%", loser.AvgWinRate),
			strconv.Itoa(loser.TotalTrades),
			loser.FormattedValue,
			strconv.Itoa(loser.SnapshotDays),
		})
		pnl = append(pnl, loser.AvgPnlPercentage)
	}
	table.Render()

	if len(pnl) < 2 {
		return
	}
	fmt.Println("------ AVG PNL % DISTRIBUTION -------")
	hist := histogram.Hist(10, pnl)
	_ = histogram.Fprint(os.Stdout, hist, histogram.Linear(10))
	fmt.Println()
}

func readAddresses(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	addresses := make([]string, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addresses = append(addresses, line)
	}
	return addresses, scanner.Err()
}

func parseDuration(raw string) (time.Duration, error) {
	viper.Set("tools.duration", raw)
	d := config.Duration("tools.duration")
	if d <= 0 {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	return d, nil
}
