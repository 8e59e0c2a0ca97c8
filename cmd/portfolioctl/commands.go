package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/app"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/logging"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

var commands = []subcommands.Command{
	&buyCmd{},
	&sellCmd{},
	&holdingsCmd{},
	&growthCmd{},
	&historyCmd{},
	&resetCmd{},
}

// withApp loads configuration, wires the application and runs fn against it.
func withApp(ctx context.Context, fn func(context.Context, *app.App) error) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	a, err := app.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer func() {
		if err := a.Close(); err != nil {
			logrus.WithError(err).Warn("failed to close application")
		}
	}()

	if err := fn(ctx, a); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type tradeFlags struct {
	symbol string
	shares string
	price  string
	date   string
}

func (t *tradeFlags) register(f *flag.FlagSet) {
	f.StringVar(&t.symbol, "s", "", "ticker symbol")
	f.StringVar(&t.shares, "n", "", "number of shares")
	f.StringVar(&t.price, "p", "", "price per share in USD")
	f.StringVar(&t.date, "d", "", "execution date (YYYY-MM-DD)")
}

type buyCmd struct {
	tradeFlags
	assetType string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase" }
func (*buyCmd) Usage() string {
	return `portfolioctl [-user <id>] buy -s <symbol> -n <shares> -p <price> -d <date> [-t stock|crypto]

  Appends a purchase to the ledger. The symbol must have a live quote.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.StringVar(&c.assetType, "t", model.AssetTypeStock, "asset type (stock or crypto)")
}

func (c *buyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app.App) error {
		tx, err := a.Transaction.Buy(ctx, *userID, request.BuyRequest{
			Symbol:    c.symbol,
			Shares:    request.Amount(c.shares),
			Price:     request.Amount(c.price),
			Date:      c.date,
			AssetType: c.assetType,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Bought %g %s at %.2f on %s (%s)\n", tx.Shares, tx.Symbol, tx.Price, tx.Date.Format("2006-01-02"), tx.ID)
		return nil
	})
}

type sellCmd struct {
	tradeFlags
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale and report its realized P&L" }
func (*sellCmd) Usage() string {
	return `portfolioctl [-user <id>] sell -s <symbol> -n <shares> -p <price> -d <date>

  Appends a sale to the ledger. Shares must be a whole number not exceeding
  the current position.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
}

func (c *sellCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app.App) error {
		result, err := a.Transaction.Sell(ctx, *userID, request.SellRequest{
			Symbol: c.symbol,
			Shares: request.Amount(c.shares),
			Price:  request.Amount(c.price),
			Date:   c.date,
		})
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		fmt.Printf("Average cost %.2f, %g shares remaining\n", result.AverageCost, result.RemainingShares)
		return nil
	})
}

type holdingsCmd struct{}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "value current holdings against live quotes" }
func (*holdingsCmd) Usage() string {
	return `portfolioctl [-user <id>] holdings
`
}
func (*holdingsCmd) SetFlags(*flag.FlagSet) {}

func (*holdingsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app.App) error {
		view, err := a.Portfolio.View(ctx, *userID)
		if err != nil {
			return err
		}
		writeHoldings(os.Stdout, view)
		return nil
	})
}

func writeHoldings(out io.Writer, view *model.PortfolioView) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "SYMBOL\tSHARES\tPRICE\tAVG\tVALUE\tP&L\tP&L %\tDAY\t")
	for _, h := range view.Holdings {
		fmt.Fprintf(w, "%s\t%g\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
			h.Symbol, h.Shares, h.Price, h.AvgPrice, h.TotalValue, h.TotalPL, h.TotalPLPct, h.DailyPL)
	}
	t := view.Totals
	fmt.Fprintf(w, "TOTAL\t\t\t\t%.2f\t%.2f\t%.2f\t%.2f\t\n", t.GrandTotal, t.TotalPL, t.TotalPLPct, t.TotalDailyPL)
	w.Flush()

	if len(view.Skipped) > 0 {
		fmt.Fprintf(out, "no quote for: %s\n", strings.Join(view.Skipped, ", "))
	}
}

type growthCmd struct{}

func (*growthCmd) Name() string     { return "growth" }
func (*growthCmd) Synopsis() string { return "print the historical value curve" }
func (*growthCmd) Usage() string {
	return `portfolioctl [-user <id>] growth
`
}
func (*growthCmd) SetFlags(*flag.FlagSet) {}

func (*growthCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app.App) error {
		view, err := a.Portfolio.View(ctx, *userID)
		if err != nil {
			return err
		}
		writeGrowth(os.Stdout, view.Chart.Growth)
		return nil
	})
}

func writeGrowth(out io.Writer, g model.GrowthSeries) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "DATE\tVALUE\tGAIN %\t")
	for i := range g.Labels {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t\n", g.Labels[i], g.ValuesAbs[i], g.ValuesPct[i])
	}
	w.Flush()
}

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list ledger rows, newest first" }
func (*historyCmd) Usage() string {
	return `portfolioctl [-user <id>] history
`
}
func (*historyCmd) SetFlags(*flag.FlagSet) {}

func (*historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app.App) error {
		txs, err := a.Transaction.History(ctx, *userID)
		if err != nil {
			return err
		}
		writeHistory(os.Stdout, txs)
		return nil
	})
}

func writeHistory(out io.Writer, txs []model.Transaction) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSIDE\tSYMBOL\tSHARES\tPRICE\tID")
	for _, t := range txs {
		side := "SELL"
		if t.IsBuy() {
			side = "BUY"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%.2f\t%s\n", t.Date.Format("2006-01-02"), side, t.Symbol, t.Shares, t.Price, t.ID)
	}
	w.Flush()
}

type resetCmd struct {
	yes bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "delete every ledger row of the user" }
func (*resetCmd) Usage() string {
	return `portfolioctl [-user <id>] reset -yes
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "confirm the reset")
}

func (c *resetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if !c.yes {
		fmt.Fprintln(os.Stderr, "refusing to reset without -yes")
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app.App) error {
		n, err := a.Transaction.Reset(ctx, *userID)
		if err != nil {
			return err
		}
		fmt.Printf("Your portfolio has been reset! %d rows deleted\n", n)
		return nil
	})
}
