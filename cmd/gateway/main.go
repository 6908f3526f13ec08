package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"agent-trading-gateway/internal/gateway"
	"agent-trading-gateway/internal/logger"
	"agent-trading-gateway/internal/store"
	"agent-trading-gateway/internal/tools"
	"agent-trading-gateway/internal/trace"
	"agent-trading-gateway/internal/types"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := store.LoadConfig(configPath)
	must(err)

	gw, handles, state, agentTools := buildGateway(ctx, cfg)
	defer func() {
		if err := handles.Close(); err != nil {
			logger.Warn(ctx, "Failed to close vendor handles", "error", err)
		}
		_ = trace.Shutdown(context.Background())
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Info(ctx, "Shutting down...")
		cancel()
		os.Stdin.Close()
	}()

	logger.Info(ctx, "Gateway started",
		"trading_provider", cfg.Trading.Provider,
		"data_providers", strings.Join(cfg.DataProviders(), ","),
		"mode", string(cfg.Trading.Mode))
	fmt.Println("Commands: buy|sell SYMBOL QTY, cancel ORDER_ID, positions, account, quote SYMBOL, bars SYMBOL DAYS, arm, disarm, quit")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		out, err := dispatch(ctx, line, gw, state, agentTools, cfg)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Println(out)
	}
}

// dispatch parses one REPL line and routes it. Trades and account reads go
// through the agent-facing tools; data reads route directly.
func dispatch(ctx context.Context, line string, gw *gateway.Registry, state *store.TradingState, agentTools tools.Tools, cfg *store.Config) (string, error) {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "buy", "sell":
		if len(fields) != 3 {
			return "", fmt.Errorf("usage: %s SYMBOL QTY", cmd)
		}
		qty, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return "", fmt.Errorf("bad quantity %q: %w", fields[2], err)
		}
		return agentTools.SubmitTrade(ctx, fields[1], cmd, qty)

	case "cancel":
		if len(fields) != 2 {
			return "", fmt.Errorf("usage: cancel ORDER_ID")
		}
		if _, err := gw.Route(ctx, types.ActionCancelOrder, cfg.Trading.Provider, gateway.Request{OrderID: fields[1]}); err != nil {
			return "", err
		}
		return fmt.Sprintf("Order %s cancellation requested", fields[1]), nil

	case "positions":
		return agentTools.Positions(ctx)

	case "account":
		return agentTools.AccountBalance(ctx)

	case "quote":
		if len(fields) != 2 {
			return "", fmt.Errorf("usage: quote SYMBOL")
		}
		res, err := gw.Route(ctx, types.ActionGetLatestQuote, cfg.Data.Provider, gateway.Request{Symbol: strings.ToUpper(fields[1])})
		if err != nil {
			return "", err
		}
		q := res.(types.Quote)
		return fmt.Sprintf("%s bid %.2f x%d / ask %.2f x%d (%s)",
			q.Symbol, q.BidPrice, q.BidSize, q.AskPrice, q.AskSize, q.Timestamp.Format(time.RFC3339)), nil

	case "bars":
		if len(fields) != 3 {
			return "", fmt.Errorf("usage: bars SYMBOL DAYS")
		}
		days, err := strconv.Atoi(fields[2])
		if err != nil || days <= 0 {
			return "", fmt.Errorf("bad day count %q", fields[2])
		}
		query := types.BarsQuery{
			Symbol: strings.ToUpper(fields[1]),
			Start:  time.Now().AddDate(0, 0, -days*2),
			End:    time.Now(),
			Limit:  days,
		}
		res, err := gw.Route(ctx, types.ActionGetBars, cfg.Data.Provider, gateway.Request{Bars: &query})
		if err != nil {
			return "", err
		}
		bars := res.([]types.Bar)
		var b strings.Builder
		for _, bar := range bars {
			fmt.Fprintf(&b, "%s  O %.2f H %.2f L %.2f C %.2f V %d\n",
				bar.Timestamp.Format("2006-01-02"), bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
		}
		if b.Len() == 0 {
			return "no bars", nil
		}
		return strings.TrimRight(b.String(), "\n"), nil

	case "arm":
		state.SetAutoExecute(true)
		return "auto_execute enabled", nil

	case "disarm":
		state.SetAutoExecute(false)
		return "auto_execute disabled", nil

	default:
		return "", fmt.Errorf("unknown command %q", cmd)
	}
}
