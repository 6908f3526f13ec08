package gateway

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"agent-trading-gateway/internal/types"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validMarketBuy() types.OrderRequest {
	return types.OrderRequest{
		Symbol: "aapl",
		Side:   types.SideBuy,
		Kind:   types.OrderKindMarket,
		Qty:    dec("1"),
	}
}

func TestValidateNormalizes(t *testing.T) {
	req := validMarketBuy()
	req.Symbol = "  aapl "
	req.Side = "BUY"
	req.Kind = "Market"

	got, err := ValidateOrder(req)
	if err != nil {
		t.Fatalf("ValidateOrder returned error: %v", err)
	}
	if got.Symbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %q", got.Symbol)
	}
	if got.Side != types.SideBuy || got.Kind != types.OrderKindMarket {
		t.Errorf("expected normalized side/kind, got %s/%s", got.Side, got.Kind)
	}
	if !got.Qty.Equal(decimal.RequireFromString("1")) {
		t.Errorf("qty must not be altered, got %s", got.Qty)
	}
}

func TestValidateIdempotent(t *testing.T) {
	once, err := ValidateOrder(validMarketBuy())
	if err != nil {
		t.Fatalf("first validation failed: %v", err)
	}
	twice, err := ValidateOrder(once)
	if err != nil {
		t.Fatalf("second validation failed: %v", err)
	}
	if twice.Symbol != once.Symbol || twice.Side != once.Side || twice.Kind != once.Kind {
		t.Errorf("normalization is not idempotent: %+v vs %+v", once, twice)
	}
}

func TestValidateSizing(t *testing.T) {
	cases := []struct {
		name      string
		qty       *decimal.Decimal
		notional  *decimal.Decimal
		wantField string // empty means valid
	}{
		{"qty only", dec("1"), nil, ""},
		{"notional only", nil, dec("100"), ""},
		{"neither", nil, nil, "qty"},
		{"both", dec("1"), dec("100"), "notional"},
		{"zero qty", dec("0"), nil, "qty"},
		{"negative notional", nil, dec("-5"), "notional"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validMarketBuy()
			req.Qty = tc.qty
			req.Notional = tc.notional

			_, err := ValidateOrder(req)
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			var invalid *types.InvalidOrderError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidOrderError, got %v", err)
			}
			if invalid.Field != tc.wantField {
				t.Errorf("expected field %q, got %q", tc.wantField, invalid.Field)
			}
		})
	}
}

func TestValidateKindFields(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*types.OrderRequest)
		wantField string
	}{
		{"limit requires limit price", func(r *types.OrderRequest) {
			r.Kind = types.OrderKindLimit
		}, "limit_price"},
		{"limit with price", func(r *types.OrderRequest) {
			r.Kind = types.OrderKindLimit
			r.LimitPrice = dec("187.5")
		}, ""},
		{"stop requires stop price", func(r *types.OrderRequest) {
			r.Kind = types.OrderKindStop
		}, "stop_price"},
		{"stop_limit requires both", func(r *types.OrderRequest) {
			r.Kind = types.OrderKindStopLimit
			r.LimitPrice = dec("180")
		}, "stop_price"},
		{"stop_limit complete", func(r *types.OrderRequest) {
			r.Kind = types.OrderKindStopLimit
			r.LimitPrice = dec("180")
			r.StopPrice = dec("182")
		}, ""},
		{"trailing requires trail field", func(r *types.OrderRequest) {
			r.Kind = types.OrderKindTrailingStop
		}, "trail_amount"},
		{"trailing both exclusive", func(r *types.OrderRequest) {
			r.Kind = types.OrderKindTrailingStop
			r.TrailAmount = dec("2")
			r.TrailPercent = dec("1")
		}, "trail_percent"},
		{"trailing by percent", func(r *types.OrderRequest) {
			r.Kind = types.OrderKindTrailingStop
			r.TrailPercent = dec("1.5")
		}, ""},
		{"unknown kind", func(r *types.OrderRequest) {
			r.Kind = "bracket"
		}, "kind"},
		{"bad side", func(r *types.OrderRequest) {
			r.Side = "short"
		}, "side"},
		{"empty symbol", func(r *types.OrderRequest) {
			r.Symbol = "   "
		}, "symbol"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validMarketBuy()
			tc.mutate(&req)

			_, err := ValidateOrder(req)
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			var invalid *types.InvalidOrderError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidOrderError, got %v", err)
			}
			if invalid.Field != tc.wantField {
				t.Errorf("expected field %q, got %q", tc.wantField, invalid.Field)
			}
		})
	}
}
