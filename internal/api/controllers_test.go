package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"strategy-core/internal/notify"
	"strategy-core/internal/strategy"
	"strategy-core/pkg/db"
	"strategy-core/pkg/market/hyperliquid"
)

type stubFeed struct {
	mids    map[string]string
	candles []hyperliquid.Candle
}

func (f stubFeed) GetAllMids(ctx context.Context) map[string]string { return f.mids }
func (f stubFeed) GetCandles(ctx context.Context, coin, interval string, start, end int64) []hyperliquid.Candle {
	return f.candles
}

type winningOutcomes struct{}

func (winningOutcomes) Outcome() bool { return true }

func newTestServer(t *testing.T, feed PriceFeed) (*httptest.Server, *notify.Channel) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.New(":memory:")
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	if err := db.ApplyMigrations(database); err != nil {
		t.Fatalf("ApplyMigrations: %v", err)
	}

	notifications := notify.NewChannel(time.Minute)
	store := strategy.NewStore(strategy.StoreConfig{
		Name:     "api",
		Repo:     strategy.NewSQLRepository(database, []strategy.Strategy{}),
		Outcomes: winningOutcomes{},
		Notifier: notifications,
	})
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("store.Load: %v", err)
	}

	server := NewServer(store, feed, notifications, 10*time.Second, SystemMeta{
		Version:      "test",
		Coins:        []string{"BTC"},
		SyncInterval: time.Second,
	})

	httpServer := httptest.NewServer(server.Router)
	t.Cleanup(func() {
		httpServer.Close()
		_ = database.Close()
	})
	return httpServer, notifications
}

func doJSON(t *testing.T, method, url string, payload any, out any) int {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer res.Body.Close()

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return res.StatusCode
}

func validRequest(name string) strategyRequest {
	return strategyRequest{
		Name: name,
		Type: "Grid Trading",
		Config: strategy.Config{
			RiskLevel:       strategy.RiskMedium,
			MaxPositionSize: 5,
			StopLoss:        2,
			TakeProfit:      4,
			Leverage:        "1x",
			TradingPairs:    []string{"BTC/USDT"},
		},
	}
}

func TestCreateAndListStrategies(t *testing.T) {
	srv, _ := newTestServer(t, stubFeed{})

	var created strategy.Strategy
	status := doJSON(t, http.MethodPost, srv.URL+"/api/strategies", validRequest("Grid Bot A"), &created)
	if status != http.StatusCreated {
		t.Fatalf("status=%d, expected 201", status)
	}
	if created.Status != strategy.StatusPaused || created.Performance.Trades != 0 {
		t.Fatalf("unexpected created strategy: %+v", created)
	}

	var list struct {
		Strategies []strategy.Strategy `json:"strategies"`
	}
	if status := doJSON(t, http.MethodGet, srv.URL+"/api/strategies", nil, &list); status != http.StatusOK {
		t.Fatalf("list status=%d", status)
	}
	if len(list.Strategies) != 1 || list.Strategies[0].ID != created.ID {
		t.Fatalf("list=%+v", list.Strategies)
	}
}

func TestCreateValidationMapsTo400(t *testing.T) {
	srv, _ := newTestServer(t, stubFeed{})

	req := validRequest("")
	var errBody struct {
		Code  string `json:"code"`
		Error string `json:"error"`
	}
	status := doJSON(t, http.MethodPost, srv.URL+"/api/strategies", req, &errBody)
	if status != http.StatusBadRequest {
		t.Fatalf("status=%d, expected 400", status)
	}
	if errBody.Code != "name_required" {
		t.Fatalf("code=%q", errBody.Code)
	}
}

func TestStatusToggleAndTrade(t *testing.T) {
	srv, _ := newTestServer(t, stubFeed{})

	var created strategy.Strategy
	doJSON(t, http.MethodPost, srv.URL+"/api/strategies", validRequest("Grid Bot A"), &created)

	status := doJSON(t, http.MethodPost, srv.URL+"/api/strategies/"+created.ID+"/status",
		map[string]string{"status": "Active"}, nil)
	if status != http.StatusNoContent {
		t.Fatalf("set status=%d, expected 204", status)
	}

	var res strategy.TradeResult
	for i := 0; i < 10; i++ {
		if status := doJSON(t, http.MethodPost, srv.URL+"/api/strategies/"+created.ID+"/trade", nil, &res); status != http.StatusOK {
			t.Fatalf("trade status=%d", status)
		}
		if !res.Win || res.ProfitDelta != 10 {
			t.Fatalf("trade result=%+v, expected forced win", res)
		}
	}

	var list struct {
		Strategies []strategy.Strategy `json:"strategies"`
	}
	doJSON(t, http.MethodGet, srv.URL+"/api/strategies", nil, &list)
	got := list.Strategies[0]
	if got.Status != strategy.StatusActive {
		t.Fatalf("Status=%q, expected Active", got.Status)
	}
	if got.Performance.Trades != 10 || got.Performance.Wins != 10 || got.Performance.Profit != 100 {
		t.Fatalf("Performance=%+v", got.Performance)
	}
}

func TestTradeUnknownIDIs404(t *testing.T) {
	srv, _ := newTestServer(t, stubFeed{})
	if status := doJSON(t, http.MethodPost, srv.URL+"/api/strategies/nope/trade", nil, nil); status != http.StatusNotFound {
		t.Fatalf("status=%d, expected 404", status)
	}
}

func TestDeleteStrategy(t *testing.T) {
	srv, _ := newTestServer(t, stubFeed{})

	var created strategy.Strategy
	doJSON(t, http.MethodPost, srv.URL+"/api/strategies", validRequest("Doomed"), &created)

	if status := doJSON(t, http.MethodDelete, srv.URL+"/api/strategies/"+created.ID, nil, nil); status != http.StatusNoContent {
		t.Fatalf("delete status=%d", status)
	}

	var list struct {
		Strategies []strategy.Strategy `json:"strategies"`
	}
	doJSON(t, http.MethodGet, srv.URL+"/api/strategies", nil, &list)
	if len(list.Strategies) != 0 {
		t.Fatalf("list=%+v, expected empty", list.Strategies)
	}
}

func TestGetPrices(t *testing.T) {
	srv, _ := newTestServer(t, stubFeed{mids: map[string]string{"BTC": "43256.78"}})

	var body struct {
		Mids map[string]string `json:"mids"`
	}
	if status := doJSON(t, http.MethodGet, srv.URL+"/api/prices", nil, &body); status != http.StatusOK {
		t.Fatalf("status=%d", status)
	}
	if body.Mids["BTC"] != "43256.78" {
		t.Fatalf("mids=%v", body.Mids)
	}
}

func TestGetPricesDegradedIs204(t *testing.T) {
	srv, _ := newTestServer(t, stubFeed{mids: nil})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/prices", nil)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("status=%d, expected 204 when feed degraded", res.StatusCode)
	}
}

func TestGetCandles(t *testing.T) {
	srv, _ := newTestServer(t, stubFeed{candles: []hyperliquid.Candle{
		{OpenTime: 1700000000000, Open: 43000, High: 43500, Low: 42800, Close: 43400, Volume: 120},
	}})

	var body struct {
		Coin     string               `json:"coin"`
		Interval string               `json:"interval"`
		Candles  []hyperliquid.Candle `json:"candles"`
	}
	status := doJSON(t, http.MethodGet, srv.URL+"/api/prices/BTC/candles?interval=1h&start=1&end=2", nil, &body)
	if status != http.StatusOK {
		t.Fatalf("status=%d", status)
	}
	if body.Coin != "BTC" || len(body.Candles) != 1 {
		t.Fatalf("body=%+v", body)
	}
}

func TestNotificationsSurfaceMutations(t *testing.T) {
	srv, _ := newTestServer(t, stubFeed{})

	doJSON(t, http.MethodPost, srv.URL+"/api/strategies", validRequest("Grid Bot A"), nil)

	var body struct {
		Notifications []notify.Notification `json:"notifications"`
	}
	doJSON(t, http.MethodGet, srv.URL+"/api/notifications", nil, &body)
	if len(body.Notifications) == 0 {
		t.Fatal("expected a notification after create")
	}
	if body.Notifications[len(body.Notifications)-1].Severity != notify.SeveritySuccess {
		t.Fatalf("severity=%q", body.Notifications[len(body.Notifications)-1].Severity)
	}
}
