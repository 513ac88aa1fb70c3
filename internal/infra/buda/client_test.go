package buda

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RafaelHerrera7/buda/internal/domain"
)

func newTestClient(url string) *Client {
	return NewClient(url, 2*time.Second)
}

func assertAPIStatus(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error with status %d, got nil", want)
	}
	if got := domain.StatusOf(err); got != want {
		t.Fatalf("Status = %d, want %d (err: %v)", got, want, err)
	}
}

func TestFetchTickers(t *testing.T) {
	t.Run("parses snapshot", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/tickers" {
				t.Errorf("Unexpected path %s", r.URL.Path)
			}
			w.Write([]byte(`{"tickers": [
				{"market_id": "BTC-CLP", "last_price": ["80000000.0", "CLP"]},
				{"market_id": "ETH-CLP", "last_price": [3000000]}
			]}`))
		}))
		defer server.Close()

		snap, err := newTestClient(server.URL).FetchTickers(context.Background())
		if err != nil {
			t.Fatalf("FetchTickers failed: %v", err)
		}

		if len(snap.Tickers) != 2 {
			t.Fatalf("Tickers = %d, want 2", len(snap.Tickers))
		}
		if snap.Tickers[0].MarketID != "BTC-CLP" || snap.Tickers[0].LastPrice[0] != "80000000.0" {
			t.Errorf("Unexpected first ticker: %+v", snap.Tickers[0])
		}
		// Number elements are normalized to their textual form.
		if snap.Tickers[1].LastPrice[0] != "3000000" {
			t.Errorf("LastPrice = %q, want 3000000", snap.Tickers[1].LastPrice[0])
		}
	})

	t.Run("empty ticker list is valid", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"tickers": []}`))
		}))
		defer server.Close()

		snap, err := newTestClient(server.URL).FetchTickers(context.Background())
		if err != nil {
			t.Fatalf("FetchTickers failed: %v", err)
		}
		if len(snap.Tickers) != 0 {
			t.Errorf("Tickers = %d, want 0", len(snap.Tickers))
		}
	})

	t.Run("non-2xx status passes through", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchTickers(context.Background())
		assertAPIStatus(t, err, 429)
	})

	t.Run("non-JSON body is 500", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>maintenance</html>`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchTickers(context.Background())
		assertAPIStatus(t, err, 500)
	})

	t.Run("missing tickers field is 500", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"markets": []}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchTickers(context.Background())
		assertAPIStatus(t, err, 500)
	})

	t.Run("timeout is 504", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			w.Write([]byte(`{"tickers": []}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, 50*time.Millisecond)
		_, err := client.FetchTickers(context.Background())
		assertAPIStatus(t, err, 504)
	})

	t.Run("connection failure is 503", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := newTestClient(url).FetchTickers(context.Background())
		assertAPIStatus(t, err, 503)
	})
}

func TestFetchOrderBook(t *testing.T) {
	t.Run("parses book levels", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/markets/BTC-CLP/order_book" {
				t.Errorf("Unexpected path %s", r.URL.Path)
			}
			w.Write([]byte(`{"order_book": {
				"asks": [["101.5", "1.0"]],
				"bids": [["100.0", "2.0"], ["90.0", "5.0"]]
			}}`))
		}))
		defer server.Close()

		book, err := newTestClient(server.URL).FetchOrderBook(context.Background(), "BTC-CLP")
		if err != nil {
			t.Fatalf("FetchOrderBook failed: %v", err)
		}

		if len(book.Bids) != 2 || len(book.Asks) != 1 {
			t.Fatalf("Levels = %d bids / %d asks, want 2/1", len(book.Bids), len(book.Asks))
		}
		if math.Abs(book.Bids[0].Price-100.0) > 1e-9 || math.Abs(book.Bids[0].Size-2.0) > 1e-9 {
			t.Errorf("Best bid = %+v, want 100 x 2", book.Bids[0])
		}
	})

	t.Run("missing order_book field is 400", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"book": {}}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchOrderBook(context.Background(), "BTC-CLP")
		assertAPIStatus(t, err, 400)
	})

	t.Run("malformed level is 400", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"order_book": {"asks": [], "bids": [["100.0"]]}}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchOrderBook(context.Background(), "BTC-CLP")
		assertAPIStatus(t, err, 400)
	})

	t.Run("unknown market status passes through", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchOrderBook(context.Background(), "XYZ-CLP")
		assertAPIStatus(t, err, 404)
	})
}
