//go:build unit

package inventory_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"order-service/internal/infra/inventory"
	"order-service/internal/pkg/clock"
	"order-service/internal/pkg/config"
	"order-service/internal/pkg/errs"
	"order-service/internal/pkg/resilience"
	"order-service/internal/usecase/commands"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() resilience.Config {
	return resilience.Config{
		Breaker: resilience.BreakerConfig{
			SlidingWindowSize:    10,
			MinimumCalls:         5,
			FailureRateThreshold: 50,
			OpenDuration:         time.Minute,
			HalfOpenPermits:      3,
		},
		Timeout: time.Second,
		Retry: resilience.RetryConfig{
			MaxAttempts: 3,
			Backoff:     resilience.BackoffFixed,
			Wait:        time.Millisecond,
		},
	}
}

func newClient(t *testing.T, handler http.Handler) (*inventory.Client, *resilience.Registry) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	reg := resilience.NewRegistry(clock.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), nil)
	cfg := config.InventoryConfig{BaseURL: srv.URL + "/", HTTPTimeout: time.Second}
	return inventory.NewClient(cfg, srv.Client(), reg, testPolicy()), reg
}

func TestClient_CheckAvailability(t *testing.T) {
	t.Run("maps the response by sku", func(t *testing.T) {
		var gotSkus []string
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/inventory", r.URL.Path)
			gotSkus = r.URL.Query()["skuCode"]
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"skuCode":"iphone_13","inStock":true},{"skuCode":"pixel_8","inStock":false}]`))
		}))

		got, err := client.CheckAvailability(context.Background(), []string{"iphone_13", "pixel_8"})

		require.NoError(t, err)
		assert.Equal(t, []string{"iphone_13", "pixel_8"}, gotSkus)
		if diff := cmp.Diff(map[string]bool{"iphone_13": true, "pixel_8": false}, got); diff != "" {
			t.Errorf("availability mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("duplicate entries must all be in stock", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"skuCode":"a","inStock":true},{"skuCode":"a","inStock":false}]`))
		}))

		got, err := client.CheckAvailability(context.Background(), []string{"a"})

		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"a": false}, got)
	})

	t.Run("server errors are retried then reported unavailable", func(t *testing.T) {
		var hits atomic.Int32
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			http.Error(w, "boom", http.StatusInternalServerError)
		}))

		_, err := client.CheckAvailability(context.Background(), []string{"a"})

		assert.ErrorIs(t, err, errs.ErrRemoteUnavailable)
		assert.Equal(t, int32(3), hits.Load())
	})

	t.Run("client errors count as failures too", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := client.CheckAvailability(context.Background(), []string{"a"})

		require.ErrorIs(t, err, errs.ErrRemoteUnavailable)
		var statusErr *inventory.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	})

	t.Run("open breaker stops reaching the service", func(t *testing.T) {
		var hits atomic.Int32
		client, reg := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))

		// 2 executions x 3 attempts = 6 failures, tripping at the 5th
		for i := 0; i < 2; i++ {
			_, _ = client.CheckAvailability(context.Background(), []string{"a"})
		}
		require.Equal(t, int32(5), hits.Load())

		_, err := client.CheckAvailability(context.Background(), []string{"a"})

		assert.ErrorIs(t, err, errs.ErrRemoteUnavailable)
		assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
		assert.Equal(t, int32(5), hits.Load())

		snaps := reg.Snapshot()
		require.Len(t, snaps, 2)
		assert.Equal(t, inventory.CheckPolicyName, snaps[0].Name)
		assert.Equal(t, "OPEN", snaps[0].State)
		assert.Equal(t, inventory.DecrementPolicyName, snaps[1].Name)
		assert.Equal(t, "CLOSED", snaps[1].State)
	})
}

func TestClient_DecrementStock(t *testing.T) {
	t.Run("posts the decrement list", func(t *testing.T) {
		var got []commands.StockDecrement
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/inventory/decrement", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusNoContent)
		}))

		items := []commands.StockDecrement{{SkuCode: "iphone_13", Quantity: 2}}
		err := client.DecrementStock(context.Background(), items)

		require.NoError(t, err)
		if diff := cmp.Diff(items, got); diff != "" {
			t.Errorf("decrement body mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("failure is reported unavailable", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))

		err := client.DecrementStock(context.Background(), []commands.StockDecrement{{SkuCode: "a", Quantity: 1}})

		assert.ErrorIs(t, err, errs.ErrRemoteUnavailable)
	})
}
