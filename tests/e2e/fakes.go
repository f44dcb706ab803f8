//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/segmentio/kafka-go"
)

type StockDecrement struct {
	SkuCode  string `json:"skuCode"`
	Quantity int    `json:"quantity"`
}

// InventoryStub serves the two inventory endpoints from an in-memory table.
type InventoryStub struct {
	server *httptest.Server

	mu         sync.Mutex
	stock      map[string]bool
	down       bool
	failDec    bool
	decrements [][]StockDecrement
	lookups    int
}

func NewInventoryStub() *InventoryStub {
	s := &InventoryStub{stock: map[string]bool{}}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/inventory", s.handleAvailability)
	mux.HandleFunc("POST /api/inventory/decrement", s.handleDecrement)
	s.server = httptest.NewServer(mux)
	return s
}

func (s *InventoryStub) URL() string { return s.server.URL }

func (s *InventoryStub) Close() { s.server.Close() }

func (s *InventoryStub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock = map[string]bool{}
	s.down = false
	s.failDec = false
	s.decrements = nil
	s.lookups = 0
}

// SetStock registers sku with the given availability.
func (s *InventoryStub) SetStock(sku string, inStock bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[sku] = inStock
}

// SetDown makes every endpoint answer 503.
func (s *InventoryStub) SetDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

// FailDecrements makes only the decrement endpoint answer 500.
func (s *InventoryStub) FailDecrements(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDec = fail
}

func (s *InventoryStub) Decrements() [][]StockDecrement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]StockDecrement(nil), s.decrements...)
}

// Lookups counts availability requests that reached the stub, including failed ones.
func (s *InventoryStub) Lookups() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups
}

func (s *InventoryStub) handleAvailability(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if s.down {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	type entry struct {
		SkuCode string `json:"skuCode"`
		InStock bool   `json:"inStock"`
	}
	body := []entry{}
	for _, sku := range r.URL.Query()["skuCode"] {
		if inStock, ok := s.stock[sku]; ok {
			body = append(body, entry{SkuCode: sku, InStock: inStock})
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func (s *InventoryStub) handleDecrement(w http.ResponseWriter, r *http.Request) {
	var items []StockDecrement
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	if s.failDec {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.decrements = append(s.decrements, items)
	w.WriteHeader(http.StatusOK)
}

// RecordingProducer stands in for the Kafka writer.
type RecordingProducer struct {
	mu       sync.Mutex
	messages []kafka.Message
}

func (p *RecordingProducer) WriteMessage(_ context.Context, msg kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *RecordingProducer) Close() error { return nil }

func (p *RecordingProducer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = nil
}

func (p *RecordingProducer) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		keys = append(keys, string(m.Key))
	}
	return keys
}
