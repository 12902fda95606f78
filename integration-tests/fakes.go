package integration_tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeEastmoney serves f43 quotes from a mutable table keyed by secid.
// Unknown secids get a 502.
type fakeEastmoney struct {
	mu     sync.Mutex
	quotes map[string]float64
	server *httptest.Server
}

func newFakeEastmoney(t *testing.T) *fakeEastmoney {
	f := &fakeEastmoney{quotes: map[string]float64{}}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		raw, ok := f.quotes[r.URL.Query().Get("secid")]
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"f43": raw},
		})
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeEastmoney) setPrice(secid string, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotes[secid] = price * 100
}

func (f *fakeEastmoney) removePrice(secid string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.quotes, secid)
}

func (f *fakeEastmoney) URL() string {
	return f.server.URL
}

type pushPlusMessage struct {
	Token   string `json:"token"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type fakePushPlus struct {
	mu       sync.Mutex
	messages []pushPlusMessage
	server   *httptest.Server
}

func newFakePushPlus(t *testing.T) *fakePushPlus {
	f := &fakePushPlus{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		msg := pushPlusMessage{}
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.messages = append(f.messages, msg)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"code": 200, "msg": "ok"})
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakePushPlus) Messages() []pushPlusMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pushPlusMessage{}, f.messages...)
}

func (f *fakePushPlus) URL() string {
	return f.server.URL
}
