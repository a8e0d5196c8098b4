package authoring

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type apiCall struct {
	Method string
	Path   string
	Body   string
}

type reply struct {
	status int
	data   any
	err    string
}

// fakeAPI: сервер авторинга в тестах: отвечает заготовками и запоминает запросы.
type fakeAPI struct {
	t      *testing.T
	srv    *httptest.Server
	mu     sync.Mutex
	calls  []apiCall
	routes map[string]reply
	before func(c apiCall) // вызывается до ответа, можно заблокировать
}

func newFakeAPI(t *testing.T, routes map[string]reply) *fakeAPI {
	t.Helper()
	f := &fakeAPI{t: t, routes: routes}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	c := apiCall{Method: r.Method, Path: strings.TrimPrefix(r.URL.Path, "/api"), Body: string(raw)}

	f.mu.Lock()
	f.calls = append(f.calls, c)
	before := f.before
	rep, ok := f.routes[c.Method+" "+c.Path]
	f.mu.Unlock()

	if before != nil {
		before(c)
	}
	if !ok {
		rep = reply{status: http.StatusOK}
	}
	if rep.status == 0 {
		rep.status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rep.status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": rep.data, "error": rep.err})
}

func (f *fakeAPI) client() *Client { return NewClient(f.srv.URL+"/api", "test-token") }

func (f *fakeAPI) Calls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

// countCalls считает запросы method+path.
func (f *fakeAPI) countCalls(method, path string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// eventLog: Navigator и Notifier сразу, чтобы проверять порядок "обновление, потом уведомление".
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) Push(path string)              { l.add("push " + path) }
func (l *eventLog) Refresh(context.Context) error { l.add("refresh"); return nil }
func (l *eventLog) Success(msg string)            { l.add("success " + msg) }
func (l *eventLog) Error(msg string)              { l.add("error " + msg) }

func (l *eventLog) Events() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func categoriesFixture() any {
	return []map[string]any{
		{"id": "c1", "name": "IT", "subCategories": []map[string]any{
			{"id": "s1", "name": "Веб", "categoryId": "c1"},
			{"id": "s2", "name": "Данные", "categoryId": "c1"},
		}},
		{"id": "c2", "name": "Дизайн", "subCategories": []map[string]any{
			{"id": "s3", "name": "UI", "categoryId": "c2"},
		}},
	}
}
