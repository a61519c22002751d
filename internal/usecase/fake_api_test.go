package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"github.com/phenrril/medwear/internal/domain"
)

type call struct {
	Method string
	Path   string
	Params url.Values
	Body   any
}

// reply is what fakeAPI answers for one route: a payload to encode, or an
// error status with an optional detail.
type reply struct {
	Payload any
	Status  int
	Detail  string
}

type fakeAPI struct {
	mu     sync.Mutex
	routes map[string]reply
	calls  []call
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{routes: map[string]reply{}}
}

func (f *fakeAPI) on(method, path string, r reply) *fakeAPI {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = r
	return f
}

func (f *fakeAPI) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]call, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeAPI) answer(c call) (*domain.APIResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	r, ok := f.routes[c.Method+" "+c.Path]
	f.mu.Unlock()

	if !ok {
		return nil, domain.NewAPIError(http.StatusNotFound, map[string]any{})
	}
	if r.Status >= http.StatusBadRequest {
		payload := map[string]any{}
		if r.Detail != "" {
			payload["detail"] = r.Detail
		}
		return nil, domain.NewAPIError(r.Status, payload)
	}
	data, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, err
	}
	return &domain.APIResponse{Status: http.StatusOK, Data: data}, nil
}

func (f *fakeAPI) Get(_ context.Context, path string, params url.Values) (*domain.APIResponse, error) {
	return f.answer(call{Method: http.MethodGet, Path: path, Params: params})
}

func (f *fakeAPI) Post(_ context.Context, path string, body any) (*domain.APIResponse, error) {
	return f.answer(call{Method: http.MethodPost, Path: path, Body: body})
}

func (f *fakeAPI) Patch(_ context.Context, path string, body any) (*domain.APIResponse, error) {
	return f.answer(call{Method: http.MethodPatch, Path: path, Body: body})
}

func (f *fakeAPI) Delete(_ context.Context, path string) (*domain.APIResponse, error) {
	return f.answer(call{Method: http.MethodDelete, Path: path})
}

// recorder collects notifier calls.
type recorder struct {
	mu    sync.Mutex
	names []string
}

func (r *recorder) notify(slice string) {
	r.mu.Lock()
	r.names = append(r.names, slice)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.names)
}

// gatedAPI answers GET /products/ with the payload for the requested page,
// holding each call until that page's gate is closed.
type gatedAPI struct {
	*fakeAPI
	started chan string
	gates   map[string]chan struct{}
	pages   map[string]any
}

func (g *gatedAPI) Get(_ context.Context, _ string, params url.Values) (*domain.APIResponse, error) {
	page := params.Get("page")
	g.started <- page
	<-g.gates[page]
	data, err := json.Marshal(g.pages[page])
	if err != nil {
		return nil, err
	}
	return &domain.APIResponse{Status: http.StatusOK, Data: data}, nil
}
