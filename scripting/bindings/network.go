package bindings

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"

	"github.com/hubastard/buddy/scripting/vm"
)

// Fetcher performs blocking GETs. Redirects are followed; any status code
// is a successful fetch.
type Fetcher struct {
	client *http.Client
	log    zerolog.Logger
}

func NewFetcher(timeout time.Duration, log zerolog.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		log:    log.With().Str("component", "fetch").Logger(),
	}
}

func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "buddy/1")
	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Debug().Err(err).Str("url", url).Msg("fetch failed")
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	f.log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("took", time.Since(start)).
		Msg("fetched")
	return body, nil
}

// InstallNetwork binds http_get(url) -> string.
func InstallNetwork(env *vm.Env, f *Fetcher) error {
	return env.Register("http_get", 1, func(c vm.Call) (goja.Value, error) {
		if c.Len() < 1 || !vm.IsString(c.Args[0]) {
			return nil, vm.TypeErrorf("url string expected")
		}
		body, err := f.Get(context.Background(), c.Args[0].String())
		if err != nil {
			return nil, vm.InternalErrorf("%s", err)
		}
		return c.Env.ToValue(string(body)), nil
	})
}
