// Command healthcheck exits 0 when the configured backend answers HTTP.
package main

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/watermyplant/internal/config"
)

const probeTimeout = 2 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	os.Exit(check(cfg.BaseURL))
}

// check probes GET <base>/plants. Any HTTP response counts as healthy; an
// unauthenticated 401 still proves the backend is serving.
func check(baseURL string) int {
	u, err := url.Parse(baseURL)
	if err != nil {
		return 1
	}

	client := &http.Client{Timeout: probeTimeout}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.JoinPath("plants").String(), nil)
	if err != nil {
		return 1
	}

	resp, err := client.Do(req)
	if err != nil {
		return 1
	}
	_ = resp.Body.Close()

	return 0
}
