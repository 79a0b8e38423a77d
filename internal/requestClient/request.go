package requestClient

import (
	"net/http"
	"net/url"
	"runtime"
	"time"
)

// New builds the shared outbound client. proxyURL may be empty.
func New(timeout time.Duration, proxyURL string) (*http.Client, error) {
	tr := &http.Transport{
		MaxIdleConns:        runtime.NumCPU() * 16,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
	}
	if proxyURL != "" {
		proxy, err := url.Parse(proxyURL)
		if err != nil {
			return nil, err
		}
		tr.Proxy = http.ProxyURL(proxy)
	}
	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}
