package youtube

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"time"

	_ "github.com/bdandy/go-socks4"
	"github.com/rs/zerolog"
	"golang.org/x/net/proxy"
)

// NewHTTPClient returns an HTTP client that routes through proxyStr when it is
// a valid http, https, socks4 or socks5 URL, and a direct client otherwise.
func NewHTTPClient(proxyStr string, log zerolog.Logger) *http.Client {
	direct := &http.Client{Timeout: 15 * time.Second}
	if proxyStr == "" {
		return direct
	}

	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		log.Warn().Err(err).Msg("invalid proxy, going direct")
		return direct
	}

	var transport *http.Transport

	switch proxyURL.Scheme {
	case "http", "https":
		transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	case "socks5", "socks4":
		// socks4 is registered with x/net/proxy by go-socks4.
		dialer, err := proxy.FromURL(proxyURL, &net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 10 * time.Second,
		})
		if err != nil {
			log.Warn().Err(err).Str("scheme", proxyURL.Scheme).Msg("proxy dialer error, going direct")
			return direct
		}
		transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				if cd, ok := dialer.(proxy.ContextDialer); ok {
					return cd.DialContext(ctx, network, addr)
				}
				return dialer.Dial(network, addr)
			},
		}
	default:
		log.Warn().Str("scheme", proxyURL.Scheme).Msg("unsupported proxy scheme, going direct")
		return direct
	}

	log.Info().Str("scheme", proxyURL.Scheme).Str("host", proxyURL.Host).Msg("using proxy for YouTube")
	return &http.Client{Timeout: 15 * time.Second, Transport: transport}
}
