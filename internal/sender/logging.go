package sender

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// loggingClient wraps the HTTP client once at construction so every request
// and its response or error are logged at the single call site.
type loggingClient struct {
	next   HTTPClient
	logger zerolog.Logger
}

func (l loggingClient) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	l.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Msg("contact api request")

	resp, err := l.next.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		l.logger.Debug().Err(err).Dur("elapsed", elapsed).Msg("contact api request failed")
		return nil, err
	}

	l.logger.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("contact api response")
	return resp, nil
}
