package server

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"golang.org/x/oauth2"
)

// OAuthResult contains the result of an OAuth authorization flow.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler serves the one-shot OAuth2 authorization-code callback.
// Implements [Handler] for registration with a router.
type OAuthHandler struct {
	config     *oauth2.Config
	state      string
	resultChan chan OAuthResult
	used       atomic.Bool
	once       sync.Once
}

// NewOAuthHandler creates a callback handler bound to the given OAuth2
// config and CSRF state token.
func NewOAuthHandler(config *oauth2.Config, state string) *OAuthHandler {
	return &OAuthHandler{
		config:     config,
		state:      state,
		resultChan: make(chan OAuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{"/callback"}
}

// parseCallback validates the state parameter and extracts the
// authorization code from the callback query string.
func (h *OAuthHandler) parseCallback(r *http.Request) (string, error) {
	query := r.URL.Query()

	if query.Get("state") != h.state {
		return "", fmt.Errorf("invalid state parameter")
	}

	code := query.Get("code")
	if code == "" {
		return "", fmt.Errorf("authorization failed: %s - %s",
			query.Get("error"), query.Get("error_description"))
	}

	return code, nil
}

// ServeHTTP handles the callback request: validates state, exchanges
// the code for tokens, and delivers the result exactly once.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.used.Swap(true) {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}

	code, err := h.parseCallback(r)
	if err != nil {
		h.send(OAuthResult{err: err})
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.send(OAuthResult{err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.send(OAuthResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

// send delivers the result and closes the channel. Safe to call more
// than once; only the first result wins.
func (h *OAuthHandler) send(result OAuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the channel carrying the flow outcome. It receives
// exactly one value and is then closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.resultChan
}

const successPage = `<!DOCTYPE html>
<html>
<head>
    <title>Connected to Spotify</title>
    <style>
        body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center;
               height: 100vh; margin: 0; background: #191414; }
        .card { text-align: center; background: #fff; padding: 2rem 3rem;
                border-radius: 8px; }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="card">
        <h1>Connected to Spotify</h1>
        <p>You can close this tab and return to the terminal.</p>
    </div>
</body>
</html>
`
