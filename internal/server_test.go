package internal

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/2beens/blogfront/internal/config"
	"github.com/2beens/blogfront/internal/devapi"
	"github.com/2beens/blogfront/internal/session"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(apiBaseURL string) *config.Config {
	return &config.Config{
		Environment:           "development",
		Host:                  "127.0.0.1",
		Port:                  0,
		PublicBaseURL:         "http://blogs.test",
		ApiBaseURL:            apiBaseURL,
		ApiTimeoutSeconds:     5,
		SessionStore:          config.SessionStoreMemory,
		SessionTTLHours:       1,
		SessionCacheSizeMB:    1,
		CommentsAllowedPerMin: 10,
		AllowedOrigins:        []string{"http://allowed.test"},
		PrometheusMetricsHost: "127.0.0.1",
		PrometheusMetricsPort: "0",
	}
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	repo := devapi.NewMemoryRepo()
	require.NoError(t, devapi.Seed(repo, devapi.DefaultSeedParams()))
	apiServer := httptest.NewServer(devapi.NewRouter(repo))
	t.Cleanup(apiServer.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server, err := NewServer(ctx, NewServerParams{Config: testConfig(apiServer.URL)})
	require.NoError(t, err)

	frontServer := httptest.NewServer(server.routerSetup())
	t.Cleanup(frontServer.Close)

	return server, frontServer
}

func TestServer_ChangeUserPage(t *testing.T) {
	server, frontServer := newTestServer(t)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	for i := 0; i < 2; i++ {
		resp, err := client.Get(frontServer.URL + "/")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "Change User")
		assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	}

	// the second visit reuses the cookie
	assert.Equal(t, float64(1), testutil.ToFloat64(server.metricsManager.CounterSessionsCreated))
	assert.Equal(t, 1, server.registry.Len())
	assert.Equal(t, float64(2), testutil.ToFloat64(server.metricsManager.CounterRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, float64(2), testutil.ToFloat64(server.metricsManager.CounterStoreActions.WithLabelValues("users/getAllUsers", "fulfilled")))
}

func TestServer_Cors(t *testing.T) {
	_, frontServer := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, frontServer.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.test")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req.Header.Set("Origin", "http://allowed.test")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://allowed.test", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_Cors_OwnOriginFormPost(t *testing.T) {
	_, frontServer := newTestServer(t)

	form := url.Values{"emailAccountId": {"1"}, "emailAddress": {"ana@work.test"}}
	req, err := http.NewRequest(http.MethodPost, frontServer.URL+"/persona", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// PublicBaseURL of the test config, not listed in allowed_origins
	req.Header.Set("Origin", "http://blogs.test")

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.NotEqual(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "http://blogs.test", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_CommentsNotLimitedWithoutRedis(t *testing.T) {
	server, _ := newTestServer(t)
	assert.Nil(t, server.rateLimiter)
	assert.Nil(t, server.redisClient)
}

func TestServer_CleanupSessionsOnce(t *testing.T) {
	server, _ := newTestServer(t)
	ctx := context.Background()

	repo := server.sessionManager.Repo()
	live := session.New("live-token", time.Now())
	require.NoError(t, repo.Save(ctx, live))
	server.registry.State(live.Token)
	// a state whose session is gone from the store
	require.NoError(t, repo.Save(ctx, session.New("gone-token", time.Now())))
	server.registry.State("gone-token")
	require.NoError(t, repo.Delete(ctx, "gone-token"))

	server.cleanupSessionsOnce(ctx)

	assert.Equal(t, 1, server.registry.Len())
	_, err := repo.Get(ctx, live.Token)
	assert.NoError(t, err)
}
