package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/2beens/blogfront/internal/articles"
	"github.com/2beens/blogfront/internal/blogs"
	"github.com/2beens/blogfront/internal/config"
	"github.com/2beens/blogfront/internal/devapi"
	"github.com/2beens/blogfront/internal/session"
	"github.com/2beens/blogfront/internal/users"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

// RedisIntegrationTestSuite runs the server with the redis session store against a dockerized redis.
type RedisIntegrationTestSuite struct {
	suite.Suite

	dockerPool  *dockertest.Pool
	apiRepo     *devapi.MemoryRepo
	server      *Server
	frontServer *httptest.Server
	cancel      context.CancelFunc
	teardown    []func()
}

func TestRedisIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis integration tests in short mode")
	}
	suite.Run(t, new(RedisIntegrationTestSuite))
}

func (s *RedisIntegrationTestSuite) SetupSuite() {
	var err error
	s.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		s.T().Skipf("could not create new dockertest pool: %s", err)
	}
	if err = s.dockerPool.Client.Ping(); err != nil {
		s.T().Skipf("could not ping dockertest pool: %s", err)
	}

	redisPort, err := s.redisSetup()
	if err != nil {
		s.cleanup()
		s.T().Fatalf("failed to setup redis: %s", err)
	}

	s.apiRepo = devapi.NewMemoryRepo()
	s.apiRepo.AddUser(users.User{
		UserName:      "Ana",
		EmailAccounts: []users.EmailAccount{{EmailAddress: "ana@work.test"}},
	})
	blog, err := s.apiRepo.AddBlog(1, blogs.Dto{BlogTitle: "Go Notes", BlogAuthor: "Ana", BlogCategory: "Tech"})
	s.Require().NoError(err)
	_, err = s.apiRepo.AddArticle(1, blog.BlogID, articles.CreateDto{
		EmailAccountID: 1,
		BlogID:         blog.BlogID,
		ArticleTitle:   "Hello",
		ArticleAuthor:  "Ana",
		ArticleStatus:  articles.StatusPublished,
		Content:        "first post",
	})
	s.Require().NoError(err)

	apiServer := httptest.NewServer(devapi.NewRouter(s.apiRepo))
	s.teardown = append(s.teardown, apiServer.Close)

	cfg := testConfig(apiServer.URL)
	cfg.SessionStore = config.SessionStoreRedis
	cfg.RedisHost = "localhost"
	cfg.RedisPort = redisPort
	cfg.CommentsAllowedPerMin = 2
	cfg.TrustProxyHeaders = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.server, err = NewServer(ctx, NewServerParams{Config: cfg})
	if err != nil {
		s.cleanup()
		s.T().Fatalf("new server: %s", err)
	}

	s.frontServer = httptest.NewServer(s.server.routerSetup())
}

func (s *RedisIntegrationTestSuite) TearDownSuite() {
	s.cleanup()
}

func (s *RedisIntegrationTestSuite) cleanup() {
	if s.frontServer != nil {
		s.frontServer.Close()
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

func (s *RedisIntegrationTestSuite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := redisResource.Close(); err != nil {
			fmt.Printf("redis teardown: %s\n", err)
		}
	})

	redisPort := redisResource.GetPort("6379/tcp")
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:" + redisPort})
	defer rdb.Close()
	if err := s.dockerPool.Retry(func() error {
		return rdb.Ping(context.Background()).Err()
	}); err != nil {
		return "", fmt.Errorf("wait for redis: %w", err)
	}

	return redisPort, nil
}

// realIPTransport plays the reverse proxy setting X-Real-Ip.
type realIPTransport struct {
	ip string
}

func (t realIPTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Real-Ip", t.ip)
	return http.DefaultTransport.RoundTrip(req)
}

func (s *RedisIntegrationTestSuite) newClient(ip string) *http.Client {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	return &http.Client{
		Jar:       jar,
		Transport: realIPTransport{ip: ip},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *RedisIntegrationTestSuite) do(client *http.Client, method, path string, form url.Values) *http.Response {
	var resp *http.Response
	var err error
	if method == http.MethodPost {
		resp, err = client.PostForm(s.frontServer.URL+path, form)
	} else {
		resp, err = client.Get(s.frontServer.URL + path)
	}
	s.Require().NoError(err)
	_, _ = io.Copy(io.Discard, resp.Body)
	s.Require().NoError(resp.Body.Close())
	return resp
}

func (s *RedisIntegrationTestSuite) sessionToken(client *http.Client) string {
	u, err := url.Parse(s.frontServer.URL)
	s.Require().NoError(err)
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == session.CookieName {
			return c.Value
		}
	}
	return ""
}

func (s *RedisIntegrationTestSuite) TestSessionStoredInRedis() {
	ctx := context.Background()
	client := s.newClient("10.1.0.1")

	resp := s.do(client, http.MethodPost, "/persona", url.Values{"emailAccountId": {"1"}, "emailAddress": {"ana@work.test"}})
	s.Equal(http.StatusSeeOther, resp.StatusCode)

	token := s.sessionToken(client)
	s.Require().NotEmpty(token)

	isMember, err := s.server.redisClient.SIsMember(ctx, "blogfront-sessions", token).Result()
	s.Require().NoError(err)
	s.True(isMember)

	stored, err := s.server.sessionManager.Repo().Get(ctx, token)
	s.Require().NoError(err)
	s.Equal(1, stored.EmailAccountID)
	s.Equal(session.PageAuthor, stored.SelectedPage)
}

func (s *RedisIntegrationTestSuite) TestCommentsRateLimited() {
	client := s.newClient("10.1.0.2")
	s.do(client, http.MethodGet, "/", nil)

	limitedBefore := testutil.ToFloat64(s.server.metricsManager.CounterRateLimitedRequests)
	comment := url.Values{"commentatorName": {"Bo"}, "comment": {"hi"}}
	path := "/reader/1/blog/1/article/1/comment"

	s.Equal(http.StatusSeeOther, s.do(client, http.MethodPost, path, comment).StatusCode)
	s.Equal(http.StatusSeeOther, s.do(client, http.MethodPost, path, comment).StatusCode)
	s.Equal(http.StatusTooEarly, s.do(client, http.MethodPost, path, comment).StatusCode)

	s.Equal(limitedBefore+1, testutil.ToFloat64(s.server.metricsManager.CounterRateLimitedRequests))

	// dropping the session cookie does not reset the budget
	s.Equal(http.StatusTooEarly, s.do(s.newClient("10.1.0.2"), http.MethodPost, path, comment).StatusCode)

	// another visitor has its own budget
	other := s.newClient("10.1.0.3")
	s.do(other, http.MethodGet, "/", nil)
	s.Equal(http.StatusSeeOther, s.do(other, http.MethodPost, path, comment).StatusCode)
}

func (s *RedisIntegrationTestSuite) TestExpiredSessionsCleanedUp() {
	ctx := context.Background()
	repo := s.server.sessionManager.Repo()

	old := session.New("old-session-token", time.Now().Add(-2*time.Hour))
	s.Require().NoError(repo.Save(ctx, old))
	s.server.registry.State(old.Token)

	client := s.newClient("10.1.0.4")
	s.do(client, http.MethodGet, "/", nil)
	fresh := s.sessionToken(client)
	s.Require().NotEmpty(fresh)

	s.server.cleanupSessionsOnce(ctx)

	_, err := repo.Get(ctx, old.Token)
	s.ErrorIs(err, session.ErrNotFound)
	s.NotContains(s.server.registry.Tokens(), old.Token)
	s.Contains(s.server.registry.Tokens(), fresh)
}
