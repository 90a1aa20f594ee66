package http_server_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	auth_app "yatube/internal/application/service/auth"
	post_app "yatube/internal/application/service/post"
	"yatube/internal/custom_errors"
	model "yatube/internal/domain/models"
	auth_service "yatube/internal/domain/ports/input/auth"
	"yatube/internal/infrastructure/config"
	http_server "yatube/internal/infrastructure/inbound/http"
	"yatube/internal/infrastructure/inbound/http/web"
	"yatube/internal/infrastructure/logger"
	"yatube/internal/infrastructure/outbound/metrics/prometheus"
	group_memory "yatube/internal/infrastructure/outbound/repository/group/memory"
	"yatube/internal/infrastructure/outbound/repository/memory"
	post_memory "yatube/internal/infrastructure/outbound/repository/post/memory"
	user_memory "yatube/internal/infrastructure/outbound/repository/user/memory"
)

const testPassword = "correct-horse-battery"

type testApp struct {
	server *httptest.Server
	posts  *post_memory.PostRepository
	groups *group_memory.GroupRepository
	auth   *auth_app.AuthService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := logger.New("test")
	metrics := prometheus.NewPrometheusMetricsProvider()

	posts := post_memory.NewPostRepository(log)
	groups := group_memory.NewGroupRepository(log)
	users := user_memory.NewUserRepository(log)
	uow := memory.NewUnitOfWork(posts, groups, users)

	postService := post_app.NewPostService(posts, groups, users, uow, log, metrics)
	authService := auth_app.NewAuthService(users, log, metrics, bcrypt.MinCost)

	renderer, err := web.NewRenderer(log)
	require.NoError(t, err)

	manager := web.NewSessionManager(config.Session{
		CookieName:  "sessionid",
		IdleTimeout: time.Hour,
		Lifetime:    time.Hour,
	}, memstore.New())
	sessions := web.NewSessions(manager, authService, "/auth/login/", log)

	handler := http_server.NewRouter(http_server.RouterDeps{
		PostService: postService,
		AuthService: authService,
		Sessions:    sessions,
		Renderer:    renderer,
		Log:         log,
		Metrics:     metrics,
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &testApp{server: server, posts: posts, groups: groups, auth: authService}
}

func (a *testApp) user(t *testing.T, username string) *model.User {
	t.Helper()
	u, err := a.auth.Register(context.Background(), &auth_service.SignupDTO{Username: username, Password: testPassword})
	require.NoError(t, err)
	return u
}

func (a *testApp) group(t *testing.T, slug string) *model.Group {
	t.Helper()
	g, err := a.groups.Create(context.Background(), &model.CreateGroupDTO{Title: strings.ToUpper(slug), Slug: slug})
	require.NoError(t, err)
	return g
}

func (a *testApp) post(t *testing.T, author *model.User, text string, groupID *int64, createdAt time.Time) *model.Post {
	t.Helper()
	p, err := a.posts.Create(context.Background(), &model.Post{AuthorID: author.ID, Text: text, GroupID: groupID, CreatedAt: createdAt})
	require.NoError(t, err)
	return p
}

func newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *testApp) login(t *testing.T, username string) *http.Client {
	t.Helper()
	c := newClient(t)
	resp, err := c.PostForm(a.server.URL+"/auth/login/", url.Values{"username": {username}, "password": {testPassword}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	return c
}

func do(t *testing.T, c *http.Client, method, target string, form url.Values) (int, string, string) {
	t.Helper()
	var resp *http.Response
	var err error
	if method == http.MethodPost {
		resp, err = c.PostForm(target, form)
	} else {
		resp, err = c.Get(target)
	}
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header.Get("Location"), string(body)
}

func TestFeeds_Pagination(t *testing.T) {
	app := newTestApp(t)
	leo := app.user(t, "leo")
	cats := app.group(t, "cats")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		app.post(t, leo, fmt.Sprintf("post number %d", i), &cats.ID, base.Add(time.Duration(i)*time.Minute))
	}

	c := newClient(t)
	tests := []struct {
		name      string
		path      string
		wantCards int
		wantText  string
	}{
		{name: "index first page", path: "/", wantCards: 10, wantText: "post number 12"},
		{name: "index second page", path: "/?page=2", wantCards: 3, wantText: "post number 0"},
		{name: "index page past the end", path: "/?page=99", wantCards: 3, wantText: "post number 0"},
		{name: "index garbage page", path: "/?page=abc", wantCards: 10, wantText: "post number 12"},
		{name: "group first page", path: "/group/cats/", wantCards: 10, wantText: "post number 3"},
		{name: "group second page", path: "/group/cats/?page=2", wantCards: 3, wantText: "post number 2"},
		{name: "profile first page", path: "/profile/leo/", wantCards: 10, wantText: "Posts total: 13"},
		{name: "profile second page", path: "/profile/leo/?page=2", wantCards: 3, wantText: "post number 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _, body := do(t, c, http.MethodGet, app.server.URL+tt.path, nil)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, tt.wantCards, strings.Count(body, "<article>"))
			assert.Contains(t, body, tt.wantText)
		})
	}
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t)
	leo := app.user(t, "leo")
	app.post(t, leo, "hello", nil, time.Time{})

	c := newClient(t)
	for _, path := range []string{
		"/group/unknown/",
		"/profile/ghost/",
		"/posts/999/",
		"/posts/abc/",
		"/posts/-1/",
		"/unexisting_page/",
	} {
		t.Run(path, func(t *testing.T) {
			status, _, body := do(t, c, http.MethodGet, app.server.URL+path, nil)
			assert.Equal(t, http.StatusNotFound, status)
			assert.Contains(t, body, "404")
		})
	}
}

func TestAppendSlash(t *testing.T) {
	app := newTestApp(t)
	c := newClient(t)

	status, location, _ := do(t, c, http.MethodGet, app.server.URL+"/about/tech?x=1", nil)
	assert.Equal(t, http.StatusMovedPermanently, status)
	assert.Equal(t, "/about/tech/?x=1", location)

	status, _, _ = do(t, c, http.MethodGet, app.server.URL+"/about/author/", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestLoginRequired(t *testing.T) {
	app := newTestApp(t)
	leo := app.user(t, "leo")
	p := app.post(t, leo, "hello", nil, time.Time{})

	c := newClient(t)
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/create/"},
		{http.MethodPost, "/create/"},
		{http.MethodGet, fmt.Sprintf("/posts/%d/edit/", p.ID)},
		{http.MethodPost, fmt.Sprintf("/posts/%d/edit/", p.ID)},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			status, location, _ := do(t, c, tt.method, app.server.URL+tt.path, url.Values{"text": {"sneaky"}})
			assert.Equal(t, http.StatusFound, status)
			assert.Equal(t, "/auth/login/?next="+url.QueryEscape(tt.path), location)
		})
	}

	stored, err := app.posts.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", stored.Text)
}

func TestLogin_Next(t *testing.T) {
	app := newTestApp(t)
	app.user(t, "leo")

	tests := []struct {
		name     string
		next     string
		password string
		status   int
		location string
	}{
		{name: "local next", next: "/create/", password: testPassword, status: http.StatusFound, location: "/create/"},
		{name: "no next", password: testPassword, status: http.StatusFound, location: "/"},
		{name: "protocol relative next", next: "//evil.example/", password: testPassword, status: http.StatusFound, location: "/"},
		{name: "absolute next", next: "https://evil.example/", password: testPassword, status: http.StatusFound, location: "/"},
		{name: "wrong password", next: "/create/", password: "nope", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t)
			status, location, body := do(t, c, http.MethodPost, app.server.URL+"/auth/login/", url.Values{
				"username": {"leo"},
				"password": {tt.password},
				"next":     {tt.next},
			})
			assert.Equal(t, tt.status, status)
			if tt.status == http.StatusFound {
				assert.Equal(t, tt.location, location)
			} else {
				assert.Contains(t, body, "Please enter a correct username and password")
			}
		})
	}
}

func TestCreatePost(t *testing.T) {
	app := newTestApp(t)
	app.user(t, "leo")
	cats := app.group(t, "cats")
	c := app.login(t, "leo")

	status, _, body := do(t, c, http.MethodGet, app.server.URL+"/create/", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `name="text"`)
	assert.Contains(t, body, `value="`+cats.IDString()+`"`)

	status, _, body = do(t, c, http.MethodPost, app.server.URL+"/create/", url.Values{"text": {"   "}, "group": {cats.IDString()}})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "This field is required.")

	status, _, body = do(t, c, http.MethodPost, app.server.URL+"/create/", url.Values{"text": {"keep me"}, "group": {"999"}})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "keep me")
	assert.Contains(t, body, "Select a valid choice.")

	total, err := app.posts.Count(context.Background(), model.PostFilters{})
	require.NoError(t, err)
	assert.Zero(t, total)

	status, location, _ := do(t, c, http.MethodPost, app.server.URL+"/create/", url.Values{"text": {"no group at all"}})
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/profile/leo/", location)

	status, location, _ = do(t, c, http.MethodPost, app.server.URL+"/create/", url.Values{"text": {"in cats"}, "group": {cats.IDString()}})
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/profile/leo/", location)

	list, err := app.posts.List(context.Background(), model.PostFilters{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "in cats", list[0].Text)
	assert.True(t, list[0].InGroup(cats.ID))
	assert.Nil(t, list[1].GroupID)

	_, _, body = do(t, c, http.MethodGet, app.server.URL+"/group/cats/", nil)
	assert.Contains(t, body, "in cats")
	assert.NotContains(t, body, "no group at all")
}

func TestEditPost(t *testing.T) {
	app := newTestApp(t)
	leo := app.user(t, "leo")
	app.user(t, "anna")
	cats := app.group(t, "cats")
	p := app.post(t, leo, "original", &cats.ID, time.Time{})
	editURL := fmt.Sprintf("%s/posts/%d/edit/", app.server.URL, p.ID)
	detail := fmt.Sprintf("/posts/%d/", p.ID)

	t.Run("non-author is sent to the post page", func(t *testing.T) {
		c := app.login(t, "anna")

		status, location, _ := do(t, c, http.MethodGet, editURL, nil)
		assert.Equal(t, http.StatusFound, status)
		assert.Equal(t, detail, location)

		status, location, _ = do(t, c, http.MethodPost, editURL, url.Values{"text": {"hijacked"}})
		assert.Equal(t, http.StatusFound, status)
		assert.Equal(t, detail, location)

		stored, err := app.posts.GetByID(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, "original", stored.Text)
	})

	t.Run("author edits", func(t *testing.T) {
		c := app.login(t, "leo")

		status, _, body := do(t, c, http.MethodGet, editURL, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "original")
		assert.Contains(t, body, "selected")

		status, _, body = do(t, c, http.MethodPost, editURL, url.Values{"text": {""}})
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "This field is required.")

		status, location, _ := do(t, c, http.MethodPost, editURL, url.Values{"text": {"edited"}})
		assert.Equal(t, http.StatusFound, status)
		assert.Equal(t, detail, location)

		stored, err := app.posts.GetByID(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, "edited", stored.Text)
		assert.Nil(t, stored.GroupID)
		assert.Equal(t, leo.ID, stored.AuthorID)

		status, _, body = do(t, c, http.MethodGet, app.server.URL+detail, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "edit post")
	})

	t.Run("missing post", func(t *testing.T) {
		c := app.login(t, "leo")
		status, _, _ := do(t, c, http.MethodGet, app.server.URL+"/posts/999/edit/", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestSignupAndLogout(t *testing.T) {
	app := newTestApp(t)
	c := newClient(t)

	status, _, body := do(t, c, http.MethodPost, app.server.URL+"/auth/signup/", url.Values{
		"username":  {"leo"},
		"password":  {testPassword},
		"password2": {"different-password"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "The two password fields didn&#39;t match.")

	status, location, _ := do(t, c, http.MethodPost, app.server.URL+"/auth/signup/", url.Values{
		"username":  {"leo"},
		"password":  {testPassword},
		"password2": {testPassword},
	})
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/", location)

	status, _, _ = do(t, c, http.MethodGet, app.server.URL+"/create/", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _, body = do(t, c, http.MethodPost, app.server.URL+"/auth/logout/", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "logged out")

	status, _, _ = do(t, c, http.MethodGet, app.server.URL+"/create/", nil)
	assert.Equal(t, http.StatusFound, status)

	other := newClient(t)
	status, _, body = do(t, other, http.MethodPost, app.server.URL+"/auth/signup/", url.Values{
		"username":  {"leo"},
		"password":  {testPassword},
		"password2": {testPassword},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "already exists")
}

func TestSignup_PasswordTooLong(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name     string
		username string
		password string
		wantMsg  string
	}{
		{name: "73 ascii characters", username: "leo", password: strings.Repeat("a", 73), wantMsg: "Ensure this value has at most 72 characters."},
		{name: "72 characters over 72 bytes", username: "anna", password: strings.Repeat("ж", 72), wantMsg: "Ensure this value has at most 72 bytes."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t)
			status, _, body := do(t, c, http.MethodPost, app.server.URL+"/auth/signup/", url.Values{
				"username":  {tt.username},
				"password":  {tt.password},
				"password2": {tt.password},
			})
			assert.Equal(t, http.StatusOK, status)
			assert.Contains(t, body, tt.wantMsg)
			assert.Contains(t, body, `value="`+tt.username+`"`)

			_, err := app.auth.Authenticate(context.Background(), tt.username, tt.password)
			assert.ErrorIs(t, err, custom_errors.ErrInvalidCredentials)
		})
	}
}

func TestHeadRequests(t *testing.T) {
	app := newTestApp(t)
	leo := app.user(t, "leo")
	p := app.post(t, leo, "hello", nil, time.Time{})
	c := newClient(t)

	tests := []struct {
		path   string
		status int
	}{
		{path: "/", status: http.StatusOK},
		{path: "/profile/leo/", status: http.StatusOK},
		{path: fmt.Sprintf("/posts/%d/", p.ID), status: http.StatusOK},
		{path: "/about/tech", status: http.StatusMovedPermanently},
		{path: "/posts/999/", status: http.StatusNotFound},
		{path: "/create/", status: http.StatusFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := c.Head(app.server.URL + tt.path)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
