package blogapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/blog-api/internal/app/blogapi"
	"github.com/magabrotheeeer/blog-api/internal/cache"
	"github.com/magabrotheeeer/blog-api/internal/events"
	"github.com/magabrotheeeer/blog-api/internal/lib/jwt"
	"github.com/magabrotheeeer/blog-api/internal/lib/schema"
	"github.com/magabrotheeeer/blog-api/internal/lib/sl"
	"github.com/magabrotheeeer/blog-api/internal/models"
	authservice "github.com/magabrotheeeer/blog-api/internal/services/auth"
	postservice "github.com/magabrotheeeer/blog-api/internal/services/post"
	reportservice "github.com/magabrotheeeer/blog-api/internal/services/report"
	"github.com/magabrotheeeer/blog-api/internal/storage/repository"
)

// memStore — хранилище в памяти с поведением repository.Storage.
type memStore struct {
	mu      sync.Mutex
	users   map[string]models.User
	posts   []models.Post
	pingErr error
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]models.User)}
}

func (s *memStore) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, repository.ErrUserExists
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return &user, nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (s *memStore) CreatePost(_ context.Context, post models.Post) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post.ID = uuid.NewString()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	s.posts = append(s.posts, post)
	return post.ID, nil
}

func (s *memStore) GetPost(_ context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return nil, repository.ErrPostNotFound
	}
	return s.withAuthor(s.posts[i]), nil
}

func (s *memStore) ListPosts(_ context.Context) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, s.withAuthor(p))
	}
	return out, nil
}

func (s *memStore) UpdatePost(_ context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return nil, repository.ErrPostNotFound
	}
	if patch.Title != nil {
		s.posts[i].Title = *patch.Title
	}
	if patch.Content != nil {
		s.posts[i].Content = *patch.Content
	}
	s.posts[i].UpdatedAt = time.Now()
	return s.withAuthor(s.posts[i]), nil
}

func (s *memStore) DeletePost(_ context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return nil, repository.ErrPostNotFound
	}
	deleted := s.withAuthor(s.posts[i])
	s.posts = append(s.posts[:i], s.posts[i+1:]...)
	return deleted, nil
}

func (s *memStore) UsersByCity(_ context.Context) ([]models.CityReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byCity := make(map[string]*models.CityReport)
	articles := make(map[string]int)
	for _, p := range s.posts {
		articles[p.AuthorID]++
	}
	for _, u := range s.users {
		if u.Address == nil {
			continue
		}
		row, ok := byCity[u.Address.City]
		if !ok {
			row = &models.CityReport{City: u.Address.City, Users: []models.ReportUser{}}
			byCity[u.Address.City] = row
		}
		row.UsersCount++
		row.Users = append(row.Users, models.ReportUser{ID: u.ID, Name: u.Name})
		row.AmountOfArticles += articles[u.ID]
	}
	report := make([]models.CityReport, 0, len(byCity))
	for _, row := range byCity {
		report = append(report, *row)
	}
	sort.Slice(report, func(i, j int) bool {
		if report[i].AmountOfArticles != report[j].AmountOfArticles {
			return report[i].AmountOfArticles < report[j].AmountOfArticles
		}
		return report[i].City < report[j].City
	})
	return report, nil
}

func (s *memStore) Ping(context.Context) error {
	return s.pingErr
}

func (s *memStore) index(id string) int {
	for i, p := range s.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *memStore) withAuthor(p models.Post) *models.Post {
	if u, ok := s.users[p.AuthorID]; ok {
		u.PasswordHash = ""
		p.Author = &u
	}
	return &p
}

type testAPI struct {
	router http.Handler
	store  *memStore
	maker  *jwt.MakerImpl
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	reports := &cache.Cache{Db: client}

	maker, err := jwt.NewJWTMaker("test-secret")
	require.NoError(t, err)

	store := newMemStore()
	log := sl.Discard()

	router := chi.NewRouter()
	blogapi.RegisterRoutes(router, blogapi.Deps{
		Log:       log,
		Auth:      authservice.NewAuthService(store, maker, time.Hour, reports, events.Nop{}, log),
		Posts:     postservice.NewPostService(store, reports, events.Nop{}, log),
		Reports:   reportservice.NewReportService(store, reports, time.Minute, log),
		Validator: schema.New(),
		Health:    store,
		Registry:  prometheus.NewRegistry(),
	})

	return &testAPI{router: router, store: store, maker: maker}
}

func (a *testAPI) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func (a *testAPI) register(t *testing.T, body string) models.User {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/auth/register", body, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var user models.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	return user
}

func (a *testAPI) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := a.maker.GenerateToken(userID, time.Hour)
	require.NoError(t, err)
	return token
}

// login входит и возвращает токен из cookie authorization.
func (a *testAPI) login(t *testing.T, email, password string) string {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/auth/login", `{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	for _, c := range rr.Result().Cookies() {
		if c.Name == "authorization" {
			require.NotEmpty(t, c.Value)
			return c.Value
		}
	}
	t.Fatal("authorization cookie is not set")
	return ""
}

func (a *testAPI) postsCount() int {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return len(a.store.posts)
}

func (a *testAPI) usersCount() int {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return len(a.store.users)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) (int, string) {
	t.Helper()
	var body struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body.Status, body.Message
}

func TestRoutes_Table(t *testing.T) {
	routes := blogapi.Routes(blogapi.Deps{Log: sl.Discard()})

	protected := map[string]bool{}
	for _, rt := range routes {
		if rt.Auth {
			protected[rt.Method+" "+rt.Pattern] = true
		}
	}

	assert.Len(t, routes, 9)
	assert.Equal(t, map[string]bool{
		"POST /posts":        true,
		"PUT /posts/{id}":    true,
		"DELETE /posts/{id}": true,
	}, protected)
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)

	user := api.register(t, `{"name":"tom","email":"tom@mail.com","password":"secret","address":{"street":"Main 1","city":"Paris"}}`)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "tom@mail.com", user.Email)
	require.NotNil(t, user.Address)
	assert.Equal(t, "Paris", user.Address.City)

	t.Run("duplicate email", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/auth/register", `{"name":"tom","email":"tom@mail.com","password":"other"}`, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		status, msg := decodeError(t, rr)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Email tom@mail.com already exists", msg)
		assert.Equal(t, 1, api.usersCount())
	})

	t.Run("empty strings are accepted", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/auth/register", `{"name":"","email":"empty@mail.com","password":"secret"}`, "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, 2, api.usersCount())
	})

	t.Run("validation", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/auth/register", `{"name":"tom","email":"not-an-email"}`, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		_, msg := decodeError(t, rr)
		assert.Contains(t, msg, "email must be an email")
		assert.Contains(t, msg, "password should not be empty")
	})

	t.Run("body is not an object", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/auth/login", `[1,2]`, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		_, msg := decodeError(t, rr)
		assert.Equal(t, "request body must be a JSON object", msg)
	})

	t.Run("login sets cookie", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/auth/login", `{"email":"tom@mail.com","password":"secret"}`, "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		cookie := rr.Header().Get("Set-Cookie")
		assert.Regexp(t, `^authorization=.+`, cookie)
		assert.Contains(t, cookie, "HttpOnly")
		assert.Contains(t, cookie, "Max-Age=3600")
		assert.NotContains(t, rr.Body.String(), "password")

		var got models.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("cookie token authorizes writes", func(t *testing.T) {
		token := api.login(t, "tom@mail.com", "secret")

		rr := api.do(t, http.MethodPost, "/posts", `{"title":"Hello","content":"c"}`, token)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var post models.Post
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &post))
		require.NotNil(t, post.Author)
		assert.Equal(t, user.ID, post.Author.ID)
		assert.Equal(t, 1, api.postsCount())
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/auth/login", `{"email":"tom@mail.com","password":"nope"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		_, msg := decodeError(t, rr)
		assert.Equal(t, "Wrong credentials provided", msg)
	})

	t.Run("unknown email", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/auth/login", `{"email":"bob@mail.com","password":"secret"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		_, msg := decodeError(t, rr)
		assert.Equal(t, "Wrong credentials provided", msg)
	})

	t.Run("logout clears cookie", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/auth/logout", "", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "OK", rr.Body.String())
		cookie := rr.Header().Get("Set-Cookie")
		assert.Contains(t, cookie, "authorization=")
		assert.Contains(t, cookie, "Max-Age=0")
	})
}

func TestPostsFlow(t *testing.T) {
	api := newTestAPI(t)

	author := api.register(t, `{"name":"ann","email":"ann@mail.com","password":"secret"}`)
	token := api.login(t, "ann@mail.com", "secret")

	t.Run("create without token", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/posts", `{"title":"t","content":"c"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		_, msg := decodeError(t, rr)
		assert.Equal(t, "Authentication token missing", msg)
		assert.Equal(t, 0, api.postsCount())
	})

	t.Run("auth runs before validation", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/posts", `{}`, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, 0, api.postsCount())
	})

	t.Run("create with invalid body", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/posts", `{"title":"only title"}`, token)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		_, msg := decodeError(t, rr)
		assert.Equal(t, "content should not be empty", msg)
		assert.Equal(t, 0, api.postsCount())
	})

	t.Run("create with empty strings", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/posts", `{"title":"","content":""}`, token)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var got models.Post
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Empty(t, got.Title)
		assert.Empty(t, got.Content)

		rr = api.do(t, http.MethodDelete, "/posts/"+got.ID, "", token)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 0, api.postsCount())
	})

	rr := api.do(t, http.MethodPost, "/posts", `{"title":"Hello","content":"First post"}`, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var created models.Post
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "Hello", created.Title)
	require.NotNil(t, created.Author)
	assert.Equal(t, author.ID, created.Author.ID)

	t.Run("list", func(t *testing.T) {
		rr := api.do(t, http.MethodGet, "/posts", "", "")
		require.Equal(t, http.StatusOK, rr.Code)
		var posts []models.Post
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &posts))
		require.Len(t, posts, 1)
		assert.Equal(t, created.ID, posts[0].ID)
	})

	t.Run("read", func(t *testing.T) {
		rr := api.do(t, http.MethodGet, "/posts/"+created.ID, "", "")
		require.Equal(t, http.StatusOK, rr.Code)
		var got models.Post
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "First post", got.Content)
	})

	t.Run("read malformed id", func(t *testing.T) {
		rr := api.do(t, http.MethodGet, "/posts/not-an-id", "", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		_, msg := decodeError(t, rr)
		assert.Equal(t, "Post with id not-an-id not found", msg)
	})

	t.Run("partial update", func(t *testing.T) {
		rr := api.do(t, http.MethodPut, "/posts/"+created.ID, `{"title":"Renamed"}`, token)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var got models.Post
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "Renamed", got.Title)
		assert.Equal(t, "First post", got.Content)
	})

	t.Run("update with empty body", func(t *testing.T) {
		rr := api.do(t, http.MethodPut, "/posts/"+created.ID, "", token)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var got models.Post
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "Renamed", got.Title)
	})

	t.Run("update missing post", func(t *testing.T) {
		missing := uuid.NewString()
		rr := api.do(t, http.MethodPut, "/posts/"+missing, `{"title":"x"}`, token)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		_, msg := decodeError(t, rr)
		assert.Equal(t, "Post with id "+missing+" not found", msg)
		assert.Equal(t, 1, api.postsCount())

		rr = api.do(t, http.MethodGet, "/posts/"+created.ID, "", "")
		require.Equal(t, http.StatusOK, rr.Code)
		var got models.Post
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "Renamed", got.Title)
	})

	t.Run("delete missing post", func(t *testing.T) {
		rr := api.do(t, http.MethodDelete, "/posts/"+uuid.NewString(), "", token)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, 1, api.postsCount())
	})

	t.Run("delete", func(t *testing.T) {
		rr := api.do(t, http.MethodDelete, "/posts/"+created.ID, "", token)
		require.Equal(t, http.StatusOK, rr.Code)
		var got models.Post
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, created.ID, got.ID)

		assert.Equal(t, 0, api.postsCount())

		rr = api.do(t, http.MethodDelete, "/posts/"+created.ID, "", token)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestTokenErrors(t *testing.T) {
	api := newTestAPI(t)
	user := api.register(t, `{"name":"ann","email":"ann@mail.com","password":"secret"}`)

	expired, err := api.maker.GenerateToken(user.ID, -time.Minute)
	require.NoError(t, err)
	unknown := api.token(t, uuid.NewString())
	notUUID := api.token(t, "42")

	tests := []struct {
		name       string
		header     string
		wantPrefix string
	}{
		{name: "missing", header: "", wantPrefix: "Authentication token missing"},
		{name: "wrong scheme", header: "Basic abc", wantPrefix: "Authentication token missing"},
		{name: "empty bearer token", header: "Bearer ", wantPrefix: jwt.NameMalformed + ": "},
		{name: "bare bearer scheme", header: "Bearer", wantPrefix: jwt.NameMalformed + ": "},
		{name: "garbage", header: "Bearer abc", wantPrefix: jwt.NameMalformed + ": "},
		{name: "expired", header: "Bearer " + expired, wantPrefix: jwt.NameExpired + ": "},
		{name: "unknown user", header: "Bearer " + unknown, wantPrefix: "UserNotFoundError: user with id "},
		{name: "uid is not uuid", header: "Bearer " + notUUID, wantPrefix: "UserNotFoundError: user with id 42 not found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"title":"t","content":"c"}`))
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			api.router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			status, msg := decodeError(t, rr)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.True(t, strings.HasPrefix(msg, tc.wantPrefix), msg)
			assert.Equal(t, 0, api.postsCount())
		})
	}
}

func TestReport(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodGet, "/report/user", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	paris := api.register(t, `{"name":"tom","email":"tom@mail.com","password":"secret","address":{"street":"a","city":"Paris"}}`)
	berlin := api.register(t, `{"name":"ann","email":"ann@mail.com","password":"secret","address":{"street":"b","city":"Berlin"}}`)
	api.register(t, `{"name":"bob","email":"bob@mail.com","password":"secret"}`)

	token := api.token(t, berlin.ID)
	for _, title := range []string{"one", "two"} {
		rr := api.do(t, http.MethodPost, "/posts", `{"title":"`+title+`","content":"c"}`, token)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr = api.do(t, http.MethodGet, "/report/user", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var report []models.CityReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	require.Len(t, report, 2)
	assert.Equal(t, "Paris", report[0].City)
	assert.Equal(t, 0, report[0].AmountOfArticles)
	assert.Equal(t, []models.ReportUser{{ID: paris.ID, Name: "tom"}}, report[0].Users)
	assert.Equal(t, "Berlin", report[1].City)
	assert.Equal(t, 1, report[1].UsersCount)
	assert.Equal(t, 2, report[1].AmountOfArticles)
}

func TestServiceEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	api.store.pingErr = errors.New("connection refused")
	rr = api.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	api.do(t, http.MethodGet, "/posts", "", "")
	rr = api.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `blog_api_http_requests_total{method="GET",route="/posts",status="200"}`)
}
