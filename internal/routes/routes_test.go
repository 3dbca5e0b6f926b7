package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/devconnector/internal/config"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/services"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/testutil"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	github := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/octocat/repos" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `[{"id":1,"name":"hello-world","html_url":"https://github.com/octocat/hello-world","stargazers_count":7}]`)
	}))
	t.Cleanup(github.Close)

	cfg := &config.Config{
		JWTSecret:       "routes-test-secret",
		JWTExpiry:       time.Hour,
		GitHubAPIURL:    github.URL,
		GitHubTimeout:   2 * time.Second,
		RateLimitMax:    1000,
		RateLimitWindow: time.Minute,
		CORSOrigins:     "*",
	}

	db := testutil.NewDB(t)
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)

	app := fiber.New()
	app.Use(middleware.CORS(cfg))
	Setup(app, cfg, tokens, nil,
		handlers.NewAuthHandler(services.NewAuthService(db, tokens)),
		handlers.NewProfileHandler(services.NewProfileService(db), services.NewGitHubService(cfg)),
		handlers.NewHealthHandler(db, nil),
	)
	return &testServer{app: app, db: db}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func (s *testServer) register(t *testing.T, name, email string) string {
	t.Helper()
	status, body := s.do(t, "POST", "/api/users", "", map[string]string{
		"name": name, "email": email, "password": "secret1",
	})
	require.Equal(t, fiber.StatusOK, status, string(body))
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

type msgBody struct {
	Msg string `json:"msg"`
}

type errorsBody struct {
	Errors []struct {
		Msg   string `json:"msg"`
		Param string `json:"param"`
	} `json:"errors"`
}

type profileBody struct {
	ID   string `json:"id"`
	User struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	} `json:"user"`
	Status     *string  `json:"status"`
	Bio        *string  `json:"bio"`
	Skills     []string `json:"skills"`
	Experience []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"experience"`
	Education []struct {
		ID     string `json:"id"`
		School string `json:"school"`
	} `json:"education"`
}

func TestGreetingAndHealth(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, "GET", "/greeting", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Welcome to our API", string(body))

	status, body = s.do(t, "GET", "/api/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	health := decode[map[string]string](t, body)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "ok", health["db"])
	assert.Equal(t, "disabled", health["redis"])
}

func TestRegisterThenMe(t *testing.T) {
	s := newTestServer(t)
	email := strings.ToLower(gofakeit.Email())
	token := s.register(t, "Ada Lovelace", email)

	status, body := s.do(t, "GET", "/api/auth", token, nil)
	require.Equal(t, fiber.StatusOK, status, string(body))

	me := decode[map[string]interface{}](t, body)
	assert.Equal(t, "Ada Lovelace", me["name"])
	assert.Equal(t, email, me["email"])
	assert.Contains(t, me["avatar"], "gravatar.com/avatar/")
	assert.NotEmpty(t, me["id"])
	assert.NotContains(t, me, "password")
}

func TestRegister_Validation(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, "POST", "/api/users", "", map[string]string{"email": "nope", "password": "123"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	got := decode[errorsBody](t, body)
	msgs := make(map[string]string)
	for _, e := range got.Errors {
		msgs[e.Param] = e.Msg
	}
	assert.Equal(t, "Name is required!", msgs["name"])
	assert.Equal(t, "Please include a valid email!", msgs["email"])
	assert.Equal(t, "Please enter a password with 6 or more characters!", msgs["password"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "A", "dup@example.com")

	status, body := s.do(t, "POST", "/api/users", "", map[string]string{
		"name": "B", "email": "DUP@example.com", "password": "secret1",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	got := decode[errorsBody](t, body)
	require.Len(t, got.Errors, 1)
	assert.Equal(t, "User already exists", got.Errors[0].Msg)
	assert.Equal(t, "email", got.Errors[0].Param)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "A", "a@example.com")

	status, body := s.do(t, "POST", "/api/auth", "", map[string]string{"email": "a@example.com", "password": "secret1"})
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.NotEmpty(t, decode[map[string]string](t, body)["token"])

	for _, creds := range []map[string]string{
		{"email": "a@example.com", "password": "wrong-password"},
		{"email": "ghost@example.com", "password": "secret1"},
	} {
		status, body = s.do(t, "POST", "/api/auth", "", creds)
		assert.Equal(t, fiber.StatusBadRequest, status)
		got := decode[errorsBody](t, body)
		require.Len(t, got.Errors, 1)
		assert.Equal(t, "Invalid Credentials!", got.Errors[0].Msg)
	}
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, "GET", "/api/profile/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "No token! Auth Denied!", decode[msgBody](t, body).Msg)

	status, body = s.do(t, "DELETE", "/api/profile", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid Token!", decode[msgBody](t, body).Msg)
}

func TestProfileLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "Grace Hopper", "grace@example.com")

	status, body := s.do(t, "GET", "/api/profile/me", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "No profile found for this user!", decode[msgBody](t, body).Msg)

	status, body = s.do(t, "POST", "/api/profile", token, map[string]string{"bio": "x"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Len(t, decode[errorsBody](t, body).Errors, 2)

	status, body = s.do(t, "POST", "/api/profile", token, map[string]string{
		"status": "Developer", "skills": "cobol, go", "bio": "compilers",
	})
	require.Equal(t, fiber.StatusOK, status, string(body))
	created := decode[profileBody](t, body)
	assert.Equal(t, "Grace Hopper", created.User.Name)
	assert.Equal(t, []string{"cobol", "go"}, created.Skills)
	assert.NotNil(t, created.Experience)

	status, body = s.do(t, "POST", "/api/profile", token, map[string]string{"status": "Admiral", "skills": "go"})
	require.Equal(t, fiber.StatusOK, status)
	updated := decode[profileBody](t, body)
	assert.Equal(t, created.ID, updated.ID)
	assert.Nil(t, updated.Bio)

	status, body = s.do(t, "PUT", "/api/profile/experience", token, map[string]interface{}{
		"title": "Engineer", "company": "Navy", "from": "1943-01-01", "to": "1966-12-31",
	})
	require.Equal(t, fiber.StatusOK, status, string(body))
	status, body = s.do(t, "PUT", "/api/profile/experience", token, map[string]interface{}{
		"title": "Rear Admiral", "company": "Navy", "from": "1967-08-01", "current": true,
	})
	require.Equal(t, fiber.StatusOK, status, string(body))
	withTwo := decode[profileBody](t, body)
	require.Len(t, withTwo.Experience, 2)
	assert.Equal(t, "Rear Admiral", withTwo.Experience[0].Title)

	status, body = s.do(t, "PUT", "/api/profile/experience", token, map[string]interface{}{"title": "x"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, decode[errorsBody](t, body).Errors)

	status, body = s.do(t, "PUT", "/api/profile/experience", token, map[string]interface{}{
		"title": "x", "company": "y", "from": "someday",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "from", decode[errorsBody](t, body).Errors[0].Param)

	status, body = s.do(t, "DELETE", "/api/profile/experience/"+created.ID, token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Experience not found!", decode[msgBody](t, body).Msg)

	status, body = s.do(t, "DELETE", "/api/profile/experience/"+withTwo.Experience[0].ID, token, nil)
	require.Equal(t, fiber.StatusOK, status)
	afterRemove := decode[profileBody](t, body)
	require.Len(t, afterRemove.Experience, 1)
	assert.Equal(t, "Engineer", afterRemove.Experience[0].Title)

	status, body = s.do(t, "PUT", "/api/profile/education", token, map[string]interface{}{
		"school": "Yale", "degree": "PhD", "fieldofstudy": "Mathematics", "from": "1930-09-01", "to": "1934-06-01",
	})
	require.Equal(t, fiber.StatusOK, status, string(body))
	withEdu := decode[profileBody](t, body)
	require.Len(t, withEdu.Education, 1)

	status, body = s.do(t, "DELETE", "/api/profile/education/not-a-uuid", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Education not found!", decode[msgBody](t, body).Msg)

	status, _ = s.do(t, "DELETE", "/api/profile/education/"+withEdu.Education[0].ID, token, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, body = s.do(t, "GET", "/api/profile/user/"+created.User.ID, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, created.ID, decode[profileBody](t, body).ID)
}

func TestProfileUpsert_FormBody(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "Form User", "form@example.com")

	form := url.Values{"status": {"Student"}, "skills": {"html,css"}, "youtube": {"https://youtube.com/x"}}
	req := httptest.NewRequest("POST", "/api/profile", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(middleware.TokenHeader, token)

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Student", got["status"])
	social, ok := got["social"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "https://youtube.com/x", social["youtube"])
	assert.Nil(t, social["twitter"])
}

func TestProfileList_And_ByUser(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, "GET", "/api/profile", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	token := s.register(t, "Listed", "listed@example.com")
	status, _ = s.do(t, "POST", "/api/profile", token, map[string]string{"status": "Dev", "skills": "go"})
	require.Equal(t, fiber.StatusOK, status)

	status, body = s.do(t, "GET", "/api/profile", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	list := decode[[]profileBody](t, body)
	require.Len(t, list, 1)
	assert.Equal(t, "Listed", list[0].User.Name)

	status, body = s.do(t, "GET", "/api/profile/user/not-a-uuid", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Profile not found!", decode[msgBody](t, body).Msg)

	status, body = s.do(t, "GET", "/api/profile/user/"+list[0].ID, "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Profile not found!", decode[msgBody](t, body).Msg)
}

func TestDeleteAccount(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "Leaving", "leaving@example.com")
	status, _ := s.do(t, "POST", "/api/profile", token, map[string]string{"status": "Dev", "skills": "go"})
	require.Equal(t, fiber.StatusOK, status)

	status, body := s.do(t, "DELETE", "/api/profile", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "User Deleted!", decode[msgBody](t, body).Msg)

	status, body = s.do(t, "GET", "/api/auth", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "User not found!", decode[msgBody](t, body).Msg)

	status, body = s.do(t, "POST", "/api/auth", "", map[string]string{"email": "leaving@example.com", "password": "secret1"})
	assert.Equal(t, fiber.StatusBadRequest, status, string(body))
}

func TestGitHubRepos(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, "GET", "/api/profile/github/octocat", "", nil)
	require.Equal(t, fiber.StatusOK, status, string(body))
	repos := decode[[]map[string]interface{}](t, body)
	require.Len(t, repos, 1)
	assert.Equal(t, "hello-world", repos[0]["name"])

	status, body = s.do(t, "GET", "/api/profile/github/nobody", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "No GitHub Profile found!", decode[msgBody](t, body).Msg)
}

func TestCredentialRateLimit(t *testing.T) {
	s := newTestServer(t)
	creds := map[string]string{"email": "nobody@example.com", "password": "whatever"}

	for i := 0; i < credentialLimit; i++ {
		status, _ := s.do(t, "POST", "/api/auth", "", creds)
		require.Equal(t, fiber.StatusBadRequest, status)
	}

	status, body := s.do(t, "POST", "/api/auth", "", creds)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.NotEmpty(t, decode[msgBody](t, body).Msg)
}

func TestWhitespaceOnlyFieldsRejected(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, "POST", "/api/users", "", map[string]string{"name": "   ", "email": "blank@example.com", "password": "secret1"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Name is required!", decode[errorsBody](t, body).Errors[0].Msg)

	token := s.register(t, "Real Name", "real@example.com")

	status, body = s.do(t, "POST", "/api/profile", token, map[string]string{"status": "  ", "skills": " , "})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Len(t, decode[errorsBody](t, body).Errors, 2)

	status, _ = s.do(t, "POST", "/api/profile", token, map[string]string{"status": "Dev", "skills": "go"})
	require.Equal(t, fiber.StatusOK, status)

	status, body = s.do(t, "PUT", "/api/profile/experience", token, map[string]interface{}{
		"title": " ", "company": " ", "from": "2020-01-01",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Len(t, decode[errorsBody](t, body).Errors, 2)
}
