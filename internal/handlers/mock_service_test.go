package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"campus_lost_found/internal/logger"
	"campus_lost_found/internal/models"
	"campus_lost_found/internal/service"
	"campus_lost_found/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
)

// ---- Service Mocks ----

const goodToken = "good-token"

var testUser = &models.User{ID: 7, Email: "a@b.com"}

type mockAuth struct {
	registerID  int
	registerErr error
	loginToken  string
	loginErr    error

	lastRegister [3]string
	lastLogin    [2]string
}

func (m *mockAuth) Register(_ context.Context, email, password, confirm string) (int, error) {
	m.lastRegister = [3]string{email, password, confirm}
	return m.registerID, m.registerErr
}

func (m *mockAuth) Login(_ context.Context, email, password string) (string, error) {
	m.lastLogin = [2]string{email, password}
	return m.loginToken, m.loginErr
}

func (m *mockAuth) ParseSession(token string) (string, error) {
	if token != goodToken {
		return "", service.ErrInvalidSession
	}
	return testUser.Email, nil
}

func (m *mockAuth) CurrentUser(_ context.Context, token string) (*models.User, error) {
	if _, err := m.ParseSession(token); err != nil {
		return nil, err
	}
	return testUser, nil
}

type mockItems struct {
	items     map[int]*models.Item
	listErr   error
	createErr error
	updateErr error

	lastFilter string
	lastQuery  string
	lastInput  service.ItemInput
	lastOwner  string
	created    int
	deleted    []int
}

func newMockItems() *mockItems {
	return &mockItems{items: map[int]*models.Item{}}
}

func (m *mockItems) List(_ context.Context, filter string) ([]models.Item, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Item
	for _, it := range m.items {
		out = append(out, *it)
	}
	return out, nil
}

func (m *mockItems) Search(_ context.Context, query string) ([]models.Item, error) {
	m.lastQuery = query
	return []models.Item{}, nil
}

func (m *mockItems) Get(_ context.Context, id int) (*models.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return it, nil
}

func (m *mockItems) Create(_ context.Context, in service.ItemInput, owner string) (*models.Item, error) {
	m.lastInput, m.lastOwner = in, owner
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created++
	it := &models.Item{ID: 100 + m.created, Title: in.Title, Status: models.ParseStatus(in.Status), OwnerEmail: owner}
	m.items[it.ID] = it
	return it, nil
}

func (m *mockItems) Update(_ context.Context, id int, in service.ItemInput) (*models.Item, error) {
	m.lastInput = in
	if _, ok := m.items[id]; !ok {
		return nil, service.ErrNotFound
	}
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.items[id], nil
}

func (m *mockItems) Delete(_ context.Context, id int) error {
	if _, ok := m.items[id]; !ok {
		return service.ErrNotFound
	}
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// ---- Helpers ----

func newTestRouter(s *service.Service, up Uploader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, up, logger.Nop(), Options{})
	return h.InitRoutes()
}

func memUploads() (*storage.Uploads, afero.Fs) {
	fs := afero.NewMemMapFs()
	return storage.New(fs, nil), fs
}

// do performs a request, attaching cookies, and returns the recorder.
func do(r http.Handler, req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func withSession(token string) *http.Cookie {
	return &http.Cookie{Name: "session", Value: token}
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// upload describes an optional file part of a multipart form.
type upload struct {
	name    string
	content []byte
}

func postMultipart(t *testing.T, path string, fields map[string]string, file *upload) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile("image", file.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(file.content); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// responseCookie returns the last Set-Cookie for name, or nil.
func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

// flashOf decodes the flash cookie set by the response.
func flashOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	c := responseCookie(w, "flash")
	if c == nil || c.MaxAge < 0 {
		return ""
	}
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		t.Fatalf("unescape flash %q: %v", c.Value, err)
	}
	return v
}
