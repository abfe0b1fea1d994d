package handlers_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"campus_lost_found/internal/handlers"
	"campus_lost_found/internal/logger"
	"campus_lost_found/internal/repository"
	sqlitedb "campus_lost_found/internal/repository/db"
	"campus_lost_found/internal/service"
	"campus_lost_found/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type app struct {
	t        *testing.T
	srv      *httptest.Server
	client   *http.Client
	services *service.Service
	uploads  *storage.Uploads
}

// newApp runs the full stack over a temp SQLite file and an in-memory upload dir.
func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := sqlitedb.InitDB(context.Background(), filepath.Join(t.TempDir(), "laf.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	uploads := storage.New(afero.NewMemMapFs(), nil)
	services := service.NewService(repository.NewRepository(conn), uploads, service.SessionConfig{
		Secret: "e2e-secret",
		TTL:    time.Hour,
	}, logger.Nop())
	h := handlers.NewHandler(services, uploads, logger.Nop(), handlers.Options{MaxBodyBytes: 1 << 20})

	srv := httptest.NewServer(h.InitRoutes())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &app{t: t, srv: srv, client: client, services: services, uploads: uploads}
}

type result struct {
	code     int
	location string
	body     string
}

func (a *app) send(req *http.Request) result {
	a.t.Helper()
	resp, err := a.client.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return result{code: resp.StatusCode, location: resp.Header.Get("Location"), body: string(body)}
}

func (a *app) get(path string) result {
	a.t.Helper()
	req, err := http.NewRequest(http.MethodGet, a.srv.URL+path, nil)
	require.NoError(a.t, err)
	return a.send(req)
}

func (a *app) postForm(path string, values url.Values) result {
	a.t.Helper()
	req, err := http.NewRequest(http.MethodPost, a.srv.URL+path, strings.NewReader(values.Encode()))
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.send(req)
}

func (a *app) postItem(path string, fields map[string]string, fileName string, content []byte) result {
	a.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(a.t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("image", fileName)
		require.NoError(a.t, err)
		_, err = fw.Write(content)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, a.srv.URL+path, &buf)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.send(req)
}

func (a *app) login(email, password string) {
	a.t.Helper()
	res := a.postForm("/register_user", url.Values{"email": {email}, "password": {password}, "password_confirm": {password}})
	require.Equal(a.t, http.StatusFound, res.code)
	require.Equal(a.t, "/", res.location)

	res = a.postForm("/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(a.t, http.StatusFound, res.code)
	require.Equal(a.t, "/dashboard", res.location)
}

func TestEndToEnd_LostAndFoundLifecycle(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	// protected before login
	res := a.get("/dashboard")
	assert.Equal(t, http.StatusFound, res.code)
	assert.Equal(t, "/", res.location)
	assert.Contains(t, a.get("/").body, "Please log in first.")

	a.login("a@b.com", "pw1")
	dash := a.get("/dashboard")
	require.Equal(t, http.StatusOK, dash.code)
	assert.Contains(t, dash.body, "Logged in successfully.")
	assert.Contains(t, dash.body, "a@b.com")

	// create
	res = a.postItem("/item/create",
		map[string]string{"title": "Wallet", "description": "brown leather", "status": "lost"},
		"wallet.png", []byte("first image"))
	require.Equal(t, http.StatusFound, res.code)
	require.Equal(t, "/dashboard", res.location)

	all, err := a.services.List(ctx, service.FilterAll)
	require.NoError(t, err)
	require.Len(t, all, 1)
	wallet := all[0]
	assert.Equal(t, "a@b.com", wallet.OwnerEmail)
	require.True(t, wallet.HasImage())
	firstImage := wallet.ImageFilename
	assert.True(t, a.uploads.Exists(firstImage))

	assert.Contains(t, a.get("/dashboard?status=lost").body, "Wallet")
	assert.NotContains(t, a.get("/dashboard?status=found").body, "Wallet")
	assert.Contains(t, a.get("/search?q=WALLET").body, "Wallet")
	assert.Contains(t, a.get("/search?q=leather").body, "Wallet")
	assert.NotContains(t, a.get("/search?q=%20%20").body, "Wallet")

	img := a.get("/uploads/" + firstImage)
	assert.Equal(t, http.StatusOK, img.code)
	assert.Equal(t, "first image", img.body)

	// edit: flip to found and replace the image
	itemURL := fmt.Sprintf("/item/%d", wallet.ID)
	res = a.postItem(itemURL+"/edit",
		map[string]string{"title": "Wallet", "description": "brown leather", "status": "found"},
		"wallet2.jpg", []byte("second image"))
	require.Equal(t, http.StatusFound, res.code)
	require.Equal(t, itemURL, res.location)

	view := a.get(itemURL)
	require.Equal(t, http.StatusOK, view.code)
	assert.Contains(t, view.body, "Item updated.")
	updated, err := a.services.Get(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, "found", string(updated.Status))
	assert.Equal(t, wallet.CreatedAt, updated.CreatedAt)
	assert.NotEqual(t, firstImage, updated.ImageFilename)
	assert.False(t, a.uploads.Exists(firstImage), "old image must be removed")
	assert.True(t, a.uploads.Exists(updated.ImageFilename))
	assert.Contains(t, a.get("/dashboard?status=found").body, "Wallet")

	// delete
	res = a.postForm(itemURL+"/delete", nil)
	require.Equal(t, http.StatusFound, res.code)
	require.Equal(t, "/dashboard", res.location)
	assert.Equal(t, http.StatusNotFound, a.get(itemURL).code)
	assert.False(t, a.uploads.Exists(updated.ImageFilename))
	assert.NotContains(t, a.get("/dashboard").body, "Wallet")

	// logout
	res = a.get("/logout")
	require.Equal(t, http.StatusFound, res.code)
	assert.Equal(t, "/", a.get("/dashboard").location)
}

func TestEndToEnd_RegistrationRules(t *testing.T) {
	a := newApp(t)

	res := a.postForm("/register_user", url.Values{"email": {"a@b.com"}, "password": {"pw1"}, "password_confirm": {"pw2"}})
	assert.Equal(t, "/register", res.location)
	assert.Contains(t, a.get("/register").body, "Passwords do not match.")

	a.login("a@b.com", "pw1")
	a.get("/logout")

	res = a.postForm("/register_user", url.Values{"email": {"  A@B.COM "}, "password": {"x"}, "password_confirm": {"x"}})
	assert.Equal(t, "/register", res.location)
	assert.Contains(t, a.get("/register").body, "Account already exists.")

	res = a.postForm("/login", url.Values{"email": {"A@B.com"}, "password": {"wrong"}})
	assert.Equal(t, "/", res.location)
	assert.Contains(t, a.get("/").body, "Invalid email or password.")

	res = a.postForm("/login", url.Values{"email": {" A@B.com"}, "password": {"pw1"}})
	assert.Equal(t, "/dashboard", res.location)
}

func TestEndToEnd_UploadRules(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()
	a.login("u@school.edu", "secret")

	res := a.postItem("/item/create", map[string]string{"title": "Bad"}, "x.exe", []byte("MZ"))
	assert.Equal(t, "/item/create", res.location)
	assert.Contains(t, a.get("/item/create").body, "File type not allowed.")

	res = a.postItem("/item/create", map[string]string{"title": "Upper"}, "x.PNG", []byte("png"))
	assert.Equal(t, "/dashboard", res.location)

	res = a.postItem("/item/create", map[string]string{"title": "   "}, "", nil)
	assert.Equal(t, "/item/create", res.location)
	assert.Contains(t, a.get("/item/create").body, "Title is required.")

	items, err := a.services.List(ctx, service.FilterAll)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Upper", items[0].Title)
	assert.True(t, strings.HasSuffix(items[0].ImageFilename, "_x.PNG"))
}

func TestEndToEnd_SameImageNameKeepsItemsApart(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()
	a.login("u@school.edu", "secret")

	for _, it := range []struct{ title, body string }{{"Alpha", "alpha bytes"}, {"Beta", "beta bytes"}} {
		res := a.postItem("/item/create", map[string]string{"title": it.title}, "photo.jpg", []byte(it.body))
		require.Equal(t, "/dashboard", res.location)
	}

	items, err := a.services.List(ctx, service.FilterAll)
	require.NoError(t, err)
	require.Len(t, items, 2)
	byTitle := map[string]string{}
	for _, it := range items {
		byTitle[it.Title] = it.ImageFilename
	}
	require.NotEqual(t, byTitle["Alpha"], byTitle["Beta"])
	assert.Equal(t, "alpha bytes", a.get("/uploads/"+byTitle["Alpha"]).body)
	assert.Equal(t, "beta bytes", a.get("/uploads/"+byTitle["Beta"]).body)

	for _, it := range items {
		if it.Title == "Beta" {
			res := a.postForm(fmt.Sprintf("/item/%d/delete", it.ID), nil)
			require.Equal(t, "/dashboard", res.location)
		}
	}
	img := a.get("/uploads/" + byTitle["Alpha"])
	assert.Equal(t, http.StatusOK, img.code)
	assert.Equal(t, "alpha bytes", img.body)
	assert.True(t, a.uploads.Exists(byTitle["Alpha"]))
}
