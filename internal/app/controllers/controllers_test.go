package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosana/student-portal/internal/app/controllers"
	"github.com/skosana/student-portal/internal/app/models"
	"github.com/skosana/student-portal/internal/app/models/dto"
	"github.com/skosana/student-portal/internal/app/routes"
	"github.com/skosana/student-portal/internal/app/services"
	"github.com/skosana/student-portal/internal/middleware"
	"github.com/skosana/student-portal/internal/pkg/apperrors"
	"github.com/skosana/student-portal/internal/pkg/auth"
	"github.com/skosana/student-portal/internal/pkg/filestorage"
	"github.com/skosana/student-portal/internal/pkg/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeUserRepo is an in-memory UserRepository. Its Create enforces the same
// unique constraints the real table does.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User

	// skipExists makes the combined existence query report no collision,
	// simulating a concurrent registration racing past the check.
	skipExists bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.StudentNum == user.StudentNum {
			return apperrors.ErrAccountExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &models.User{ID: u.ID, Email: u.Email, PasswordHash: u.PasswordHash}, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) ExistsByEmailOrStudentNum(_ context.Context, email, studentNum string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.skipExists {
		return false, nil
	}
	for _, u := range r.users {
		if u.Email == email || u.StudentNum == studentNum {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id int64, name, surname, contactNum, moduleCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Name, u.Surname, u.ContactNum, u.ModuleCode = name, surname, contactNum, moduleCode
	return nil
}

func (r *fakeUserRepo) UpdateProfilePicture(_ context.Context, id int64, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.ProfilePicture = &path
	return nil
}

// user returns a copy of the stored row.
func (r *fakeUserRepo) user(t *testing.T, id int64) models.User {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	require.True(t, ok, "user %d not in store", id)
	return *u
}

type testApp struct {
	router   *gin.Engine
	repo     *fakeUserRepo
	sessions *session.MemoryStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	repo := newFakeUserRepo()
	storage, err := filestorage.NewLocalStorage(t.TempDir(), "uploads")
	require.NoError(t, err)

	sessions := session.NewMemoryStore(time.Hour)
	t.Cleanup(sessions.Close)

	lgr := zerolog.Nop()
	authService := services.NewAuthService(repo, lgr)
	profileService := services.NewProfileService(repo, storage, lgr)

	router := gin.New()
	routes.SetupRouter(router,
		controllers.NewAuthController(authService, sessions, lgr),
		controllers.NewProfileController(profileService, lgr),
		middleware.NewSessionMiddleware(sessions),
	)

	return &testApp{router: router, repo: repo, sessions: sessions}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func formPost(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func registerValues() url.Values {
	return url.Values{
		"name":             {"A"},
		"surname":          {"B"},
		"student_num":      {"S1"},
		"contact_num":      {"0821234567"},
		"module_code":      {"CS101"},
		"email":            {"a@x.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	}
}

// register submits a valid registration and asserts the redirect to login.
func (a *testApp) register(t *testing.T, values url.Values) {
	t.Helper()
	rec := a.do(formPost("/register", values))
	require.Equal(t, http.StatusSeeOther, rec.Code, "body: %s", rec.Body.String())
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

// login submits credentials and returns the session cookie.
func (a *testApp) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	rec := a.do(formPost("/login", url.Values{
		"email":    {email},
		"password": {password},
	}))
	require.Equal(t, http.StatusSeeOther, rec.Code, "body: %s", rec.Body.String())
	require.Equal(t, "/profile", rec.Header().Get("Location"))

	res := rec.Result()
	for _, c := range res.Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie issued on login")
	return nil
}

func decodeResult(t *testing.T, body io.Reader) dto.FormResult {
	t.Helper()
	var result dto.FormResult
	require.NoError(t, json.NewDecoder(body).Decode(&result))
	return result
}

func decodeProfilePage(t *testing.T, body io.Reader) dto.ProfilePage {
	t.Helper()
	var page dto.ProfilePage
	require.NoError(t, json.NewDecoder(body).Decode(&page))
	return page
}

func TestRegister_Success(t *testing.T) {
	app := newTestApp(t)

	app.register(t, registerValues())

	user := app.repo.user(t, 1)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "S1", user.StudentNum)
	assert.NotEqual(t, "secret1", user.PasswordHash, "password must be stored hashed")
	assert.True(t, auth.CheckPassword(user.PasswordHash, "secret1"))
}

func TestRegister_CollectsAllErrors(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(formPost("/register", url.Values{
		"email":            {"not-an-email"},
		"password":         {"abc"},
		"confirm_password": {"xyz"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec.Body)
	// Name, surname, student number, module code, email format, password
	// length and mismatch are all reported together.
	assert.GreaterOrEqual(t, len(result.Errors), 6)
	assert.Contains(t, result.Errors, "Name is required.")
	assert.Contains(t, result.Errors, "Invalid email format.")
	assert.Contains(t, result.Errors, "Passwords do not match.")
	// Entered non-secret values are echoed back.
	assert.Equal(t, "not-an-email", result.Fields["email"])
}

func TestRegister_DuplicateEmailOrStudentNum(t *testing.T) {
	app := newTestApp(t)
	app.register(t, registerValues())

	for _, tc := range []struct {
		name   string
		mutate func(url.Values)
	}{
		{"same email", func(v url.Values) { v.Set("student_num", "S2") }},
		{"same student number", func(v url.Values) { v.Set("email", "b@x.com") }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			values := registerValues()
			tc.mutate(values)

			rec := app.do(formPost("/register", values))
			require.Equal(t, http.StatusOK, rec.Code)
			result := decodeResult(t, rec.Body)
			assert.Contains(t, result.Errors, services.MsgAccountExists)
		})
	}

	// No extra rows were created.
	assert.Len(t, app.repo.users, 1)
}

func TestRegister_InsertRaceTreatedAsUniquenessFailure(t *testing.T) {
	app := newTestApp(t)
	app.register(t, registerValues())

	// Simulate a concurrent registration slipping past the existence
	// check: the insert's unique constraint is the authoritative check.
	app.repo.skipExists = true

	rec := app.do(formPost("/register", registerValues()))
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec.Body)
	assert.Contains(t, result.Errors, services.MsgAccountExists)
	assert.Len(t, app.repo.users, 1)
}

func TestLogin_EnumerationResistance(t *testing.T) {
	app := newTestApp(t)
	app.register(t, registerValues())

	wrongPassword := app.do(formPost("/login", url.Values{
		"email":    {"a@x.com"},
		"password": {"wrong-password"},
	}))
	unknownEmail := app.do(formPost("/login", url.Values{
		"email":    {"nobody@x.com"},
		"password": {"secret1"},
	}))

	require.Equal(t, http.StatusOK, wrongPassword.Code)
	require.Equal(t, http.StatusOK, unknownEmail.Code)

	wp := decodeResult(t, wrongPassword.Body)
	ue := decodeResult(t, unknownEmail.Body)
	assert.Equal(t, []string{services.MsgInvalidLogin}, wp.Errors)
	assert.Equal(t, wp.Errors, ue.Errors,
		"wrong password and unknown email must be indistinguishable")
}

func TestLogin_AlreadyAuthenticatedRedirectsToProfile(t *testing.T) {
	app := newTestApp(t)
	app.register(t, registerValues())
	cookie := app.login(t, "a@x.com", "secret1")

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookie)
	rec := app.do(req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/profile", rec.Header().Get("Location"))
}

func TestProfile_RequiresSession(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(httptest.NewRequest(http.MethodGet, "/profile", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRegisterLoginProfile_Scenario(t *testing.T) {
	app := newTestApp(t)

	app.register(t, registerValues())
	cookie := app.login(t, "a@x.com", "secret1")

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(cookie)
	rec := app.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeProfilePage(t, rec.Body)
	require.NotNil(t, page.Profile)
	assert.Equal(t, "A", page.Profile.Name)
	assert.Equal(t, "a@x.com", page.Profile.Email)
	assert.Equal(t, "CS101", page.Profile.ModuleCode)
	// No picture uploaded yet: the default is rendered.
	assert.Equal(t, "uploads/default.png", page.Profile.ProfilePicture)
}

func TestLogout_EndsSession(t *testing.T) {
	app := newTestApp(t)
	app.register(t, registerValues())
	cookie := app.login(t, "a@x.com", "secret1")

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	rec := app.do(req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	// The old token no longer grants access.
	req = httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(cookie)
	rec = app.do(req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestProfileUpdate_EmptyNameRejected(t *testing.T) {
	app := newTestApp(t)
	app.register(t, registerValues())
	cookie := app.login(t, "a@x.com", "secret1")

	req := formPost("/profile", url.Values{
		"update_profile": {"1"},
		"name":           {"  "},
		"surname":        {"B"},
		"module_code":    {"CS101"},
	})
	req.AddCookie(cookie)
	rec := app.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeProfilePage(t, rec.Body)
	assert.Contains(t, page.Errors, "Name is required.")

	// The store is left unchanged.
	assert.Equal(t, "A", app.repo.user(t, 1).Name)
}

func TestProfileUpdate_Success(t *testing.T) {
	app := newTestApp(t)
	app.register(t, registerValues())
	cookie := app.login(t, "a@x.com", "secret1")

	req := formPost("/profile", url.Values{
		"update_profile": {"1"},
		"name":           {"Amahle"},
		"surname":        {"Buthelezi"},
		"contact_num":    {""},
		"module_code":    {"CS202"},
	})
	req.AddCookie(cookie)
	rec := app.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeProfilePage(t, rec.Body)
	assert.Equal(t, services.MsgProfileUpdated, page.Message)
	require.NotNil(t, page.Profile)
	// The response reflects the latest store state.
	assert.Equal(t, "Amahle", page.Profile.Name)
	assert.Equal(t, "CS202", page.Profile.ModuleCode)
}

// multipartUpload builds an upload_picture submission carrying content as
// the profile_pic file.
func multipartUpload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("upload_picture", "1"))
	part, err := writer.CreateFormFile("profile_pic", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProfileUpload_RenamedTextFileRejected(t *testing.T) {
	app := newTestApp(t)
	app.register(t, registerValues())
	cookie := app.login(t, "a@x.com", "secret1")

	req := multipartUpload(t, "fake.png", []byte("this is not an image"))
	req.AddCookie(cookie)
	rec := app.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeProfilePage(t, rec.Body)
	assert.Contains(t, page.Errors, services.MsgNotAnImage)
	assert.Nil(t, app.repo.user(t, 1).ProfilePicture)
}

func TestProfileUpload_ReportsEveryFailedCheck(t *testing.T) {
	app := newTestApp(t)
	app.register(t, registerValues())
	cookie := app.login(t, "a@x.com", "secret1")

	// One upload that is not an image, too large and badly named must list
	// all three rejection messages on the re-rendered page.
	req := multipartUpload(t, "notes.bmp", make([]byte, filestorage.MaxPictureBytes+1))
	req.AddCookie(cookie)
	rec := app.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeProfilePage(t, rec.Body)
	assert.Equal(t, []string{
		services.MsgNotAnImage,
		services.MsgFileTooLarge,
		services.MsgBadFileType,
	}, page.Errors)
	assert.Nil(t, app.repo.user(t, 1).ProfilePicture)
}

func TestProfileUpload_Success(t *testing.T) {
	app := newTestApp(t)
	app.register(t, registerValues())
	cookie := app.login(t, "a@x.com", "secret1")

	req := multipartUpload(t, "avatar.png", testPNG(t))
	req.AddCookie(cookie)
	rec := app.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeProfilePage(t, rec.Body)
	assert.Equal(t, services.MsgPictureUpdated, page.Message)
	require.NotNil(t, page.Profile)
	assert.Equal(t, "uploads/1_avatar.png", page.Profile.ProfilePicture)

	stored := app.repo.user(t, 1).ProfilePicture
	require.NotNil(t, stored)
	assert.Equal(t, "uploads/1_avatar.png", *stored)
}
