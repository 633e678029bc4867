package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"secondhand-backend/internal/facerec"
	"secondhand-backend/internal/user"
)

func newFaceServer(t *testing.T, success bool, message string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verify" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(facerec.CompareResult{
			Success: success,
			Message: message,
		})
	}))
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(fileData); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

// registerStep1 runs the temp-upload step and returns the temp_id.
func registerStep1(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	body, ctype := multipartBody(t, map[string]string{
		"first_name": "Jane",
		"last_name":  "Lim",
		"email":      email,
		"password":   "s3cret",
	}, "student_card", "card.jpg", []byte("jpegbytes"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/temp-upload", body)
	req.Header.Set("Content-Type", ctype)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("temp-upload status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		TempID string `json:"temp_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.TempID == "" {
		t.Fatalf("no temp_id in response: %s", w.Body.String())
	}
	return resp.TempID
}

func TestRegistration_TwoStep_HappyPath(t *testing.T) {
	t.Parallel()

	faces := newFaceServer(t, true, "match")
	defer faces.Close()

	pending := user.NewPendingStore(time.Minute)
	defer pending.Close()

	users := &stubUserRepo{}
	dir := t.TempDir()

	r := gin.New()
	r.POST("/users/temp-upload", tempUploadHandler(pending, dir))
	r.POST("/users/face-verify", faceVerifyHandler(users, pending, facerec.New(faces.URL), dir))

	tempID := registerStep1(t, r, "jane@gmail.com")

	body, ctype := multipartBody(t, map[string]string{"temp_id": tempID},
		"live_image", "webcam.jpg", []byte("webcambytes"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/face-verify", body)
	req.Header.Set("Content-Type", ctype)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("face-verify status=%d body=%s", w.Code, w.Body.String())
	}
	if users.created == nil {
		t.Fatalf("account was not created")
	}
	if users.created.Email != "jane@gmail.com" || len(users.created.StudentCard) == 0 {
		t.Fatalf("created user incomplete: %+v", users.created)
	}
	if !user.CheckPassword(users.created.PasswordHash, "s3cret") {
		t.Fatalf("stored hash does not match the password")
	}
	// pending entry is consumed either way
	if pending.Len() != 0 {
		t.Fatalf("pending entries=%d, want 0", pending.Len())
	}
}

func TestRegistration_FaceMismatch_Aborts(t *testing.T) {
	t.Parallel()

	faces := newFaceServer(t, false, "faces do not match")
	defer faces.Close()

	pending := user.NewPendingStore(time.Minute)
	defer pending.Close()

	users := &stubUserRepo{}
	dir := t.TempDir()

	r := gin.New()
	r.POST("/users/temp-upload", tempUploadHandler(pending, dir))
	r.POST("/users/face-verify", faceVerifyHandler(users, pending, facerec.New(faces.URL), dir))

	tempID := registerStep1(t, r, "jane@gmail.com")

	body, ctype := multipartBody(t, map[string]string{"temp_id": tempID},
		"live_image", "webcam.jpg", []byte("webcambytes"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/face-verify", body)
	req.Header.Set("Content-Type", ctype)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
	if users.created != nil {
		t.Fatalf("account must not be created on mismatch")
	}
	// the registration is burned; a second attempt needs a fresh upload
	if pending.Len() != 0 {
		t.Fatalf("pending entries=%d, want 0", pending.Len())
	}
}

func TestTempUpload_RejectsForeignDomain(t *testing.T) {
	t.Parallel()

	pending := user.NewPendingStore(time.Minute)
	defer pending.Close()

	r := gin.New()
	r.POST("/users/temp-upload", tempUploadHandler(pending, t.TempDir()))

	body, ctype := multipartBody(t, map[string]string{
		"first_name": "Jane",
		"last_name":  "Lim",
		"email":      "jane@corp.example.com",
		"password":   "s3cret",
	}, "student_card", "card.jpg", []byte("jpegbytes"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/temp-upload", body)
	req.Header.Set("Content-Type", ctype)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
}

func TestFaceVerify_UnknownTempID(t *testing.T) {
	t.Parallel()

	pending := user.NewPendingStore(time.Minute)
	defer pending.Close()

	r := gin.New()
	r.POST("/users/face-verify", faceVerifyHandler(&stubUserRepo{}, pending, facerec.New("http://127.0.0.1:0"), t.TempDir()))

	body, ctype := multipartBody(t, map[string]string{"temp_id": "nope"},
		"live_image", "webcam.jpg", []byte("webcambytes"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/face-verify", body)
	req.Header.Set("Content-Type", ctype)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	hash, err := user.HashPassword("right")
	if err != nil {
		t.Fatal(err)
	}
	users := &stubUserRepo{user: &user.User{ID: "u1", Email: "jane@gmail.com", PasswordHash: hash}}

	r := gin.New()
	r.POST("/users/login", loginHandler(users, "test-secret"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/login",
		bytes.NewBufferString(`{"email":"jane@gmail.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s (want 401)", w.Code, w.Body.String())
	}
}

func TestLogin_OK(t *testing.T) {
	t.Parallel()

	hash, err := user.HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	users := &stubUserRepo{user: &user.User{ID: "u1", Email: "jane@gmail.com", PasswordHash: hash}}

	r := gin.New()
	r.POST("/users/login", loginHandler(users, "test-secret"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/login",
		bytes.NewBufferString(`{"email":"jane@gmail.com","password":"s3cret"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("no token in response: %s", w.Body.String())
	}
}
