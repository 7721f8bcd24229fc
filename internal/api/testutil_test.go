package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"goabroad/internal/auth"
	"goabroad/internal/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newTestAuthService(t *testing.T) *auth.Service {
	t.Helper()
	svc, err := auth.NewService("test-secret-test-secret-test-secret", time.Hour, 10*time.Minute)
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return svc
}

type fakeStorage struct {
	uploaded map[string][]byte
	deleted  []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: map[string][]byte{}}
}

func (s *fakeStorage) UploadFile(_ context.Context, objectKey string, reader io.Reader, _ int64, _ string) (string, error) {
	b, _ := io.ReadAll(reader)
	s.uploaded[objectKey] = b
	return "https://cdn.example.test/uploads/" + objectKey, nil
}

func (s *fakeStorage) ObjectKeyFromURL(rawURL string) string {
	const prefix = "https://cdn.example.test/uploads/"
	if !strings.HasPrefix(rawURL, prefix) {
		return ""
	}
	return strings.TrimPrefix(rawURL, prefix)
}

func (s *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	delete(s.uploaded, objectKey)
	return nil
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, fileField, fileName string, fileContent []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %q: %v", key, err)
		}
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(fileContent); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) map[string]json.RawMessage {
	t.Helper()
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body.Bytes(), &fields); err != nil {
		t.Fatalf("decode envelope: %v (body=%s)", err, body.String())
	}
	return fields
}

func envelopeBool(t *testing.T, fields map[string]json.RawMessage, key string) bool {
	t.Helper()
	var v bool
	if raw, ok := fields[key]; ok {
		if err := json.Unmarshal(raw, &v); err != nil {
			t.Fatalf("decode %q: %v", key, err)
		}
	}
	return v
}

func envelopeString(t *testing.T, fields map[string]json.RawMessage, key string) string {
	t.Helper()
	var v string
	if raw, ok := fields[key]; ok {
		if err := json.Unmarshal(raw, &v); err != nil {
			t.Fatalf("decode %q: %v", key, err)
		}
	}
	return v
}

func runHandler(req *http.Request, params gin.Params, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params
	handler(c)
	return w
}
