package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"memo-notes/app"
	"memo-notes/config/setup"
	"memo-notes/pkg/dataurl"
	"memo-notes/services"
	"memo-notes/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// setupTestStore opens a temporary SQLite-backed store and returns the app
// with all dependencies
func setupTestStore(t *testing.T, maxImageBytes int64, maxImages int) *app.App {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	provider, err := storage.New(ctx, storage.Config{
		Driver: storage.DriverSQLite,
		DBPath: filepath.Join(t.TempDir(), "test.db"),
	}, logger)
	require.NoError(t, err, "Failed to initialize test storage")
	t.Cleanup(func() { provider.Close() })

	store, err := services.NewMemoStore(ctx, provider,
		services.WithLogger(logger),
		services.WithMaxImages(maxImages),
	)
	require.NoError(t, err, "Failed to load memo store")

	return app.New(store, provider, logger, maxImageBytes, maxImages)
}

// setupTestApp mounts the production routes on a bare Fiber app
func setupTestApp(t *testing.T) (*app.App, *fiber.App) {
	t.Helper()

	application := setupTestStore(t, dataurl.DefaultMaxBytes, 10)
	fiberApp := fiber.New()
	setup.RegisterRoutes(fiberApp, application)

	return application, fiberApp
}

// doJSON sends body (nil for none) as JSON and decodes the JSON response
func doJSON(t *testing.T, fiberApp *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			reader = bytes.NewBufferString(raw)
		} else {
			payload, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(payload)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return decode(t, fiberApp, req)
}

// doUpload posts content as the multipart "image" field
func doUpload(t *testing.T, fiberApp *fiber.App, path string, content []byte) (int, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if content != nil {
		part, err := w.CreateFormFile("image", "upload.bin")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return decode(t, fiberApp, req)
}

func decode(t *testing.T, fiberApp *fiber.App, req *http.Request) (int, map[string]interface{}) {
	t.Helper()

	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	return resp.StatusCode, body
}

func memoIDs(t *testing.T, body map[string]interface{}) []string {
	t.Helper()

	raw, ok := body["memos"].([]interface{})
	require.True(t, ok, "response has no memos array: %v", body)

	ids := make([]string, 0, len(raw))
	for _, m := range raw {
		ids = append(ids, m.(map[string]interface{})["id"].(string))
	}
	return ids
}
