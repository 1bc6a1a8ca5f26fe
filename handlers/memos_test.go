package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"memo-notes/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMemo(t *testing.T) {
	application, fiberApp := setupTestApp(t)

	folder, err := application.Store.CreateFolder(context.Background(), "Work")
	require.NoError(t, err)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedError  string
		wantFolder     interface{}
	}{
		{
			name:           "Empty body creates unfiled memo",
			body:           nil,
			expectedStatus: http.StatusCreated,
			wantFolder:     nil,
		},
		{
			name:           "Explicit null folder",
			body:           map[string]interface{}{"folderId": nil},
			expectedStatus: http.StatusCreated,
			wantFolder:     nil,
		},
		{
			name:           "Inside existing folder",
			body:           map[string]interface{}{"folderId": folder.ID},
			expectedStatus: http.StatusCreated,
			wantFolder:     folder.ID,
		},
		{
			name:           "Unknown folder",
			body:           map[string]interface{}{"folderId": "does-not-exist"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Folder not found",
		},
		{
			name:           "Malformed folder id",
			body:           map[string]interface{}{"folderId": "../etc"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Validation failed",
		},
		{
			name:           "Invalid JSON body",
			body:           "{",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(application.Store.AllMemos())

			status, body := doJSON(t, fiberApp, http.MethodPost, "/api/memos", tt.body)

			assert.Equal(t, tt.expectedStatus, status)
			if tt.expectedError != "" {
				assert.Contains(t, body["error"], tt.expectedError)
				assert.Len(t, application.Store.AllMemos(), before, "rejected request must not create a memo")
				return
			}

			memo := body["memo"].(map[string]interface{})
			assert.NotEmpty(t, memo["id"])
			assert.Equal(t, "新しいメモ", memo["title"])
			assert.Equal(t, "", memo["content"])
			assert.Equal(t, []interface{}{}, memo["images"])
			assert.Equal(t, tt.wantFolder, memo["folderId"])
			assert.NotEmpty(t, memo["updatedAt"])

			// New memos go to the top
			assert.Equal(t, memo["id"], application.Store.AllMemos()[0].ID)
		})
	}
}

func TestListMemos(t *testing.T) {
	application, fiberApp := setupTestApp(t)
	ctx := context.Background()

	folder, err := application.Store.CreateFolder(ctx, "Shopping")
	require.NoError(t, err)

	// Saved in this order, so the list reads eggs, Meeting, Groceries
	groceries, err := application.Store.UpdateMemo(ctx, models.Memo{ID: "m-1", Title: "Groceries", Content: "Milk, eggs", FolderID: &folder.ID})
	require.NoError(t, err)
	meeting, err := application.Store.UpdateMemo(ctx, models.Memo{ID: "m-2", Title: "Meeting", Content: "agenda"})
	require.NoError(t, err)
	eggs, err := application.Store.UpdateMemo(ctx, models.Memo{ID: "m-3", Title: "EGGS benedict", Content: "", FolderID: &folder.ID})
	require.NoError(t, err)

	tests := []struct {
		name          string
		path          string
		expectedIDs   []string
		expectedQuery string
	}{
		{
			name:        "All memos in list order",
			path:        "/api/memos",
			expectedIDs: []string{eggs.ID, meeting.ID, groceries.ID},
		},
		{
			name:          "Case-insensitive search",
			path:          "/api/memos?q=eggs",
			expectedIDs:   []string{eggs.ID, groceries.ID},
			expectedQuery: "eggs",
		},
		{
			name:          "Search query sticks between requests",
			path:          "/api/memos",
			expectedIDs:   []string{eggs.ID, groceries.ID},
			expectedQuery: "eggs",
		},
		{
			name:          "Search combined with folder",
			path:          "/api/memos?folder=unfiled",
			expectedIDs:   []string{},
			expectedQuery: "eggs",
		},
		{
			name:        "Empty q clears the search",
			path:        "/api/memos?q=",
			expectedIDs: []string{eggs.ID, meeting.ID, groceries.ID},
		},
		{
			name:        "Unfiled memos",
			path:        "/api/memos?folder=unfiled",
			expectedIDs: []string{meeting.ID},
		},
		{
			name:        "Memos in folder",
			path:        "/api/memos?folder=" + folder.ID,
			expectedIDs: []string{eggs.ID, groceries.ID},
		},
		{
			name:        "Unknown folder yields nothing",
			path:        "/api/memos?folder=nope",
			expectedIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, fiberApp, http.MethodGet, tt.path, nil)

			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, tt.expectedIDs, memoIDs(t, body))
			assert.Equal(t, tt.expectedQuery, body["query"])
		})
	}
}

func TestGetMemo(t *testing.T) {
	application, fiberApp := setupTestApp(t)

	application.Store.SetSearchQuery("no memo matches this")
	memo, err := application.Store.CreateMemo(context.Background(), nil)
	require.NoError(t, err)

	t.Run("Found regardless of search", func(t *testing.T) {
		status, body := doJSON(t, fiberApp, http.MethodGet, "/api/memos/"+memo.ID, nil)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, memo.ID, body["memo"].(map[string]interface{})["id"])
	})

	t.Run("Unknown id", func(t *testing.T) {
		status, body := doJSON(t, fiberApp, http.MethodGet, "/api/memos/missing", nil)

		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Memo not found", body["error"])
	})
}

func TestUpdateMemo(t *testing.T) {
	application, fiberApp := setupTestApp(t)
	ctx := context.Background()

	folder, err := application.Store.CreateFolder(ctx, "Work")
	require.NoError(t, err)
	older, err := application.Store.CreateMemo(ctx, nil)
	require.NoError(t, err)
	newer, err := application.Store.CreateMemo(ctx, nil)
	require.NoError(t, err)

	tests := []struct {
		name           string
		id             string
		body           interface{}
		expectedStatus int
		expectedError  string
		expectedOrder  []string
	}{
		{
			name: "Saved memo moves to the top",
			id:   older.ID,
			body: map[string]interface{}{
				"title":    "Plan",
				"content":  "ship it",
				"images":   []string{"data:image/png;base64,iVBORw0KGgo="},
				"folderId": folder.ID,
			},
			expectedStatus: http.StatusOK,
			expectedOrder:  []string{older.ID, newer.ID},
		},
		{
			name:           "Unknown id is inserted",
			id:             "imported-1",
			body:           map[string]interface{}{"title": "Imported"},
			expectedStatus: http.StatusOK,
			expectedOrder:  []string{"imported-1", older.ID, newer.ID},
		},
		{
			name:           "Long title is saved as is",
			id:             "imported-1",
			body:           map[string]interface{}{"title": strings.Repeat("長", 2000)},
			expectedStatus: http.StatusOK,
			expectedOrder:  []string{"imported-1", older.ID, newer.ID},
		},
		{
			name:           "Remote image rejected",
			id:             newer.ID,
			body:           map[string]interface{}{"images": []string{"https://example.com/cat.png"}},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Validation failed",
			expectedOrder:  []string{"imported-1", older.ID, newer.ID},
		},
		{
			name:           "Unknown folder rejected",
			id:             newer.ID,
			body:           map[string]interface{}{"folderId": "missing"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Folder not found",
			expectedOrder:  []string{"imported-1", older.ID, newer.ID},
		},
		{
			name:           "Invalid JSON body",
			id:             newer.ID,
			body:           "not json",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
			expectedOrder:  []string{"imported-1", older.ID, newer.ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, fiberApp, http.MethodPut, "/api/memos/"+tt.id, tt.body)

			assert.Equal(t, tt.expectedStatus, status)
			if tt.expectedError != "" {
				assert.Contains(t, body["error"], tt.expectedError)
			} else {
				assert.Equal(t, tt.id, body["memo"].(map[string]interface{})["id"])
			}

			var order []string
			for _, m := range application.Store.AllMemos() {
				order = append(order, m.ID)
			}
			assert.Equal(t, tt.expectedOrder, order)
		})
	}

	saved, err := application.Store.GetMemo(older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plan", saved.Title)
	assert.Equal(t, "ship it", saved.Content)
	assert.Equal(t, []string{"data:image/png;base64,iVBORw0KGgo="}, saved.Images)
	require.NotNil(t, saved.FolderID)
	assert.Equal(t, folder.ID, *saved.FolderID)
}

func TestMoveMemo(t *testing.T) {
	application, fiberApp := setupTestApp(t)
	ctx := context.Background()

	folder, err := application.Store.CreateFolder(ctx, "Archive")
	require.NoError(t, err)
	first, err := application.Store.CreateMemo(ctx, nil)
	require.NoError(t, err)
	second, err := application.Store.CreateMemo(ctx, nil)
	require.NoError(t, err)

	t.Run("Move keeps list order", func(t *testing.T) {
		status, _ := doJSON(t, fiberApp, http.MethodPut, "/api/memos/"+first.ID+"/folder", map[string]interface{}{"folderId": folder.ID})
		assert.Equal(t, http.StatusOK, status)

		memos := application.Store.AllMemos()
		assert.Equal(t, second.ID, memos[0].ID)
		assert.Equal(t, first.ID, memos[1].ID)
		require.NotNil(t, memos[1].FolderID)
		assert.Equal(t, folder.ID, *memos[1].FolderID)
		assert.Equal(t, first.UpdatedAt, memos[1].UpdatedAt)
	})

	t.Run("Null folder unfiles", func(t *testing.T) {
		status, _ := doJSON(t, fiberApp, http.MethodPut, "/api/memos/"+first.ID+"/folder", map[string]interface{}{"folderId": nil})
		assert.Equal(t, http.StatusOK, status)

		memo, err := application.Store.GetMemo(first.ID)
		require.NoError(t, err)
		assert.Nil(t, memo.FolderID)
	})

	t.Run("Unknown folder rejected", func(t *testing.T) {
		status, body := doJSON(t, fiberApp, http.MethodPut, "/api/memos/"+first.ID+"/folder", map[string]interface{}{"folderId": "missing"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Folder not found", body["error"])
	})

	t.Run("Unknown memo is a no-op", func(t *testing.T) {
		before := application.Store.AllMemos()

		status, _ := doJSON(t, fiberApp, http.MethodPut, "/api/memos/missing/folder", map[string]interface{}{"folderId": folder.ID})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, before, application.Store.AllMemos())
	})
}

func TestDeleteMemo(t *testing.T) {
	application, fiberApp := setupTestApp(t)

	memo, err := application.Store.CreateMemo(context.Background(), nil)
	require.NoError(t, err)

	status, _ := doJSON(t, fiberApp, http.MethodDelete, "/api/memos/"+memo.ID, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, application.Store.AllMemos())

	// Deleting again succeeds
	status, _ = doJSON(t, fiberApp, http.MethodDelete, "/api/memos/"+memo.ID, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestSetSearch(t *testing.T) {
	application, fiberApp := setupTestApp(t)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedQuery  string
	}{
		{name: "Set query", body: map[string]interface{}{"query": "Milk"}, expectedStatus: http.StatusOK, expectedQuery: "Milk"},
		{name: "Clear query", body: map[string]interface{}{"query": ""}, expectedStatus: http.StatusOK, expectedQuery: ""},
		{name: "Invalid JSON keeps query", body: "{", expectedStatus: http.StatusBadRequest, expectedQuery: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := doJSON(t, fiberApp, http.MethodPut, "/api/search", tt.body)

			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedQuery, application.Store.SearchQuery())
		})
	}
}
