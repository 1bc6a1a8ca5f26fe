package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"memo-notes/models"

	"github.com/google/uuid"
)

const (
	// MemosKey and FoldersKey are the two persisted entries
	MemosKey   = "memos"
	FoldersKey = "folders"

	// DefaultMemoTitle is the placeholder title of a freshly created memo
	DefaultMemoTitle = "新しいメモ"

	// DefaultTimestampLayout renders like the ja-JP locale date string
	DefaultTimestampLayout = "2006/1/2 15:04:05"
)

// MemoStore owns the memo and folder collections. Every mutation
// serializes the whole affected collection and writes it to the key-value
// store before the in-memory state is replaced.
type MemoStore struct {
	mu          sync.Mutex
	kv          KeyValueStore
	logger      *slog.Logger
	memos       []models.Memo
	folders     []models.Folder
	searchQuery string

	now          func() time.Time
	newID        func() string
	layout       string
	location     *time.Location
	defaultTitle string
	maxImages    int
}

// Option configures a MemoStore
type Option func(*MemoStore)

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *MemoStore) { s.now = now }
}

// WithIDGenerator overrides uuid-based id generation
func WithIDGenerator(newID func() string) Option {
	return func(s *MemoStore) { s.newID = newID }
}

// WithTimestampFormat sets the layout and location used to render
// createdAt and updatedAt
func WithTimestampFormat(layout string, loc *time.Location) Option {
	return func(s *MemoStore) {
		if layout != "" {
			s.layout = layout
		}
		if loc != nil {
			s.location = loc
		}
	}
}

// WithDefaultTitle sets the placeholder title of new memos
func WithDefaultTitle(title string) Option {
	return func(s *MemoStore) { s.defaultTitle = title }
}

// WithMaxImages caps how many images AttachImage lets a memo hold.
// Zero means no cap.
func WithMaxImages(n int) Option {
	return func(s *MemoStore) { s.maxImages = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *MemoStore) { s.logger = logger }
}

// NewMemoStore loads both collections from kv. Absent keys yield empty
// collections; undecodable data aborts with ErrCorruptData.
func NewMemoStore(ctx context.Context, kv KeyValueStore, opts ...Option) (*MemoStore, error) {
	s := &MemoStore{
		kv:           kv,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          time.Now,
		newID:        func() string { return uuid.New().String() },
		layout:       DefaultTimestampLayout,
		location:     time.Local,
		defaultTitle: DefaultMemoTitle,
	}
	for _, opt := range opts {
		opt(s)
	}

	memos, err := s.loadMemos(ctx)
	if err != nil {
		return nil, err
	}
	folders, err := s.loadFolders(ctx)
	if err != nil {
		return nil, err
	}

	s.memos = memos
	s.folders = folders

	s.logger.Info("memo store loaded", "memos", len(memos), "folders", len(folders))
	return s, nil
}

// ==================== LOADING ====================

func (s *MemoStore) loadMemos(ctx context.Context) ([]models.Memo, error) {
	raw, found, err := s.kv.GetItem(ctx, MemosKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", MemosKey, err)
	}

	memos := make([]models.Memo, 0)
	if !found || raw == "" {
		return memos, nil
	}

	if err := json.Unmarshal([]byte(raw), &memos); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptData, MemosKey, err)
	}
	if memos == nil {
		return make([]models.Memo, 0), nil
	}

	for i := range memos {
		memos[i] = normalizeMemo(memos[i])
	}
	return memos, nil
}

func (s *MemoStore) loadFolders(ctx context.Context) ([]models.Folder, error) {
	raw, found, err := s.kv.GetItem(ctx, FoldersKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", FoldersKey, err)
	}

	folders := make([]models.Folder, 0)
	if !found || raw == "" {
		return folders, nil
	}

	if err := json.Unmarshal([]byte(raw), &folders); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptData, FoldersKey, err)
	}
	if folders == nil {
		return make([]models.Folder, 0), nil
	}
	return folders, nil
}

// normalizeMemo fills fields that older stored data may lack
func normalizeMemo(m models.Memo) models.Memo {
	if m.Images == nil {
		m.Images = []string{}
	}
	if m.FolderID != nil && *m.FolderID == "" {
		m.FolderID = nil
	}
	return m
}

// ==================== PERSISTENCE ====================

func (s *MemoStore) saveMemos(ctx context.Context, memos []models.Memo) error {
	data, err := json.Marshal(memos)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", MemosKey, err)
	}
	if err := s.kv.SetItem(ctx, MemosKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", MemosKey, err)
	}
	s.memos = memos
	return nil
}

func (s *MemoStore) saveFolders(ctx context.Context, folders []models.Folder) error {
	data, err := json.Marshal(folders)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", FoldersKey, err)
	}
	if err := s.kv.SetItem(ctx, FoldersKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", FoldersKey, err)
	}
	s.folders = folders
	return nil
}

func (s *MemoStore) timestamp() string {
	return s.now().In(s.location).Format(s.layout)
}

// ==================== FOLDER OPERATIONS ====================

// CreateFolder appends a new folder. Callers reject empty names.
func (s *MemoStore) CreateFolder(ctx context.Context, name string) (models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder := models.Folder{
		ID:        s.newID(),
		Name:      name,
		CreatedAt: s.timestamp(),
	}

	next := make([]models.Folder, 0, len(s.folders)+1)
	next = append(next, s.folders...)
	next = append(next, folder)

	if err := s.saveFolders(ctx, next); err != nil {
		return models.Folder{}, err
	}

	s.logger.Debug("folder created", "folder_id", folder.ID)
	return folder, nil
}

// DeleteFolder detaches every memo filed under id, then removes the folder.
// Memos are never deleted with their folder.
func (s *MemoStore) DeleteFolder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	memos := make([]models.Memo, len(s.memos))
	detached := 0
	for i, m := range s.memos {
		if m.FolderID != nil && *m.FolderID == id {
			m.FolderID = nil
			detached++
		}
		memos[i] = m
	}
	if err := s.saveMemos(ctx, memos); err != nil {
		return err
	}

	folders := make([]models.Folder, 0, len(s.folders))
	for _, f := range s.folders {
		if f.ID != id {
			folders = append(folders, f)
		}
	}
	if err := s.saveFolders(ctx, folders); err != nil {
		return err
	}

	s.logger.Debug("folder deleted", "folder_id", id, "detached_memos", detached)
	return nil
}

// Folders returns a copy of the folder collection in creation order
func (s *MemoStore) Folders() []models.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Folder, len(s.folders))
	copy(out, s.folders)
	return out
}

// HasFolder reports whether a folder with id exists
func (s *MemoStore) HasFolder(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.folders {
		if f.ID == id {
			return true
		}
	}
	return false
}

// ==================== MEMO OPERATIONS ====================

// CreateMemo prepends an empty memo filed under folderID (nil = unfiled)
func (s *MemoStore) CreateMemo(ctx context.Context, folderID *string) (models.Memo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	memo := models.Memo{
		ID:        s.newID(),
		Title:     s.defaultTitle,
		Content:   "",
		Images:    []string{},
		FolderID:  folderID,
		UpdatedAt: s.timestamp(),
	}
	memo = memo.Clone()

	next := make([]models.Memo, 0, len(s.memos)+1)
	next = append(next, memo)
	next = append(next, s.memos...)

	if err := s.saveMemos(ctx, next); err != nil {
		return models.Memo{}, err
	}

	s.logger.Debug("memo created", "memo_id", memo.ID)
	return memo.Clone(), nil
}

// UpdateMemo replaces the memo with the same id and moves it to the front.
// An unknown id inserts the memo.
func (s *MemoStore) UpdateMemo(ctx context.Context, memo models.Memo) (models.Memo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.putFront(ctx, memo)
	if err != nil {
		return models.Memo{}, err
	}

	s.logger.Debug("memo updated", "memo_id", updated.ID)
	return updated, nil
}

// AttachImage appends image to the memo's images and saves it like
// UpdateMemo. Returns ErrMemoNotFound for an unknown id and
// ErrTooManyImages when the memo is already full.
func (s *MemoStore) AttachImage(ctx context.Context, memoID, image string) (models.Memo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(memoID)
	if i < 0 {
		return models.Memo{}, ErrMemoNotFound
	}

	if s.maxImages > 0 && len(s.memos[i].Images) >= s.maxImages {
		return models.Memo{}, ErrTooManyImages
	}

	memo := s.memos[i].Clone()
	memo.Images = append(memo.Images, image)

	updated, err := s.putFront(ctx, memo)
	if err != nil {
		return models.Memo{}, err
	}

	s.logger.Debug("image attached", "memo_id", memoID, "images", len(updated.Images))
	return updated, nil
}

// putFront stamps memo and stores it at the head of the collection.
// Caller holds s.mu.
func (s *MemoStore) putFront(ctx context.Context, memo models.Memo) (models.Memo, error) {
	updated := memo.Clone()
	if updated.Images == nil {
		updated.Images = []string{}
	}
	updated.UpdatedAt = s.timestamp()

	next := make([]models.Memo, 0, len(s.memos)+1)
	next = append(next, updated)
	for _, m := range s.memos {
		if m.ID != updated.ID {
			next = append(next, m)
		}
	}

	if err := s.saveMemos(ctx, next); err != nil {
		return models.Memo{}, err
	}
	return updated.Clone(), nil
}

// MoveMemoToFolder refiles a memo in place without reordering. An unknown
// memo id changes nothing.
func (s *MemoStore) MoveMemoToFolder(ctx context.Context, memoID string, folderID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Memo, len(s.memos))
	for i, m := range s.memos {
		if m.ID == memoID {
			m = m.Clone()
			m.FolderID = nil
			if folderID != nil {
				id := *folderID
				m.FolderID = &id
			}
		}
		next[i] = m
	}

	if err := s.saveMemos(ctx, next); err != nil {
		return err
	}

	s.logger.Debug("memo moved", "memo_id", memoID)
	return nil
}

// DeleteMemo removes the memo with id if present
func (s *MemoStore) DeleteMemo(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Memo, 0, len(s.memos))
	for _, m := range s.memos {
		if m.ID != id {
			next = append(next, m)
		}
	}

	if err := s.saveMemos(ctx, next); err != nil {
		return err
	}

	s.logger.Debug("memo deleted", "memo_id", id)
	return nil
}

// GetMemo looks up a memo by id regardless of the search query
func (s *MemoStore) GetMemo(id string) (models.Memo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Memo{}, ErrMemoNotFound
	}
	return s.memos[i].Clone(), nil
}

func (s *MemoStore) indexOf(id string) int {
	for i, m := range s.memos {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// ==================== SEARCH & VIEWS ====================

// SetSearchQuery changes the transient filter. It is never persisted.
func (s *MemoStore) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.searchQuery = query
}

func (s *MemoStore) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.searchQuery
}

// Memos returns the memos whose title or content contains the search query,
// case-insensitively, in collection order
func (s *MemoStore) Memos() []models.Memo {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(func(models.Memo) bool { return true })
}

// MemosInFolder is Memos restricted to one folder; nil selects unfiled memos
func (s *MemoStore) MemosInFolder(folderID *string) []models.Memo {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(func(m models.Memo) bool { return m.InFolder(folderID) })
}

// AllMemos returns the whole collection, ignoring the search query
func (s *MemoStore) AllMemos() []models.Memo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Memo, len(s.memos))
	for i, m := range s.memos {
		out[i] = m.Clone()
	}
	return out
}

// filter applies the search query and keep. Caller holds s.mu.
func (s *MemoStore) filter(keep func(models.Memo) bool) []models.Memo {
	query := strings.ToLower(s.searchQuery)

	out := make([]models.Memo, 0, len(s.memos))
	for _, m := range s.memos {
		if !keep(m) {
			continue
		}
		if strings.Contains(strings.ToLower(m.Title), query) ||
			strings.Contains(strings.ToLower(m.Content), query) {
			out = append(out, m.Clone())
		}
	}
	return out
}
