package models

// Memo is a single user-authored note. FolderID is nil for unfiled memos.
type Memo struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Images    []string `json:"images"`
	FolderID  *string  `json:"folderId"`
	UpdatedAt string   `json:"updatedAt"`
}

// Folder is a flat, named grouping of memos. It has no rename operation.
type Folder struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

// Clone returns a deep copy so callers never share the images slice or
// folder pointer with the store.
func (m Memo) Clone() Memo {
	out := m
	if m.Images != nil {
		out.Images = make([]string, len(m.Images))
		copy(out.Images, m.Images)
	}
	if m.FolderID != nil {
		id := *m.FolderID
		out.FolderID = &id
	}
	return out
}

// InFolder reports whether the memo belongs to folderID. A nil folderID
// matches unfiled memos.
func (m Memo) InFolder(folderID *string) bool {
	if folderID == nil {
		return m.FolderID == nil
	}
	return m.FolderID != nil && *m.FolderID == *folderID
}

type CreateMemoRequest struct {
	FolderID *string `json:"folderId" validate:"omitnil,memoid"`
}

type UpdateMemoRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Images   []string `json:"images" validate:"omitempty,dive,imagedataurl"`
	FolderID *string  `json:"folderId" validate:"omitnil,memoid"`
}

type MoveMemoRequest struct {
	FolderID *string `json:"folderId" validate:"omitnil,memoid"`
}

type CreateFolderRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100,foldername"`
}

type SearchRequest struct {
	Query string `json:"query" validate:"max=500"`
}
