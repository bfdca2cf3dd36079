package media

import "time"

// MediaFile is a stored upload. FilePath is the object key in storage, not
// a filesystem path. UploaderName and Tags are filled from joins and never
// persisted on this row.
type MediaFile struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	FilePath     string    `json:"filePath"`
	FileType     string    `json:"fileType"`
	FileSize     int64     `json:"fileSize"`
	CoverPath    string    `json:"coverPath,omitempty"`
	ViewCount    int       `json:"viewCount"`
	Status       int       `json:"status"` // 0 hidden, 1 public
	CreateTime   time.Time `json:"createTime"`
	UpdateTime   time.Time `json:"updateTime"`
	UploaderName string    `json:"uploaderName,omitempty"`
	Tags         string    `json:"tags,omitempty"`
}

// UploadResult is returned to the client after a successful upload.
type UploadResult struct {
	FileID     int64     `json:"fileId"`
	FilePath   string    `json:"filePath"`
	FileType   string    `json:"fileType"`
	CreateTime time.Time `json:"createTime"`
	UserID     int64     `json:"userId"`
}
