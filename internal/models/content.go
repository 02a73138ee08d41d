package models

// The content entities below are managed by the CRUD layer; the authorization
// core touches them only through single-field owner lookups.

// Blog is an authored article.
type Blog struct {
	BaseModel

	Title    string `gorm:"not null" json:"title"`
	Slug     string `gorm:"uniqueIndex;not null" json:"slug"`
	Content  string `json:"content"`
	AuthorID uint   `gorm:"index;not null" json:"author_id"`
	Author   *User  `json:"author,omitempty"`
}

// Media is an uploaded asset.
type Media struct {
	BaseModel

	FileName     string `gorm:"not null" json:"file_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	UploadedByID uint   `gorm:"index;not null" json:"uploaded_by_id"`
	UploadedBy   *User  `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
}

// Recruitment is an authored job posting.
type Recruitment struct {
	BaseModel

	Title    string `gorm:"not null" json:"title"`
	Content  string `json:"content"`
	AuthorID uint   `gorm:"index;not null" json:"author_id"`
	Author   *User  `json:"author,omitempty"`
}

// Comment is an authored remark on a blog.
type Comment struct {
	BaseModel

	BlogID   uint   `gorm:"index;not null" json:"blog_id"`
	Content  string `gorm:"not null" json:"content"`
	AuthorID uint   `gorm:"index;not null" json:"author_id"`
	Author   *User  `json:"author,omitempty"`
}
