package models

import "time"

type Comment struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	TaskID      uint64    `gorm:"not null;index" json:"task_id"`
	UserID      uint64    `gorm:"not null" json:"user_id"`
	CommentText string    `gorm:"type:text;not null" json:"comment_text"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Task       Task        `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User       User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	MediaFiles []MediaFile `gorm:"foreignKey:CommentID" json:"media_files"`
}

// MediaFile records one uploaded attachment on a comment. FileName keeps
// the name the client sent; FilePath points at the renamed file on disk.
type MediaFile struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	CommentID  uint64    `gorm:"not null;index" json:"comment_id"`
	FileName   string    `gorm:"type:varchar(255);not null" json:"file_name"`
	FilePath   string    `gorm:"type:varchar(500);not null" json:"file_path"`
	FileType   string    `gorm:"type:varchar(50);not null" json:"file_type"`
	FileSize   int64     `gorm:"not null" json:"file_size"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
