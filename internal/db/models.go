package db

import (
	"time"
)

// Roles a user can hold. PRIVILEGED callers (uploader/admin accounts) may
// see contest entrants and administrative aggregates.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Reaction kinds. A closed two-variant tag; the toggle rejects anything else.
const (
	ReactionLike    = "LIKE"
	ReactionDislike = "DISLIKE"
)

// User table
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	Name         string `gorm:"size:64;not null"`
	DiscordNick  string `gorm:"size:64"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:16;not null;default:USER"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Video is the central aggregate. The view counter is server-authoritative
// and only ever mutated through ViewRepository; it is monotonically
// non-decreasing for the lifetime of the row.
//
// Slug is derived from the title plus the upload timestamp, so it is unique
// without a separate counter. ContestPasswordHash is set once at upload time
// when contest mode is enabled and never leaves the persistence layer.
type Video struct {
	ID                  uint64 `gorm:"primaryKey;autoIncrement"`
	Slug                string `gorm:"uniqueIndex;size:191;not null"`
	Title               string `gorm:"size:255;not null"`
	Description         string `gorm:"type:text"`
	VideoURL            string `gorm:"size:512;not null"`
	ThumbnailURL        string `gorm:"size:512"`
	Tags                string `gorm:"size:255"`
	IsPublic            bool   `gorm:"not null"`
	IsContestMode       bool   `gorm:"not null;default:false"`
	ContestPasswordHash string `gorm:"size:255"`
	UploaderID          uint64 `gorm:"not null;index"`
	Uploader            User   `gorm:"foreignKey:UploaderID"`
	Views               uint64 `gorm:"not null;default:0"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
}

// VideoView marks "this user has already been counted for this video".
//
// Composite PK (VideoID, UserID): the uniqueness constraint is the
// backstop against concurrent duplicate registrations.
// Anonymous viewers never get a row; their views bump the counter directly.
type VideoView struct {
	VideoID   uint64 `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint64 `gorm:"primaryKey;autoIncrement:false"`
	IP        string `gorm:"size:64"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Reaction holds a user's like or dislike on a video.
//
// Composite PK (UserID, VideoID): at most one row per pair, which is the
// central invariant of the toggle engine. Aggregate counts are always
// computed over these rows, never stored denormalized.
//
// Index idx_reaction_video_kind(video_id, kind) serves the per-video
// like/dislike count queries.
type Reaction struct {
	UserID    uint64 `gorm:"primaryKey;autoIncrement:false"`
	VideoID   uint64 `gorm:"primaryKey;autoIncrement:false;index:idx_reaction_video_kind,priority:1"`
	Kind      string `gorm:"size:8;not null;index:idx_reaction_video_kind,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Subscription is the subscriber-to-channel edge.
//
// Composite PK: (SubscriberID, ChannelID); a self-edge is rejected before
// the row is ever written.
type Subscription struct {
	SubscriberID uint64 `gorm:"primaryKey;autoIncrement:false"`
	ChannelID    uint64 `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

// ContestEntry records a successful password-gated contest entry.
// At most one per (UserID, VideoID); never updated or deleted by users.
type ContestEntry struct {
	UserID    uint64 `gorm:"primaryKey;autoIncrement:false"`
	VideoID   uint64 `gorm:"primaryKey;autoIncrement:false;index"`
	User      User   `gorm:"foreignKey:UserID"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Comment is append-only; read newest-first.
type Comment struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	VideoID   uint64 `gorm:"not null;index:idx_comment_video_created,priority:1"`
	UserID    uint64 `gorm:"not null"`
	User      User   `gorm:"foreignKey:UserID"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_comment_video_created,priority:2,sort:desc"`
}
