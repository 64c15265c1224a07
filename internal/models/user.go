package models

import "time"

// User represents a registered user of the platform.
// Only the fields the realtime core and its collaborators need are mapped;
// OAuth and publishing credentials live in their own services.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Email is the unique login identity.
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	// Username is the public handle. Optional until the user picks one.
	Username string `gorm:"uniqueIndex" json:"username"`
	// FullName is the display name shown next to messages.
	FullName string `gorm:"index" json:"full_name"`
	// ProfilePicture is a URL to the avatar image.
	ProfilePicture string `json:"profile_picture"`
	// IsActive is cleared when an account is deactivated; inactive users
	// cannot open realtime connections.
	IsActive bool `gorm:"default:true" json:"is_active"`

	FollowersCount int `gorm:"default:0" json:"followers_count"`
	FollowingCount int `gorm:"default:0" json:"following_count"`
}

// Summary returns the wire-level profile summary embedded in realtime events.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		FullName:       u.FullName,
		ProfilePicture: u.ProfilePicture,
	}
}

// Follow represents an asymmetric follow relationship: FollowerID follows
// FollowingID. A row exists per edge; unfollow deletes the row.
type Follow struct {
	ID          uint      `gorm:"primaryKey"`
	FollowerID  uint      `gorm:"not null;index:idx_follower;uniqueIndex:idx_follow_edge"`
	FollowingID uint      `gorm:"not null;index:idx_following;uniqueIndex:idx_follow_edge"`
	CreatedAt   time.Time
}
