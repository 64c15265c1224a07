package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/rajveergoudxd/VextraLabs/internal/models"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Redis keys shared with sibling services.
const (
	pushQueueKey      = "push:queue"
	presenceMirrorKey = "presence:online"
)

// Storage is the persistence collaborator of the realtime core. It bundles
// the message store, the follow graph, user lookups, and the two Redis-backed
// side channels (push queue, presence mirror).
type Storage interface {
	// Users
	GetUserByID(id uint) (*models.User, error)
	GetUserSummaries(ids []uint) ([]models.UserSummary, error)
	DeactivateUser(id uint) error

	// Follow graph
	GetFollowerIDs(userID uint) ([]uint, error)
	GetFollowingIDs(userID uint) ([]uint, error)

	// Conversations
	IsParticipant(conversationID, userID uint) (bool, error)
	GetParticipantIDs(conversationID uint) ([]uint, error)

	// Messages
	SaveMessage(msg *models.Message) error
	MarkMessagesRead(conversationID, actorID uint, messageIDs []uint, readAt time.Time) error

	// Side channels
	EnqueuePushNotification(n models.PushNotification) error
	SetOnline(userID uint) error
	SetOffline(userID uint) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// GetUserByID returns the user, or nil without an error when no row exists.
func (s *Service) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to load user %d: %v", id, err)
		return nil, err
	}
	return &user, nil
}

// GetUserSummaries loads the profile summaries for the given ids. Order is
// not guaranteed; missing ids are silently absent from the result.
func (s *Service) GetUserSummaries(ids []uint) ([]models.UserSummary, error) {
	if len(ids) == 0 {
		return []models.UserSummary{}, nil
	}
	var users []models.User
	if err := s.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		log.Printf("ERROR: Failed to load user summaries: %v", err)
		return nil, err
	}
	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}
	return summaries, nil
}

// DeactivateUser clears is_active; the account can no longer open realtime
// connections. Used by the admin CLI.
func (s *Service) DeactivateUser(id uint) error {
	return s.DB.Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// GetFollowerIDs returns the ids of users following userID.
func (s *Service) GetFollowerIDs(userID uint) ([]uint, error) {
	var ids []uint
	if err := s.DB.Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Pluck("follower_id", &ids).Error; err != nil {
		log.Printf("ERROR: Failed to load followers of user %d: %v", userID, err)
		return nil, err
	}
	return ids, nil
}

// GetFollowingIDs returns the ids of users that userID follows.
func (s *Service) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	if err := s.DB.Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error; err != nil {
		log.Printf("ERROR: Failed to load followees of user %d: %v", userID, err)
		return nil, err
	}
	return ids, nil
}

// IsParticipant reports whether the user is a member of the conversation.
func (s *Service) IsParticipant(conversationID, userID uint) (bool, error) {
	var count int64
	err := s.DB.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	if err != nil {
		log.Printf("ERROR: Participant check failed for user %d in conversation %d: %v", userID, conversationID, err)
		return false, err
	}
	return count > 0, nil
}

// GetParticipantIDs returns every member of the conversation.
func (s *Service) GetParticipantIDs(conversationID uint) ([]uint, error) {
	var ids []uint
	if err := s.DB.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ?", conversationID).
		Pluck("user_id", &ids).Error; err != nil {
		log.Printf("ERROR: Failed to load participants of conversation %d: %v", conversationID, err)
		return nil, err
	}
	return ids, nil
}

// SaveMessage persists the message and advances the conversation's
// last_message_at in one transaction. msg.ID and msg.CreatedAt are filled
// by GORM on create.
func (s *Service) SaveMessage(msg *models.Message) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			log.Printf("ERROR: Failed to save message in conversation %d: %v", msg.ConversationID, err)
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("last_message_at", msg.CreatedAt).Error
	})
}

// MarkMessagesRead flags the given messages as read in a single UPDATE, so a
// batch can never partially apply. Messages authored by the actor are
// excluded: you cannot mark your own messages read. Messages whose sender
// was deleted (sender_id IS NULL) are also skipped by the inequality, which
// matches how read state has always behaved here.
func (s *Service) MarkMessagesRead(conversationID, actorID uint, messageIDs []uint, readAt time.Time) error {
	if len(messageIDs) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(messageIDs))
	for _, id := range messageIDs {
		ids = append(ids, int64(id))
	}
	return s.DB.Model(&models.Message{}).
		Where("id = ANY(?)", pq.Array(ids)).
		Where("conversation_id = ?", conversationID).
		Where("sender_id <> ?", actorID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": readAt,
		}).Error
}

// EnqueuePushNotification pushes the payload onto the Redis queue drained by
// the push-delivery worker. Best effort: the worker owns retries.
func (s *Service) EnqueuePushNotification(n models.PushNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.Redis.RPush(s.Ctx, pushQueueKey, payload).Err()
}

// SetOnline adds the user to the shared presence mirror set.
func (s *Service) SetOnline(userID uint) error {
	return s.Redis.SAdd(s.Ctx, presenceMirrorKey, strconv.FormatUint(uint64(userID), 10)).Err()
}

// SetOffline removes the user from the shared presence mirror set.
func (s *Service) SetOffline(userID uint) error {
	return s.Redis.SRem(s.Ctx, presenceMirrorKey, strconv.FormatUint(uint64(userID), 10)).Err()
}

// GetMirroredOnlineIDs reads the presence mirror back. Only the admin CLI
// uses it; the realtime core never trusts the mirror for its own decisions.
func (s *Service) GetMirroredOnlineIDs() ([]string, error) {
	return s.Redis.SMembers(s.Ctx, presenceMirrorKey).Result()
}
