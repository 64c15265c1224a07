package handler_test

import (
	"time"

	"github.com/rajveergoudxd/VextraLabs/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of the storage.Storage interface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetUserByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) GetUserSummaries(ids []uint) ([]models.UserSummary, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserSummary), args.Error(1)
}

func (m *MockStore) DeactivateUser(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStore) GetFollowerIDs(userID uint) ([]uint, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockStore) GetFollowingIDs(userID uint) ([]uint, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockStore) IsParticipant(conversationID, userID uint) (bool, error) {
	args := m.Called(conversationID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) GetParticipantIDs(conversationID uint) ([]uint, error) {
	args := m.Called(conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockStore) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStore) MarkMessagesRead(conversationID, actorID uint, messageIDs []uint, readAt time.Time) error {
	args := m.Called(conversationID, actorID, messageIDs, readAt)
	return args.Error(0)
}

func (m *MockStore) EnqueuePushNotification(n models.PushNotification) error {
	args := m.Called(n)
	return args.Error(0)
}

func (m *MockStore) SetOnline(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStore) SetOffline(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}
