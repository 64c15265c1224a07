package realtime_test

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rajveergoudxd/VextraLabs/internal/models"
	"github.com/rajveergoudxd/VextraLabs/internal/realtime"

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

// fakeConn is an in-memory Conn. Tests pre-fill the inbound channel (and
// close it) to drive a session synchronously, and inspect Sent afterwards.
type fakeConn struct {
	id      string
	userID  uint
	inbound chan models.Frame

	mu       sync.Mutex
	sent     []models.Frame
	closed   bool
	failSend bool

	closeOnce sync.Once
}

func newFakeConn(id string, userID uint) *fakeConn {
	return &fakeConn{
		id:      id,
		userID:  userID,
		inbound: make(chan models.Frame, 16),
	}
}

func (c *fakeConn) ID() string                   { return c.id }
func (c *fakeConn) UserID() uint                 { return c.userID }
func (c *fakeConn) Inbound() <-chan models.Frame { return c.inbound }
func (c *fakeConn) Run()                         {}

func (c *fakeConn) Send(frame models.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return realtime.ErrConnClosed
	}
	if c.failSend {
		return realtime.ErrSendBufferFull
	}
	c.sent = append(c.sent, frame)
	return nil
}

func (c *fakeConn) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		// Tests simulate the read pump by closing inbound themselves, so
		// the channel may already be closed here.
		defer func() { _ = recover() }()
		close(c.inbound)
	})
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// framesOfType returns the sent frames carrying the given type tag.
func (c *fakeConn) framesOfType(frameType string) []models.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.Frame
	for _, f := range c.sent {
		if f.Type == frameType {
			out = append(out, f)
		}
	}
	return out
}

// decode unmarshals a frame's data into out, failing silently on bad JSON so
// asserts on the result catch it.
func decode(f models.Frame, out interface{}) {
	_ = json.Unmarshal(f.Data, out)
}
