package handler

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"vtobot/internal/core/port"

	"vtobot/internal/core/domain"

	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// the domain registry is what main wires into the dispatch
var _ port.CommandRegistry = (*domain.CommandRegistry)(nil)

type MockRegistry struct {
	mock.Mock
	cmd port.Command
}

func (m *MockRegistry) Get(cmd string) (port.Command, error) {
	args := m.Called(cmd)
	return m.cmd, args.Error(1)
}

func (m *MockRegistry) Register(handler port.Command) {
	m.cmd = handler
	m.Called(handler)
}

func (m *MockRegistry) ListCommands() []string {
	m.Called()
	return []string{"foo", "bar"}
}

type MockCmdHandler struct{ mock.Mock }

func (m *MockCmdHandler) Respond(ctx context.Context, timeout time.Duration, msg *domain.Message) error {
	args := m.Called(ctx, timeout, msg)
	return args.Error(0)
}

func (m *MockCmdHandler) GetCommand() string {
	m.Called()
	return ""
}

type MockAuthorizer struct {
	authorized bool
	called     bool
}

func (m *MockAuthorizer) IsAuthorized(_ context.Context, _ int64) bool {
	m.called = true
	return m.authorized
}

func makeUpdate(txt string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			ID:   1,
			Text: txt,
			Chat: models.Chat{ID: 100},
			From: &models.User{ID: 200, Username: "bob", FirstName: "bob"},
		},
	}
}

func TestCommandHandler_Handle(t *testing.T) {
	type testcase struct {
		name       string
		update     *models.Update
		authorized bool
		mockSetup  func(r *MockRegistry, ch *MockCmdHandler)
		wantCalled bool
		wantMsg    *domain.Message
	}

	tests := []testcase{
		{
			name:       "no message in update",
			update:     &models.Update{},
			authorized: true,
			mockSetup: func(_ *MockRegistry, _ *MockCmdHandler) {
				// No call
			},
			wantCalled: false,
			wantMsg:    nil,
		},
		{
			name:       "unknown command",
			update:     makeUpdate("/unknown"),
			authorized: true,
			mockSetup: func(r *MockRegistry, _ *MockCmdHandler) {
				r.On("Get", "/unknown").Return(nil, errors.New("no handler"))
			},
			wantCalled: false,
			wantMsg:    nil,
		},
		{
			name:       "unauthorized chat",
			update:     makeUpdate("/tryon"),
			authorized: false,
			mockSetup: func(r *MockRegistry, _ *MockCmdHandler) {
				r.On("Get", "/tryon").Return(nil, nil)
			},
			wantCalled: false,
			wantMsg:    nil,
		},
		{
			name:       "known command, Respond called successfully",
			update:     makeUpdate("/tryon"),
			authorized: true,
			mockSetup: func(r *MockRegistry, ch *MockCmdHandler) {
				r.On("Get", "/tryon").Return(ch, nil)
				ch.On("Respond", mock.Anything, mock.Anything,
					mock.AnythingOfType("*domain.Message")).Return(nil)
			},
			wantCalled: true,
			wantMsg: &domain.Message{
				ID:       1,
				ChatID:   100,
				Username: "@bob",
				ImageURL: "",
				Text:     "/tryon",
			},
		},
		{
			name:       "known command, Respond returns error",
			update:     makeUpdate("/fail"),
			authorized: true,
			mockSetup: func(r *MockRegistry, ch *MockCmdHandler) {
				r.On("Get", "/fail").Return(ch, nil)
				ch.On("Respond", mock.Anything, mock.Anything,
					mock.AnythingOfType("*domain.Message")).Return(errors.New("fail"))
			},
			wantCalled: true,
			wantMsg:    nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg := new(MockRegistry)
			cmdHandler := new(MockCmdHandler)
			reg.cmd = cmdHandler
			auth := &MockAuthorizer{authorized: tc.authorized}
			tc.mockSetup(reg, cmdHandler)

			ch := NewCommand(reg, auth, 3*time.Second)
			ch.Handle(context.Background(), nil, tc.update)

			// as the Respond() call is a goroutine, wait for finish
			time.Sleep(100 * time.Millisecond)

			reg.AssertExpectations(t)
			if tc.wantCalled {
				if tc.wantMsg != nil {
					cmdHandler.AssertCalled(t, "Respond",
						mock.Anything,
						mock.Anything,
						mock.MatchedBy(func(msg *domain.Message) bool {
							return assert.ObjectsAreEqual(tc.wantMsg, msg)
						}),
					)
				} else {
					cmdHandler.AssertCalled(t, "Respond",
						mock.Anything,
						mock.Anything,
						mock.AnythingOfType("*domain.Message"),
					)
				}
			} else {
				assert.Empty(t, cmdHandler.Calls)
			}
		})
	}
}

type recordingCmd struct {
	command string
	mutex   sync.Mutex
	msg     *domain.Message
}

func (c *recordingCmd) Respond(_ context.Context, _ time.Duration, msg *domain.Message) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.msg = msg
	return nil
}

func (c *recordingCmd) GetCommand() string {
	return c.command
}

func TestCommandHandler_HandleWithDomainRegistry(t *testing.T) {
	cmd := &recordingCmd{command: "/tryon"}
	registry := &domain.CommandRegistry{}
	registry.Register(cmd)

	ch := NewCommand(registry, &MockAuthorizer{authorized: true}, 3*time.Second)
	ch.Handle(context.Background(), nil, makeUpdate("/tryon upper"))

	// as the Respond() call is a goroutine, wait for finish
	time.Sleep(100 * time.Millisecond)

	cmd.mutex.Lock()
	defer cmd.mutex.Unlock()

	require.NotNil(t, cmd.msg)
	assert.Equal(t, "/tryon upper", cmd.msg.Text)
	assert.Equal(t, int64(100), cmd.msg.ChatID)
}

func TestCommandHandler_HandleLogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()
	log.Logger = zerolog.New(zerolog.SyncWriter(&buf))
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	reg := new(MockRegistry)
	cmdHandler := new(MockCmdHandler)
	reg.cmd = cmdHandler
	reg.On("Get", "/fail").Return(cmdHandler, nil)
	cmdHandler.On("Respond", mock.Anything, mock.Anything,
		mock.AnythingOfType("*domain.Message")).Return(errors.New("fail"))

	ch := NewCommand(reg, &MockAuthorizer{authorized: true}, 3*time.Second)
	ch.Handle(context.Background(), nil, makeUpdate("/fail"))

	// as the Respond() call is a goroutine, wait for finish
	time.Sleep(100 * time.Millisecond)

	logged := buf.String()
	assert.Contains(t, logged, `"requestId"`)
	assert.Contains(t, logged, "received command")
	assert.Contains(t, logged, "failed to respond to command")
}

func TestCommandHandler_HandleUsesCaptionForPhotos(t *testing.T) {
	reg := new(MockRegistry)
	cmdHandler := new(MockCmdHandler)
	reg.cmd = cmdHandler
	reg.On("Get", "/unknown").Return(nil, errors.New("no handler"))

	update := &models.Update{
		Message: &models.Message{
			ID:      1,
			Text:    "",
			Caption: "/unknown",
			Photo:   []models.PhotoSize{{FileID: "id1", FileSize: 10}},
			Chat:    models.Chat{ID: 100},
			From:    &models.User{ID: 200, Username: "bob"},
		},
	}

	ch := NewCommand(reg, &MockAuthorizer{authorized: true}, 3*time.Second)
	ch.Handle(context.Background(), nil, update)

	reg.AssertCalled(t, "Get", "/unknown")
}

func Test_largestPhoto(t *testing.T) {
	photos := []models.PhotoSize{
		{FileID: "small", FileSize: 1000},
		{FileID: "medium", FileSize: 50000},
		{FileID: "large", FileSize: 200000},
	}

	assert.Equal(t, "large", largestPhoto(photos))
}

func Test_getUserNameOrFirstName(t *testing.T) {
	tests := []struct {
		name     string
		user     *models.User
		expected string
	}{
		{
			name:     "username present",
			user:     &models.User{Username: "alice", FirstName: "Alice"},
			expected: "@alice",
		},
		{
			name:     "empty username, fallback to first name",
			user:     &models.User{Username: "", FirstName: "Bob"},
			expected: "Bob",
		},
		{
			name:     "nil user",
			user:     nil,
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, getUserNameOrFirstName(tc.user))
		})
	}
}
