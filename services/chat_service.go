// Package services exposes the session-level API: an explicit context
// object holding the backend adapter and the local identity, owning the
// lifecycle of every joined chat. There is no process-wide registry;
// callers construct a ChatService and dispose of it.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"chatstream/contract"
	"chatstream/domain"
	cerrors "chatstream/errors"
	"chatstream/runtime"
)

var validate = validator.New()

type IChatService interface {
	CreateChat(ctx context.Context, cmd CreateChatCommand) (*runtime.Chat, error)
	Join(ctx context.Context, chatID string) (*runtime.Chat, error)
	LeaveChat(ctx context.Context, chat *runtime.Chat) error
	Chat(chatID string) (*runtime.Chat, bool)
	Close()
}

// CreateChatCommand describes a new chat. Members are added with their
// configured roles; the creator always becomes the owner.
type CreateChatCommand struct {
	Name       string `validate:"required"`
	ImageURL   string `validate:"omitempty,url"`
	CustomData map[string]any
	Members    []domain.User
	SendInvite bool
}

type ChatService struct {
	mu      sync.Mutex
	log     *slog.Logger
	adapter contract.BackendAdapter
	me      domain.User
	opts    runtime.Options
	chats   map[string]*runtime.Chat
	closed  bool
}

func NewChatService(me domain.User, adapter contract.BackendAdapter, log *slog.Logger, opts runtime.Options) *ChatService {
	return &ChatService{
		log:     log,
		adapter: adapter,
		me:      me,
		opts:    opts,
		chats:   make(map[string]*runtime.Chat),
	}
}

// CreateChat writes the chat metadata and the creator's owner entry, then
// joins the new chat and adds the remaining members.
func (s *ChatService) CreateChat(ctx context.Context, cmd CreateChatCommand) (*runtime.Chat, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}

	chatID := uuid.NewString()
	meta := domain.Meta{
		Name:     cmd.Name,
		ImageURL: cmd.ImageURL,
		Created:  time.Now().UTC(),
		Data:     cmd.CustomData,
	}
	if err := s.adapter.Write(ctx, domain.ChatMetaPath(chatID), meta.Fields()); err != nil {
		return nil, fmt.Errorf("create chat: %w: %v", cerrors.ErrTransport, err)
	}

	creator := s.me
	creator.Role = domain.RoleOwner
	if err := s.adapter.Write(ctx, domain.ChatUserPath(chatID, creator.ID), creator.RosterFields()); err != nil {
		return nil, fmt.Errorf("create chat: %w: %v", cerrors.ErrTransport, err)
	}

	chat, err := s.Join(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if len(cmd.Members) > 0 {
		if err := chat.AddUsers(ctx, cmd.SendInvite, cmd.Members...); err != nil {
			return nil, err
		}
	}
	return chat, nil
}

// Join binds a chat and registers it with the session. Joining a chat
// that is already open returns the open instance.
func (s *ChatService) Join(ctx context.Context, chatID string) (*runtime.Chat, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("join: %w", cerrors.ErrClosedChat)
	}
	if chat, ok := s.chats[chatID]; ok {
		s.mu.Unlock()
		return chat, nil
	}
	s.mu.Unlock()

	chat := runtime.NewChat(chatID, s.me.ID, s.adapter, s.log, s.opts)
	if err := chat.Join(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.chats[chatID] = chat
	s.mu.Unlock()
	s.log.Debug("chat joined", "chat", chatID, "user", s.me.ID)
	return chat, nil
}

// LeaveChat removes the local user from the chat's roster and drops the
// chat from the session.
func (s *ChatService) LeaveChat(ctx context.Context, chat *runtime.Chat) error {
	if err := chat.Leave(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.chats, chat.ID())
	s.mu.Unlock()
	return nil
}

func (s *ChatService) Chat(chatID string) (*runtime.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[chatID]
	return chat, ok
}

// Close disposes every open chat without writing to the backend. Safe to
// call multiple times.
func (s *ChatService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	chats := s.chats
	s.chats = make(map[string]*runtime.Chat)
	s.mu.Unlock()

	for _, chat := range chats {
		chat.Close()
	}
}

var _ IChatService = (*ChatService)(nil)
