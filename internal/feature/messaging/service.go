// Package messaging 站内私信：联系人推导、推荐联系人与会话。
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"gp-immo/internal/core/storage"
	"gp-immo/internal/domain"
	"gp-immo/pkg/utils"
)

const inboxLatest = 6

type SendInput struct {
	Content    string
	Kind       domain.MessageKind
	Attachment *storage.File
}

type Contact struct {
	domain.User
	DisplayName string `json:"displayName"`
	Suggested   bool   `json:"suggested"`
}

type Inbox struct {
	Contacts  []Contact        `json:"contacts"`
	Suggested []Contact        `json:"suggested"`
	Latest    []domain.Message `json:"latest"`
}

type Service struct {
	users       domain.UserRepository
	messages    domain.MessageRepository
	assignments domain.AssignmentRepository
	store       storage.ObjectStore
	now         func() time.Time
	log         *zap.Logger
}

func NewService(users domain.UserRepository, messages domain.MessageRepository, assignments domain.AssignmentRepository,
	store storage.ObjectStore, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{users: users, messages: messages, assignments: assignments, store: store, now: time.Now, log: l}
}

// Contacts 与 actor 有过往来的其他用户（集合，不含 actor 自己）
func (s *Service) Contacts(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	pairs, err := s.messages.Correspondences(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list correspondences: %w", err)
	}
	ids := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		if p.SenderID == actor.ID {
			ids[p.ReceiverID] = struct{}{}
		}
		if p.ReceiverID == actor.ID {
			ids[p.SenderID] = struct{}{}
		}
	}
	delete(ids, actor.ID)
	users, err := s.users.FindByIDs(ctx, sortedKeys(ids))
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}
	return users, nil
}

// Suggested owner → 自己房源上指派过的 prestataire；prestataire → 被指派房源的 owner。
// 不看 active，历史关联也算。
func (s *Service) Suggested(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	seen := map[string]domain.User{}
	switch actor.Role {
	case domain.RoleOwner:
		as, err := s.assignments.ListByOwner(ctx, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("list owner assignments: %w", err)
		}
		for _, a := range as {
			if a.Provider != nil {
				seen[a.Provider.ID] = *a.Provider
			}
		}
	case domain.RoleProvider:
		as, err := s.assignments.ListByProvider(ctx, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("list provider assignments: %w", err)
		}
		for _, a := range as {
			if a.Property != nil && a.Property.Owner != nil {
				seen[a.Property.Owner.ID] = *a.Property.Owner
			}
		}
	case domain.RoleStaff:
	default:
		return nil, domain.UnknownRole(actor.Role)
	}
	delete(seen, actor.ID)
	out := make([]domain.User, 0, len(seen))
	for _, u := range seen {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// Inbox 完整联系人 + 推荐（仅作提示，不过滤）+ 最近消息
func (s *Service) Inbox(ctx context.Context, actor *domain.User) (Inbox, error) {
	contacts, err := s.Contacts(ctx, actor)
	if err != nil {
		return Inbox{}, err
	}
	suggested, err := s.Suggested(ctx, actor)
	if err != nil {
		return Inbox{}, err
	}
	latest, err := s.Latest(ctx, actor, inboxLatest)
	if err != nil {
		return Inbox{}, err
	}
	hint := make(map[string]bool, len(suggested))
	out := Inbox{Contacts: make([]Contact, 0, len(contacts)), Suggested: make([]Contact, 0, len(suggested)), Latest: latest}
	for i := range suggested {
		hint[suggested[i].ID] = true
		out.Suggested = append(out.Suggested, Contact{User: suggested[i], DisplayName: suggested[i].DisplayName(), Suggested: true})
	}
	for i := range contacts {
		out.Contacts = append(out.Contacts, Contact{User: contacts[i], DisplayName: contacts[i].DisplayName(), Suggested: hint[contacts[i].ID]})
	}
	return out, nil
}

// Latest 收发消息按时间倒序
func (s *Service) Latest(ctx context.Context, actor *domain.User, limit int) ([]domain.Message, error) {
	out, err := s.messages.ListInvolving(ctx, actor.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return out, nil
}

func (s *Service) peer(ctx context.Context, id string) (*domain.User, error) {
	other, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if other == nil {
		return nil, domain.ErrNotFound
	}
	return other, nil
}

// Conversation 双方之间的消息，按时间正序
func (s *Service) Conversation(ctx context.Context, actor *domain.User, otherID string) ([]domain.Message, error) {
	other, err := s.peer(ctx, otherID)
	if err != nil {
		return nil, err
	}
	out, err := s.messages.Between(ctx, actor.ID, other.ID)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	return out, nil
}

func (s *Service) Send(ctx context.Context, actor *domain.User, otherID string, in SendInput) (*domain.Message, error) {
	other, err := s.peer(ctx, otherID)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" && in.Attachment == nil {
		return nil, domain.Required("content")
	}
	if in.Kind == "" {
		in.Kind = domain.MessageText
	}
	if !in.Kind.Valid() {
		return nil, domain.Invalid("invalid message kind")
	}
	m := &domain.Message{
		ID:         utils.NewID(),
		SenderID:   actor.ID,
		ReceiverID: other.ID,
		Content:    content,
		Kind:       in.Kind,
	}
	if in.Attachment != nil {
		if s.store == nil {
			return nil, errors.New("attachment storage not configured")
		}
		key := storage.Key(storage.CategoryMessage, actor.ID, in.Attachment.Filename, s.now())
		if err := storage.Save(ctx, s.store, key, *in.Attachment); err != nil {
			return nil, fmt.Errorf("store message attachment: %w", err)
		}
		m.AttachmentPath = key
	}
	if err := s.messages.Create(ctx, m); err != nil {
		if m.AttachmentPath != "" {
			_ = s.store.Delete(ctx, m.AttachmentPath)
		}
		return nil, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
