package content

import (
	"context"
	"strings"

	"github.com/MdFayaz7/portfolio1/internal/database"
	"github.com/MdFayaz7/portfolio1/internal/errcode"
	"github.com/MdFayaz7/portfolio1/internal/notify"
	"github.com/MdFayaz7/portfolio1/internal/store"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// MessageInput is a contact-form submission.
type MessageInput struct {
	Name    string `json:"name" form:"name" validate:"max=100"`
	Email   string `json:"email" form:"email" validate:"omitempty,email,max=255"`
	Phone   string `json:"phone" form:"phone" validate:"max=32"`
	Subject string `json:"subject" form:"subject" validate:"max=200"`
	Message string `json:"message" form:"message" validate:"omitempty,min=10,max=5000"`
}

var messageMessages = map[string]string{
	"name":    "Name must be at most 100 characters",
	"email":   "Valid email is required",
	"phone":   "Phone must be at most 32 characters",
	"subject": "Subject must be at most 200 characters",
	"message": "Message must be at least 10 characters",
}

func (in *MessageInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
}

func (in *MessageInput) validate() error {
	return check(in, []requirement{
		{"name", in.Name != "", "Name is required"},
		{"email", in.Email != "", "Valid email is required"},
		{"message", in.Message != "", "Message must be at least 10 characters"},
	}, messageMessages)
}

// Origin records where a submission came from.
type Origin struct {
	IPAddress string
	UserAgent string
}

// Pagination describes a page of messages.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}

// MessageService manages the contact inbox.
type MessageService struct {
	*shared
	store    store.Store[database.Message]
	notifier notify.Notifier
}

// Create stores a submission and hands it to the notifier. Notification
// failures never reach the caller.
func (s *MessageService) Create(ctx context.Context, in MessageInput, origin Origin) (*database.Message, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	m := &database.Message{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Subject:   in.Subject,
		Body:      in.Message,
		Status:    database.MessageNew,
		IPAddress: origin.IPAddress,
		UserAgent: origin.UserAgent,
	}
	if err := s.store.Insert(ctx, m); err != nil {
		return nil, errcode.Wrap(errcode.Internal, "Server error while sending message", err)
	}
	s.notifier.Notify(ctx, *m)
	return m, nil
}

// List pages through messages newest first, optionally filtered by status.
func (s *MessageService) List(ctx context.Context, status string, page, limit int) ([]database.Message, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	where := map[string]any{}
	if status = strings.TrimSpace(status); status != "" {
		where["status"] = status
	}

	items, err := s.store.Find(ctx, store.Query{
		Where:  where,
		Sort:   []store.Sort{{Field: "created_at", Desc: true}},
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, Pagination{}, errcode.Wrap(errcode.Internal, "Server error while fetching messages", err)
	}
	total, err := s.store.Count(ctx, where)
	if err != nil {
		return nil, Pagination{}, errcode.Wrap(errcode.Internal, "Server error while fetching messages", err)
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return items, Pagination{Current: page, Pages: pages, Total: total}, nil
}

// Get returns one message, marking it read on first view.
func (s *MessageService) Get(ctx context.Context, id string) (*database.Message, error) {
	m, err := load(ctx, s.store, id, "Message not found", "Server error while fetching message")
	if err != nil {
		return nil, err
	}
	if m.Status == database.MessageNew {
		m.Status = database.MessageRead
		if err := s.store.Save(ctx, m); err != nil {
			return nil, errcode.Wrap(errcode.Internal, "Server error while fetching message", err)
		}
	}
	return m, nil
}

// SetStatus overwrites the status with any valid value.
func (s *MessageService) SetStatus(ctx context.Context, id, status string) (*database.Message, error) {
	status = strings.TrimSpace(status)
	switch status {
	case database.MessageNew, database.MessageRead, database.MessageReplied:
	default:
		return nil, errcode.Invalid(FieldError{Field: "status", Message: "Status must be one of new, read, replied"})
	}
	m, err := load(ctx, s.store, id, "Message not found", "Server error while updating message status")
	if err != nil {
		return nil, err
	}
	m.Status = status
	if err := s.store.Save(ctx, m); err != nil {
		return nil, errcode.Wrap(errcode.Internal, "Server error while updating message status", err)
	}
	return m, nil
}

// Delete removes a message permanently.
func (s *MessageService) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.shared, s.store, id, "Message not found", "Server error while deleting message")
}
