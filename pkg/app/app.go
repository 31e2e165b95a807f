package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Galaxyraider20/personal-smart-assistant/pkg/api"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/calendar"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/chat"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/identity"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/loader"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/logging"
	"github.com/Galaxyraider20/personal-smart-assistant/pkg/store"
)

// Service wires configuration, identity, the backend client and the session
// store so the CLI and the TUI build loaders and chat controllers the same
// way.
type Service struct {
	Config   *store.Config
	Client   *api.Client
	Identity identity.Provider
	Session  store.Session
	Log      *slog.Logger

	weekStart calendar.WeekStart
	loc       *time.Location
}

var (
	// ErrNoSession means the service was built without a session store.
	ErrNoSession = errors.New("app: no session store configured")
	// ErrHistoryUnavailable accompanies a usable controller whose stored
	// messages could not be fetched.
	ErrHistoryUnavailable = errors.New("app: conversation history unavailable")
)

// historyLimit caps the messages restored when a conversation resumes.
const historyLimit = 50

// Open builds a Service from cfg.
func Open(cfg *store.Config, logger *slog.Logger) (*Service, error) {
	if cfg == nil {
		cfg = store.DefaultConfig()
	}
	cfg.Normalize()
	logger = logging.OrDiscard(logger)

	provider, err := identity.FromConfig(cfg.Token, cfg.TokenFile)
	if err != nil {
		return nil, err
	}
	client, err := api.New(cfg.APIURL,
		api.WithIdentity(provider),
		api.WithTimeout(cfg.TimeoutDuration()),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	session, err := store.OpenSession(cfg.SessionPath)
	if err != nil {
		return nil, err
	}
	ws, err := calendar.ParseWeekStart(cfg.WeekStart)
	if err != nil {
		return nil, err
	}

	return &Service{
		Config:    cfg,
		Client:    client,
		Identity:  provider,
		Session:   session,
		Log:       logger,
		weekStart: ws,
		loc:       cfg.Location(),
	}, nil
}

// WeekStart is the configured first grid column.
func (s *Service) WeekStart() calendar.WeekStart { return s.weekStart }

// Location is the viewer's time zone.
func (s *Service) Location() *time.Location {
	if s.loc == nil {
		return time.Local
	}
	return s.loc
}

// Now is the current time in the viewer's zone.
func (s *Service) Now() time.Time { return time.Now().In(s.Location()) }

// NewLoader returns a range loader bound to the backend.
func (s *Service) NewLoader() *loader.Loader {
	return loader.New(s.Client, loader.WithLocation(s.Location()), loader.WithLogger(s.Log))
}

// UserID resolves the chat user: the configured id, else the stored
// anonymous one.
func (s *Service) UserID() (string, error) {
	if s.Config != nil && s.Config.UserID != "" {
		return s.Config.UserID, nil
	}
	if s.Session == nil {
		return "", ErrNoSession
	}
	return s.Session.UserID()
}

// NewChat returns a chat controller. With resume the stored conversation is
// continued.
func (s *Service) NewChat(resume bool) (*chat.Controller, error) {
	userID, err := s.UserID()
	if err != nil {
		return nil, fmt.Errorf("app: resolve user: %w", err)
	}
	opts := []chat.Option{chat.WithLogger(s.Log)}
	if resume && s.Session != nil {
		opts = append(opts, chat.WithContinuityToken(s.Session.Conversation()))
	}
	return chat.New(s.Client, userID, opts...), nil
}

// ResumeChat continues the stored conversation and restores its messages
// from the backend. When only the history fetch fails the controller is
// still returned, together with an error wrapping ErrHistoryUnavailable; the
// conversation then continues with an empty pane.
func (s *Service) ResumeChat(ctx context.Context) (*chat.Controller, error) {
	userID, err := s.UserID()
	if err != nil {
		return nil, fmt.Errorf("app: resolve user: %w", err)
	}
	opts := []chat.Option{chat.WithLogger(s.Log)}
	token := ""
	if s.Session != nil {
		token = s.Session.Conversation()
	}
	if token == "" {
		return chat.New(s.Client, userID, opts...), nil
	}
	opts = append(opts, chat.WithContinuityToken(token))

	history, herr := s.Client.ConversationHistory(ctx, token, userID, historyLimit)
	if herr != nil {
		s.Log.Warn("restore conversation history", "conversation", token, "err", herr)
		return chat.New(s.Client, userID, opts...), fmt.Errorf("%w: %w", ErrHistoryUnavailable, herr)
	}
	opts = append(opts, chat.WithHistory(chat.FromHistory(history)))
	return chat.New(s.Client, userID, opts...), nil
}

// RememberConversation persists the controller's continuity token so the
// next process continues the conversation.
func (s *Service) RememberConversation(st chat.State) error {
	if s.Session == nil {
		return ErrNoSession
	}
	if st.ContinuityToken == "" {
		return nil
	}
	return s.Session.SetConversation(st.ContinuityToken)
}

// ForgetConversation drops the stored continuity token.
func (s *Service) ForgetConversation() error {
	if s.Session == nil {
		return ErrNoSession
	}
	return s.Session.SetConversation("")
}

// AuthStatus asks the backend whether a calendar account is linked.
func (s *Service) AuthStatus(ctx context.Context) (api.AuthStatus, error) {
	return s.Client.AuthStatus(ctx)
}

// WatchIdentity reports token file changes. It returns nil when the
// credential does not come from a file.
func (s *Service) WatchIdentity(ctx context.Context) (<-chan identity.Change, error) {
	f, ok := s.Identity.(*identity.File)
	if !ok {
		return nil, nil
	}
	return f.Watch(ctx)
}
