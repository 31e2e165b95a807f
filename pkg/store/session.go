package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/peterbourgon/diskv/v3"
)

const (
	userIDKey       = "identity-user_id"
	conversationKey = "chat-conversation_id"

	anonymousPrefix = "anon_"
)

// Session persists the small amount of client state that outlives a process:
// the anonymous user id and the id of the last chat conversation.
type Session interface {
	// UserID returns the stored user id, creating an anonymous one on first use.
	UserID() (string, error)
	// Conversation returns the last conversation id, empty when none is stored.
	Conversation() string
	// SetConversation stores id. An empty id clears it.
	SetConversation(id string) error
	// BasePath is the directory holding the session files.
	BasePath() string
}

// OpenSession creates a Session backed by diskv under basePath.
func OpenSession(basePath string) (Session, error) {
	if basePath == "" {
		return nil, errors.New("store: session path is empty")
	}
	expanded, err := homedir.Expand(basePath)
	if err != nil {
		return nil, fmt.Errorf("store: expand session path: %w", err)
	}
	if err := os.MkdirAll(expanded, 0o700); err != nil {
		return nil, fmt.Errorf("store: ensure session path: %w", err)
	}
	return &session{d: diskv.New(diskv.Options{
		BasePath:          expanded,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      64 * 1024,
		FilePerm:          0o600,
		PathPerm:          0o700,
	}), basePath: expanded}, nil
}

type session struct {
	d        *diskv.Diskv
	basePath string
}

func (s *session) BasePath() string { return s.basePath }

func (s *session) UserID() (string, error) {
	if id := s.read(userIDKey); id != "" {
		return id, nil
	}
	id := anonymousPrefix + uuid.NewString()
	if err := s.d.WriteString(userIDKey, id); err != nil {
		return "", fmt.Errorf("store: persist user id: %w", err)
	}
	return id, nil
}

func (s *session) Conversation() string {
	return s.read(conversationKey)
}

func (s *session) SetConversation(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		if !s.d.Has(conversationKey) {
			return nil
		}
		return s.d.Erase(conversationKey)
	}
	return s.d.WriteString(conversationKey, id)
}

func (s *session) read(key string) string {
	if !s.d.Has(key) {
		return ""
	}
	return strings.TrimSpace(s.d.ReadString(key))
}

// keyToPathTransform stores `group-name` keys as group/name.
func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// IsAnonymous reports whether id was generated locally rather than configured.
func IsAnonymous(id string) bool {
	return strings.HasPrefix(id, anonymousPrefix)
}
