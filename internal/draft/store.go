// Package draft persists a user's in-progress configuration answers per
// module, scoped per authenticated identity. Drafts survive restarts but not
// explicit reset or sign-out; persistence is a best-effort cache, never a
// system of record.
package draft

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"turbosap-client/internal/common/errors"
	"turbosap-client/internal/common/logger"
	"turbosap-client/internal/common/metrics"
	"turbosap-client/internal/common/storage"
	"turbosap-client/internal/models"
)

// AnonymousUser is the userKey used when no identity is signed in.
const AnonymousUser = "anonymous"

// scopeState is the lifecycle of one (module, user) scope. Writes are only
// accepted once the scope is Ready, which Load establishes; this guarantees
// read-before-write ordering so a default initial state can never clobber a
// previously saved draft.
type scopeState int

const (
	scopeUninitialized scopeState = iota
	scopeReady
)

// Store is the per-user, per-module draft persistence layer.
type Store struct {
	backend storage.KV
	logger  logger.Logger
	version string

	mu     sync.Mutex
	scopes map[string]scopeState
}

func NewStore(backend storage.KV, version string, log logger.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  log.WithFields(map[string]interface{}{"component": "draft-store"}),
		version: version,
		scopes:  make(map[string]scopeState),
	}
}

// Load reads the stored draft for (module, userKey) and marks the scope
// Ready. Absence, a corrupt document, and a backend read failure all return
// nil: restoring state is best-effort and never blocks the caller.
func (s *Store) Load(ctx context.Context, module models.Module, userKey string) *models.Draft {
	key := s.draftKey(module, userKey)
	defer s.markReady(module, userKey)

	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		if err != storage.ErrNotFound {
			metrics.DraftLoadFailures.WithLabelValues(string(module)).Inc()
			s.logger.Warn("draft read failed, starting empty", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return nil
	}

	var d models.Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		metrics.DraftLoadFailures.WithLabelValues(string(module)).Inc()
		s.logger.Warn("draft corrupt, starting empty", map[string]interface{}{
			"key":   key,
			"error": errors.NewDraftCorruptError(key, err).Details,
		})
		return nil
	}

	// json.Unmarshal restores UpdatedAt as a real time.Time via RFC 3339;
	// a zero value only appears for drafts written before the field existed.
	if d.Answers == nil {
		d.Answers = map[string]models.Answer{}
	}
	return &d
}

// Save serializes and writes the draft. It is a no-op when the draft has no
// session id (an unstarted session is never written) or when the scope has
// not been hydrated yet. Write failures are logged and swallowed.
func (s *Store) Save(ctx context.Context, module models.Module, userKey string, d *models.Draft) {
	if d == nil || d.SessionID == "" {
		return
	}
	if !s.isReady(module, userKey) {
		s.logger.Warn("save before hydration ignored", map[string]interface{}{
			"scope": s.scopeKey(module, userKey),
		})
		return
	}

	d.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(d)
	if err != nil {
		s.logger.Warn("draft encode failed", map[string]interface{}{
			"scope": s.scopeKey(module, userKey),
			"error": err.Error(),
		})
		return
	}

	key := s.draftKey(module, userKey)
	if err := s.backend.Set(ctx, key, string(raw)); err != nil {
		s.logger.Warn("draft write failed", map[string]interface{}{
			"key":   key,
			"error": errors.NewDraftWriteFailedError(key, err).Details,
		})
		return
	}
	metrics.DraftSaves.WithLabelValues(string(module)).Inc()
}

// Clear removes the draft and the separately tracked session-id pointer for
// the scope.
func (s *Store) Clear(ctx context.Context, module models.Module, userKey string) {
	keys := []string{s.draftKey(module, userKey), s.sessionKey(module, userKey)}
	if err := s.backend.Del(ctx, keys...); err != nil {
		s.logger.Warn("draft clear failed", map[string]interface{}{
			"scope": s.scopeKey(module, userKey),
			"error": err.Error(),
		})
	}
}

// SessionID returns the persisted session id for the scope, or "".
func (s *Store) SessionID(ctx context.Context, module models.Module, userKey string) string {
	id, err := s.backend.Get(ctx, s.sessionKey(module, userKey))
	if err != nil {
		return ""
	}
	return id
}

// SetSessionID persists the session-id pointer for the scope.
func (s *Store) SetSessionID(ctx context.Context, module models.Module, userKey, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.backend.Set(ctx, s.sessionKey(module, userKey), sessionID); err != nil {
		s.logger.Warn("session id write failed", map[string]interface{}{
			"scope": s.scopeKey(module, userKey),
			"error": err.Error(),
		})
	}
}

// Teardown clears an explicit list of module scopes for a user. The sign-out
// path passes models.AllModules; nothing here knows about auth state.
func (s *Store) Teardown(ctx context.Context, userKey string, mods ...models.Module) {
	for _, m := range mods {
		s.Clear(ctx, m, userKey)
	}
	s.mu.Lock()
	for _, m := range mods {
		delete(s.scopes, s.scopeKey(m, userKey))
	}
	s.mu.Unlock()
	s.logger.Info("drafts cleared", map[string]interface{}{
		"userKey": normalizeUser(userKey),
		"modules": len(mods),
	})
}

func (s *Store) draftKey(module models.Module, userKey string) string {
	return string(module) + ".draft." + s.version + "." + normalizeUser(userKey)
}

func (s *Store) sessionKey(module models.Module, userKey string) string {
	return string(module) + ".sessionId." + normalizeUser(userKey)
}

func (s *Store) scopeKey(module models.Module, userKey string) string {
	return string(module) + "/" + normalizeUser(userKey)
}

func (s *Store) markReady(module models.Module, userKey string) {
	s.mu.Lock()
	s.scopes[s.scopeKey(module, userKey)] = scopeReady
	s.mu.Unlock()
}

func (s *Store) isReady(module models.Module, userKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scopes[s.scopeKey(module, userKey)] == scopeReady
}

func normalizeUser(userKey string) string {
	if userKey == "" {
		return AnonymousUser
	}
	return userKey
}
