package memory

import (
	"context"
	"strconv"
	"time"

	"field-survey-bot/internal/repository/contract"
	"field-survey-bot/pkg/survey"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
	locks *chatLocks
}

var _ contract.SurveySessionRepository = (*SessionRepository)(nil)

// NewSessionRepository keeps sessions in memory. With a positive idleTTL a
// session not saved for that long is evicted; zero keeps sessions until they
// complete or reset.
func NewSessionRepository(idleTTL time.Duration) *SessionRepository {
	expiration := cache.NoExpiration
	var cleanup time.Duration
	if idleTTL > 0 {
		expiration = idleTTL
		cleanup = idleTTL / 2
		if cleanup < time.Second {
			cleanup = time.Second
		}
	}
	return &SessionRepository{
		cache: cache.New(expiration, cleanup),
		locks: newChatLocks(),
	}
}

// OnEvicted registers a callback for sessions dropped by idle expiry or Delete.
func (r *SessionRepository) OnEvicted(fn func(chatID int64)) {
	r.cache.OnEvicted(func(key string, _ interface{}) {
		if id, err := strconv.ParseInt(key, 10, 64); err == nil {
			fn(id)
		}
	})
}

func (r *SessionRepository) Lock(ctx context.Context, chatID int64) (func(), error) {
	return r.locks.lock(ctx, chatID)
}

func (r *SessionRepository) GetOrCreate(chatID int64) *survey.Session {
	key := sessionKey(chatID)
	if x, found := r.cache.Get(key); found {
		return x.(*survey.Session)
	}
	s := survey.NewSession(chatID)
	if err := r.cache.Add(key, s, cache.DefaultExpiration); err != nil {
		// Lost a creation race; the stored session wins.
		if x, found := r.cache.Get(key); found {
			return x.(*survey.Session)
		}
		r.cache.Set(key, s, cache.DefaultExpiration)
	}
	return s
}

// Save refreshes the idle timer of a session.
func (r *SessionRepository) Save(session *survey.Session) {
	r.cache.Set(sessionKey(session.ChatID), session, cache.DefaultExpiration)
}

func (r *SessionRepository) Delete(chatID int64) {
	r.cache.Delete(sessionKey(chatID))
}

func (r *SessionRepository) Exists(chatID int64) bool {
	_, found := r.cache.Get(sessionKey(chatID))
	return found
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}

func sessionKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
