package restriction

import (
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/time/rate"
)

const (
	MinMuteDuration     = time.Minute
	DefaultWarnCooldown = 5 * time.Second
)

type warnLimiters = xsync.MapOf[string, *rate.Limiter]

// Store tracks soft mutes and the per-channel warning throttle of muted users.
// Every method is a single atomic step with respect to concurrent callers.
type Store struct {
	mutes    *xsync.MapOf[string, time.Time]
	warns    *xsync.MapOf[string, *warnLimiters]
	cooldown time.Duration
	now      func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithWarnCooldown(cooldown time.Duration) Option {
	return func(s *Store) {
		if cooldown > 0 {
			s.cooldown = cooldown
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		mutes:    xsync.NewMapOf[string, time.Time](),
		warns:    xsync.NewMapOf[string, *warnLimiters](),
		cooldown: DefaultWarnCooldown,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MuteFor mutes userID for d, never less than MinMuteDuration, replacing any
// previous expiry. It returns the new expiry.
func (s *Store) MuteFor(userID string, d time.Duration) time.Time {
	if d < MinMuteDuration {
		d = MinMuteDuration
	}
	expiry := s.now().Add(d)
	s.mutes.Store(userID, expiry)
	return expiry
}

// IsMuted reports whether userID is muted at now and the whole seconds left,
// rounded up. An expired entry is dropped on the way.
func (s *Store) IsMuted(userID string, now time.Time) (bool, int) {
	var (
		remaining time.Duration
		expired   bool
	)
	_, muted := s.mutes.Compute(userID, func(expiry time.Time, loaded bool) (time.Time, bool) {
		if !loaded {
			return expiry, true
		}
		if !now.Before(expiry) {
			expired = true
			return expiry, true
		}
		remaining = expiry.Sub(now)
		return expiry, false
	})
	if expired {
		s.warns.Delete(userID)
	}
	if !muted {
		return false, 0
	}
	return true, ceilSeconds(remaining)
}

// ClearMute drops the mute of userID, if any.
func (s *Store) ClearMute(userID string) {
	s.mutes.Delete(userID)
	s.warns.Delete(userID)
}

// ShouldWarn allows one warning per user and channel per cooldown. A denied
// call leaves the throttle untouched.
func (s *Store) ShouldWarn(userID, channelID string, now time.Time) bool {
	channels, _ := s.warns.LoadOrCompute(userID, func() *warnLimiters {
		return xsync.NewMapOf[string, *rate.Limiter]()
	})
	limiter, _ := channels.LoadOrCompute(channelID, func() *rate.Limiter {
		return rate.NewLimiter(rate.Every(s.cooldown), 1)
	})
	return limiter.AllowN(now, 1)
}

// Len is the number of tracked mutes, expired ones included until next read.
func (s *Store) Len() int {
	return s.mutes.Size()
}

func ceilSeconds(d time.Duration) int {
	seconds := int(d / time.Second)
	if d%time.Second > 0 {
		seconds++
	}
	return seconds
}
