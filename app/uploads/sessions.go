package uploads

import (
	"sync"
	"time"

	"github.com/axisni/chartdash/app/charts"
	"github.com/axisni/chartdash/app/common"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Session is the state of one upload: the merged rows and the charts
// configured over them. Every upload gets a new session.
type Session struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"createdAt"`
	Result    Result        `json:"result"`
	Charts    []charts.Spec `json:"charts"`
}

// SessionStore keeps sessions in memory until they expire.
type SessionStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{cache: cache.New(ttl, 2*ttl)}
}

// Create stores res under a fresh id, starting with one default chart.
func (s *SessionStore) Create(res Result) Session {
	spec := charts.DefaultSpec(res.Merged.Columns)
	spec.Title = "Chart 1"
	sess := Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Result:    res,
		Charts:    []charts.Spec{spec},
	}
	s.cache.Set(sess.ID, sess, cache.DefaultExpiration)
	return sess
}

func (s *SessionStore) Get(id string) (Session, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return Session{}, false
	}
	return v.(Session), true
}

// SetChart stores spec at position i, appending when i equals the chart
// count. It refreshes the session's expiry.
func (s *SessionStore) SetChart(id string, i int, spec charts.Spec) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.Get(id)
	if !ok {
		return Session{}, common.NotFound("upload session %q not found or expired", id)
	}
	switch {
	case i >= 0 && i < len(sess.Charts):
		sess.Charts = append([]charts.Spec(nil), sess.Charts...)
		sess.Charts[i] = spec
	case i == len(sess.Charts):
		sess.Charts = append(append([]charts.Spec(nil), sess.Charts...), spec)
	default:
		return Session{}, common.BadRequest("chart %d out of range", i)
	}
	s.cache.Set(id, sess, cache.DefaultExpiration)
	return sess, nil
}

// RemoveChart deletes the chart at position i.
func (s *SessionStore) RemoveChart(id string, i int) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.Get(id)
	if !ok {
		return Session{}, common.NotFound("upload session %q not found or expired", id)
	}
	if i < 0 || i >= len(sess.Charts) {
		return Session{}, common.BadRequest("chart %d out of range", i)
	}
	kept := make([]charts.Spec, 0, len(sess.Charts)-1)
	kept = append(kept, sess.Charts[:i]...)
	sess.Charts = append(kept, sess.Charts[i+1:]...)
	s.cache.Set(id, sess, cache.DefaultExpiration)
	return sess, nil
}
