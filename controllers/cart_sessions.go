package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"pos/cart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionCookie = "pos_session"

type cartSession struct {
	cart     *cart.Cart
	lastSeen time.Time
}

// CartSessions owns one cart per checkout session. Carts live in memory
// only. Every access holds the lock for its whole duration, so updates
// to a session apply one at a time in arrival order.
type CartSessions struct {
	mu    sync.Mutex
	carts map[string]*cartSession
	now   func() time.Time
}

func NewCartSessions() *CartSessions {
	return &CartSessions{
		carts: make(map[string]*cartSession),
		now:   time.Now,
	}
}

// Do runs fn with the cart of session key, moved onto catalog first so
// it prices from current product data. A missing cart is created empty.
// The lookup and fn run under one lock acquisition.
func (s *CartSessions) Do(key string, catalog *cart.Catalog, fn func(*cart.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.carts[key]
	if ok {
		sess.cart.Rebase(catalog)
	} else {
		sess = &cartSession{cart: cart.New(catalog)}
		s.carts[key] = sess
	}
	sess.lastSeen = s.now()
	return fn(sess.cart)
}

func (s *CartSessions) Drop(id string) {
	s.mu.Lock()
	delete(s.carts, id)
	s.mu.Unlock()
}

func (s *CartSessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

// Sweep drops carts idle for longer than ttl and reports how many.
func (s *CartSessions) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-ttl)
	dropped := 0
	for id, sess := range s.carts {
		if sess.lastSeen.Before(cutoff) {
			delete(s.carts, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps idle carts every interval until ctx is done.
func (s *CartSessions) Run(ctx context.Context, ttl, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(ttl); n > 0 {
				logger.Info("dropped idle carts", zap.Int("count", n))
			}
		}
	}
}

// sessionKey identifies the caller's cart: the signed-in user plus the
// terminal's session cookie, issued here when missing.
func sessionKey(c *gin.Context) string {
	id, err := c.Cookie(sessionCookie)
	if err == nil {
		_, err = uuid.Parse(id)
	}
	if err != nil {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	}
	return c.GetString("userId") + "/" + id
}

// endSession drops the caller's cart and expires the session cookie.
func endSession(c *gin.Context, sessions *CartSessions) {
	if id, err := c.Cookie(sessionCookie); err == nil {
		sessions.Drop(c.GetString("userId") + "/" + id)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}
