package auth

import (
	"context"
	"sync"

	"github.com/mendeley/client-go/internal/apierrors"
)

// Static serves a token obtained elsewhere, such as a personal access token
// taken from the environment. Authenticate drops it for good.
type Static struct {
	mu    sync.RWMutex
	token string
}

// NewStatic returns a provider for token.
func NewStatic(token string) *Static {
	return &Static{token: token}
}

func (s *Static) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Static) Authenticate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

func (s *Static) RefreshToken(ctx context.Context) error {
	return apierrors.ErrRefreshUnsupported
}
