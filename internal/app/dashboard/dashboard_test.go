package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/vpn-dashboard/internal/config"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/jwt"
)

func TestNewRouteOptions(t *testing.T) {
	cfg := &config.Config{
		HTTPServer:     config.HTTPServer{CookieSecure: true},
		LoginRateLimit: config.LoginRateLimit{RPS: 2, Burst: 5},
	}
	maker := jwt.NewJWTMaker("secret", 90*time.Minute)

	opts := newRouteOptions(cfg, maker)

	assert.True(t, opts.CookieSecure)
	assert.Equal(t, 90*time.Minute, opts.SessionTTL)
	require.NotNil(t, opts.LoginLimiter)
	assert.Equal(t, rate.Limit(2), opts.LoginLimiter.Limit())
	assert.Equal(t, 5, opts.LoginLimiter.Burst())
}
