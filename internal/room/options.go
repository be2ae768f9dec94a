package room

import (
	"time"

	"github.com/robalobadob/abalone/apps/go-server/internal/events"
	"github.com/robalobadob/abalone/apps/go-server/internal/game"
	"github.com/robalobadob/abalone/apps/go-server/internal/ticket"
)

// Defaults applied to zero Options fields.
const (
	DefaultGracePeriod   = 60 * time.Second
	DefaultPostWinDelay  = 5 * time.Minute
	DefaultIdleTimeout   = 30 * time.Minute
	DefaultSweepInterval = time.Minute
	DefaultChatMaxLen    = 500
)

// Options configures rooms and the registry that owns them.
type Options struct {
	GracePeriod   time.Duration // disconnect → destroy
	PostWinDelay  time.Duration // winner → destroy
	IdleTimeout   time.Duration // no activity → destroy
	SweepInterval time.Duration
	ChatMaxLen    int // in runes

	Tickets *ticket.Issuer
	Events  events.Publisher
	Archive Archive // optional

	// Initial is the position every new game starts from. Zero means the
	// standard opening.
	Initial game.State
	Now     func() time.Time
}

func (o Options) withDefaults() Options {
	if o.GracePeriod <= 0 {
		o.GracePeriod = DefaultGracePeriod
	}
	if o.PostWinDelay <= 0 {
		o.PostWinDelay = DefaultPostWinDelay
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = DefaultIdleTimeout
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = DefaultSweepInterval
	}
	if o.ChatMaxLen <= 0 {
		o.ChatMaxLen = DefaultChatMaxLen
	}
	if o.Tickets == nil {
		o.Tickets = ticket.NewIssuer("dev_secret_change_me", 0)
	}
	if o.Events == nil {
		o.Events = events.Nop{}
	}
	if o.Initial.Current == game.None {
		o.Initial = game.NewState()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
