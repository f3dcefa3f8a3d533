package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"

	"github.com/iamwavecut/ngmod/internal/bot"
)

const intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildMessages

type enqueuer interface {
	Enqueue(u *bot.Update) bool
}

// Client owns the gateway connection and feeds its events into the queue.
type Client struct {
	session      *discordgo.Session
	queue        enqueuer
	syncCommands bool

	runMutex sync.Mutex
	started  bool
	removers []func()
}

// NewSession creates a bot session with the intents the handlers need.
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, errors.Wrap(err, "create session")
	}
	session.Identify.Intents = intents
	session.StateEnabled = true
	session.State.TrackMembers = true
	session.State.TrackRoles = true
	session.State.TrackChannels = true
	return session, nil
}

func NewClient(session *discordgo.Session, queue enqueuer, syncCommands bool) *Client {
	return &Client{
		session:      session,
		queue:        queue,
		syncCommands: syncCommands,
	}
}

func (c *Client) Start(ctx context.Context) error {
	c.runMutex.Lock()
	defer c.runMutex.Unlock()
	if c.started {
		return nil
	}

	c.removers = append(c.removers,
		c.session.AddHandler(c.onMemberAdd),
		c.session.AddHandler(c.onMessageCreate),
		c.session.AddHandler(c.onInteraction),
	)
	if err := c.session.Open(); err != nil {
		c.removeHandlers()
		return errors.Wrap(err, "open gateway")
	}

	entry := c.getLogEntry()
	if c.session.State != nil && c.session.State.User != nil {
		entry = entry.WithField("user", c.session.State.User.Username)
	}
	if c.syncCommands {
		synced, err := SyncCommands(ctx, c.session)
		if err != nil {
			entry.WithError(err).Error("cant sync slash commands")
		} else {
			entry.WithField("commands", synced).Info("slash commands synced")
		}
	}

	c.started = true
	entry.Info("connected")
	return nil
}

func (c *Client) Stop(context.Context) error {
	c.runMutex.Lock()
	defer c.runMutex.Unlock()
	if !c.started {
		return nil
	}
	c.started = false
	c.removeHandlers()
	return errors.Wrap(c.session.Close(), "close gateway")
}

func (c *Client) removeHandlers() {
	for _, remove := range c.removers {
		remove()
	}
	c.removers = nil
}
