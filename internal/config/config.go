package config

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "NG_"

type (
	Config struct {
		DiscordToken    string   `env:"TOKEN,required"`
		DefaultLanguage string   `env:"LANG,default=en"`
		EnabledHandlers []string `env:"HANDLERS,default=autorole,gate,moderation"`
		LogLevel        int      `env:"LOG_LEVEL,default=4"`
		SyncCommands    bool     `env:"SYNC_COMMANDS,default=true"`
		Moderation      Moderation
		Dispatch        Dispatch
		Observability   Observability
	}

	Moderation struct {
		PrivilegedRoles []string      `env:"PRIVILEGED_ROLES,default=VELITEL ADMINU,MAJITEL"`
		AutoRoleName    string        `env:"AUTO_ROLE,default=LEVEL-1"`
		LogChannels     []string      `env:"LOG_CHANNELS,default=role log,role-log"`
		HistoryChannels []string      `env:"HISTORY_CHANNELS,default=role history,role-history"`
		WarnCooldown    time.Duration `env:"WARN_COOLDOWN,default=5s"`
	}

	Dispatch struct {
		Workers   int `env:"WORKERS,default=8"`
		QueueSize int `env:"QUEUE_SIZE,default=1024"`
	}

	Observability struct {
		MetricsAddr string `env:"METRICS_ADDR,default=:2112"`
	}
)

var (
	once         sync.Once
	globalConfig = &Config{}
	globalErr    error
)

func Load() (Config, error) {
	once.Do(func() {
		cfg, err := Process(context.Background(), envconfig.OsLookuper())
		if err != nil {
			globalErr = err
			return
		}
		log.Traceln("loaded config")
		globalConfig = cfg
	})
	return *globalConfig, globalErr
}

func Get() Config {
	cfg, err := Load()
	if err != nil {
		log.WithField("error", err.Error()).Error("cant load config")
	}
	return cfg
}

// Process reads NG_ prefixed keys from lookuper.
func Process(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	envcfg := envconfig.Config{
		Lookuper: envconfig.PrefixLookuper(envPrefix, lookuper),
		Target:   cfg,
	}
	if err := envconfig.ProcessWith(ctx, &envcfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}
	cfg.DefaultLanguage = strings.ToLower(strings.TrimSpace(cfg.DefaultLanguage))
	cfg.Moderation.PrivilegedRoles = trimAll(cfg.Moderation.PrivilegedRoles)
	cfg.Moderation.LogChannels = trimAll(cfg.Moderation.LogChannels)
	cfg.Moderation.HistoryChannels = trimAll(cfg.Moderation.HistoryChannels)
	cfg.EnabledHandlers = trimAll(cfg.EnabledHandlers)
	return cfg, nil
}

func trimAll(items []string) []string {
	out := items[:0]
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
