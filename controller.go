package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thiefmaster/towerlight/apis"
	"github.com/thiefmaster/towerlight/comm"
)

const defaultConfigPath = "towerlight.yaml"

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		With().Timestamp().Logger()
}

func main() {
	setupLogging("info")

	configPath := defaultConfigPath
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	config := defaultConfig()
	if err := config.load(configPath); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	setupLogging(config.LogLevel)

	states, err := newStateTable(config.States)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid states")
	}
	state := &appState{states: states}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	driver := comm.NewDriver(config.Port,
		comm.WithBaud(config.Baud),
		comm.WithInterval(config.Interval),
		comm.WithLogger(log.Logger),
	)
	done := make(chan struct{})
	go func() {
		driver.Run(ctx)
		close(done)
	}()
	light := driver.Handle()

	if config.Intro {
		// keep each step on the light for two cycles so none gets coalesced
		showFancyIntro(ctx, light, 2*config.Interval)
	}
	light.Enqueue(state.command())

	var feedChan <-chan apis.FeedState
	if config.Feed.BaseURL != "" {
		feedChan = apis.SubscribeFeedState(config.Feed)
	}
	var mattermostChan <-chan apis.MattermostState
	if config.Mattermost.ServerURL != "" {
		mattermostChan = apis.SubscribeMattermostState(config.Mattermost)
	}
	var controlChan <-chan apis.ControlRequest
	if config.Control.Listen != "" {
		controlChan = apis.RunControlServer(config.Control.Listen, states.resolve)
	}
	if config.Shell {
		go func() {
			runShell(light, states)
			cancel()
		}()
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			<-done
			return
		case feed, ok := <-feedChan:
			if !ok {
				feedChan = nil
				continue
			}
			log.Info().Str("state", feed.State).Msg("feed state changed")
			state.feed = feed.State
			light.Enqueue(state.command())
		case mattermost := <-mattermostChan:
			log.Info().Bool("messages", mattermost.HasMessages).Bool("mentions", mattermost.HasMentions).Msg("mattermost state changed")
			state.mattermost = mattermost
			light.Enqueue(state.command())
		case req := <-controlChan:
			log.Info().Str("session", req.Session).Stringer("command", req.Command).Msg("control request")
			light.Enqueue(req.Command)
		}
	}
}
