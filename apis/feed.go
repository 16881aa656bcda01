package apis

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thiefmaster/eventsource"
)

const feedPath = "/updates"

type HTTPCredentials struct {
	BaseURL  string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// FeedState is the state name published by a status feed, e.g. "ok" or
// "error". The empty state means the feed is unreachable.
type FeedState struct {
	State string `json:"state"`
}

func newFeedRequest(credentials HTTPCredentials) (*http.Request, error) {
	req, err := http.NewRequest(http.MethodGet, credentials.BaseURL+feedPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	if credentials.Username != "" && credentials.Password != "" {
		req.SetBasicAuth(credentials.Username, credentials.Password)
	}
	return req, nil
}

// SubscribeFeedState follows the server-sent event stream of a status feed.
// Only changes are delivered, plus the first state after every connect.
func SubscribeFeedState(credentials HTTPCredentials) <-chan FeedState {
	eventChan := make(chan FeedState)
	go subscribeFeedState(eventChan, credentials)
	return eventChan
}

func subscribeFeedState(eventChan chan<- FeedState, credentials HTTPCredentials) {
	logger := log.With().Str("feed", credentials.BaseURL).Logger()
	for {
		req, err := newFeedRequest(credentials)
		if err != nil {
			logger.Error().Err(err).Msg("invalid feed url")
			close(eventChan)
			return
		}

		stream, err := eventsource.SubscribeWithRequest("", req)
		if err != nil {
			logger.Warn().Err(err).Msg("feed subscribe failed")
			time.Sleep(1 * time.Second)
			continue
		}
		stream.InitialRetryDelay = 500 * time.Millisecond
		stream.MaxRetryDelay = 5 * time.Second
		stream.Logger = stdlog.New(logger, "", 0)
		followFeed(stream, eventChan)
		time.Sleep(1 * time.Second)
	}
}

func followFeed(stream *eventsource.Stream, eventChan chan<- FeedState) {
	var lastState FeedState
	initialStateSent := false
	for {
		select {
		case event, ok := <-stream.Events:
			if !ok {
				return
			}
			var newState FeedState
			if err := json.Unmarshal([]byte(event.Data()), &newState); err != nil {
				log.Warn().Err(err).Str("data", event.Data()).Msg("could not unmarshal feed event")
			} else if newState != lastState || !initialStateSent {
				eventChan <- newState
				lastState = newState
				initialStateSent = true
			}
		case err, ok := <-stream.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("feed stream error")
			if lastState != (FeedState{}) {
				lastState = FeedState{}
				eventChan <- lastState
			}
		}
	}
}
