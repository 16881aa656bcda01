package apis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	mm "github.com/mattermost/mattermost/server/public/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type MattermostSettings struct {
	ServerURL   string `yaml:"url"`
	AccessToken string `yaml:"token"`
	TeamName    string `yaml:"team"`
	ChannelName string `yaml:"channel"`
}

type MattermostState struct {
	HasMessages bool
	HasMentions bool
}

// unreadTracker keeps the set of channels with unread messages and mentions
// and reports the combined state after every change.
type unreadTracker struct {
	userID    string
	channelID string
	messages  map[string]bool
	mentions  map[string]bool
}

func newUnreadTracker(userID, channelID string) *unreadTracker {
	return &unreadTracker{
		userID:    userID,
		channelID: channelID,
		messages:  make(map[string]bool),
		mentions:  make(map[string]bool),
	}
}

func (t *unreadTracker) state() MattermostState {
	return MattermostState{
		HasMessages: len(t.messages) > 0,
		HasMentions: len(t.mentions) > 0,
	}
}

func (t *unreadTracker) viewed(channelID string) {
	delete(t.messages, channelID)
	delete(t.mentions, channelID)
}

// posted records a new post. Only posts by other users in the watched channel
// or in direct/group messages count.
func (t *unreadTracker) posted(post *mm.Post, channelType mm.ChannelType, mentions []string) {
	isDirect := channelType == mm.ChannelTypeDirect || channelType == mm.ChannelTypeGroup
	if post.UserId == t.userID || (post.ChannelId != t.channelID && !isDirect) {
		return
	}
	t.messages[post.ChannelId] = true
	for _, id := range mentions {
		if id == t.userID {
			t.mentions[post.ChannelId] = true
			break
		}
	}
}

func (t *unreadTracker) handleEvent(event *mm.WebSocketEvent, logger zerolog.Logger) {
	data := event.GetData()
	switch event.EventType() {
	case mm.WebsocketEventChannelViewed:
		if id, ok := data["channel_id"].(string); ok {
			t.viewed(id)
		}
	case mm.WebsocketEventMultipleChannelsViewed:
		times, _ := data["channel_times"].(map[string]interface{})
		for id := range times {
			t.viewed(id)
		}
	case mm.WebsocketEventPosted:
		raw, _ := data["post"].(string)
		var post mm.Post
		if err := json.Unmarshal([]byte(raw), &post); err != nil {
			logger.Warn().Err(err).Msg("could not unmarshal post")
			return
		}
		channelType, _ := data["channel_type"].(string)
		var mentions []string
		if s, ok := data["mentions"].(string); ok {
			mentions = mm.ArrayFromJSON(strings.NewReader(s))
		}
		t.posted(&post, mm.ChannelType(channelType), mentions)
	}
}

func SubscribeMattermostState(settings MattermostSettings) <-chan MattermostState {
	eventChan := make(chan MattermostState)
	go func() {
		for {
			subscribeMattermostState(eventChan, settings)
			time.Sleep(1 * time.Second)
		}
	}()
	return eventChan
}

func subscribeMattermostState(eventChan chan<- MattermostState, settings MattermostSettings) {
	logger := log.With().Str("mattermost", settings.ServerURL).Logger()
	ctx := context.Background()

	client := mm.NewAPIv4Client(settings.ServerURL)
	client.SetToken(settings.AccessToken)

	me, _, err := client.GetMe(ctx, "")
	if err != nil {
		logger.Warn().Err(err).Msg("could not get user info")
		return
	}
	channel, _, err := client.GetChannelByNameForTeamName(ctx, settings.ChannelName, settings.TeamName, "")
	if err != nil {
		logger.Warn().Err(err).Msg("could not get channel")
		return
	}

	tracker := newUnreadTracker(me.Id, channel.Id)
	loadUnreads(ctx, client, settings, tracker, logger)
	state := tracker.state()
	eventChan <- state

	ws, err := mm.NewWebSocketClient(strings.Replace(settings.ServerURL, "http", "ws", 1), client.AuthToken)
	if err != nil {
		logger.Warn().Err(err).Msg("could not connect to websocket")
		return
	}
	defer ws.Close()
	ws.Listen()
	for {
		select {
		case <-ws.PingTimeoutChannel:
			logger.Warn().Msg("websocket ping timeout")
			return
		case event := <-ws.EventChannel:
			if event == nil {
				logger.Warn().Msg("websocket event channel closed")
				return
			}
			tracker.handleEvent(event, logger)
			if newState := tracker.state(); newState != state {
				eventChan <- newState
				state = newState
			}
		}
	}
}

func loadUnreads(ctx context.Context, client *mm.Client4, settings MattermostSettings, tracker *unreadTracker, logger zerolog.Logger) {
	team, _, err := client.GetTeamByName(ctx, settings.TeamName, "")
	if err != nil {
		logger.Warn().Err(err).Msg("could not get team")
		return
	}

	channels, _, err := client.GetChannelsForTeamForUser(ctx, team.Id, "me", false, "")
	if err != nil {
		logger.Warn().Err(err).Msg("could not get channels")
		return
	}
	channelsByID := make(map[string]*mm.Channel, len(channels))
	for _, channel := range channels {
		channelsByID[channel.Id] = channel
	}

	// channel membership carries the unread counts
	members, _, err := client.GetChannelMembersForUser(ctx, "me", team.Id, "")
	if err != nil {
		logger.Warn().Err(err).Msg("could not get unreads")
		return
	}
	for _, member := range members {
		channel := channelsByID[member.ChannelId]
		if channel == nil || (channel.Id != tracker.channelID && !channel.IsGroupOrDirect()) {
			continue
		}
		if channel.TotalMsgCount-member.MsgCount > 0 {
			tracker.messages[member.ChannelId] = true
		}
		if member.MentionCount > 0 {
			tracker.mentions[member.ChannelId] = true
		}
	}
}
