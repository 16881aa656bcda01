package apis

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/thiefmaster/towerlight/comm"
)

var (
	errUnknownAction = errors.New("unknown action")
	errNoStates      = errors.New("no states configured")
)

// ControlMessage is one websocket text message. Action is one of enable, off,
// steady, indication or state; the indication fields apply to steady and
// indication, State to state.
type ControlMessage struct {
	Action string `json:"action"`
	State  string `json:"state,omitempty"`
	IndicationSpec
}

type ControlRequest struct {
	Session string
	Command comm.Command
}

type controlReply struct {
	OK      bool   `json:"ok,omitempty"`
	Command string `json:"command,omitempty"`
	Error   string `json:"error,omitempty"`
}

// StateResolver maps a named state to the command that shows it.
type StateResolver func(name string) (comm.Command, error)

type ControlServer struct {
	resolve  StateResolver
	requests chan ControlRequest
	upgrader websocket.Upgrader
}

func NewControlServer(resolve StateResolver) *ControlServer {
	return &ControlServer{
		resolve:  resolve,
		requests: make(chan ControlRequest, comm.DefaultMailboxSize),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header["Origin"]
				if len(origin) == 0 {
					return true
				}
				u, err := url.Parse(origin[0])
				if err != nil {
					return false
				}
				return u.Host == r.Host
			},
		},
	}
}

func (s *ControlServer) Requests() <-chan ControlRequest {
	return s.requests
}

func (s *ControlServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws", s.ws)
	return r
}

func (s *ControlServer) ws(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer c.Close()

	session := uuid.New().String()
	logger := log.With().Str("session", session).Str("remote", r.RemoteAddr).Logger()
	logger.Info().Msg("control client connected")
	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			logger.Info().Err(err).Msg("control client gone")
			return
		}

		var reply controlReply
		cmd, err := s.parse(message)
		if err != nil {
			reply.Error = err.Error()
		} else {
			s.requests <- ControlRequest{Session: session, Command: cmd}
			reply.OK = true
			reply.Command = cmd.String()
		}
		if err := c.WriteJSON(reply); err != nil {
			logger.Warn().Err(err).Msg("websocket write failed")
			return
		}
	}
}

func (s *ControlServer) parse(message []byte) (comm.Command, error) {
	var msg ControlMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return comm.Command{}, fmt.Errorf("invalid message: %w", err)
	}
	return msg.Command(s.resolve)
}

func (msg ControlMessage) Command(resolve StateResolver) (comm.Command, error) {
	switch msg.Action {
	case "enable":
		return comm.NewEnableCommand(), nil
	case "off":
		return comm.NewOffCommand(), nil
	case "steady":
		spec := msg.IndicationSpec
		spec.Animation = "steady"
		return spec.Command()
	case "indication":
		return msg.IndicationSpec.Command()
	case "state":
		if resolve == nil {
			return comm.Command{}, errNoStates
		}
		return resolve(msg.State)
	default:
		return comm.Command{}, fmt.Errorf("%w: %q", errUnknownAction, msg.Action)
	}
}

// RunControlServer serves the control websocket on listen and returns the
// requests it receives.
func RunControlServer(listen string, resolve StateResolver) <-chan ControlRequest {
	s := NewControlServer(resolve)
	go func() {
		log.Info().Str("listen", listen).Msg("control server listening")
		err := http.ListenAndServe(listen, s.Handler())
		log.Fatal().Err(err).Msg("control server exited")
	}()
	return s.Requests()
}
