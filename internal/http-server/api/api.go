package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"LineBridge/internal/config"
	"LineBridge/internal/http-server/handlers/chats"
	"LineBridge/internal/http-server/handlers/errors"
	"LineBridge/internal/http-server/handlers/events"
	"LineBridge/internal/http-server/handlers/key"
	"LineBridge/internal/http-server/handlers/line"
	"LineBridge/internal/http-server/handlers/mcp"
	"LineBridge/internal/http-server/handlers/services"
	"LineBridge/internal/http-server/handlers/setup"
	"LineBridge/internal/http-server/middleware/authenticate"
	"LineBridge/internal/lib/sl"
	"LineBridge/internal/ws"
)

const requestTimeout = 60 * time.Second

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	ws.Authenticator
	chats.Core
	setup.Core
	services.Core
	key.Core
	mcp.Core
}

// NewRouter wires every route. The LINE callback and the event stream
// authenticate on their own, everything else needs the API key.
func NewRouter(log *slog.Logger, handler Handler, webhook line.Webhook, hub *ws.Hub) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.With(middleware.Timeout(requestTimeout)).
		Post("/api/line/callback", line.Callback(log, webhook))

	router.With(authenticate.New(log, handler)).
		Handle("/mcp", mcp.Handler(log, handler))

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Get("/events/ws", events.Stream(log, hub, handler))

		v1.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Use(authenticate.New(log, handler))

			r.Route("/chats", func(r chi.Router) {
				r.Get("/", chats.List(log, handler))
				r.Get("/pending", chats.Pending(log, handler))
				r.Post("/approve", chats.Approve(log, handler))
				r.Post("/remove", chats.Remove(log, handler))
			})
			r.Post("/setup", setup.Setup(log, handler))
			r.Post("/reload", setup.Reload(log, handler))
			r.Route("/services", func(r chi.Router) {
				r.Post("/send_message", services.SendMessage(log, handler))
				r.Post("/send_button_message", services.SendButtonMessage(log, handler))
				r.Post("/send_confirm_message", services.SendConfirmMessage(log, handler))
			})
			r.Get("/quota", services.Quota(log, handler))
			r.Route("/key", func(r chi.Router) {
				r.Post("/new", key.Generate(log, handler))
			})
		})
	})

	return router
}

func New(conf *config.Config, log *slog.Logger, handler Handler, webhook line.Webhook, hub *ws.Hub) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  NewRouter(log, handler, webhook, hub),
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
