package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/papochat/papo/internal/config"
	"github.com/papochat/papo/internal/database"
	"github.com/papochat/papo/internal/handlers"
	"github.com/papochat/papo/internal/logging"
	ws "github.com/papochat/papo/internal/websocket"
	"github.com/papochat/papo/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	Config     config.Config
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *ws.Hub

	AuthH    *handlers.AuthHandler
	UserH    *handlers.UserHandler
	RoomH    *handlers.RoomHandler
	MessageH *handlers.HTTPMessageHandler
	DMH      *handlers.DMHandler
	UploadH  *handlers.UploadHandler
	WSH      *handlers.WebSocketHandler
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Info().Msg(".env not found, using environment variables")
		}
	}

	cfg := config.Load()
	logging.Init(cfg.Env)
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	dbConn := &database.Database{}
	if err := dbConn.Connect(cfg.DatabasePath); err != nil {
		log.Fatal().Err(err).Msg("sqlite connect failed")
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb = redis.NewClient(redisOpts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("redis connect failed")
		}
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)

	hub := ws.NewHub()
	go hub.Run()

	uploadH, err := handlers.NewUploadHandler(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("upload dir unavailable")
	}

	eventH := handlers.NewMessageHandler(dbConn, hub)

	s := &Server{
		Config:     cfg,
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
		AuthH:      handlers.NewAuthHandler(dbConn, jwtMgr, rdb),
		UserH:      handlers.NewUserHandler(dbConn),
		RoomH:      handlers.NewRoomHandler(dbConn),
		MessageH:   handlers.NewHTTPMessageHandler(dbConn),
		DMH:        handlers.NewDMHandler(dbConn),
		UploadH:    uploadH,
		WSH:        handlers.NewWebSocketHandler(hub, dbConn, eventH),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	APIEndpoints(router, s)
	s.Router = router

	return s
}

func (s *Server) Run() {
	log.Info().Str("port", s.Config.Port).Msg("server starting")
	if err := s.Router.Run(":" + s.Config.Port); err != nil {
		log.Fatal().Err(err).Msg("server run error")
	}
}
