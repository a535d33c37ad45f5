package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/papochat/papo/internal/metrics"
	"github.com/papochat/papo/internal/middleware"
)

func APIEndpoints(r *gin.Engine, s *Server) {
	r.Use(middleware.CORS(s.Config.CORSOrigins))
	r.Use(metrics.GinMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "chat-api"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/uploads", s.UploadH.Dir())

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		api.GET("/active-count", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"active": s.Hub.OnlineCount()})
		})
		api.GET("/users/find", s.UserH.FindByEmail)

		api.POST("/register", s.AuthH.Register)
		api.POST("/login", s.AuthH.Login)
	}

	authed := api.Group("", middleware.AuthMiddleware(s.JWTManager, s.Redis))
	{
		authed.POST("/logout", s.AuthH.Logout)
		authed.GET("/me", s.AuthH.Me)
		authed.POST("/upload", s.UploadH.Upload)

		authed.GET("/rooms", s.RoomH.GetMyRooms)
		authed.POST("/rooms", s.RoomH.CreateRoom)
		authed.POST("/rooms/:id/join", s.RoomH.JoinRoom)
		authed.POST("/rooms/:id/leave", s.RoomH.LeaveRoom)

		authed.GET("/messages/room/:id", s.MessageH.GetRoomMessages)
		authed.GET("/messages/dm/:otherId", s.MessageH.GetDMMessages)

		authed.GET("/dm/list", s.DMH.ListContacts)
		authed.POST("/dm/add", s.DMH.AddContact)
		authed.POST("/dm/remove/:otherId", s.DMH.RemoveContact)
	}

	r.GET("/ws", middleware.WSAuthMiddleware(s.JWTManager, s.Redis), s.WSH.Handle)
}
