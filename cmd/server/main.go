package main

import (
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/NaEunMin/NetworkProgrammingProject/internal/game"
	"github.com/NaEunMin/NetworkProgrammingProject/internal/shared/configs"
	"github.com/NaEunMin/NetworkProgrammingProject/internal/shared/logger"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetTrustedProxies([]string{"127.0.0.1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	if len(allowedOrigins) == 0 {
		return r
	}

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using process environment")
	}
	cfg := configs.Load()
	gin.SetMode(cfg.GinMode)
	if cfg.GinMode != "release" {
		logger.SetDebug()
	}

	words := game.LoadWordsOrFallback(cfg.WordsFile)
	sentences := game.LoadSentencesOrFallback(cfg.SentencesFile)

	registry := game.NewRegistry(game.RegistryConfig{
		Rows:      cfg.BoardRows,
		Cols:      cfg.BoardCols,
		Words:     words,
		Sentences: sentences,
	})

	var allowedOrigins []string
	if cfg.AllowedOrigins != "" {
		allowedOrigins = strings.Split(cfg.AllowedOrigins, ",")
	}

	r := CreateServer(allowedOrigins)
	game.RegisterRoute(r, registry)

	go func() {
		if err := r.Run(":" + cfg.Port); err != nil {
			logger.Fatalf("couldn't start server: %v", err)
		}
	}()

	logger.Infof("server listening on :%s", cfg.Port)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, os.Interrupt)
	<-sigCh
	logger.Info("shutting down")
}
