package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/strideworks/gaitalign/pkg/config"
	"github.com/strideworks/gaitalign/pkg/model"
	"github.com/strideworks/gaitalign/pkg/session"
	"github.com/strideworks/gaitalign/pkg/usecase"
)

var logLevel string
var addr string
var dataDir string
var leftName string
var rightName string
var configPath string

func init() {
	_ = godotenv.Load()

	flag.StringVar(&logLevel, "logLevel", envOr("GAITALIGN_LOG_LEVEL", "INFO"), "set log level")
	flag.StringVar(&addr, "addr", envOr("GAITALIGN_ADDR", ":8080"), "listen address")
	flag.StringVar(&dataDir, "dataDir", envOr("GAITALIGN_DATA_DIR", ""), "directory holding *_pose_data.json files")
	flag.StringVar(&leftName, "left", "", "video name of track A")
	flag.StringVar(&rightName, "right", "", "video name of track B")
	flag.StringVar(&configPath, "config", envOr("GAITALIGN_CONFIG", ""), "pipeline config YAML")
	flag.Parse()

	switch logLevel {
	case "INFO":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if dataDir == "" || leftName == "" || rightName == "" {
		log.Error().Msg("dataDir, left and right must be provided")
		os.Exit(1)
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load config")
			os.Exit(1)
		}
	}

	sess, err := buildSession(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build comparison session")
		os.Exit(1)
	}

	router := newRouter(sess)
	log.Info().Str("addr", addr).Str("session", sess.ID()).Msg("serving comparison session")
	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func buildSession(cfg *config.Config) (*session.Session, error) {
	schema := model.RunningSkeleton()
	left, err := usecase.LoadTrack(filepath.Join(dataDir, leftName+usecase.PoseDataSuffix), schema)
	if err != nil {
		return nil, err
	}
	right, err := usecase.LoadTrack(filepath.Join(dataDir, rightName+usecase.PoseDataSuffix), schema)
	if err != nil {
		return nil, err
	}

	sess := session.New(cfg)
	if err := sess.LoadTracks(left, right); err != nil {
		return nil, err
	}
	if err := sess.Run(); err != nil {
		return nil, err
	}
	return sess, nil
}

func newRouter(sess *session.Session) *gin.Engine {
	router := gin.Default()

	// permissive CORS so the presentation shell can be served from anywhere
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/session", func(c *gin.Context) {
		c.JSON(http.StatusOK, sess.Info())
	})

	router.GET("/compare/frame/:index", func(c *gin.Context) {
		idx, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
			return
		}
		res, err := sess.CompareFrame(idx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	})

	router.GET("/compare/phase/:fraction", func(c *gin.Context) {
		f, err := strconv.ParseFloat(c.Param("fraction"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fraction must be a number"})
			return
		}
		res, err := sess.ComparePhase(f)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	})

	router.GET("/compare/cycle/:index", func(c *gin.Context) {
		idx, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
			return
		}
		res, err := sess.CompareCycle(idx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	})

	router.GET("/metrics/cycles", func(c *gin.Context) {
		cycles, err := sess.CycleComparisons()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cycles)
	})

	return router
}

func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, model.ErrSessionNotReady) {
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
