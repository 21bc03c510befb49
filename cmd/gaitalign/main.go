package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/strideworks/gaitalign/pkg/config"
	"github.com/strideworks/gaitalign/pkg/model"
	"github.com/strideworks/gaitalign/pkg/report"
	"github.com/strideworks/gaitalign/pkg/session"
	"github.com/strideworks/gaitalign/pkg/usecase"
	"github.com/strideworks/gaitalign/pkg/utils"
)

var logLevel string
var dataDir string
var leftName string
var rightName string
var configPath string
var outDir string

func init() {
	_ = godotenv.Load()

	flag.StringVar(&logLevel, "logLevel", envOr("GAITALIGN_LOG_LEVEL", "INFO"), "set log level")
	flag.StringVar(&dataDir, "dataDir", envOr("GAITALIGN_DATA_DIR", ""), "directory holding *_pose_data.json files")
	flag.StringVar(&leftName, "left", "", "video name of track A")
	flag.StringVar(&rightName, "right", "", "video name of track B")
	flag.StringVar(&configPath, "config", envOr("GAITALIGN_CONFIG", ""), "pipeline config YAML")
	flag.StringVar(&outDir, "out", ".", "output directory")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
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

	schema := model.RunningSkeleton()

	log.Info().Msg("Load Tracks ================")
	left, err := usecase.LoadTrack(filepath.Join(dataDir, leftName+usecase.PoseDataSuffix), schema)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load track A")
		os.Exit(1)
	}
	right, err := usecase.LoadTrack(filepath.Join(dataDir, rightName+usecase.PoseDataSuffix), schema)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load track B")
		os.Exit(1)
	}

	sess := session.New(cfg)
	if err := sess.LoadTracks(left, right); err != nil {
		log.Error().Err(err).Msg("Failed to load track pair")
		os.Exit(1)
	}

	log.Info().Msg("Detect Cycles ================")
	if err := sess.DetectCycles(); err != nil {
		log.Error().Err(err).Msg("Cycle detection failed")
		os.Exit(1)
	}

	log.Info().Msg("Align Tracks ================")
	if err := sess.Align(); err != nil {
		log.Error().Err(err).Msg("Alignment failed")
		os.Exit(1)
	}

	log.Info().Msg("Extract Metrics ================")
	if err := sess.ComputeMetrics(); err != nil {
		log.Error().Err(err).Msg("Metric extraction failed")
		os.Exit(1)
	}

	log.Info().Msg("Write Comparison ================")
	results := make([]*model.ComparisonResult, 0, left.Len())
	bar := utils.NewProgressBar(left.Len())
	for i := 0; i < left.Len(); i++ {
		bar.Increment()
		res, err := sess.CompareFrame(i)
		if err != nil {
			log.Error().Err(err).Msg("Comparison query failed")
			os.Exit(1)
		}
		results = append(results, res)
	}
	bar.Finish()

	cycles, err := sess.CycleComparisons()
	if err != nil {
		log.Error().Err(err).Msg("Cycle comparison failed")
		os.Exit(1)
	}

	if err := utils.WriteOutputs(outDir, map[string]any{
		"comparison.json": results,
		"cycles.json":     cycles,
		"session.json":    sess.Info(),
	}); err != nil {
		log.Error().Err(err).Msg("Failed to write outputs")
		os.Exit(1)
	}

	log.Info().Msg("Write Report ================")
	if err := report.RenderFile(sess, filepath.Join(outDir, "report.html")); err != nil {
		log.Error().Err(err).Msg("Failed to write report")
		os.Exit(1)
	}

	// completion marker for the batch wrapper
	{
		completePath := filepath.Join(outDir, "complete")
		log.Info().Msgf("Output Complete File %s", completePath)
		f, err := os.Create(completePath)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create complete file")
			os.Exit(1)
		}
		defer f.Close()
	}

	log.Info().Msg("Done!")
}
