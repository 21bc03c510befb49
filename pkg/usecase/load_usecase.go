package usecase

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/strideworks/gaitalign/pkg/model"
)

// PoseDataSuffix is the file name suffix the offline estimation step gives
// its per-video JSON output.
const PoseDataSuffix = "_pose_data.json"

// LoadTrack reads one pose-data JSON file and constructs its track.
func LoadTrack(path string, schema *model.Skeleton) (*model.PoseTrack, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pose data: %w", err)
	}
	defer file.Close()

	raw := new(model.RawPoseData)
	raw.Path = path
	if err := json.NewDecoder(file).Decode(raw); err != nil {
		return nil, fmt.Errorf("decode pose data %s: %w", path, err)
	}
	if raw.VideoName == "" {
		raw.VideoName = strings.TrimSuffix(filepath.Base(path), PoseDataSuffix)
	}

	track, err := model.NewPoseTrack(raw, schema)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("track", track.Name).
		Int("frames", track.Len()).
		Float64("fps", track.FrameRate()).
		Msg("track loaded")
	return track, nil
}

// LoadTracks loads every pose-data file directly under dirPath, in name
// order.
func LoadTracks(dirPath string, schema *model.Skeleton) ([]*model.PoseTrack, error) {
	paths, err := poseDataFilePaths(dirPath)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dirPath, err)
	}

	tracks := make([]*model.PoseTrack, 0, len(paths))
	for i, path := range paths {
		log.Info().Msgf("[%d/%d] load %s", i+1, len(paths), filepath.Base(path))
		track, err := LoadTrack(path, schema)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

func poseDataFilePaths(dirPath string) ([]string, error) {
	var paths []string
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path != dirPath && info.IsDir() {
			// top level only
			return filepath.SkipDir
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), PoseDataSuffix) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
