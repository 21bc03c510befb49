package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/rs/zerolog/log"
)

// NewProgressBar returns a console progress bar with elapsed and remaining
// time, used by the batch CLI's long stages.
func NewProgressBar(total int) *pb.ProgressBar {
	template := `{{ string . "prefix" }} {{counters . "%s/%s" "%s/?"}} {{bar . }} {{percent . "%.03f%%" "?"}} {{etime . "%s elapsed"}} {{rtime . "%s remain" "%s total" "???"}}`
	return pb.ProgressBarTemplate(template).Start(total)
}

// WriteJSON marshals v indented into path.
func WriteJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// WriteOutputs writes the named JSON documents into dirPath concurrently and
// returns the first write error, if any.
func WriteOutputs(dirPath string, docs map[string]any) error {
	errCh := make(chan error, len(docs))
	var wg sync.WaitGroup

	for name, doc := range docs {
		wg.Add(1)
		go func(name string, doc any) {
			defer wg.Done()
			path := filepath.Join(dirPath, name)
			if err := WriteJSON(path, doc); err != nil {
				log.Error().Err(err).Str("file", name).Msg("write output")
				errCh <- err
				return
			}
			log.Info().Str("file", name).Msg("output written")
		}(name, doc)
	}

	wg.Wait()
	close(errCh)

	if len(errCh) > 0 {
		return <-errCh
	}
	return nil
}
