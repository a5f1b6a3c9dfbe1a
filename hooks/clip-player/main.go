// Command clip-player is a hook that plays the sign clips for recognized
// speech, one after another, with an external video player.
//
// Build it into its hook directory:
//
//	go build -o ~/.signbridge/hooks/clip-player/clip-player ./hooks/clip-player
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ayusman/signbridge/internal/hook/protocol"
)

// Config is the "config" object of hook.json.
type Config struct {
	Player string   `json:"player"`
	Args   []string `json:"args"`
	// ClipsDir is resolved against the hook directory when relative.
	ClipsDir string `json:"clips_dir"`
}

func main() {
	var req protocol.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	if req.Event != protocol.EventSpeech {
		writeErrorResponse(fmt.Sprintf("unsupported event: %s", req.Event))
		return
	}

	var cfg Config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("invalid config: %v", err))
			return
		}
	}

	paths, err := playlist(cfg, req.Clips)
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}

	for _, p := range paths {
		args := append(append([]string{}, cfg.Args...), p)
		if out, err := exec.Command(cfg.Player, args...).CombinedOutput(); err != nil {
			writeErrorResponse(fmt.Sprintf("play %s: %v: %s", filepath.Base(p), err, out))
			return
		}
	}

	writeSuccessResponse(paths)
}

// playlist resolves clip names to files under the clips directory. Every
// clip must exist before anything is played.
func playlist(cfg Config, clips []string) ([]string, error) {
	if cfg.Player == "" {
		return nil, errors.New("no player configured")
	}
	if len(clips) == 0 {
		return nil, errors.New("no clips to play")
	}

	dir := cfg.ClipsDir
	if dir == "" {
		dir = "clips"
	}

	paths := make([]string, 0, len(clips))
	var missing []string
	for _, clip := range clips {
		// Clip names never leave the clips directory.
		p := filepath.Join(dir, filepath.Base(clip))
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, clip)
			continue
		}
		paths = append(paths, p)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing clips: %v", missing)
	}
	return paths, nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(protocol.Response{
		Success: false,
		Error:   errMsg,
	})
}

// writeSuccessResponse writes a success response listing what was played.
func writeSuccessResponse(played []string) {
	data, _ := json.Marshal(map[string][]string{"played": played})
	json.NewEncoder(os.Stdout).Encode(protocol.Response{
		Success: true,
		Data:    data,
	})
}
