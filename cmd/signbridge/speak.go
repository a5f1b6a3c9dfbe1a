package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayusman/signbridge/internal/speech"
	"github.com/ayusman/signbridge/internal/store"
)

var speakCmd = &cobra.Command{
	Use:   "speak <text...>",
	Short: "Print the sign clips for a phrase",
	Long: `Resolve text to the sign video clips that play it, using the mapping
file and the mappings saved through the web API.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSpeak,
}

func init() {
	rootCmd.AddCommand(speakCmd)
}

func runSpeak(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	// Only read saved mappings; never create a database here.
	var st *store.Store
	if _, err := os.Stat(cfg.DBPath()); err == nil {
		st, err = store.New(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
	}

	text := strings.Join(args, " ")
	clips, err := loadResolver(cfg, st, log).Resolve(text)
	if errors.Is(err, speech.ErrNoClips) {
		return fmt.Errorf("no clips for %q", speech.Normalize(text))
	}
	if err != nil {
		return err
	}

	for _, clip := range clips {
		fmt.Fprintln(cmd.OutOrStdout(), clip)
	}
	return nil
}
