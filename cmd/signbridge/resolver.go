package main

import (
	"go.uber.org/zap"

	"github.com/ayusman/signbridge/internal/config"
	"github.com/ayusman/signbridge/internal/speech"
	"github.com/ayusman/signbridge/internal/store"
)

// loadResolver builds the speech resolver from the mapping file, then
// applies the clip mappings saved through the API. st may be nil.
func loadResolver(cfg *config.Config, st *store.Store, log *zap.Logger) *speech.Resolver {
	mapping := speech.DefaultMapping()
	if cfg.MappingFile != "" {
		m, err := speech.LoadMapping(cfg.MappingFile)
		if err != nil {
			log.Warn("using default clip mapping", zap.String("file", cfg.MappingFile), zap.Error(err))
		}
		mapping = m
	}

	resolver := speech.NewResolver(mapping)
	if st == nil {
		return resolver
	}

	saved, err := st.Clips().List()
	if err != nil {
		log.Warn("load saved clip mappings", zap.Error(err))
		return resolver
	}
	for _, c := range saved {
		resolver.Set(c.Phrase, c.Clips)
	}
	return resolver
}
