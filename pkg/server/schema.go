package server

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"

	"github.com/cultpony/search-parser/pkg/search"
)

// SchemaFile maps index names to field schemas. An index without its own
// entry falls back to the default schema.
type SchemaFile struct {
	Default *search.Config            `json:"default"`
	Indexes map[string]*search.Config `json:"indexes"`
}

func LoadSchemaFile(path string) (*SchemaFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sf := &SchemaFile{}
	if err := json.Unmarshal(b, sf); err != nil {
		return nil, fmt.Errorf("schema file %s: %w", path, err)
	}
	return sf, nil
}

func (sf *SchemaFile) schemaFor(index string) search.Config {
	if sf != nil {
		if cfg, ok := sf.Indexes[index]; ok && cfg != nil {
			return *cfg
		}
		if sf.Default != nil {
			return *sf.Default
		}
	}
	return search.Config{DefaultField: "text"}
}

// parserFor builds a parser from the schema currently loaded for index.
func (s *Server) parserFor(index string) (*search.Parser, error) {
	s.mu.RLock()
	cfg := s.schemas.schemaFor(index)
	s.mu.RUnlock()
	return search.NewParser(cfg, clockwork.NewRealClock())
}

func (s *Server) loadSchemas() error {
	if s.Cfg.SchemaLocation == "" {
		return nil
	}
	sf, err := LoadSchemaFile(s.Cfg.SchemaLocation)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.schemas = sf
	s.mu.Unlock()
	return nil
}

// watchSchemas reloads the schema file whenever it is rewritten, so index
// schemas can change without a restart.
func (s *Server) watchSchemas() error {
	if s.Cfg.SchemaLocation == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(s.Cfg.SchemaLocation); err != nil {
		w.Close()
		return err
	}
	s.watcher = w

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					if err := s.loadSchemas(); err != nil {
						s.log.Error("schema reload failed", "path", ev.Name, "err", err)
						continue
					}
					s.log.Info("schema reloaded", "path", ev.Name)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Error("schema watcher", "err", err)
			}
		}
	}()
	return nil
}
