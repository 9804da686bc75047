package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cultpony/search-parser/pkg/dsl"
	"github.com/cultpony/search-parser/pkg/logging"
	"github.com/cultpony/search-parser/pkg/search"
)

// New builds a server from config. The logger may be nil.
func New(cfg Config, logger *slog.Logger) *Server {
	return &Server{
		Cfg: cfg,
		log: logging.Default(logger).With("component", "server"),
	}
}

func (s *Server) Init() error {
	db, err := openDb(s.Cfg.DbLocation)
	if err != nil {
		return err
	}
	s.db = db
	if err := s.loadSchemas(); err != nil {
		return err
	}
	if err := s.watchSchemas(); err != nil {
		return err
	}
	s.registerRoutes()
	return nil
}

// Close releases the database handle and the schema watcher.
func (s *Server) Close() error {
	if s.watcher != nil {
		s.watcher.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Server) registerRoutes() {
	r := mux.NewRouter()
	r.HandleFunc("/{index:[a-zA-Z0-9\\-]+}", s.CreateIndexHandler).Methods("PUT")
	r.HandleFunc("/{index:[a-zA-Z0-9\\-]+}/_create", s.IndexDocumentHandler).Methods("POST")
	r.HandleFunc("/{index:[a-zA-Z0-9\\-]+}/_compile", s.CompileHandler).Methods("POST")
	r.HandleFunc("/{index:[a-zA-Z0-9\\-]+}/_search", s.SearchHandler).Methods("POST")

	r.HandleFunc("/", s.HeadHandler).Methods("HEAD")
	r.HandleFunc("/", s.StatusHandler).Methods("GET")

	r.PathPrefix("/").HandlerFunc(s.DefaultHandler)
	if s.Cfg.Debug {
		r.Use(s.debugMiddleware)
	}

	s.Router = handlers.LoggingHandler(os.Stdout, r)
}

func (s *Server) debugMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		s.log.Debug("request", "uri", r.RequestURI, "body", string(b))
		r.Body = io.NopCloser(bytes.NewBuffer(b))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) CreateIndexHandler(w http.ResponseWriter, r *http.Request) {
	index := mux.Vars(r)["index"]
	if err := s.CreateTable(index); err != nil {
		handleErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CreateIndexResponse{
		Acknowledged:       true,
		ShardsAcknowledged: true,
		Index:              index,
	})
}

func (s *Server) IndexDocumentHandler(w http.ResponseWriter, r *http.Request) {
	index := mux.Vars(r)["index"]

	// Check if we need to implicitly create this index
	tables, err := s.ListTables()
	if err != nil {
		handleErrorResponse(w, err)
		return
	}
	if _, ok := tables[index]; !ok {
		if err := s.CreateTable(index); err != nil {
			handleErrorResponse(w, err)
			return
		}
	}

	b, err := io.ReadAll(r.Body)
	if err != nil {
		handleErrorResponse(w, err)
		return
	}
	id, err := s.IndexDocument(string(b), index)
	if err != nil {
		handleErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, IndexDocumentResponse{
		Index:   index,
		Id:      id,
		Version: 1,
		Result:  "created",
	})
}

// CompileHandler compiles the query-language body against the index schema
// and returns the query document without executing it.
func (s *Server) CompileHandler(w http.ResponseWriter, r *http.Request) {
	index := mux.Vars(r)["index"]
	b, err := io.ReadAll(r.Body)
	if err != nil {
		handleErrorResponse(w, err)
		return
	}
	q, err := s.compile(index, string(b))
	if err != nil {
		writeParseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// SearchHandler accepts either query-language text or a {"query": ...}
// JSON document, runs it against the index and returns the hits.
func (s *Server) SearchHandler(w http.ResponseWriter, r *http.Request) {
	index := mux.Vars(r)["index"]
	b, err := io.ReadAll(r.Body)
	if err != nil {
		handleErrorResponse(w, err)
		return
	}

	size := 0
	var q *dsl.Query
	body := bytes.TrimSpace(b)
	if len(body) > 0 && body[0] == '{' {
		req := &dsl.Request{}
		if err := json.Unmarshal(body, req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		q = req.Query
		if req.Size != nil {
			size = *req.Size
		}
	} else {
		q, err = s.compile(index, string(b))
		if err != nil {
			writeParseError(w, err)
			return
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			size = n
		}
	}

	docs, err := s.SearchItem(index, q, size)
	if err != nil {
		handleErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &SearchResponse{
		Took:   1,
		Shards: MakeShardsInfo(),
		Hits:   &Hits{Total: len(docs), Hits: docs},
	})
}

func (s *Server) compile(index, query string) (*dsl.Query, error) {
	p, err := s.parserFor(index)
	if err != nil {
		return nil, err
	}
	return p.Parse(query)
}

func writeParseError(w http.ResponseWriter, err error) {
	var perr *search.ParseError
	if errors.As(err, &perr) {
		writeError(w, http.StatusBadRequest, perr.Message)
		return
	}
	handleErrorResponse(w, err)
}
