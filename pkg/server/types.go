package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/jmoiron/sqlx"
)

type Config struct {
	DbLocation     string
	ListenAddr     string
	Port           int
	SchemaLocation string
	Debug          bool
}

type Server struct {
	db     *sqlx.DB
	Router http.Handler
	Cfg    Config

	log     *slog.Logger
	watcher *fsnotify.Watcher

	mu      sync.RWMutex
	schemas *SchemaFile
}

type Document struct {
	Id      string         `json:"_id"`
	Content map[string]any `json:"_source"`
}

type SearchResponse struct {
	Took     int        `json:"took"`
	TimedOut bool       `json:"timed_out"`
	Shards   ShardsInfo `json:"_shards"`
	Hits     *Hits      `json:"hits"`
}

type Hits struct {
	Total int        `json:"total"`
	Hits  []Document `json:"hits"`
}

type ShardsInfo struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

func MakeShardsInfo() ShardsInfo {
	return ShardsInfo{Total: 1, Successful: 1, Failed: 0}
}

type IndexDocumentResponse struct {
	Index   string `json:"_index"`
	Id      string `json:"_id"`
	Version int    `json:"_version"`
	Result  string `json:"result"`
}

type CreateIndexResponse struct {
	Acknowledged       bool   `json:"acknowledged"`
	ShardsAcknowledged bool   `json:"shards_acknowledged"`
	Index              string `json:"index"`
}
