package server

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cultpony/search-parser/pkg/dsl"
)

func openDb(loc string) (*sqlx.DB, error) {
	d, err := sqlx.Open("sqlite3", loc)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// CreateTable mimics the creation of an elasticsearch index with an FTS5
// virtual table. The id column stays out of the fulltext index.
func (s *Server) CreateTable(index string) error {
	sql := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS "%s" USING fts5(id UNINDEXED, content);`,
		index,
	)
	_, err := s.db.Exec(sql)
	return err
}

// IndexDocument writes the document into the content TEXT blob and returns
// the assigned id.
func (s *Server) IndexDocument(doc string, index string) (string, error) {
	id := uuid.NewString()
	sql := fmt.Sprintf(`INSERT INTO "%s" (id, content) VALUES (?, json(?))`, index)
	_, err := s.db.Exec(sql, id, doc)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Server) ListTables() (map[string]struct{}, error) {
	rows, err := s.db.Query(`SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := map[string]struct{}{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables[name] = struct{}{}
	}
	return tables, rows.Err()
}

// SearchItem runs a compiled query document against the index table.
func (s *Server) SearchItem(index string, q *dsl.Query, size int) ([]Document, error) {
	sql, args, err := GenSql(index, q, size)
	if err != nil {
		return nil, err
	}
	s.log.Debug("search", "index", index, "sql", sql)

	rows, err := s.db.Query(sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc := Document{}
		var content string
		if err := rows.Scan(&doc.Id, &content); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(content), &doc.Content); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
