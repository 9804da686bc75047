package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	require "github.com/alecthomas/assert/v2"

	"github.com/cultpony/search-parser/pkg/logging"
	"github.com/cultpony/search-parser/pkg/search"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	s := New(Config{}, logging.Discard())
	s.schemas = &SchemaFile{
		Default: &search.Config{
			IntFields:    []string{"age"},
			DateFields:   []string{"created"},
			DefaultField: "text",
		},
	}
	s.registerRoutes()
	return s
}

func TestCompileHandler(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("POST", "/myindex/_compile", strings.NewReader("age.gte:18"))
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `{"range":{"age":{"gte":18}}}`, strings.TrimSpace(rec.Body.String()))
}

func TestCompileHandlerParseError(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("POST", "/myindex/_compile", strings.NewReader("age:abc"))
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := ErrorResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Expected an integer", resp.Error)
}

func TestCompileHandlerEmptyQuery(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("POST", "/myindex/_compile", strings.NewReader(""))
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `{"match_none":{}}`, strings.TrimSpace(rec.Body.String()))
}

func TestStatusHandler(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := StatusResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "7.17", resp.Version.Number)
}

func TestLoadSchemaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	err := os.WriteFile(path, []byte(`{
		"default": {"default_field": "text"},
		"indexes": {
			"people": {
				"int_fields": ["age"],
				"bool_fields": ["active"],
				"default_field": "name"
			}
		}
	}`), 0o644)
	require.NoError(t, err)

	sf, err := LoadSchemaFile(path)
	require.NoError(t, err)

	people := sf.schemaFor("people")
	require.Equal(t, "name", people.DefaultField)
	require.Equal(t, []string{"age"}, people.IntFields)

	other := sf.schemaFor("other")
	require.Equal(t, "text", other.DefaultField)
}

func TestSchemaForWithoutFile(t *testing.T) {
	var sf *SchemaFile
	cfg := sf.schemaFor("anything")
	require.Equal(t, "text", cfg.DefaultField)
}
