// Administrative and health related apis
package server

import (
	"net/http"
)

func (s *Server) HeadHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(nil)
}

type VersionStatus struct {
	Number                           string `json:"number"`
	BuildFlavor                      string `json:"build_flavor"`
	MinimumIndexCompatibilityVersion string `json:"minimum_index_compatibility_version"`
	MinimumWireCompatibilityVersion  string `json:"minimum_wire_compatibility_version"`
}

type StatusResponse struct {
	Name        string         `json:"name"`
	ClusterName string         `json:"cluster_name"`
	Version     *VersionStatus `json:"version"`
	TagLine     string         `json:"tagline"`
}

func (s *Server) StatusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &StatusResponse{
		Name:        "search-parser",
		ClusterName: "search-parser",
		Version: &VersionStatus{
			Number:                           "7.17",
			BuildFlavor:                      "default",
			MinimumIndexCompatibilityVersion: "6.8.0",
			MinimumWireCompatibilityVersion:  "6.8.0",
		},
		TagLine: "You know, for queries",
	})
}

// Anything we don't have a handler set up for
func (s *Server) DefaultHandler(w http.ResponseWriter, r *http.Request) {
	s.log.Warn("unsupported query URL", "path", r.URL.Path)
	w.WriteHeader(http.StatusNotImplemented)
	w.Write(nil)
}
