package web

import (
	"encoding/json"
	"log"
	"net/http"

	"soldak-mdm/internal/mdm"
)

type jsonError struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeResult(w, data)
}

func writeFile(w http.ResponseWriter, data []byte, name, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	writeResult(w, data)
}

func writeResult(w http.ResponseWriter, data []byte) {
	if _, err := w.Write(data); err != nil {
		log.Printf("[web] Error when writing response: %v", err)
	}
}

// writeError reports err as JSON. Decode failures carry their error kind.
func writeError(w http.ResponseWriter, status int, err error) {
	je := jsonError{Error: err.Error()}
	if k := mdm.KindOf(err); k != 0 {
		je.Kind = k.String()
	}
	data, _ := json.Marshal(je)
	log.Printf("[web] HERR %d: %s", status, data)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeResult(w, data)
}
