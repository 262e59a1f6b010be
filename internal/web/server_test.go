package web

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"soldak-mdm/internal/mdm"
	"soldak-mdm/internal/mdm/mdmtest"
	"soldak-mdm/internal/preview"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	files := map[string][]byte{
		"tri.mdm":   mdmtest.Triangle(),
		"bad.mdm":   make([]byte, mdm.HeaderSize),
		"notes.txt": []byte("ignored"),
		"inf.mdm": mdmtest.Build(
			[][3]float32{{0, 0, 0}, {1, 0, 0}, {float32(math.Inf(1)), 0, 1}},
			[][3]int32{{0, 1, 2}}),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	srv := httptest.NewServer(NewServer(dir, nil, preview.Options{Size: 32, Supersample: 1}).Router())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestList(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv.URL+"/api/models")
	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		t.Fatal(err)
	}
	if want := []string{"bad.mdm", "inf.mdm", "tri.mdm"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestSummary(t *testing.T) {
	srv := newTestServer(t)
	for _, name := range []string{"tri", "tri.mdm"} {
		resp := get(t, srv.URL+"/api/models/"+name)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status %d", name, resp.StatusCode)
		}
		var sum modelSummary
		if err := json.NewDecoder(resp.Body).Decode(&sum); err != nil {
			t.Fatal(err)
		}
		if sum.Name != "tri.mdm" || sum.Vertices != 3 || sum.Triangles != 1 || len(sum.Surfaces) != 1 {
			t.Errorf("%s: summary = %+v", name, sum)
		}
		if sum.Max == nil || *sum.Max != [3]float32{1, 0, 1} {
			t.Errorf("%s: max = %v", name, sum.Max)
		}
	}
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		path   string
		status int
		kind   string
	}{
		{"/api/models/missing", http.StatusNotFound, ""},
		{"/api/models/bad", http.StatusUnprocessableEntity, mdm.BadMagic.String()},
		{"/api/models/bad/records", http.StatusUnprocessableEntity, mdm.BadMagic.String()},
		{"/api/models/.hidden", http.StatusBadRequest, ""},
		{"/api/models/tri/preview.webp?size=4", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		resp := get(t, srv.URL+tt.path)
		if resp.StatusCode != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.path, resp.StatusCode, tt.status)
			continue
		}
		var je jsonError
		if err := json.NewDecoder(resp.Body).Decode(&je); err != nil {
			t.Errorf("%s: body is not a JSON error: %v", tt.path, err)
			continue
		}
		if je.Kind != tt.kind {
			t.Errorf("%s: kind = %q, want %q", tt.path, je.Kind, tt.kind)
		}
	}
}

func TestGLB(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv.URL+"/api/models/tri/glb")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "model/gltf-binary" {
		t.Errorf("Content-Type = %q", ct)
	}
	magic := make([]byte, 4)
	if _, err := io.ReadFull(resp.Body, magic); err != nil || string(magic) != "glTF" {
		t.Errorf("magic = %q, %v", magic, err)
	}
}

func TestPreview(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv.URL+"/api/models/tri/preview.webp?size=24")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/webp" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRecords(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv.URL+"/api/models/tri/records")
	var l mdm.Listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		t.Fatal(err)
	}
	if l.Header.Magic != mdm.Magic || len(l.Weights) != 3 || l.Triangles[0] != (mdm.TriangleRecord{0, 1, 2}) {
		t.Errorf("listing = %+v", l)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/api/models", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestNonFiniteModel(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv.URL+"/api/models/inf")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary status %d", resp.StatusCode)
	}
	var sum modelSummary
	if err := json.NewDecoder(resp.Body).Decode(&sum); err != nil {
		t.Fatal(err)
	}
	if sum.Max == nil || *sum.Max != [3]float32{1, 0, 0} {
		t.Errorf("max = %v, want finite bounds [1 0 0]", sum.Max)
	}

	resp = get(t, srv.URL+"/api/models/inf/records")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("records status %d", resp.StatusCode)
	}
	var raw struct {
		Weights []struct {
			Position []interface{}
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}
	if len(raw.Weights) != 3 || raw.Weights[2].Position[0] != "+Inf" || raw.Weights[1].Position[0] != 1.0 {
		t.Errorf("weights = %+v", raw.Weights)
	}
}

func TestJSONFloat(t *testing.T) {
	tests := []struct {
		in   float32
		want string
	}{
		{1.5, "1.5"},
		{0.1, "0.1"},
		{float32(math.NaN()), `"NaN"`},
		{float32(math.Inf(-1)), `"-Inf"`},
	}
	for _, tt := range tests {
		b, err := json.Marshal(jsonFloat(tt.in))
		if err != nil || string(b) != tt.want {
			t.Errorf("Marshal(%v) = %s, %v, want %s", tt.in, b, err, tt.want)
		}
	}
}
