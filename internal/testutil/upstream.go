// Package testutil provides a fake random-d.uk server for tests
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/iTrooz/duckduck/api"
)

const apiPrefix = "/api/v2/"

// UploadedFile is a file received by the fake upload endpoint
type UploadedFile struct {
	Field    string
	Filename string
	Content  []byte
}

// Upstream imitates the random-d.uk API on a local httptest server.
// Binary endpoints answer with a body derived from the path, so tests can
// tell which resource was served.
type Upstream struct {
	Server *httptest.Server

	mu        sync.Mutex
	randomURL string
	listing   api.Listing
	upload    api.UploadResponse
	statuses  map[string]int
	requests  []string
	uploads   []UploadedFile
}

// NewUpstream starts a fake API that is closed when the test ends
func NewUpstream(t testing.TB) *Upstream {
	t.Helper()

	u := &Upstream{
		randomURL: "https://random-d.uk/api/v2/1.jpg",
		upload:    api.UploadResponse{Success: true, Message: "uploaded"},
		statuses:  make(map[string]int),
	}
	u.Server = httptest.NewServer(http.HandlerFunc(u.handle))
	t.Cleanup(u.Server.Close)
	return u
}

// BaseURL is the URL GET endpoints are appended to
func (u *Upstream) BaseURL() string {
	return u.Server.URL + apiPrefix
}

// UploadURL is the URL of the fake upload endpoint
func (u *Upstream) UploadURL() string {
	return u.Server.URL + "/add?format=json"
}

// SetRandomURL sets the link served by the random endpoint
func (u *Upstream) SetRandomURL(link string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.randomURL = link
}

// SetListing sets the body served by the list endpoint
func (u *Upstream) SetListing(listing api.Listing) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.listing = listing
}

// SetUploadResponse sets the body served by the upload endpoint
func (u *Upstream) SetUploadResponse(resp api.UploadResponse) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.upload = resp
}

// SetStatus forces path (e.g. "/api/v2/list") to answer with status
func (u *Upstream) SetStatus(path string, status int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.statuses[path] = status
}

// Requests returns the request URIs received so far, in order
func (u *Upstream) Requests() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.requests...)
}

// Uploads returns the files received by the upload endpoint
func (u *Upstream) Uploads() []UploadedFile {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]UploadedFile(nil), u.uploads...)
}

// ImageBody is the body served for a binary endpoint path such as "12.jpg"
// or "randomimg?type=gif"
func ImageBody(endpoint string) []byte {
	return []byte("duck:" + endpoint)
}

func (u *Upstream) handle(w http.ResponseWriter, requ *http.Request) {
	u.mu.Lock()
	u.requests = append(u.requests, requ.URL.RequestURI())
	status, forced := u.statuses[requ.URL.Path]
	u.mu.Unlock()

	if forced && status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(http.StatusText(status)))
		return
	}

	if requ.URL.Path == "/add" {
		u.handleUpload(w, requ)
		return
	}

	endpoint, ok := strings.CutPrefix(requ.URL.Path, apiPrefix)
	if !ok || requ.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	u.mu.Lock()
	randomURL, listing := u.randomURL, u.listing
	u.mu.Unlock()

	switch endpoint {
	case "random":
		writeJSON(w, api.RandomLink{URL: randomURL})
	case "list":
		writeJSON(w, listing)
	case "randomimg":
		if requ.URL.RawQuery != "" {
			endpoint += "?" + requ.URL.RawQuery
		}
		writeImage(w, endpoint)
	default:
		if strings.HasSuffix(endpoint, ".jpg") || strings.HasSuffix(endpoint, ".gif") || strings.HasPrefix(endpoint, "http/") {
			writeImage(w, endpoint)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}
}

func (u *Upstream) handleUpload(w http.ResponseWriter, requ *http.Request) {
	if requ.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	file, header, err := requ.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("missing file field: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	u.mu.Lock()
	u.uploads = append(u.uploads, UploadedFile{Field: "file", Filename: header.Filename, Content: content})
	resp := u.upload
	u.mu.Unlock()

	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

func writeImage(w http.ResponseWriter, endpoint string) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(ImageBody(endpoint))
}
