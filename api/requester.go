// Handles HTTP exchanges with the random-d.uk API
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL   = "https://random-d.uk/api/v2/"
	DefaultUploadURL = "https://random-d.uk/add?format=json"

	// form field the upload endpoint reads the image from
	uploadField = "file"
)

// Requester performs exactly one HTTP call per method invocation.
// It never retries.
type Requester struct {
	baseURL    string
	uploadURL  string
	httpClient *http.Client
	log        *logrus.Entry
}

// NewRequester creates a request layer. Empty URLs fall back to the defaults,
// a nil client uses the transport defaults and a nil logger uses the logrus
// standard logger.
func NewRequester(baseURL, uploadURL string, httpClient *http.Client, log *logrus.Entry) *Requester {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if uploadURL == "" {
		uploadURL = DefaultUploadURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Requester{
		baseURL:    baseURL,
		uploadURL:  uploadURL,
		httpClient: httpClient,
		log:        log,
	}
}

// BaseURL returns the URL every GET endpoint is appended to
func (r *Requester) BaseURL() string {
	return r.baseURL
}

// GetJSON issues a GET and decodes the JSON body into v
func (r *Requester) GetJSON(ctx context.Context, endpoint string, query url.Values, v any) error {
	body, err := r.get(ctx, endpoint, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", endpoint, err)
	}
	return nil
}

// GetBytes issues a GET and returns the raw body
func (r *Requester) GetBytes(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	return r.get(ctx, endpoint, query)
}

func (r *Requester) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	reqURL := r.baseURL + endpoint
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	log := r.log.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"method":     http.MethodGet,
		"url":        reqURL,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	log.Debug("Sending request")
	resp, err := r.httpClient.Do(req)
	if err != nil {
		log.Warnf("Request failed: %v", err)
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	log = log.WithField("status", resp.StatusCode)
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		log.Warn("Resource not found")
		return nil, NotFound()
	default:
		log.Warn("Unexpected response status")
		return nil, ConnectionFailure(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Debugf("Received %d bytes", len(body))
	return body, nil
}

// PostUpload sends the content of file as a multipart form to the upload URL
// and returns the message reported by the API on success.
func (r *Requester) PostUpload(ctx context.Context, filename string, file io.Reader) (string, error) {
	var form bytes.Buffer
	writer := multipart.NewWriter(&form)

	part, err := writer.CreateFormFile(uploadField, filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read upload source: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	log := r.log.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"method":     http.MethodPost,
		"url":        r.uploadURL,
		"filename":   filename,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.uploadURL, &form)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	log.Debugf("Uploading %d bytes", form.Len())
	resp, err := r.httpClient.Do(req)
	if err != nil {
		log.Warnf("Upload failed: %v", err)
		return "", fmt.Errorf("POST upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.StatusCode).Warn("Unexpected response status")
		return "", ConnectionFailure(resp.StatusCode)
	}

	var data UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}
	if !data.Success {
		log.Warnf("Upload rejected: %s", data.Message)
		return "", UploadRejected(data.Message)
	}

	log.Debug("Upload accepted")
	return data.Message, nil
}
