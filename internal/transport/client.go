// Package transport submits staged uploads to the analysis server and
// decodes its response envelope.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pm-dashboard/backend/internal/dashboard"
	"github.com/pm-dashboard/backend/internal/models"
)

// ErrorKind separates failures to reach the server from rejections it sent.
type ErrorKind int

const (
	NetworkFault ErrorKind = iota
	ServerRejected
)

// GenericFailureMessage is shown when the server gave no usable detail.
const GenericFailureMessage = "Analysis failed. Please try again."

// Error is a failed submission. Detail carries the server's message for
// rejections; network faults fall back to the generic message.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e.Kind == ServerRejected && e.Detail != "" {
		return e.Detail
	}
	return GenericFailureMessage
}

// Client posts multipart uploads to the dashboard server.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a client for the server at baseURL. No timeout is
// enforced: a hung request keeps the submission outstanding until the
// caller's context cancels it.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{},
	}
}

// NewClientWithHTTP creates a client with a caller-supplied http.Client.
func NewClientWithHTTP(baseURL string, httpc *http.Client) *Client {
	return &Client{baseURL: baseURL, httpc: httpc}
}

// Submit uploads the files and returns the analysis payload. Single mode
// posts the one file to /upload under the "file" field; multi mode posts
// all files to /upload-multiple under "files". The returned error is
// always a *transport.Error.
func (c *Client) Submit(ctx context.Context, mode dashboard.Mode, files []dashboard.SelectedFile) (*models.AnalysisResult, error) {
	if len(files) == 0 {
		return nil, &Error{Kind: ServerRejected, Detail: "no files to submit"}
	}

	endpoint := "/upload"
	field := "file"
	if mode == dashboard.ModeMulti {
		endpoint = "/upload-multiple"
		field = "files"
	}

	body, contentType, err := encodeMultipart(field, files)
	if err != nil {
		return nil, &Error{Kind: NetworkFault, Detail: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, body)
	if err != nil {
		return nil, &Error{Kind: NetworkFault, Detail: err.Error()}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &Error{Kind: NetworkFault, Detail: err.Error()}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, &Error{Kind: NetworkFault, Detail: err.Error()}
	}

	var envelope models.UploadResponse
	if err := json.Unmarshal(payload, &envelope); err != nil {
		// A body that is not the envelope means the server never answered
		// the protocol, so this counts as a transport fault.
		return nil, &Error{
			Kind:   NetworkFault,
			Detail: fmt.Sprintf("unexpected response from server (status %d)", resp.StatusCode),
		}
	}

	if !envelope.Success || envelope.Data == nil {
		return nil, &Error{Kind: ServerRejected, Detail: envelope.Error}
	}
	return envelope.Data, nil
}

func encodeMultipart(field string, files []dashboard.SelectedFile) (*bytes.Buffer, string, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	for _, f := range files {
		part, err := writer.CreateFormFile(field, f.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
