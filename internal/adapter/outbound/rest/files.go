package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// FileUpload is the payload of POST /files/upload.
type FileUpload struct {
	OriginalName string `json:"originalname"`
	Filename     string `json:"filename"`
	Location     string `json:"location"`
	MimeType     string `json:"mimetype"`
	Size         int64  `json:"size"`
}

// UploadFile sends a file as multipart form data under the "file" field
// (the name the backend's upload middleware expects) and returns the stored
// file's public location.
//
// The multipart body is buffered up front so the pipeline can resubmit it
// verbatim if the request hits a 401 and the token refresh succeeds.
func (c *Client) UploadFile(ctx context.Context, filename string, r io.Reader) (*FileUpload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("buffer file contents: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	var env Envelope[FileUpload]
	if err := c.doRaw(ctx, http.MethodPost, "/files/upload", nil, mw.FormDataContentType(), buf.Bytes(), &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// DeleteFile removes a previously uploaded file by its stored filename.
func (c *Client) DeleteFile(ctx context.Context, filename string) error {
	var env Envelope[struct {
		Filename string `json:"filename"`
	}]
	path := "/files/delete/" + url.PathEscape(filename)
	return c.Do(ctx, http.MethodDelete, path, nil, nil, &env)
}
