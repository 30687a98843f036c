package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultSizeLimit caps uploads at 20MB unless configured otherwise.
	DefaultSizeLimit int64 = 20 * 1024 * 1024

	// DefaultTimeout bounds a single upload transfer.
	DefaultTimeout = 30 * time.Second
)

// File is the image handed to the uploader.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// SignedUpload is the server's answer to an upload-url request: where to
// PUT the bytes, and the public URL the object will be served from. The
// server-computed key is authoritative; the client cannot choose the
// storage path.
type SignedUpload struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	Key       string `json:"key"`
}

// GetUploadURLFunc requests a pre-signed upload URL from a trusted
// server-side endpoint. The declared size lets the server enforce its own
// limit before signing.
type GetUploadURLFunc func(ctx context.Context, filename, contentType, folder string, size int64) (*SignedUpload, error)

type UploadResult struct {
	PublicURL string
}

// ProgressFunc receives the fraction of the file transferred so far, in
// [0, 1].
type ProgressFunc func(fraction float64)

// Uploader streams files to pre-signed storage URLs. Validation happens
// before any network call; transfer failures surface as typed
// *UploadError values.
type Uploader struct {
	SizeLimit int64
	Timeout   time.Duration
	Client    *http.Client
}

func NewUploader(sizeLimit int64) *Uploader {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	return &Uploader{
		SizeLimit: sizeLimit,
		Timeout:   DefaultTimeout,
		Client:    http.DefaultClient,
	}
}

func (u *Uploader) Upload(ctx context.Context, file File, folder string, onProgress ProgressFunc, getUploadURL GetUploadURLFunc) (*UploadResult, error) {
	if err := u.validate(file); err != nil {
		return nil, err
	}

	filename := UniqueFilename(file.Name)

	signed, err := getUploadURL(ctx, filename, file.ContentType, folder, file.Size)
	if err != nil {
		return nil, newUploadError(ErrKindNetwork, "failed to get upload url", err)
	}

	if err := u.put(ctx, file, signed.UploadURL, onProgress); err != nil {
		return nil, err
	}

	return &UploadResult{PublicURL: signed.PublicURL}, nil
}

func (u *Uploader) validate(file File) *UploadError {
	if file.Size > u.SizeLimit {
		return newUploadError(
			ErrKindFileTooLarge,
			fmt.Sprintf("file size exceeds %dMB limit", u.SizeLimit/1024/1024),
			nil,
		)
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return newUploadError(ErrKindInvalidType, "only image files are allowed", nil)
	}
	return nil
}

func (u *Uploader) put(ctx context.Context, file File, uploadURL string, onProgress ProgressFunc) error {
	timeout := u.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body := &progressReader{
		reader:     file.Content,
		total:      file.Size,
		onProgress: onProgress,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return newUploadError(ErrKindNetwork, "failed to build upload request", err)
	}
	req.ContentLength = file.Size
	req.Header.Set("Content-Type", file.ContentType)

	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return newUploadError(ErrKindTimeout, "upload timed out", err)
		}
		return newUploadError(ErrKindNetwork, "network error during upload", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newUploadError(
			ErrKindStatus,
			fmt.Sprintf("upload failed with status %d", resp.StatusCode),
			nil,
		)
	}

	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// UniqueFilename appends the current unix-millisecond timestamp to the base
// name, preserving the extension, to keep concurrent uploads of the same
// file from colliding.
func UniqueFilename(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(filepath.Base(name), ext)
	return fmt.Sprintf("%s-%d%s", base, time.Now().UnixMilli(), ext)
}

type progressReader struct {
	reader     io.Reader
	total      int64
	loaded     int64
	onProgress ProgressFunc
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.loaded += int64(n)
		if r.onProgress != nil && r.total > 0 {
			fraction := float64(r.loaded) / float64(r.total)
			if fraction > 1 {
				fraction = 1
			}
			r.onProgress(fraction)
		}
	}
	return n, err
}
