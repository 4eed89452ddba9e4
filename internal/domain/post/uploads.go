package post

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"social-app-go/internal/domain/validation"
)

var allowedExtensions = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "webp": {},
	"mp3": {}, "mp4": {}, "wav": {},
	"doc": {}, "docx": {}, "pdf": {}, "csv": {}, "xls": {}, "xlsx": {},
	"zip": {}, "rar": {},
}

type Limits struct {
	MaxAttachments    int
	MaxTotalBytes     int64
	TimelinePageSize  int
	GroupFeedPageSize int
}

func normalizeLimits(limits Limits) Limits {
	if limits.MaxAttachments <= 0 {
		limits.MaxAttachments = 50
	}
	if limits.MaxTotalBytes <= 0 {
		limits.MaxTotalBytes = 1 << 30
	}
	if limits.TimelinePageSize <= 0 {
		limits.TimelinePageSize = 20
	}
	if limits.GroupFeedPageSize <= 0 {
		limits.GroupFeedPageSize = 10
	}
	return limits
}

// validateUploads checks the uploads against the limits given keep files already on the post.
func validateUploads(limits Limits, keep int, uploads []Upload, errs validation.Errors) {
	if keep+len(uploads) > limits.MaxAttachments {
		errs.Add("attachments", fmt.Sprintf("A post may not have more than %d attachments.", limits.MaxAttachments))
	}

	var total int64
	for i, upload := range uploads {
		total += upload.Size
		if _, ok := allowedExtensions[extension(upload.Name)]; !ok {
			errs.Add(fmt.Sprintf("attachments.%d", i), "Invalid file type for attachments.")
		}
		if upload.Open == nil {
			errs.Add(fmt.Sprintf("attachments.%d", i), "Each attachment must be a file.")
		}
	}
	if total > limits.MaxTotalBytes {
		errs.Add("attachments", fmt.Sprintf("The total size of all files must not exceed %s.", humanBytes(limits.MaxTotalBytes)))
	}
}

func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

func contentType(upload Upload) string {
	if ct := strings.TrimSpace(upload.ContentType); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	if ct := mime.TypeByExtension("." + extension(upload.Name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func humanBytes(n int64) string {
	switch {
	case n >= 1<<30 && n%(1<<30) == 0:
		return fmt.Sprintf("%dGB", n>>30)
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}
