package posts

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	postdomain "social-app-go/internal/domain/post"
	"social-app-go/internal/domain/validation"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/internal/transport/httpserver/middleware"
)

func (h *Handlers) Timeline(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	page, err := commonhandler.PageParam(r)
	if err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid page")
		return
	}

	result, err := h.Posts.Timeline(r.Context(), user.ID, page)
	if err != nil {
		h.writeError(w, "posts.timeline", err, "user_id", user.ID)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, ToPageResponse(result, h.urls))
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	id, ok := commonhandler.URLParamID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.Posts.GetPost(r.Context(), user.ID, id)
	if err != nil {
		h.writeError(w, "posts.get", err, "user_id", user.ID, "post_id", id)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, ToPostResponse(*view, h.urls))
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	if !h.parseForm(w, r) {
		return
	}
	defer removeMultipart(r)

	input := postdomain.CreateInput{
		Body:        r.FormValue("body"),
		Attachments: formUploads(r, "attachments"),
	}
	if raw := strings.TrimSpace(r.FormValue("group_id")); raw != "" {
		groupID, err := commonhandler.ParseID(raw)
		if err != nil {
			commonhandler.WriteValidation(w, validation.Field("group_id", "The selected group id is invalid."))
			return
		}
		input.GroupID = &groupID
	}

	view, err := h.Posts.CreatePost(r.Context(), user.ID, input)
	if err != nil {
		h.writeError(w, "posts.create", err, "user_id", user.ID)
		return
	}

	commonhandler.WriteJSON(w, http.StatusCreated, ToPostResponse(*view, h.urls))
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	id, ok := commonhandler.URLParamID(w, r, "id")
	if !ok {
		return
	}
	if !h.parseForm(w, r) {
		return
	}
	defer removeMultipart(r)

	deleted, err := formIDs(r, "deleted_attachment_ids")
	if err != nil {
		commonhandler.WriteValidation(w, validation.Field("deleted_attachment_ids", "The deleted attachment ids are invalid."))
		return
	}

	view, err := h.Posts.UpdatePost(r.Context(), user.ID, id, postdomain.UpdateInput{
		Body:                 r.FormValue("body"),
		Attachments:          formUploads(r, "attachments"),
		DeletedAttachmentIDs: deleted,
	})
	if err != nil {
		h.writeError(w, "posts.update", err, "user_id", user.ID, "post_id", id)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, ToPostResponse(*view, h.urls))
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	id, ok := commonhandler.URLParamID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Posts.DeletePost(r.Context(), user.ID, id); err != nil {
		h.writeError(w, "posts.delete", err, "user_id", user.ID, "post_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	id, ok := commonhandler.URLParamID(w, r, "attachmentId")
	if !ok {
		return
	}

	body, attachment, err := h.Posts.OpenAttachment(r.Context(), user.ID, id)
	if err != nil {
		h.writeError(w, "posts.download", err, "user_id", user.ID, "attachment_id", id)
		return
	}
	defer body.Close()

	contentType := attachment.Mime
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": attachment.Name}))
	if attachment.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(attachment.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.log.Warn("posts.download: copy interrupted", "attachment_id", id, "err", err)
	}
}

type reactionRequest struct {
	Reaction string `json:"reaction" validate:"omitempty,oneof=like love haha wow sad angry"`
}

func (h *Handlers) PostReaction(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	id, ok := commonhandler.URLParamID(w, r, "id")
	if !ok {
		return
	}
	var req reactionRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	result, err := h.Posts.ToggleReaction(r.Context(), user.ID, id, req.Reaction)
	if err != nil {
		h.writeError(w, "posts.reaction", err, "user_id", user.ID, "post_id", id)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, toReactionResponse(result))
}

// parseForm accepts multipart and urlencoded bodies.
func (h *Handlers) parseForm(w http.ResponseWriter, r *http.Request) bool {
	err := r.ParseMultipartForm(h.memory)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return true
	}
	commonhandler.WriteError(w, http.StatusBadRequest, "invalid_form", "invalid form body")
	return false
}

func removeMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// formUploads collects files sent as name[] or name.
func formUploads(r *http.Request, name string) []postdomain.Upload {
	if r.MultipartForm == nil {
		return nil
	}

	var headers []*multipart.FileHeader
	headers = append(headers, r.MultipartForm.File[name+"[]"]...)
	headers = append(headers, r.MultipartForm.File[name]...)

	uploads := make([]postdomain.Upload, 0, len(headers))
	for _, fh := range headers {
		uploads = append(uploads, postdomain.Upload{
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return uploads
}

func formIDs(r *http.Request, name string) ([]uint, error) {
	var raw []string
	raw = append(raw, r.Form[name+"[]"]...)
	raw = append(raw, r.Form[name]...)

	ids := make([]uint, 0, len(raw))
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := commonhandler.ParseID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// decodeOptional accepts an empty body as the zero request.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := commonhandler.DecodeJSON(r, dst); err != nil && !errors.Is(err, io.EOF) {
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return false
	}
	if err := commonhandler.Validate(dst); err != nil {
		if errs, ok := commonhandler.AsValidation(err); ok {
			commonhandler.WriteValidation(w, errs)
			return false
		}
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return false
	}
	return true
}
