package posts

import (
	"net/http"

	commentdomain "social-app-go/internal/domain/comment"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/internal/transport/httpserver/middleware"
)

type createCommentRequest struct {
	Comment  string `json:"comment" validate:"required"`
	ParentID *uint  `json:"parent_id" validate:"omitempty,gt=0"`
}

type updateCommentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	postID, ok := commonhandler.URLParamID(w, r, "id")
	if !ok {
		return
	}
	var req createCommentRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.Comments.Create(r.Context(), user.ID, postID, commentdomain.CreateInput{
		Body:     req.Comment,
		ParentID: req.ParentID,
	})
	if err != nil {
		h.writeError(w, "comments.create", err, "user_id", user.ID, "post_id", postID)
		return
	}

	commonhandler.WriteJSON(w, http.StatusCreated, toCommentResponse(*created, h.urls))
}

func (h *Handlers) UpdateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	id, ok := commonhandler.URLParamID(w, r, "id")
	if !ok {
		return
	}
	var req updateCommentRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.Comments.Update(r.Context(), user.ID, id, req.Comment)
	if err != nil {
		h.writeError(w, "comments.update", err, "user_id", user.ID, "comment_id", id)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, toCommentResponse(*updated, h.urls))
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	id, ok := commonhandler.URLParamID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Comments.Delete(r.Context(), user.ID, id); err != nil {
		h.writeError(w, "comments.delete", err, "user_id", user.ID, "comment_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CommentReaction(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.Comments.ToggleReaction(r.Context(), user.ID, id, req.Reaction)
	if err != nil {
		h.writeError(w, "comments.reaction", err, "user_id", user.ID, "comment_id", id)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, toReactionResponse(result))
}
