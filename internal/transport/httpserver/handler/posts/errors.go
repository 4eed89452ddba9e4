package posts

import (
	"errors"
	"net/http"

	commentdomain "social-app-go/internal/domain/comment"
	postdomain "social-app-go/internal/domain/post"
	"social-app-go/internal/domain/reaction"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
)

// writeError maps post, comment and reaction errors onto the response and logs them.
func (h *Handlers) writeError(w http.ResponseWriter, op string, err error, args ...any) {
	if errs, ok := commonhandler.AsValidation(err); ok {
		h.log.BusinessError(op+": validation failed", err, args...)
		commonhandler.WriteValidation(w, errs)
		return
	}

	switch {
	case errors.Is(err, postdomain.ErrPostNotFound):
		h.log.BusinessError(op+": post not found", err, args...)
		commonhandler.WriteError(w, http.StatusNotFound, "post_not_found", "post not found")
	case errors.Is(err, postdomain.ErrAttachmentNotFound):
		h.log.BusinessError(op+": attachment not found", err, args...)
		commonhandler.WriteError(w, http.StatusNotFound, "attachment_not_found", "attachment not found")
	case errors.Is(err, commentdomain.ErrCommentNotFound):
		h.log.BusinessError(op+": comment not found", err, args...)
		commonhandler.WriteError(w, http.StatusNotFound, "comment_not_found", "comment not found")
	case errors.Is(err, postdomain.ErrNotAuthor), errors.Is(err, commentdomain.ErrNotAuthor):
		h.log.BusinessError(op+": not author", err, args...)
		commonhandler.WriteError(w, http.StatusForbidden, "forbidden", "you don't have permission to perform this action")
	case errors.Is(err, postdomain.ErrNotGroupMember):
		h.log.BusinessError(op+": not group member", err, args...)
		commonhandler.WriteError(w, http.StatusForbidden, "forbidden", "you don't have permission to perform this action")
	case errors.Is(err, reaction.ErrInvalidTarget):
		h.log.BusinessError(op+": invalid reaction target", err, args...)
		commonhandler.WriteError(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, postdomain.ErrPostNotCreated):
		h.log.InternalError(op+": post not created", err, args...)
		commonhandler.WriteError(w, http.StatusInternalServerError, "post_not_created", "the post could not be created")
	case errors.Is(err, postdomain.ErrPostNotUpdated):
		h.log.InternalError(op+": post not updated", err, args...)
		commonhandler.WriteError(w, http.StatusInternalServerError, "post_not_updated", "the post could not be updated")
	default:
		h.log.InternalError(op+": failed", err, args...)
		commonhandler.WriteInternal(w)
	}
}
