package groups

import (
	"errors"
	"net/http"

	groupdomain "social-app-go/internal/domain/group"
	"social-app-go/internal/domain/validation"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
)

// writeError maps group errors onto the response and logs them.
func (h *Handlers) writeError(w http.ResponseWriter, op string, err error, args ...any) {
	if errs, ok := commonhandler.AsValidation(err); ok {
		h.log.BusinessError(op+": validation failed", err, args...)
		commonhandler.WriteValidation(w, errs)
		return
	}

	switch {
	case errors.Is(err, groupdomain.ErrGroupNotFound):
		h.log.BusinessError(op+": group not found", err, args...)
		commonhandler.WriteError(w, http.StatusNotFound, "group_not_found", "group not found")
	case errors.Is(err, groupdomain.ErrNotAdmin):
		h.log.BusinessError(op+": not admin", err, args...)
		commonhandler.WriteError(w, http.StatusForbidden, "not_admin", "you don't have permission to perform this action")
	case errors.Is(err, groupdomain.ErrOwnerProtected):
		h.log.BusinessError(op+": owner protected", err, args...)
		commonhandler.WriteError(w, http.StatusForbidden, "owner_protected", "the group owner cannot be changed")
	case errors.Is(err, groupdomain.ErrInviteeNotFound):
		h.log.BusinessError(op+": invitee not found", err, args...)
		commonhandler.WriteValidation(w, validation.Field("email", "User does not exist."))
	case errors.Is(err, groupdomain.ErrAlreadyMember):
		h.log.BusinessError(op+": already member", err, args...)
		commonhandler.WriteError(w, http.StatusConflict, "already_member", "user is already a member of the group")
	case errors.Is(err, groupdomain.ErrRequestPending), errors.Is(err, groupdomain.ErrMembershipExists):
		h.log.BusinessError(op+": request pending", err, args...)
		commonhandler.WriteError(w, http.StatusConflict, "request_pending", "a join request is already pending")
	default:
		h.log.InternalError(op+": failed", err, args...)
		commonhandler.WriteInternal(w)
	}
}
