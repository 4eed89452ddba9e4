package groups

import (
	"errors"
	"net/http"

	groupdomain "social-app-go/internal/domain/group"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
)

const invitationPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Group invitation</title>
</head>
<body>
<main>
<h1>Group invitation</h1>
<p class="{{.Reason}}">{{.Message}}</p>
</main>
</body>
</html>
`

type invitationPage struct {
	Reason  groupdomain.InvitationFailure
	Message string
}

// ApproveInvitation is opened from an emailed link, so failures render a page instead of JSON.
func (h *Handlers) ApproveInvitation(w http.ResponseWriter, r *http.Request) {
	token := urlParam(r, "token")

	group, err := h.Groups.ApproveInvitation(r.Context(), token)
	if err != nil {
		var invitationErr *groupdomain.InvitationError
		if errors.As(err, &invitationErr) {
			h.log.BusinessError("groups.approve_invitation: rejected", err, "reason", string(invitationErr.Reason))
			h.renderInvitationPage(w, invitationPage{Reason: invitationErr.Reason, Message: invitationErr.Message})
			return
		}
		h.log.InternalError("groups.approve_invitation: failed", err)
		commonhandler.WriteInternal(w)
		return
	}

	http.Redirect(w, r, "/group/"+group.Slug, http.StatusSeeOther)
}

func (h *Handlers) renderInvitationPage(w http.ResponseWriter, page invitationPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := h.invitationPage.Execute(w, page); err != nil {
		h.log.InternalError("groups.approve_invitation: render failed", err)
	}
}
