package groups

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	groupdomain "social-app-go/internal/domain/group"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/internal/transport/httpserver/handler/posts"
	"social-app-go/internal/transport/httpserver/middleware"
)

type groupRequest struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	AutoApproval bool   `json:"auto_approval"`
}

type inviteRequest struct {
	Email string `json:"email" validate:"required"`
}

type processRequestRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

type removeUserRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

type changeRoleRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=user admin"`
}

func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

func (h *Handlers) ListGroups(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}

	items, err := h.Groups.ListUserGroups(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, "groups.list", err, "user_id", user.ID)
		return
	}

	resp := groupListResponse{Items: make([]groupResponse, 0, len(items)), Total: len(items)}
	for _, item := range items {
		resp.Items = append(resp.Items, h.toUserGroupResponse(item))
	}
	commonhandler.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	var req groupRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.Groups.CreateGroup(r.Context(), user.ID, groupdomain.GroupInput{
		Name:         req.Name,
		Description:  req.Description,
		AutoApproval: req.AutoApproval,
	})
	if err != nil {
		h.writeError(w, "groups.create", err, "user_id", user.ID)
		return
	}

	commonhandler.WriteJSON(w, http.StatusCreated, h.toUserGroupResponse(*created))
}

// GetGroup is public. Members see the feed and member list; admins also see pending requests.
func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.UserIDFromContext(r.Context())
	slug := urlParam(r, "slug")
	page, err := commonhandler.PageParam(r)
	if err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid page")
		return
	}

	view, err := h.Groups.GetGroupView(r.Context(), actorID, slug)
	if err != nil {
		h.writeError(w, "groups.get", err, "user_id", actorID, "slug", slug)
		return
	}

	resp := groupViewResponse{
		Group:          h.toGroupResponse(view.Group),
		IsAdmin:        view.IsAdmin,
		IsOwner:        view.IsOwner,
		CanViewContent: view.CanViewContent,
		Users:          h.toMemberResponses(view.Members),
		Requests:       h.toMemberResponses(view.Requests),
	}
	if view.Membership != nil {
		role, status := view.Membership.Role, view.Membership.Status
		resp.Group.Role = &role
		resp.Group.Status = &status
	}
	if view.CanViewContent {
		feed, err := h.Posts.GroupFeed(r.Context(), actorID, view.Group.ID, page)
		if err != nil {
			h.log.InternalError("groups.get: feed failed", err, "user_id", actorID, "group_id", view.Group.ID)
			commonhandler.WriteInternal(w)
			return
		}
		pageResp := posts.ToPageResponse(feed, h.urls)
		resp.Posts = &pageResp
	}

	commonhandler.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	slug := urlParam(r, "slug")
	var req groupRequest
	if !h.decodeAsAdmin(w, r, user.ID, slug, &req) {
		return
	}

	updated, err := h.Groups.UpdateGroup(r.Context(), user.ID, slug, groupdomain.GroupInput{
		Name:         req.Name,
		Description:  req.Description,
		AutoApproval: req.AutoApproval,
	})
	if err != nil {
		h.writeError(w, "groups.update", err, "user_id", user.ID, "slug", slug)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, h.toGroupResponse(*updated))
}

func (h *Handlers) UpdateImages(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	slug := urlParam(r, "slug")

	if err := r.ParseMultipartForm(h.memory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_form", "invalid form body")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	var input groupdomain.ImagesInput
	closers := make([]io.Closer, 0, 2)
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()
	for field, dst := range map[string]**groupdomain.ImageUpload{"cover": &input.Cover, "thumbnail": &input.Thumbnail} {
		file, header, err := formFile(r, field)
		if err != nil {
			h.log.InternalError("groups.update_images: open upload failed", err, "field", field)
			commonhandler.WriteInternal(w)
			return
		}
		if file == nil {
			continue
		}
		closers = append(closers, file)
		*dst = &groupdomain.ImageUpload{Filename: header.Filename, Content: file}
	}

	updated, err := h.Groups.UpdateImages(r.Context(), user.ID, slug, input)
	if err != nil {
		h.writeError(w, "groups.update_images", err, "user_id", user.ID, "slug", slug)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, h.toGroupResponse(*updated))
}

func formFile(r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil, nil
	}
	header := r.MultipartForm.File[field][0]
	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	return file, header, nil
}

func (h *Handlers) Invite(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	slug := urlParam(r, "slug")
	var req inviteRequest
	if !h.decodeAsAdmin(w, r, user.ID, slug, &req) {
		return
	}

	membership, err := h.Groups.Invite(r.Context(), user.ID, slug, req.Email)
	if err != nil {
		h.writeError(w, "groups.invite", err, "user_id", user.ID, "slug", slug)
		return
	}

	commonhandler.WriteJSON(w, http.StatusCreated, toMembershipResponse(*membership))
}

func (h *Handlers) Join(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	slug := urlParam(r, "slug")

	membership, err := h.Groups.RequestJoin(r.Context(), user.ID, slug)
	if err != nil {
		h.writeError(w, "groups.join", err, "user_id", user.ID, "slug", slug)
		return
	}

	status := http.StatusAccepted
	if membership.Status == groupdomain.StatusApproved {
		status = http.StatusOK
	}
	commonhandler.WriteJSON(w, status, toMembershipResponse(*membership))
}

func (h *Handlers) ProcessRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	slug := urlParam(r, "slug")
	var req processRequestRequest
	if !h.decodeAsAdmin(w, r, user.ID, slug, &req) {
		return
	}

	if err := h.Groups.ProcessJoinRequest(r.Context(), user.ID, slug, req.UserID, req.Action); err != nil {
		h.writeError(w, "groups.process_request", err, "user_id", user.ID, "slug", slug, "target_user_id", req.UserID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RemoveUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	slug := urlParam(r, "slug")
	var req removeUserRequest
	if !h.decodeAsAdmin(w, r, user.ID, slug, &req) {
		return
	}

	if err := h.Groups.RemoveMember(r.Context(), user.ID, slug, req.UserID); err != nil {
		h.writeError(w, "groups.remove_user", err, "user_id", user.ID, "slug", slug, "target_user_id", req.UserID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ChangeRole(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	slug := urlParam(r, "slug")
	var req changeRoleRequest
	if !h.decodeAsAdmin(w, r, user.ID, slug, &req) {
		return
	}

	if err := h.Groups.ChangeRole(r.Context(), user.ID, slug, req.UserID, req.Role); err != nil {
		h.writeError(w, "groups.change_role", err, "user_id", user.ID, "slug", slug, "target_user_id", req.UserID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeAsAdmin checks admin rights before reading the body, so non-admins get 403 rather than
// json or field errors.
func (h *Handlers) decodeAsAdmin(w http.ResponseWriter, r *http.Request, actorID uint, slug string, dst interface{}) bool {
	if err := h.Groups.AuthorizeAdmin(r.Context(), actorID, slug); err != nil {
		h.writeError(w, "groups.authorize", err, "user_id", actorID, "slug", slug)
		return false
	}
	if err := commonhandler.DecodeJSON(r, dst); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return false
	}
	return commonhandler.ValidateRequest(w, dst)
}
