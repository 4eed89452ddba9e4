package groups

import (
	"time"

	groupdomain "social-app-go/internal/domain/group"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/internal/transport/httpserver/handler/posts"
)

type groupResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	AutoApproval bool      `json:"auto_approval"`
	CoverURL     *string   `json:"cover_url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	UserID       uint      `json:"user_id"`
	Role         *string   `json:"role,omitempty"`
	Status       *string   `json:"status,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type memberResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	JoinedAt  time.Time `json:"joined_at"`
}

type groupViewResponse struct {
	Group          groupResponse       `json:"group"`
	IsAdmin        bool                `json:"is_admin"`
	IsOwner        bool                `json:"is_owner"`
	CanViewContent bool                `json:"can_view_content"`
	Posts          *posts.PageResponse `json:"posts"`
	Users          []memberResponse    `json:"users"`
	Requests       []memberResponse    `json:"requests"`
}

type groupListResponse struct {
	Items []groupResponse `json:"items"`
	Total int             `json:"total"`
}

type membershipResponse struct {
	GroupID uint   `json:"group_id"`
	UserID  uint   `json:"user_id"`
	Role    string `json:"role"`
	Status  string `json:"status"`
}

func (h *Handlers) toGroupResponse(group groupdomain.Group) groupResponse {
	return groupResponse{
		ID:           group.ID,
		Name:         group.Name,
		Slug:         group.Slug,
		Description:  group.Description,
		AutoApproval: group.AutoApproval,
		CoverURL:     commonhandler.PublicURL(h.urls, group.CoverPath),
		ThumbnailURL: commonhandler.PublicURL(h.urls, group.ThumbnailPath),
		UserID:       group.OwnerID,
		CreatedAt:    group.CreatedAt,
		UpdatedAt:    group.UpdatedAt,
	}
}

func (h *Handlers) toUserGroupResponse(item groupdomain.UserGroup) groupResponse {
	resp := h.toGroupResponse(item.Group)
	role, status := item.Role, item.Status
	resp.Role = &role
	resp.Status = &status
	return resp
}

func (h *Handlers) toMemberResponses(members []groupdomain.MemberProfile) []memberResponse {
	result := make([]memberResponse, 0, len(members))
	for _, m := range members {
		result = append(result, memberResponse{
			ID:        m.UserID,
			Name:      m.Name,
			Username:  m.Username,
			Email:     m.Email,
			AvatarURL: commonhandler.PublicURL(h.urls, m.AvatarPath),
			Role:      m.Role,
			Status:    m.Status,
			JoinedAt:  m.JoinedAt,
		})
	}
	return result
}

func toMembershipResponse(m groupdomain.Membership) membershipResponse {
	return membershipResponse{GroupID: m.GroupID, UserID: m.UserID, Role: m.Role, Status: m.Status}
}
