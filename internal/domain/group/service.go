package group

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"social-app-go/internal/domain/notification"
	"social-app-go/internal/domain/user"
	"social-app-go/internal/domain/validation"
	"social-app-go/internal/storage"
	"social-app-go/pkg/logger"
)

const (
	defaultInvitationTTL = 24 * time.Hour
	defaultCacheTTL      = 5 * time.Minute
	maxNameLength        = 255
	maxDescriptionLength = 5000

	coverMaxWidth      = 1600
	coverMaxHeight     = 900
	thumbnailMaxWidth  = 400
	thumbnailMaxHeight = 400
)

type UserDirectory interface {
	GetByID(ctx context.Context, id uint) (*user.User, error)
	FindByEmailOrUsername(ctx context.Context, value string) (*user.User, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID uint, msg notification.Message)
}

// ImageStore re-encodes an uploaded image and stores it under dir, returning the stored path.
type ImageStore interface {
	SaveImage(ctx context.Context, dir string, src io.Reader, maxWidth, maxHeight int) (string, error)
	Delete(ctx context.Context, path string) error
}

type Config struct {
	InvitationTTL time.Duration
	AppURL        string
	CacheTTL      time.Duration
}

type Service struct {
	repo     Repository
	users    UserDirectory
	notifier Notifier
	images   ImageStore
	cache    Cache
	cfg      Config
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, users UserDirectory, notifier Notifier, images ImageStore, log logger.Logger) *Service {
	return NewServiceWithConfig(repo, users, notifier, images, log, Config{})
}

func NewServiceWithConfig(repo Repository, users UserDirectory, notifier Notifier, images ImageStore, log logger.Logger, cfg Config) *Service {
	if cfg.InvitationTTL <= 0 {
		cfg.InvitationTTL = defaultInvitationTTL
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")
	if log == nil {
		log = logger.Nop()
	}

	return &Service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		images:   images,
		cache:    noopCache{},
		cfg:      cfg,
		log:      log.Component("groups"),
		now:      time.Now,
	}
}

// WithCache replaces the slug lookup cache.
func (s *Service) WithCache(cache Cache) *Service {
	if cache != nil {
		s.cache = cache
	}
	return s
}

func (s *Service) CreateGroup(ctx context.Context, actorID uint, input GroupInput) (*UserGroup, error) {
	input, err := normalizeGroupInput(input)
	if err != nil {
		return nil, err
	}

	var result UserGroup
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		slug, err := generateUniqueSlug(ctx, tx, input.Name)
		if err != nil {
			return err
		}

		group := Group{
			Name:         input.Name,
			Slug:         slug,
			Description:  input.Description,
			AutoApproval: input.AutoApproval,
			OwnerID:      actorID,
		}
		if err := tx.CreateGroup(ctx, &group); err != nil {
			return err
		}

		membership := Membership{
			UserID:    actorID,
			GroupID:   group.ID,
			Role:      RoleAdmin,
			Status:    StatusApproved,
			CreatedBy: actorID,
		}
		if err := tx.CreateMembership(ctx, &membership); err != nil {
			return err
		}

		result = UserGroup{Group: group, Role: membership.Role, Status: membership.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("group created", "group_id", result.Group.ID, "slug", result.Group.Slug, "user_id", actorID)
	return &result, nil
}

// GetGroupView returns the group and, for approved members, its members and pending requests.
// actorID 0 is an anonymous visitor.
func (s *Service) GetGroupView(ctx context.Context, actorID uint, slug string) (*GroupView, error) {
	group, err := s.groupBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	view := GroupView{Group: *group, IsOwner: s.IsOwner(group, actorID)}
	if actorID == 0 {
		return &view, nil
	}

	membership, err := s.repo.GetMembership(ctx, group.ID, actorID)
	if errors.Is(err, ErrMembershipNotFound) {
		return &view, nil
	}
	if err != nil {
		return nil, err
	}

	view.Membership = membership
	if membership.Status != StatusApproved {
		return &view, nil
	}

	view.CanViewContent = true
	view.IsAdmin = membership.Role == RoleAdmin

	view.Members, err = s.repo.ListMembers(ctx, group.ID, StatusApproved)
	if err != nil {
		return nil, err
	}
	if view.IsAdmin {
		view.Requests, err = s.repo.ListMembers(ctx, group.ID, StatusPending)
		if err != nil {
			return nil, err
		}
	}

	return &view, nil
}

func (s *Service) GetGroup(ctx context.Context, slug string) (*Group, error) {
	return s.groupBySlug(ctx, slug)
}

func (s *Service) UpdateGroup(ctx context.Context, actorID uint, slug string, input GroupInput) (*Group, error) {
	group, err := s.groupBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAdmin(ctx, group, actorID); err != nil {
		return nil, err
	}

	input, err = normalizeGroupInput(input)
	if err != nil {
		return nil, err
	}

	group.Name = input.Name
	group.Description = input.Description
	group.AutoApproval = input.AutoApproval
	if err := s.repo.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}

	s.cache.DeleteBySlug(ctx, group.Slug)
	return group, nil
}

func (s *Service) UpdateImages(ctx context.Context, actorID uint, slug string, input ImagesInput) (*Group, error) {
	group, err := s.groupBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAdmin(ctx, group, actorID); err != nil {
		return nil, err
	}
	if input.Cover == nil && input.Thumbnail == nil {
		return nil, validation.Field("cover", "Select a cover or a thumbnail image.")
	}

	dir := fmt.Sprintf("group-%d", group.ID)
	var replaced []string

	if input.Cover != nil {
		path, err := s.saveImage(ctx, dir, "cover", input.Cover, coverMaxWidth, coverMaxHeight)
		if err != nil {
			return nil, err
		}
		if group.CoverPath != nil {
			replaced = append(replaced, *group.CoverPath)
		}
		group.CoverPath = &path
	}

	if input.Thumbnail != nil {
		path, err := s.saveImage(ctx, dir, "thumbnail", input.Thumbnail, thumbnailMaxWidth, thumbnailMaxHeight)
		if err != nil {
			return nil, err
		}
		if group.ThumbnailPath != nil {
			replaced = append(replaced, *group.ThumbnailPath)
		}
		group.ThumbnailPath = &path
	}

	if err := s.repo.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}
	s.cache.DeleteBySlug(ctx, group.Slug)

	for _, path := range replaced {
		if err := s.images.Delete(ctx, path); err != nil {
			s.log.Warn("old group image not deleted", "err", err.Error(), "group_id", group.ID, "path", path)
		}
	}

	return group, nil
}

func (s *Service) Invite(ctx context.Context, actorID uint, slug, emailOrUsername string) (*Membership, error) {
	group, err := s.groupBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAdmin(ctx, group, actorID); err != nil {
		return nil, err
	}

	emailOrUsername = strings.TrimSpace(emailOrUsername)
	if emailOrUsername == "" {
		return nil, validation.Field("email", "The email field is required.")
	}

	invitee, err := s.users.FindByEmailOrUsername(ctx, emailOrUsername)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrInviteeNotFound
	}
	if err != nil {
		return nil, err
	}

	token, err := generateInvitationToken()
	if err != nil {
		return nil, err
	}
	expiry := s.now().UTC().Add(s.cfg.InvitationTTL)

	var result Membership
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		existing, err := tx.GetMembership(ctx, group.ID, invitee.ID)
		switch {
		case errors.Is(err, ErrMembershipNotFound):
		case err != nil:
			return err
		case existing.Status == StatusApproved:
			return ErrAlreadyMember
		default:
			if err := tx.DeleteMembership(ctx, existing.ID); err != nil {
				return err
			}
		}

		result = Membership{
			UserID:          invitee.ID,
			GroupID:         group.ID,
			Role:            RoleUser,
			Status:          StatusPending,
			Token:           &token,
			TokenExpiryDate: &expiry,
			CreatedBy:       actorID,
		}
		return tx.CreateMembership(ctx, &result)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, invitee.ID, notification.Message{
		Kind:    notification.KindInvitation,
		Subject: "Invitation to join a group",
		Body: fmt.Sprintf("You have been invited to join the %q group. The link is valid for %s.",
			group.Name, humanDuration(s.cfg.InvitationTTL)),
		ActionURL: s.cfg.AppURL + "/group/approve-invitation/" + token,
	})
	s.log.Info("group invitation sent", "group_id", group.ID, "user_id", invitee.ID, "invited_by", actorID)

	return &result, nil
}

// ApproveInvitation accepts an invitation token. The checks run in a fixed order so that
// a used token reports "already used" even after it has expired.
func (s *Service) ApproveInvitation(ctx context.Context, token string) (*Group, error) {
	if strings.TrimSpace(token) == "" {
		return nil, invalidInvitation()
	}

	membership, err := s.repo.GetMembershipByToken(ctx, token)
	if errors.Is(err, ErrMembershipNotFound) {
		return nil, invalidInvitation()
	}
	if err != nil {
		return nil, err
	}

	group, err := s.repo.GetGroupByID(ctx, membership.GroupID)
	if errors.Is(err, ErrGroupNotFound) {
		return nil, invalidInvitation()
	}
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	switch {
	case membership.TokenUsedAt != nil:
		return nil, usedInvitation(*membership.TokenUsedAt)
	case membership.Status == StatusApproved:
		return nil, approvedInvitation(group.Name)
	case membership.TokenExpiryDate != nil && membership.TokenExpiryDate.Before(now):
		return nil, expiredInvitation(*membership.TokenExpiryDate)
	}

	updated, err := s.repo.MarkInvitationUsed(ctx, membership.ID, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Another request consumed the token in between.
		current, err := s.repo.GetMembershipByToken(ctx, token)
		if err == nil && current.TokenUsedAt != nil {
			return nil, usedInvitation(*current.TokenUsedAt)
		}
		return nil, invalidInvitation()
	}

	memberName := "A user"
	if invitee, err := s.users.GetByID(ctx, membership.UserID); err == nil {
		memberName = displayName(invitee)
	}
	s.notifier.Notify(ctx, membership.CreatedBy, notification.Message{
		Kind:      notification.KindInvitationApproved,
		Subject:   "Invitation approved",
		Body:      fmt.Sprintf("%s has joined the %q group.", memberName, group.Name),
		ActionURL: s.groupURL(group.Slug),
	})
	s.log.Info("group invitation approved", "group_id", group.ID, "user_id", membership.UserID)

	return group, nil
}

// RequestJoin adds the actor to the group, directly when auto approval is on and as a
// pending request otherwise.
func (s *Service) RequestJoin(ctx context.Context, actorID uint, slug string) (*Membership, error) {
	group, err := s.groupBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	status := StatusApproved
	if !group.AutoApproval {
		status = StatusPending
	}

	var result Membership
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		existing, err := tx.GetMembership(ctx, group.ID, actorID)
		switch {
		case errors.Is(err, ErrMembershipNotFound):
		case err != nil:
			return err
		case existing.Status == StatusApproved:
			return ErrAlreadyMember
		case existing.Status == StatusPending:
			return ErrRequestPending
		default:
			if err := tx.DeleteMembership(ctx, existing.ID); err != nil {
				return err
			}
		}

		result = Membership{
			UserID:    actorID,
			GroupID:   group.ID,
			Role:      RoleUser,
			Status:    status,
			CreatedBy: actorID,
		}
		return tx.CreateMembership(ctx, &result)
	})
	if err != nil {
		return nil, err
	}

	if status == StatusPending {
		s.notifyAdminsOfRequest(ctx, group, actorID)
	}
	s.log.Info("group join requested", "group_id", group.ID, "user_id", actorID, "status", status)

	return &result, nil
}

// ProcessJoinRequest approves or rejects a pending membership. Without a pending row it does nothing.
func (s *Service) ProcessJoinRequest(ctx context.Context, actorID uint, slug string, userID uint, action string) error {
	group, err := s.groupBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.ensureAdmin(ctx, group, actorID); err != nil {
		return err
	}

	var status string
	switch action {
	case ActionApprove:
		status = StatusApproved
	case ActionReject:
		status = StatusRejected
	default:
		return validation.Field("action", "The action must be approve or reject.")
	}

	membership, err := s.repo.GetMembership(ctx, group.ID, userID)
	if errors.Is(err, ErrMembershipNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if membership.Status != StatusPending {
		return nil
	}

	if err := s.repo.UpdateMembershipStatus(ctx, membership.ID, status); err != nil {
		return err
	}

	s.notifier.Notify(ctx, userID, notification.Message{
		Kind:      notification.KindRequestProcessed,
		Subject:   "Request was " + status + ".",
		Body:      fmt.Sprintf("Your request to join the %q group has been %s.", group.Name, status),
		ActionURL: s.groupURL(group.Slug),
	})
	s.log.Info("group join request processed", "group_id", group.ID, "user_id", userID, "status", status, "admin_id", actorID)

	return nil
}

func (s *Service) RemoveMember(ctx context.Context, actorID uint, slug string, userID uint) error {
	group, err := s.groupBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.ensureAdmin(ctx, group, actorID); err != nil {
		return err
	}
	if s.IsOwner(group, userID) {
		return ErrOwnerProtected
	}

	membership, err := s.repo.GetMembership(ctx, group.ID, userID)
	if errors.Is(err, ErrMembershipNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.repo.DeleteMembership(ctx, membership.ID); err != nil {
		return err
	}

	s.notifier.Notify(ctx, userID, notification.Message{
		Kind:    notification.KindMemberRemoved,
		Subject: "You have been removed from a group",
		Body:    fmt.Sprintf("You have been removed from the %q group.", group.Name),
	})
	s.log.Info("group member removed", "group_id", group.ID, "user_id", userID, "admin_id", actorID)

	return nil
}

func (s *Service) ChangeRole(ctx context.Context, actorID uint, slug string, userID uint, role string) error {
	group, err := s.groupBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.ensureAdmin(ctx, group, actorID); err != nil {
		return err
	}
	if role != RoleUser && role != RoleAdmin {
		return validation.Field("role", "The selected role is invalid.")
	}
	if s.IsOwner(group, userID) {
		return ErrOwnerProtected
	}

	membership, err := s.repo.GetMembership(ctx, group.ID, userID)
	if errors.Is(err, ErrMembershipNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.repo.UpdateMembershipRole(ctx, membership.ID, role); err != nil {
		return err
	}

	s.notifier.Notify(ctx, userID, notification.Message{
		Kind:      notification.KindRoleChanged,
		Subject:   "Your role has changed",
		Body:      fmt.Sprintf("Your role in the %q group is now %q.", group.Name, role),
		ActionURL: s.groupURL(group.Slug),
	})
	s.log.Info("group member role changed", "group_id", group.ID, "user_id", userID, "role", role, "admin_id", actorID)

	return nil
}

func (s *Service) IsAdmin(ctx context.Context, groupID, userID uint) (bool, error) {
	membership, err := s.membership(ctx, groupID, userID)
	if err != nil || membership == nil {
		return false, err
	}
	return membership.Role == RoleAdmin && membership.Status == StatusApproved, nil
}

// AuthorizeAdmin fails with ErrGroupNotFound or ErrNotAdmin before any input is looked at.
func (s *Service) AuthorizeAdmin(ctx context.Context, actorID uint, slug string) error {
	group, err := s.groupBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.ensureAdmin(ctx, group, actorID)
}

func (s *Service) IsOwner(group *Group, userID uint) bool {
	return group != nil && userID != 0 && group.OwnerID == userID
}

func (s *Service) IsApprovedMember(ctx context.Context, groupID, userID uint) (bool, error) {
	membership, err := s.membership(ctx, groupID, userID)
	if err != nil || membership == nil {
		return false, err
	}
	return membership.Status == StatusApproved, nil
}

func (s *Service) ApprovedGroupIDs(ctx context.Context, userID uint) ([]uint, error) {
	if userID == 0 {
		return nil, nil
	}
	return s.repo.ListApprovedGroupIDs(ctx, userID)
}

// ListUserGroups returns the actor's groups, administered ones first and then by name.
func (s *Service) ListUserGroups(ctx context.Context, actorID uint) ([]UserGroup, error) {
	groups, err := s.repo.ListUserGroups(ctx, actorID)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(groups, func(a, b UserGroup) int {
		aAdmin, bAdmin := a.Role == RoleAdmin, b.Role == RoleAdmin
		if aAdmin != bAdmin {
			if aAdmin {
				return -1
			}
			return 1
		}
		return strings.Compare(strings.ToLower(a.Group.Name), strings.ToLower(b.Group.Name))
	})
	if groups == nil {
		groups = []UserGroup{}
	}
	return groups, nil
}

func (s *Service) groupBySlug(ctx context.Context, slug string) (*Group, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrGroupNotFound
	}
	if group, ok := s.cache.GetBySlug(ctx, slug); ok {
		return group, nil
	}

	group, err := s.repo.GetGroupBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	s.cache.SetBySlug(ctx, slug, group, s.cfg.CacheTTL)
	return group, nil
}

func (s *Service) membership(ctx context.Context, groupID, userID uint) (*Membership, error) {
	if userID == 0 {
		return nil, nil
	}
	membership, err := s.repo.GetMembership(ctx, groupID, userID)
	if errors.Is(err, ErrMembershipNotFound) {
		return nil, nil
	}
	return membership, err
}

func (s *Service) ensureAdmin(ctx context.Context, group *Group, actorID uint) error {
	ok, err := s.IsAdmin(ctx, group.ID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAdmin
	}
	return nil
}

func (s *Service) saveImage(ctx context.Context, dir, field string, upload *ImageUpload, maxWidth, maxHeight int) (string, error) {
	path, err := s.images.SaveImage(ctx, dir, upload.Content, maxWidth, maxHeight)
	switch {
	case errors.Is(err, storage.ErrUnsupportedImage):
		return "", validation.Field(field, "The "+field+" must be an image.")
	case errors.Is(err, storage.ErrImageTooLarge):
		return "", validation.Field(field, "The "+field+" is too large.")
	}
	return path, err
}

func (s *Service) notifyAdminsOfRequest(ctx context.Context, group *Group, requesterID uint) {
	adminIDs, err := s.repo.ListAdminIDs(ctx, group.ID)
	if err != nil {
		s.log.InternalError("groups.join: list admins failed", err, "group_id", group.ID)
		return
	}

	requester := "A user"
	if u, err := s.users.GetByID(ctx, requesterID); err == nil {
		requester = displayName(u)
	}

	for _, adminID := range adminIDs {
		s.notifier.Notify(ctx, adminID, notification.Message{
			Kind:      notification.KindJoinRequested,
			Subject:   "Request to join a group",
			Body:      fmt.Sprintf("%s has requested to join the %q group.", requester, group.Name),
			ActionURL: s.groupURL(group.Slug),
		})
	}
}

func (s *Service) groupURL(slug string) string {
	return s.cfg.AppURL + "/group/" + slug
}

func normalizeGroupInput(input GroupInput) (GroupInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)

	errs := validation.Errors{}
	if input.Name == "" {
		errs.Add("name", "The name field is required.")
	} else if utf8.RuneCountInString(input.Name) > maxNameLength {
		errs.Add("name", fmt.Sprintf("The name may not be greater than %d characters.", maxNameLength))
	}
	if utf8.RuneCountInString(input.Description) > maxDescriptionLength {
		errs.Add("description", fmt.Sprintf("The description may not be greater than %d characters.", maxDescriptionLength))
	}
	return input, errs.Err()
}

func displayName(u *user.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

func humanDuration(d time.Duration) string {
	if d%time.Hour == 0 {
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return d.String()
}
