package post

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"social-app-go/internal/domain/comment"
	"social-app-go/internal/domain/reaction"
	"social-app-go/internal/domain/validation"
	"social-app-go/internal/storage"
	"social-app-go/pkg/logger"
)

type Membership interface {
	IsApprovedMember(ctx context.Context, groupID, userID uint) (bool, error)
	ApprovedGroupIDs(ctx context.Context, userID uint) ([]uint, error)
}

type Reactions interface {
	Toggle(ctx context.Context, actorID uint, target reaction.Target, reactionType string) (reaction.ToggleResult, error)
	Summaries(ctx context.Context, actorID uint, kind reaction.Kind, ids []uint) (map[uint]reaction.Summary, error)
}

type Service struct {
	repo      Repository
	comments  comment.Repository
	groups    Membership
	reactions Reactions
	files     storage.FileStore
	limits    Limits
	log       logger.Logger
}

func NewService(repo Repository, comments comment.Repository, groups Membership, reactions Reactions, files storage.FileStore, log logger.Logger) *Service {
	return NewServiceWithLimits(repo, comments, groups, reactions, files, log, Limits{})
}

func NewServiceWithLimits(repo Repository, comments comment.Repository, groups Membership, reactions Reactions, files storage.FileStore, log logger.Logger, limits Limits) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		comments:  comments,
		groups:    groups,
		reactions: reactions,
		files:     files,
		limits:    normalizeLimits(limits),
		log:       log.Component("posts"),
	}
}

// CreatePost stores the post and its files in one transaction. When anything fails the
// transaction is rolled back, files written so far are removed and ErrPostNotCreated is returned.
func (s *Service) CreatePost(ctx context.Context, actorID uint, input CreateInput) (*View, error) {
	body := strings.TrimSpace(input.Body)

	errs := validation.Errors{}
	if body == "" && len(input.Attachments) == 0 {
		errs.Add("body", "Write something or attach a file.")
	}
	validateUploads(s.limits, 0, input.Attachments, errs)
	if input.GroupID != nil {
		ok, err := s.groups.IsApprovedMember(ctx, *input.GroupID, actorID)
		if err != nil {
			return nil, err
		}
		if !ok {
			errs.Add("group_id", "You are not allowed to create a post in this group.")
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	var (
		created Post
		written []string
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		created = Post{Body: body, UserID: actorID, GroupID: input.GroupID}
		if err := tx.Create(ctx, &created); err != nil {
			return err
		}

		attachments, err := s.storeAttachments(ctx, tx, created.ID, actorID, input.Attachments, &written)
		if err != nil {
			return err
		}
		created.Attachments = attachments
		return nil
	})
	if err != nil {
		s.discardFiles(ctx, written, "post_create")
		s.log.InternalError("posts.create: rolled back", err, "user_id", actorID, "files", len(written))
		return nil, fmt.Errorf("%w: %w", ErrPostNotCreated, err)
	}

	s.log.Info("post created", "post_id", created.ID, "user_id", actorID, "attachments", len(created.Attachments))
	return s.GetPost(ctx, actorID, created.ID)
}

// UpdatePost changes the body and the attachment set of the actor's own post.
// Files of removed attachments are deleted only after the transaction commits.
func (s *Service) UpdatePost(ctx context.Context, actorID, id uint, input UpdateInput) (*View, error) {
	existing, err := s.authored(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(input.Body)
	removing := make(map[uint]struct{}, len(input.DeletedAttachmentIDs))
	for _, attachmentID := range input.DeletedAttachmentIDs {
		removing[attachmentID] = struct{}{}
	}
	keep := 0
	for _, attachment := range existing.Attachments {
		if _, ok := removing[attachment.ID]; !ok {
			keep++
		}
	}

	errs := validation.Errors{}
	if body == "" && keep+len(input.Attachments) == 0 {
		errs.Add("body", "Write something or attach a file.")
	}
	validateUploads(s.limits, keep, input.Attachments, errs)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	var (
		removed []Attachment
		written []string
	)
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.UpdateBody(ctx, id, body); err != nil {
			return err
		}

		var err error
		if len(input.DeletedAttachmentIDs) > 0 {
			removed, err = tx.DeleteAttachments(ctx, id, input.DeletedAttachmentIDs)
			if err != nil {
				return err
			}
		}

		_, err = s.storeAttachments(ctx, tx, id, actorID, input.Attachments, &written)
		return err
	})
	if err != nil {
		s.discardFiles(ctx, written, "post_update")
		s.log.InternalError("posts.update: rolled back", err, "post_id", id, "user_id", actorID)
		return nil, fmt.Errorf("%w: %w", ErrPostNotUpdated, err)
	}

	s.discardFiles(ctx, attachmentPaths(removed), "post_update")
	return s.GetPost(ctx, actorID, id)
}

func (s *Service) DeletePost(ctx context.Context, actorID, id uint) error {
	existing, err := s.authored(ctx, actorID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.discardFiles(ctx, attachmentPaths(existing.Attachments), "post_delete")
	s.log.Info("post deleted", "post_id", id, "user_id", actorID)
	return nil
}

// OpenAttachment returns the file of an attachment the actor is allowed to see.
func (s *Service) OpenAttachment(ctx context.Context, actorID, attachmentID uint) (io.ReadCloser, *Attachment, error) {
	attachment, err := s.repo.GetAttachment(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.EnsureVisible(ctx, actorID, attachment.PostID); err != nil {
		return nil, nil, err
	}

	rc, _, err := s.files.Open(ctx, attachment.Path)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, ErrAttachmentNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return rc, attachment, nil
}

// EnsureVisible fails unless the post is public or the actor is an approved member of its group.
func (s *Service) EnsureVisible(ctx context.Context, actorID, postID uint) error {
	p, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	return s.ensureCanView(ctx, actorID, p)
}

func (s *Service) ToggleReaction(ctx context.Context, actorID, postID uint, reactionType string) (reaction.ToggleResult, error) {
	if err := s.EnsureVisible(ctx, actorID, postID); err != nil {
		return reaction.ToggleResult{}, err
	}
	return s.reactions.Toggle(ctx, actorID, reaction.PostTarget(postID), reactionType)
}

func (s *Service) GetPost(ctx context.Context, actorID, id uint) (*View, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCanView(ctx, actorID, p); err != nil {
		return nil, err
	}

	views, err := s.buildViews(ctx, actorID, []Post{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Timeline lists public posts and posts of the actor's approved groups.
func (s *Service) Timeline(ctx context.Context, actorID uint, page int) (*Page, error) {
	groupIDs, err := s.groups.ApprovedGroupIDs(ctx, actorID)
	if err != nil {
		return nil, err
	}

	page, perPage := normalizePage(page), s.limits.TimelinePageSize
	posts, total, err := s.repo.ListTimeline(ctx, groupIDs, (page-1)*perPage, perPage)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, actorID, posts, total, page, perPage)
}

func (s *Service) GroupFeed(ctx context.Context, actorID, groupID uint, page int) (*Page, error) {
	ok, err := s.groups.IsApprovedMember(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotGroupMember
	}

	page, perPage := normalizePage(page), s.limits.GroupFeedPageSize
	posts, total, err := s.repo.ListByGroup(ctx, groupID, (page-1)*perPage, perPage)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, actorID, posts, total, page, perPage)
}

func (s *Service) page(ctx context.Context, actorID uint, posts []Post, total int64, page, perPage int) (*Page, error) {
	views, err := s.buildViews(ctx, actorID, posts)
	if err != nil {
		return nil, err
	}
	return &Page{Items: views, Page: page, PerPage: perPage, Total: total}, nil
}

func (s *Service) buildViews(ctx context.Context, actorID uint, posts []Post) ([]View, error) {
	views := make([]View, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	postIDs := make([]uint, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
	}

	postSummaries, err := s.reactions.Summaries(ctx, actorID, reaction.KindPost, postIDs)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	commentIDs := make([]uint, 0, len(comments))
	byPost := make(map[uint][]comment.Comment, len(posts))
	for _, c := range comments {
		commentIDs = append(commentIDs, c.ID)
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}

	commentSummaries, err := s.reactions.Summaries(ctx, actorID, reaction.KindComment, commentIDs)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		tree := comment.BuildTree(byPost[p.ID], commentSummaries)
		summary := postSummaries[p.ID]
		if p.Attachments == nil {
			p.Attachments = []Attachment{}
		}
		views = append(views, View{
			Post:                   p,
			NumberOfReactions:      summary.NumberOfReactions,
			CurrentUserHasReaction: summary.CurrentUserHasReaction,
			NumberOfComments:       comment.CountNodes(tree),
			Comments:               tree,
		})
	}
	return views, nil
}

func (s *Service) storeAttachments(ctx context.Context, tx Repository, postID, actorID uint, uploads []Upload, written *[]string) ([]Attachment, error) {
	attachments := make([]Attachment, 0, len(uploads))
	for _, upload := range uploads {
		key := path.Join("attachments", fmt.Sprint(postID), uuid.NewString()+"."+extension(upload.Name))
		ct := contentType(upload)

		if err := s.putUpload(ctx, key, upload, ct); err != nil {
			return nil, fmt.Errorf("store %q: %w", upload.Name, err)
		}
		*written = append(*written, key)

		attachment := Attachment{
			PostID:    postID,
			Name:      path.Base(upload.Name),
			Path:      key,
			Mime:      ct,
			Size:      upload.Size,
			CreatedBy: actorID,
		}
		if err := tx.CreateAttachment(ctx, &attachment); err != nil {
			return nil, err
		}
		attachments = append(attachments, attachment)
	}
	return attachments, nil
}

func (s *Service) putUpload(ctx context.Context, key string, upload Upload, contentType string) error {
	rc, err := upload.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return s.files.Put(ctx, key, rc, upload.Size, contentType)
}

// discardFiles deletes stored files best-effort; failures are only logged.
func (s *Service) discardFiles(ctx context.Context, keys []string, op string) {
	var result *multierror.Error
	for _, key := range keys {
		if err := s.files.Delete(ctx, key); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", key, err))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		s.log.Warn("stored files not removed", "err", err.Error(), "op", op, "failed", len(result.Errors))
	}
}

func (s *Service) authored(ctx context.Context, actorID, id uint) (*Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID == 0 || p.UserID != actorID {
		return nil, ErrNotAuthor
	}
	return p, nil
}

func (s *Service) ensureCanView(ctx context.Context, actorID uint, p *Post) error {
	if p.GroupID == nil {
		return nil
	}
	ok, err := s.groups.IsApprovedMember(ctx, *p.GroupID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotGroupMember
	}
	return nil
}

func attachmentPaths(attachments []Attachment) []string {
	paths := make([]string, 0, len(attachments))
	for _, a := range attachments {
		paths = append(paths, a.Path)
	}
	return paths
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
