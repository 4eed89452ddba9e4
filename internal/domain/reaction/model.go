package reaction

import "time"

const (
	TypeLike  = "like"
	TypeLove  = "love"
	TypeHaha  = "haha"
	TypeWow   = "wow"
	TypeSad   = "sad"
	TypeAngry = "angry"
)

type Kind string

const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

// Target is either a post or a comment. Build it with PostTarget or CommentTarget.
type Target struct {
	kind Kind
	id   uint
}

func PostTarget(id uint) Target {
	return Target{kind: KindPost, id: id}
}

func CommentTarget(id uint) Target {
	return Target{kind: KindComment, id: id}
}

func (t Target) Kind() Kind {
	return t.kind
}

func (t Target) ID() uint {
	return t.id
}

func (t Target) valid() bool {
	return t.id != 0 && (t.kind == KindPost || t.kind == KindComment)
}

type Reaction struct {
	ID         uint      `gorm:"primaryKey"`
	Type       string    `gorm:"type:varchar(16);not null"`
	UserID     uint      `gorm:"not null"`
	TargetType Kind      `gorm:"type:varchar(16);not null"`
	TargetID   uint      `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (r Reaction) Target() Target {
	return Target{kind: r.TargetType, id: r.TargetID}
}

type Summary struct {
	NumberOfReactions      int64
	CurrentUserHasReaction bool
}

type ToggleResult struct {
	NumberOfReactions      int64
	CurrentUserHasReaction bool
	HadNoReactionBefore    bool
}
