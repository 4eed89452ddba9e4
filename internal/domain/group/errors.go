package group

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrGroupNotFound        = errors.New("group not found")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrMembershipExists     = errors.New("membership already exists")
	ErrNotAdmin             = errors.New("not admin")
	ErrOwnerProtected       = errors.New("group owner cannot be changed")
	ErrInviteeNotFound      = errors.New("user not found")
	ErrAlreadyMember        = errors.New("already a member")
	ErrRequestPending       = errors.New("join request already pending")
	ErrSlugGenerationFailed = errors.New("group slug generation failed")
)

type InvitationFailure string

const (
	InvitationInvalid         InvitationFailure = "invalid"
	InvitationUsed            InvitationFailure = "used"
	InvitationAlreadyApproved InvitationFailure = "already_approved"
	InvitationExpired         InvitationFailure = "expired"
)

const invitationTimeLayout = "2006-01-02 15:04:05"

// InvitationError is shown to a person who followed an invitation link.
type InvitationError struct {
	Reason  InvitationFailure
	Message string
}

func (e *InvitationError) Error() string {
	return e.Message
}

func invalidInvitation() *InvitationError {
	return &InvitationError{Reason: InvitationInvalid, Message: "The link is invalid"}
}

func usedInvitation(at time.Time) *InvitationError {
	return &InvitationError{
		Reason:  InvitationUsed,
		Message: "The link has already been used at " + at.Format(invitationTimeLayout),
	}
}

func approvedInvitation(groupName string) *InvitationError {
	return &InvitationError{
		Reason:  InvitationAlreadyApproved,
		Message: fmt.Sprintf("The group `%s` has already been approved.", groupName),
	}
}

func expiredInvitation(at time.Time) *InvitationError {
	return &InvitationError{
		Reason:  InvitationExpired,
		Message: "The link expired at " + at.Format(invitationTimeLayout),
	}
}
