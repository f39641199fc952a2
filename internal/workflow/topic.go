package workflow

import (
	"strings"

	"github.com/noah-isme/thesis-api/internal/models"
	appErrors "github.com/noah-isme/thesis-api/pkg/errors"
)

// Transition records a topic status change for logging and metrics.
type Transition struct {
	TopicID int64
	From    models.TopicStatus
	To      models.TopicStatus
}

// Changed reports whether the status actually moved.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// NewTopic applies the creation defaults: pending, open, no reason.
func NewTopic(t *models.Topic) {
	t.Status = models.TopicPending
	t.IsOpen = true
	t.RejectionReason = nil
	if t.MaxMembers <= 0 {
		t.MaxMembers = models.DefaultMaxMembers
	}
}

// ApproveTopic moves any topic to APPROVED and clears a stored rejection
// reason. Approving twice is harmless.
func ApproveTopic(t *models.Topic) Transition {
	tr := Transition{TopicID: t.ID, From: t.Status, To: models.TopicApproved}
	t.Status = models.TopicApproved
	t.RejectionReason = nil
	return tr
}

// RejectTopic moves any topic to REJECTED with the given reason, overwriting
// a previous one. A blank reason leaves the topic untouched.
func RejectTopic(t *models.Topic, reason string) (Transition, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Transition{}, appErrors.Clone(appErrors.ErrValidation, "Rejection reason is required")
	}
	tr := Transition{TopicID: t.ID, From: t.Status, To: models.TopicRejected}
	t.Status = models.TopicRejected
	t.RejectionReason = &reason
	return tr, nil
}

// BulkApprovalIDs validates and de-duplicates ids for a set-based approval.
// Non-positive ids can never match a row and are dropped.
func BulkApprovalIDs(ids []int64) ([]int64, error) {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "No topics provided")
	}
	return result, nil
}
