package services

import (
	"context"
	"fmt"
	"time"

	"amoro_server/models"

	"go.uber.org/zap"
)

// LikeOutcome distinguishes the non-error results of a like call.
type LikeOutcome int

const (
	// LikeOutcomeLiked means a new like edge was written.
	LikeOutcomeLiked LikeOutcome = iota
	// LikeOutcomeDuplicate means the edge already existed; nothing changed.
	LikeOutcomeDuplicate
	// LikeOutcomeMatched means the new edge completed a mutual match.
	LikeOutcomeMatched
)

// UnlikeOutcome distinguishes the non-error results of an unlike call.
type UnlikeOutcome int

const (
	// UnlikeOutcomeRemoved means the edge (and any match) was unwound.
	UnlikeOutcomeRemoved UnlikeOutcome = iota
	// UnlikeOutcomeNotLiked means there was no edge to remove.
	UnlikeOutcomeNotLiked
)

// MatchService reacts to one-directional likes: it keeps the edge set
// consistent, detects mutual likes, materializes matches on both sides
// and fans out notifications. Every mutation is an "only if absent/
// present" conditional write, which is what makes concurrent double
// likes safe without a pair lock.
type MatchService struct {
	Users         UserStore
	Likes         LikeStore
	Matches       MatchStore
	Notifications Notifier
	Logger        *zap.SugaredLogger
}

func NewMatchService(users UserStore, likes LikeStore, matches MatchStore, notifications Notifier, logger *zap.SugaredLogger) *MatchService {
	return &MatchService{Users: users, Likes: likes, Matches: matches, Notifications: notifications, Logger: logger}
}

// Like records likerID's interest in likedID. The duplicate outcome is
// reported, not treated as an error, so callers can tell first-like from
// repeat. A reciprocal edge turns the like into a match with one MATCH
// notification per direction.
func (s *MatchService) Like(ctx context.Context, likerID, likedID string) (LikeOutcome, error) {
	if likerID == "" || likedID == "" {
		return 0, ErrInvalidOperation
	}
	if likerID == likedID {
		return 0, ErrInvalidOperation
	}

	exists, err := s.Users.Exists(ctx, likedID)
	if err != nil {
		return 0, fmt.Errorf("failed to check liked profile: %w", err)
	}
	if !exists {
		return 0, ErrNotFound
	}

	now := time.Now().UTC().Format(time.RFC3339)
	added, err := s.Likes.AddLike(ctx, likerID, likedID, now)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !added {
		return LikeOutcomeDuplicate, nil
	}

	if err := s.Notifications.Notify(ctx, likerID, likedID, models.NotificationTypeLike, "Someone liked your profile!"); err != nil {
		s.Logger.Warnw("like notification failed", "liker", likerID, "liked", likedID, "error", err)
	}

	reciprocal, err := s.Likes.HasLike(ctx, likedID, likerID)
	if err != nil {
		// The edge is written; report the like and let the reciprocal
		// side's next like attempt settle the match.
		s.Logger.Warnw("reciprocity check failed", "liker", likerID, "liked", likedID, "error", err)
		return LikeOutcomeLiked, nil
	}
	if !reciprocal {
		return LikeOutcomeLiked, nil
	}

	if _, err := s.Matches.AddMatch(ctx, likerID, likedID, now); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if _, err := s.Matches.AddMatch(ctx, likedID, likerID, now); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := s.Notifications.Notify(ctx, likerID, likedID, models.NotificationTypeMatch, "You have a new match!"); err != nil {
		s.Logger.Warnw("match notification failed", "receiver", likedID, "error", err)
	}
	if err := s.Notifications.Notify(ctx, likedID, likerID, models.NotificationTypeMatch, "You have a new match!"); err != nil {
		s.Logger.Warnw("match notification failed", "receiver", likerID, "error", err)
	}

	return LikeOutcomeMatched, nil
}

// Unlike removes the edge likerID -> likedID. Once the edge is gone the
// remaining unwind (match removal on both sides, notification cleanup)
// is best-effort: partial failure is logged, never surfaced, and the
// LIKE notification delete is attempted regardless.
func (s *MatchService) Unlike(ctx context.Context, likerID, likedID string) (UnlikeOutcome, error) {
	if likerID == "" || likedID == "" || likerID == likedID {
		return 0, ErrInvalidOperation
	}

	exists, err := s.Users.Exists(ctx, likedID)
	if err != nil {
		return 0, fmt.Errorf("failed to check profile: %w", err)
	}
	if !exists {
		return 0, ErrNotFound
	}

	removed, err := s.Likes.RemoveLike(ctx, likerID, likedID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !removed {
		return UnlikeOutcomeNotLiked, nil
	}

	// A failed RemoveMatch leaves us unsure whether a match existed, and
	// the like edge is already gone, so a retried unlike would stop at
	// the NotLiked outcome above. Treat unknown as "may have matched" so
	// the notification cleanup still runs; the deletes are no-ops when
	// no record exists.
	hadMatch := false
	if wasMatched, err := s.Matches.RemoveMatch(ctx, likerID, likedID); err != nil {
		s.Logger.Warnw("match removal failed", "user", likerID, "other", likedID, "error", err)
		hadMatch = true
	} else if wasMatched {
		hadMatch = true
	}
	if wasMatched, err := s.Matches.RemoveMatch(ctx, likedID, likerID); err != nil {
		s.Logger.Warnw("match removal failed", "user", likedID, "other", likerID, "error", err)
		hadMatch = true
	} else if wasMatched {
		hadMatch = true
	}

	if hadMatch {
		if _, err := s.Notifications.Remove(ctx, likerID, likedID, models.NotificationTypeMatch); err != nil {
			s.Logger.Warnw("match notification cleanup failed", "receiver", likedID, "error", err)
		}
		if _, err := s.Notifications.Remove(ctx, likedID, likerID, models.NotificationTypeMatch); err != nil {
			s.Logger.Warnw("match notification cleanup failed", "receiver", likerID, "error", err)
		}
	}

	if _, err := s.Notifications.Remove(ctx, likerID, likedID, models.NotificationTypeLike); err != nil {
		s.Logger.Warnw("like notification cleanup failed", "receiver", likedID, "error", err)
	}

	return UnlikeOutcomeRemoved, nil
}
