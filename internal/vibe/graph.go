package vibe

import (
	"fmt"

	"vibestream/internal/model"
)

// FollowCounts reports both counters touched by a follow toggle.
type FollowCounts struct {
	FollowerFollowing int
	TargetFollowers   int
	NowFollowing      bool
}

// SocialGraph owns follow relationships. Each toggle updates the follower's
// map and counter and the target's counter as one unit; no caller ever
// observes one side without the other.
type SocialGraph struct{}

func NewSocialGraph() *SocialGraph { return &SocialGraph{} }

// ToggleFollow flips the follow edge from follower to target. Following
// yourself is rejected.
func (g *SocialGraph) ToggleFollow(snap *model.Snapshot, followerUsername, targetUsername string) (FollowCounts, error) {
	if followerUsername == targetUsername {
		return FollowCounts{}, fmt.Errorf("%w: %s", ErrSelfFollow, followerUsername)
	}
	follower := snap.FindAccount(followerUsername)
	if follower == nil {
		return FollowCounts{}, fmt.Errorf("%w: %s", ErrNotFound, followerUsername)
	}
	target := snap.FindAccount(targetUsername)
	if target == nil {
		return FollowCounts{}, fmt.Errorf("%w: %s", ErrNotFound, targetUsername)
	}

	if follower.FollowingMap[targetUsername] {
		delete(follower.FollowingMap, targetUsername)
		if follower.Following > 0 {
			follower.Following--
		}
		if target.Followers > 0 {
			target.Followers--
		}
		return FollowCounts{
			FollowerFollowing: follower.Following,
			TargetFollowers:   target.Followers,
			NowFollowing:      false,
		}, nil
	}

	if follower.FollowingMap == nil {
		follower.FollowingMap = make(map[string]bool)
	}
	follower.FollowingMap[targetUsername] = true
	follower.Following++
	target.Followers++
	return FollowCounts{
		FollowerFollowing: follower.Following,
		TargetFollowers:   target.Followers,
		NowFollowing:      true,
	}, nil
}

// ListFollowers returns the accounts following target. Follower lists of
// verified accounts are private: only the target itself or an admin may see
// them.
func (g *SocialGraph) ListFollowers(snap *model.Snapshot, targetUsername string, requester *model.Account) ([]*model.Account, error) {
	target := snap.FindAccount(targetUsername)
	if target == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, targetUsername)
	}
	if target.IsVerified {
		allowed := requester != nil && (requester.Username == targetUsername || requester.IsAdmin)
		if !allowed {
			return nil, fmt.Errorf("%w: follower list of a verified account is private", ErrForbidden)
		}
	}

	var followers []*model.Account
	for _, a := range snap.Accounts {
		if a.FollowingMap[targetUsername] {
			followers = append(followers, a)
		}
	}
	return followers, nil
}

// ListFollowing returns the accounts the target follows. No privacy
// restriction applies.
func (g *SocialGraph) ListFollowing(snap *model.Snapshot, targetUsername string) ([]*model.Account, error) {
	target := snap.FindAccount(targetUsername)
	if target == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, targetUsername)
	}

	var following []*model.Account
	for _, a := range snap.Accounts {
		if target.FollowingMap[a.Username] {
			following = append(following, a)
		}
	}
	return following, nil
}
