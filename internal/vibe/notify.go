package vibe

import (
	"fmt"
	"regexp"

	"vibestream/internal/model"
)

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// NotificationRouter appends notification entries to accounts in response to
// social-graph and content mutations. It only ever appends, newest first; it
// never restructures an account's notification list.
type NotificationRouter struct {
	clock Clock
	idgen IDGenerator
}

func NewNotificationRouter(clock Clock, idgen IDGenerator) *NotificationRouter {
	return &NotificationRouter{clock: clock, idgen: idgen}
}

func (r *NotificationRouter) append(target *model.Account, n *model.Notification) {
	n.ID = r.idgen.New()
	n.Timestamp = r.clock.Now()
	target.Notifications = append([]*model.Notification{n}, target.Notifications...)
}

// ExtractMentions returns the deduplicated @tokens in text, in first-seen
// order.
func ExtractMentions(text string) []string {
	var tokens []string
	seen := make(map[string]bool)
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			tokens = append(tokens, m[1])
		}
	}
	return tokens
}

// ScanMentions extracts @tokens from text, resolves them against registered
// usernames and appends a mention notification for each match. The author
// never notifies themselves, and usernames in skip (e.g. a reply target that
// already received a reply notification) are left out.
func (r *NotificationRouter) ScanMentions(snap *model.Snapshot, text, videoID string, from *model.Account, skip map[string]bool) {
	for _, token := range ExtractMentions(text) {
		if token == from.Username || skip[token] {
			continue
		}
		target := snap.FindAccount(token)
		if target == nil {
			continue
		}
		r.append(target, &model.Notification{
			Type:           model.NotificationMention,
			SourceUsername: from.Username,
			SourceAvatar:   from.Avatar,
			DisplayText:    fmt.Sprintf("@%s mentioned you", from.Username),
			RelatedVideoID: videoID,
		})
	}
}

// NotifyReply appends a reply notification to the parent comment's author,
// unless they are replying to themselves.
func (r *NotificationRouter) NotifyReply(snap *model.Snapshot, parentAuthorUsername string, from *model.Account, videoID string) {
	if parentAuthorUsername == from.Username {
		return
	}
	target := snap.FindAccount(parentAuthorUsername)
	if target == nil {
		return
	}
	r.append(target, &model.Notification{
		Type:           model.NotificationReply,
		SourceUsername: from.Username,
		SourceAvatar:   from.Avatar,
		DisplayText:    fmt.Sprintf("@%s replied to your comment", from.Username),
		RelatedVideoID: videoID,
	})
}

// NotifyLike appends a like notification to the video's author, unless the
// author liked their own video.
func (r *NotificationRouter) NotifyLike(snap *model.Snapshot, video *model.Video, from *model.Account) {
	if video.AuthorUsername == from.Username {
		return
	}
	target := snap.FindAccount(video.AuthorUsername)
	if target == nil {
		return
	}
	r.append(target, &model.Notification{
		Type:           model.NotificationLike,
		SourceUsername: from.Username,
		SourceAvatar:   from.Avatar,
		DisplayText:    fmt.Sprintf("@%s liked your video", from.Username),
		RelatedVideoID: video.ID,
	})
}

// NotifyRepost appends a repost notification to the video's author, unless
// the author reposted their own video.
func (r *NotificationRouter) NotifyRepost(snap *model.Snapshot, video *model.Video, from *model.Account) {
	if video.AuthorUsername == from.Username {
		return
	}
	target := snap.FindAccount(video.AuthorUsername)
	if target == nil {
		return
	}
	r.append(target, &model.Notification{
		Type:           model.NotificationRepost,
		SourceUsername: from.Username,
		SourceAvatar:   from.Avatar,
		DisplayText:    fmt.Sprintf("@%s reposted your video", from.Username),
		RelatedVideoID: video.ID,
	})
}

// NotifyFollow appends a follow notification to the target.
func (r *NotificationRouter) NotifyFollow(snap *model.Snapshot, targetUsername string, from *model.Account) {
	target := snap.FindAccount(targetUsername)
	if target == nil {
		return
	}
	r.append(target, &model.Notification{
		Type:           model.NotificationFollow,
		SourceUsername: from.Username,
		SourceAvatar:   from.Avatar,
		DisplayText:    fmt.Sprintf("@%s started following you", from.Username),
	})
}

// NotifySecurity appends a security notification carrying a one-time
// challenge code to the account being authenticated.
func (r *NotificationRouter) NotifySecurity(account *model.Account, code string) {
	r.append(account, &model.Notification{
		Type:        model.NotificationSecurity,
		DisplayText: fmt.Sprintf("Use code %s to confirm your identity on %s", code, account.Email),
	})
}
