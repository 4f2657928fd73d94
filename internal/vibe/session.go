package vibe

import (
	"errors"
	"fmt"

	"vibestream/internal/model"
)

// Service is the session controller: the single entry point for every user
// intent. It owns the current snapshot, dispatches mutations to the identity
// store, social graph, content store and notification router, and persists a
// replacement snapshot after each successful mutation.
//
// Mutations run on a deep clone of the snapshot. A domain failure discards
// the clone, so no partial effect is ever observable. A persistence failure
// keeps the in-memory result and reports ErrPersistence: the durable copy is
// stale and a restart could roll back unsaved progress.
type Service struct {
	store  SnapshotStore
	logger Logger
	clock  Clock
	idgen  IDGenerator
	codes  CodeGenerator

	identity *IdentityStore
	graph    *SocialGraph
	content  *ContentStore
	notify   *NotificationRouter

	snap        *model.Snapshot
	pending     *pendingChallenge
	masterEmail string
	seedFeed    bool
}

// defaultMasterPassword protects the seeded master account until its first
// profile edit. Local-device bootstrap only; change it after first login.
const defaultMasterPassword = "admin"

// pendingChallenge is the in-flight 2FA state: authentication has passed the
// credential check but the session waits for the one-time code. It is never
// persisted; a restart abandons it.
type pendingChallenge struct {
	username string
	code     string
}

// NewService creates a session controller with the provided dependencies.
// masterEmail reserves the master-administrator identity; seedFeed controls
// whether an empty snapshot gets the built-in starter feed.
func NewService(store SnapshotStore, logger Logger, clock Clock, idgen IDGenerator, codes CodeGenerator, masterEmail string, seedFeed bool) *Service {
	return &Service{
		store:       store,
		logger:      logger,
		clock:       clock,
		idgen:       idgen,
		codes:       codes,
		identity:    NewIdentityStore(masterEmail, nil),
		graph:       NewSocialGraph(),
		content:     NewContentStore(clock, idgen),
		notify:      NewNotificationRouter(clock, idgen),
		snap:        model.NewSnapshot(),
		masterEmail: masterEmail,
		seedFeed:    seedFeed,
	}
}

// Load restores the snapshot from the store. A snapshot that cannot be
// loaded is replaced by an empty one: losing local state beats refusing to
// start. Loading heals the master identity, clamps the session pointer and
// installs the seed feed on first run.
func (s *Service) Load() error {
	snap, err := s.store.Load()
	if err != nil {
		s.logger.Error("snapshot unreadable, starting empty", "error", err)
		snap = nil
	}
	if snap == nil {
		snap = model.NewSnapshot()
	}

	changed := s.bootstrap(snap)
	s.snap = snap

	if changed {
		if err := s.store.Save(snap); err != nil {
			s.logger.Warn("saving bootstrapped snapshot", "error", err)
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	return nil
}

// bootstrap applies the load-time fixups and reports whether the snapshot
// changed.
func (s *Service) bootstrap(snap *model.Snapshot) bool {
	changed := false

	// First run: an empty roster gets the master administrator account so
	// the device always has a moderation identity.
	if len(snap.Accounts) == 0 && s.masterEmail != "" {
		seed := &ProfileSeed{Username: "admin", DisplayName: "Vibe Admin", Bio: "Creator of VibeStream"}
		if _, err := s.identity.Register(snap, s.masterEmail, defaultMasterPassword, seed); err != nil {
			s.logger.Error("seeding master account", "error", err)
		} else {
			snap.ActiveAccountIndex = 0
			changed = true
		}
	}

	// Self-healing: the master identity re-asserts its privileges on every
	// load, regardless of what was persisted.
	for _, a := range snap.Accounts {
		wasAdmin, wasVerified, wasBanned := a.IsAdmin, a.IsVerified, a.IsBanned
		s.identity.Heal(a)
		if a.IsAdmin != wasAdmin || a.IsVerified != wasVerified || a.IsBanned != wasBanned {
			changed = true
		}
		if a.FollowingMap == nil {
			a.FollowingMap = make(map[string]bool)
			changed = true
		}
	}

	if snap.ActiveAccountIndex >= len(snap.Accounts) {
		if len(snap.Accounts) > 0 {
			snap.ActiveAccountIndex = 0
		} else {
			snap.ActiveAccountIndex = -1
		}
		changed = true
	}
	if snap.ActiveAccountIndex < 0 && snap.LoggedIn {
		snap.LoggedIn = false
		changed = true
	}

	if s.seedFeed && len(snap.Videos) == 0 {
		snap.Videos = SeedVideos()
		changed = true
		s.logger.Info("installed seed feed", "videos", len(snap.Videos))
	}

	return changed
}

// mutate runs fn against a clone of the current snapshot. On success the
// clone becomes current and is persisted; on failure the clone is discarded.
func (s *Service) mutate(op string, fn func(snap *model.Snapshot) error) error {
	next := s.snap.Clone()
	if err := fn(next); err != nil {
		return err
	}
	s.snap = next

	if err := s.store.Save(next); err != nil {
		s.logger.Warn("snapshot save failed, durable copy is stale", "op", op, "error", err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.logger.Debug("snapshot persisted", "op", op)
	return nil
}

// active validates the session: logged in, account resolvable, not banned.
func (s *Service) active(snap *model.Snapshot) (*model.Account, error) {
	if !snap.LoggedIn {
		return nil, fmt.Errorf("%w: no active session", ErrForbidden)
	}
	a := snap.ActiveAccount()
	if a == nil {
		return nil, fmt.Errorf("%w: no active account", ErrForbidden)
	}
	if a.IsBanned {
		return nil, fmt.Errorf("%w: %s", ErrBanned, a.BanReason)
	}
	return a, nil
}

// Snapshot returns the current snapshot. Reads are served from it directly;
// callers must not mutate it.
func (s *Service) Snapshot() *model.Snapshot { return s.snap }

// ActiveAccount returns the account the current session belongs to.
func (s *Service) ActiveAccount() (*model.Account, error) {
	return s.active(s.snap)
}

// Roster returns all locally known accounts.
func (s *Service) Roster() []*model.Account { return s.snap.Accounts }

// Profile returns the account with the given username.
func (s *Service) Profile(username string) (*model.Account, error) {
	a := s.snap.FindAccount(NormalizeIdentifier(username))
	if a == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, username)
	}
	return a, nil
}

// Register creates a new account and establishes a session for it.
func (s *Service) Register(email, password string, seed *ProfileSeed) (*model.Account, error) {
	var account *model.Account
	err := s.mutate("register", func(snap *model.Snapshot) error {
		a, err := s.identity.Register(snap, email, password, seed)
		if err != nil {
			return err
		}
		snap.ActiveAccountIndex = len(snap.Accounts) - 1
		snap.LoggedIn = true
		account = a
		return nil
	})
	if err != nil && !errors.Is(err, ErrPersistence) {
		return nil, err
	}
	s.logger.Info("account registered", "username", account.Username)
	return account, err
}

// Login authenticates an identifier/password pair. Banned accounts pass the
// credential check but are surfaced with ErrBanned before any session is
// granted. Accounts with two-factor protection get a pending challenge and
// a security notification carrying the code instead of an immediate session;
// that branch is reported as ErrChallengeRequired and completed through
// ConfirmChallenge.
func (s *Service) Login(identifier, password string) (*model.Account, error) {
	account, err := s.identity.Authenticate(s.snap, identifier, password)
	if err != nil {
		return nil, err
	}
	if account.IsBanned {
		return nil, fmt.Errorf("%w: %s", ErrBanned, account.BanReason)
	}

	if account.TwoFactorEnabled {
		code := s.codes.NewCode()
		s.pending = &pendingChallenge{username: account.Username, code: code}
		err := s.mutate("login.challenge", func(snap *model.Snapshot) error {
			a := snap.FindAccount(account.Username)
			if a == nil {
				return fmt.Errorf("%w: %s", ErrNotFound, account.Username)
			}
			s.notify.NotifySecurity(a, code)
			return nil
		})
		if err != nil && !errors.Is(err, ErrPersistence) {
			return nil, err
		}
		s.logger.Info("challenge issued", "username", account.Username)
		return nil, fmt.Errorf("%w: a one-time code was issued", ErrChallengeRequired)
	}

	err = s.mutate("login", func(snap *model.Snapshot) error {
		return s.establish(snap, account.Username)
	})
	if err != nil && !errors.Is(err, ErrPersistence) {
		return nil, err
	}
	s.logger.Info("session established", "username", account.Username)
	return account, err
}

// establish points the session at the named roster account.
func (s *Service) establish(snap *model.Snapshot, username string) error {
	for i, a := range snap.Accounts {
		if a.Username == username {
			snap.ActiveAccountIndex = i
			snap.LoggedIn = true
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotInRoster, username)
}

// ConfirmChallenge completes a pending two-factor login. Codes are single
// use: success or a replacement via ResendChallenge invalidates them.
func (s *Service) ConfirmChallenge(code string) (*model.Account, error) {
	if s.pending == nil {
		return nil, fmt.Errorf("%w: no pending challenge", ErrNotFound)
	}
	if code != s.pending.code {
		return nil, fmt.Errorf("%w: wrong code", ErrInvalidCredential)
	}
	username := s.pending.username
	s.pending = nil

	err := s.mutate("challenge.confirm", func(snap *model.Snapshot) error {
		return s.establish(snap, username)
	})
	if err != nil && !errors.Is(err, ErrPersistence) {
		return nil, err
	}
	s.logger.Info("challenge confirmed", "username", username)
	return s.snap.FindAccount(username), err
}

// ResendChallenge regenerates the pending one-time code, invalidating the
// previous one, and appends a fresh security notification.
func (s *Service) ResendChallenge() error {
	if s.pending == nil {
		return fmt.Errorf("%w: no pending challenge", ErrNotFound)
	}
	code := s.codes.NewCode()
	username := s.pending.username
	s.pending = &pendingChallenge{username: username, code: code}

	return s.mutate("challenge.resend", func(snap *model.Snapshot) error {
		a := snap.FindAccount(username)
		if a == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, username)
		}
		s.notify.NotifySecurity(a, code)
		return nil
	})
}

// AbandonChallenge drops the pending challenge without establishing a
// session.
func (s *Service) AbandonChallenge() {
	s.pending = nil
}

// Logout clears the session flag. The roster is retained: removing an
// account from the device is a separate, explicit action.
func (s *Service) Logout() error {
	return s.mutate("logout", func(snap *model.Snapshot) error {
		snap.LoggedIn = false
		return nil
	})
}

// SwitchAccount re-points the session at another roster account without
// re-authentication.
func (s *Service) SwitchAccount(username string) error {
	username = NormalizeIdentifier(username)
	return s.mutate("switch", func(snap *model.Snapshot) error {
		if err := s.establish(snap, username); err != nil {
			return err
		}
		if a := snap.ActiveAccount(); a.IsBanned {
			return fmt.Errorf("%w: %s", ErrBanned, a.BanReason)
		}
		return nil
	})
}

// UpdateProfile applies a typed patch to a profile. Accounts edit
// themselves; admins may edit anyone.
func (s *Service) UpdateProfile(username string, patch ProfilePatch) (*model.Account, error) {
	username = NormalizeIdentifier(username)
	var updated *model.Account
	err := s.mutate("profile.update", func(snap *model.Snapshot) error {
		actor, err := s.active(snap)
		if err != nil {
			return err
		}
		if actor.Username != username && !actor.IsAdmin {
			return fmt.Errorf("%w: cannot edit another account's profile", ErrForbidden)
		}
		updated, err = s.identity.UpdateProfile(snap, username, patch)
		return err
	})
	if err != nil && !errors.Is(err, ErrPersistence) {
		return nil, err
	}
	return updated, err
}

// BanAccount bans a user with a reason. Admin only.
func (s *Service) BanAccount(username, reason string) error {
	return s.adminOnly("ban", func(snap *model.Snapshot) error {
		return s.identity.SetBanned(snap, NormalizeIdentifier(username), true, reason)
	})
}

// UnbanAccount lifts a ban. Admin only.
func (s *Service) UnbanAccount(username string) error {
	return s.adminOnly("unban", func(snap *model.Snapshot) error {
		return s.identity.SetBanned(snap, NormalizeIdentifier(username), false, "")
	})
}

// RemoveAccount deletes an account and cascades through the social graph and
// content store. Accounts may remove themselves; admins may remove anyone.
// When the active account is removed the session is re-pointed first.
func (s *Service) RemoveAccount(username string) error {
	username = NormalizeIdentifier(username)
	return s.mutate("account.remove", func(snap *model.Snapshot) error {
		actor, err := s.active(snap)
		if err != nil {
			return err
		}
		if actor.Username != username && !actor.IsAdmin {
			return fmt.Errorf("%w: cannot remove another account", ErrForbidden)
		}

		activeUsername := actor.Username
		if err := s.identity.Remove(snap, username); err != nil {
			return err
		}

		if activeUsername == username {
			// The session owner is gone; fall back to the first roster
			// entry or an empty, logged-out session.
			if len(snap.Accounts) > 0 {
				snap.ActiveAccountIndex = 0
			} else {
				snap.ActiveAccountIndex = -1
			}
			snap.LoggedIn = false
			return nil
		}
		return s.establish(snap, activeUsername)
	})
}

// adminOnly runs a mutation that requires the active account to be an admin.
func (s *Service) adminOnly(op string, fn func(snap *model.Snapshot) error) error {
	return s.mutate(op, func(snap *model.Snapshot) error {
		actor, err := s.active(snap)
		if err != nil {
			return err
		}
		if !actor.IsAdmin {
			return fmt.Errorf("%w: admin required", ErrForbidden)
		}
		return fn(snap)
	})
}

// ToggleFollow flips the follow edge from the active account to the target
// and notifies the target when the edge turns on.
func (s *Service) ToggleFollow(targetUsername string) (FollowCounts, error) {
	targetUsername = NormalizeIdentifier(targetUsername)
	var counts FollowCounts
	err := s.mutate("follow.toggle", func(snap *model.Snapshot) error {
		actor, err := s.active(snap)
		if err != nil {
			return err
		}
		counts, err = s.graph.ToggleFollow(snap, actor.Username, targetUsername)
		if err != nil {
			return err
		}
		if counts.NowFollowing {
			s.notify.NotifyFollow(snap, targetUsername, actor)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrPersistence) {
		return FollowCounts{}, err
	}
	return counts, err
}

// ListFollowers lists the accounts following username, subject to the
// verified-account privacy rule.
func (s *Service) ListFollowers(username string) ([]*model.Account, error) {
	requester, _ := s.active(s.snap)
	return s.graph.ListFollowers(s.snap, NormalizeIdentifier(username), requester)
}

// ListFollowing lists the accounts username follows.
func (s *Service) ListFollowing(username string) ([]*model.Account, error) {
	return s.graph.ListFollowing(s.snap, NormalizeIdentifier(username))
}

// Publish posts a new video as the active account and scans its description
// for mentions.
func (s *Service) Publish(mediaRef, description, musicLabel string) (*model.Video, error) {
	var video *model.Video
	err := s.mutate("publish", func(snap *model.Snapshot) error {
		actor, err := s.active(snap)
		if err != nil {
			return err
		}
		video, err = s.content.Publish(snap, actor.Username, mediaRef, description, musicLabel)
		if err != nil {
			return err
		}
		s.notify.ScanMentions(snap, description, video.ID, actor, nil)
		return nil
	})
	if err != nil && !errors.Is(err, ErrPersistence) {
		return nil, err
	}
	return video, err
}

// ToggleLike flips the active account's like on a video and notifies the
// author when the like turns on.
func (s *Service) ToggleLike(videoID string) (liked bool, err error) {
	err = s.mutate("like.toggle", func(snap *model.Snapshot) error {
		actor, err := s.active(snap)
		if err != nil {
			return err
		}
		var video *model.Video
		video, liked, err = s.content.ToggleLike(snap, videoID, actor.Username)
		if err != nil {
			return err
		}
		if liked {
			s.notify.NotifyLike(snap, video, actor)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrPersistence) {
		return false, err
	}
	return liked, err
}

// ToggleRepost flips the active account's repost of a video and notifies the
// author when the repost turns on.
func (s *Service) ToggleRepost(videoID string) (reposted bool, err error) {
	err = s.mutate("repost.toggle", func(snap *model.Snapshot) error {
		actor, err := s.active(snap)
		if err != nil {
			return err
		}
		reposted, err = s.content.ToggleRepost(snap, videoID, actor.Username)
		if err != nil {
			return err
		}
		if reposted {
			s.notify.NotifyRepost(snap, snap.FindVideo(videoID), actor)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrPersistence) {
		return false, err
	}
	return reposted, err
}

// Share records a share of a video. Shares are counter-only events.
func (s *Service) Share(videoID string) error {
	return s.mutate("share", func(snap *model.Snapshot) error {
		if _, err := s.active(snap); err != nil {
			return err
		}
		_, err := s.content.RecordShare(snap, videoID)
		return err
	})
}

// AddComment inserts a comment or reply as the active account. Replies
// notify the parent comment's author; mention scanning runs over the text,
// skipping a reply target that already received a reply notification.
func (s *Service) AddComment(videoID, text, parentCommentID string) (*model.Comment, error) {
	var comment *model.Comment
	err := s.mutate("comment.add", func(snap *model.Snapshot) error {
		actor, err := s.active(snap)
		if err != nil {
			return err
		}

		var parentAuthor string
		if parentCommentID != "" {
			video := snap.FindVideo(videoID)
			if video == nil {
				return fmt.Errorf("%w: video %s", ErrNotFound, videoID)
			}
			parent, grandparent := s.content.FindComment(video, parentCommentID)
			if parent == nil || grandparent != nil {
				return fmt.Errorf("%w: %s", ErrParentNotFound, parentCommentID)
			}
			parentAuthor = parent.AuthorUsername
		}

		comment, err = s.content.AddComment(snap, videoID, actor.Username, text, parentCommentID)
		if err != nil {
			return err
		}

		skip := map[string]bool{}
		if parentAuthor != "" {
			s.notify.NotifyReply(snap, parentAuthor, actor, videoID)
			skip[parentAuthor] = true
		}
		s.notify.ScanMentions(snap, text, videoID, actor, skip)
		return nil
	})
	if err != nil && !errors.Is(err, ErrPersistence) {
		return nil, err
	}
	return comment, err
}

// DeleteComment removes a comment as the active account, subject to the
// author-or-owner rule.
func (s *Service) DeleteComment(videoID, commentID string) error {
	return s.mutate("comment.delete", func(snap *model.Snapshot) error {
		actor, err := s.active(snap)
		if err != nil {
			return err
		}
		return s.content.DeleteComment(snap, videoID, commentID, actor.Username)
	})
}

// ToggleCommentLike flips the active account's like on a comment.
func (s *Service) ToggleCommentLike(videoID, commentID string) (liked bool, err error) {
	err = s.mutate("comment.like", func(snap *model.Snapshot) error {
		actor, err := s.active(snap)
		if err != nil {
			return err
		}
		_, liked, err = s.content.ToggleCommentLike(snap, videoID, commentID, actor.Username)
		return err
	})
	if err != nil && !errors.Is(err, ErrPersistence) {
		return false, err
	}
	return liked, err
}

// DeleteVideo removes a video. The video's owner or an admin may delete.
func (s *Service) DeleteVideo(videoID string) error {
	return s.mutate("video.delete", func(snap *model.Snapshot) error {
		actor, err := s.active(snap)
		if err != nil {
			return err
		}
		video := snap.FindVideo(videoID)
		if video == nil {
			return fmt.Errorf("%w: video %s", ErrNotFound, videoID)
		}
		if video.AuthorUsername != actor.Username && !actor.IsAdmin {
			return fmt.Errorf("%w: only the owner or an admin may delete a video", ErrForbidden)
		}
		return s.content.DeleteVideo(snap, videoID)
	})
}

// UpdateVideoStats applies an administrative counter override. Admin only.
func (s *Service) UpdateVideoStats(videoID string, patch VideoStatsPatch) error {
	return s.adminOnly("video.stats", func(snap *model.Snapshot) error {
		_, err := s.content.UpdateVideoStats(snap, videoID, patch)
		return err
	})
}

// Feed returns the video feed, newest first. With followingOnly the feed is
// restricted to authors the active account follows.
func (s *Service) Feed(followingOnly bool) ([]*model.Video, error) {
	if !followingOnly {
		return s.snap.Videos, nil
	}
	actor, err := s.active(s.snap)
	if err != nil {
		return nil, err
	}
	var feed []*model.Video
	for _, v := range s.snap.Videos {
		if actor.FollowingMap[v.AuthorUsername] {
			feed = append(feed, v)
		}
	}
	return feed, nil
}

// Notifications returns the active account's notifications, newest first.
func (s *Service) Notifications() ([]*model.Notification, error) {
	actor, err := s.active(s.snap)
	if err != nil {
		return nil, err
	}
	return actor.Notifications, nil
}

// SendMessage sends a direct message from the active account.
func (s *Service) SendMessage(receiverUsername, text string) (*model.ChatMessage, error) {
	receiverUsername = NormalizeIdentifier(receiverUsername)
	var msg *model.ChatMessage
	err := s.mutate("message.send", func(snap *model.Snapshot) error {
		actor, err := s.active(snap)
		if err != nil {
			return err
		}
		if actor.Username == receiverUsername {
			return fmt.Errorf("%w: cannot message yourself", ErrValidation)
		}
		if snap.FindAccount(receiverUsername) == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, receiverUsername)
		}
		if len(text) == 0 {
			return fmt.Errorf("%w: empty message", ErrValidation)
		}
		msg = &model.ChatMessage{
			ID:               s.idgen.New(),
			SenderUsername:   actor.Username,
			ReceiverUsername: receiverUsername,
			Text:             text,
			Timestamp:        s.clock.Now(),
		}
		snap.Messages = append(snap.Messages, msg)
		return nil
	})
	if err != nil && !errors.Is(err, ErrPersistence) {
		return nil, err
	}
	return msg, err
}

// Conversation returns the messages between the active account and partner,
// oldest first.
func (s *Service) Conversation(partnerUsername string) ([]*model.ChatMessage, error) {
	partnerUsername = NormalizeIdentifier(partnerUsername)
	actor, err := s.active(s.snap)
	if err != nil {
		return nil, err
	}
	var msgs []*model.ChatMessage
	for _, m := range s.snap.Messages {
		pair := (m.SenderUsername == actor.Username && m.ReceiverUsername == partnerUsername) ||
			(m.SenderUsername == partnerUsername && m.ReceiverUsername == actor.Username)
		if pair {
			msgs = append(msgs, m)
		}
	}
	return msgs, nil
}

// ListPartners returns the usernames the active account has exchanged
// messages with, most recent conversation first.
func (s *Service) ListPartners() ([]string, error) {
	actor, err := s.active(s.snap)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var partners []string
	for i := len(s.snap.Messages) - 1; i >= 0; i-- {
		m := s.snap.Messages[i]
		var partner string
		switch actor.Username {
		case m.SenderUsername:
			partner = m.ReceiverUsername
		case m.ReceiverUsername:
			partner = m.SenderUsername
		default:
			continue
		}
		if !seen[partner] {
			seen[partner] = true
			partners = append(partners, partner)
		}
	}
	return partners, nil
}
