// Package model defines the persisted domain types for the vibestream
// engine. Every mutation operates on a deep clone of the Snapshot, so all
// types here provide Clone methods that copy their owned state.
package model

import "time"

// NotificationType enumerates the kinds of notification an account can
// receive.
type NotificationType string

const (
	NotificationFollow   NotificationType = "follow"
	NotificationLike     NotificationType = "like"
	NotificationRepost   NotificationType = "repost"
	NotificationMention  NotificationType = "mention"
	NotificationReply    NotificationType = "reply"
	NotificationSecurity NotificationType = "security"
)

// Notification is an append-only entry on an account. Notifications are
// never mutated after insertion; the list is kept newest-first.
type Notification struct {
	ID             string           `json:"id"`
	Type           NotificationType `json:"type"`
	SourceUsername string           `json:"sourceUsername"`
	SourceAvatar   string           `json:"sourceAvatar"`
	Timestamp      time.Time        `json:"timestamp"`
	DisplayText    string           `json:"displayText"`
	RelatedVideoID string           `json:"relatedVideoId,omitempty"`
}

// Account is a registered identity plus its social state. The follow map and
// the derived counters are maintained together by the social graph; they must
// never desynchronize.
type Account struct {
	Username         string `json:"username"`
	DisplayName      string `json:"displayName"`
	Bio              string `json:"bio"`
	Avatar           string `json:"avatar"`
	Banner           string `json:"banner,omitempty"`
	Email            string `json:"email"`
	PasswordHash     string `json:"passwordHash"`
	IsVerified       bool   `json:"isVerified"`
	IsAdmin          bool   `json:"isAdmin"`
	IsBanned         bool   `json:"isBanned"`
	BanReason        string `json:"banReason,omitempty"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`

	// Derived counters, incrementally maintained by mutation handlers.
	Followers     int `json:"followers"`
	Following     int `json:"following"`
	LikesReceived int `json:"likes"`

	// FollowingMap records which usernames this account follows.
	FollowingMap map[string]bool `json:"followingMap"`

	RepostedVideoIDs []string        `json:"repostedVideoIds"`
	Notifications    []*Notification `json:"notifications"`
}

// IsFollowing reports whether the account follows the given username.
func (a *Account) IsFollowing(username string) bool {
	return a.FollowingMap[username]
}

// HasReposted reports whether the account has reposted the given video.
func (a *Account) HasReposted(videoID string) bool {
	for _, id := range a.RepostedVideoIDs {
		if id == videoID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	c := *a
	c.FollowingMap = make(map[string]bool, len(a.FollowingMap))
	for k, v := range a.FollowingMap {
		c.FollowingMap[k] = v
	}
	c.RepostedVideoIDs = append([]string(nil), a.RepostedVideoIDs...)
	c.Notifications = make([]*Notification, len(a.Notifications))
	for i, n := range a.Notifications {
		nc := *n
		c.Notifications[i] = &nc
	}
	return &c
}

// Comment is a node in a video's comment tree. The tree has depth exactly
// two: replies are only populated on top-level comments and never nest
// further.
type Comment struct {
	ID             string    `json:"id"`
	AuthorUsername string    `json:"authorUsername"`
	Text           string    `json:"text"`
	Timestamp      time.Time `json:"timestamp"`
	Likes          int       `json:"likes"`

	// LikedBy tracks per-viewer like state so that toggling stays correct
	// across account switches on the same device.
	LikedBy map[string]bool `json:"likedBy,omitempty"`

	// Replies is oldest-first and only ever set on top-level comments.
	Replies []*Comment `json:"replies,omitempty"`
}

// IsLikedBy reports the per-viewer like flag for a username.
func (c *Comment) IsLikedBy(username string) bool {
	return c.LikedBy[username]
}

// Clone returns a deep copy of the comment and its replies.
func (c *Comment) Clone() *Comment {
	cc := *c
	if c.LikedBy != nil {
		cc.LikedBy = make(map[string]bool, len(c.LikedBy))
		for k, v := range c.LikedBy {
			cc.LikedBy[k] = v
		}
	}
	if c.Replies != nil {
		cc.Replies = make([]*Comment, len(c.Replies))
		for i, r := range c.Replies {
			cc.Replies[i] = r.Clone()
		}
	}
	return &cc
}

// Video is a published post. The global video list is newest-first; comments
// at the top level are newest-first.
type Video struct {
	ID               string     `json:"id"`
	URL              string     `json:"url"`
	AuthorUsername   string     `json:"authorUsername"`
	Description      string     `json:"description"`
	Music            string     `json:"music"`
	Timestamp        time.Time  `json:"timestamp"`
	Likes            int        `json:"likes"`
	Shares           int        `json:"shares"`
	Reposts          int        `json:"reposts"`
	CommentsDisabled bool       `json:"commentsDisabled,omitempty"`
	Comments         []*Comment `json:"comments"`

	LikedBy map[string]bool `json:"likedBy,omitempty"`
}

// IsLikedBy reports the per-viewer like flag for a username.
func (v *Video) IsLikedBy(username string) bool {
	return v.LikedBy[username]
}

// CommentCount returns the number of comments including replies.
func (v *Video) CommentCount() int {
	n := 0
	for _, c := range v.Comments {
		n += 1 + len(c.Replies)
	}
	return n
}

// Clone returns a deep copy of the video and its comment tree.
func (v *Video) Clone() *Video {
	vc := *v
	if v.LikedBy != nil {
		vc.LikedBy = make(map[string]bool, len(v.LikedBy))
		for k, val := range v.LikedBy {
			vc.LikedBy[k] = val
		}
	}
	vc.Comments = make([]*Comment, len(v.Comments))
	for i, c := range v.Comments {
		vc.Comments[i] = c.Clone()
	}
	return &vc
}

// ChatMessage is a direct message between two accounts. Conversations are
// derived by grouping messages on the unordered {sender, receiver} pair.
type ChatMessage struct {
	ID               string    `json:"id"`
	SenderUsername   string    `json:"senderUsername"`
	ReceiverUsername string    `json:"receiverUsername"`
	Text             string    `json:"text"`
	Timestamp        time.Time `json:"timestamp"`
}

// Snapshot is the complete serializable state of the application: the
// account roster, the video feed, the chat log and the session pointer.
type Snapshot struct {
	Accounts           []*Account     `json:"accounts"`
	Videos             []*Video       `json:"videos"`
	Messages           []*ChatMessage `json:"messages"`
	ActiveAccountIndex int            `json:"activeAccountIndex"`
	LoggedIn           bool           `json:"loggedIn"`
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{ActiveAccountIndex: -1}
}

// FindAccount returns the account with the given username, or nil.
func (s *Snapshot) FindAccount(username string) *Account {
	for _, a := range s.Accounts {
		if a.Username == username {
			return a
		}
	}
	return nil
}

// FindAccountByIdentifier matches an account by email or username.
func (s *Snapshot) FindAccountByIdentifier(identifier string) *Account {
	for _, a := range s.Accounts {
		if a.Email == identifier || a.Username == identifier {
			return a
		}
	}
	return nil
}

// FindVideo returns the video with the given id, or nil.
func (s *Snapshot) FindVideo(id string) *Video {
	for _, v := range s.Videos {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// ActiveAccount returns the account the session pointer refers to, or nil if
// the pointer is unset or out of range.
func (s *Snapshot) ActiveAccount() *Account {
	if s.ActiveAccountIndex < 0 || s.ActiveAccountIndex >= len(s.Accounts) {
		return nil
	}
	return s.Accounts[s.ActiveAccountIndex]
}

// Clone returns a deep copy of the snapshot. Mutations run against clones so
// a failed operation never leaves partial state behind.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Accounts:           make([]*Account, len(s.Accounts)),
		Videos:             make([]*Video, len(s.Videos)),
		Messages:           make([]*ChatMessage, len(s.Messages)),
		ActiveAccountIndex: s.ActiveAccountIndex,
		LoggedIn:           s.LoggedIn,
	}
	for i, a := range s.Accounts {
		c.Accounts[i] = a.Clone()
	}
	for i, v := range s.Videos {
		c.Videos[i] = v.Clone()
	}
	for i, m := range s.Messages {
		mc := *m
		c.Messages[i] = &mc
	}
	return c
}
