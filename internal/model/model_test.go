package model_test

import (
	"testing"
	"time"

	"vibestream/internal/model"
)

func sampleSnapshot() *model.Snapshot {
	ts := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	return &model.Snapshot{
		Accounts: []*model.Account{
			{
				Username:         "alice",
				DisplayName:      "Alice",
				FollowingMap:     map[string]bool{"bob": true},
				RepostedVideoIDs: []string{"v1"},
				Notifications: []*model.Notification{
					{ID: "n1", Type: model.NotificationFollow, SourceUsername: "bob", Timestamp: ts},
				},
			},
			{Username: "bob", FollowingMap: map[string]bool{}},
		},
		Videos: []*model.Video{
			{
				ID:             "v1",
				AuthorUsername: "bob",
				Description:    "hello",
				LikedBy:        map[string]bool{"alice": true},
				Likes:          1,
				Comments: []*model.Comment{
					{
						ID:             "c1",
						AuthorUsername: "alice",
						Text:           "nice",
						LikedBy:        map[string]bool{"bob": true},
						Replies: []*model.Comment{
							{ID: "c2", AuthorUsername: "bob", Text: "thanks"},
						},
					},
				},
			},
		},
		Messages: []*model.ChatMessage{
			{ID: "m1", SenderUsername: "alice", ReceiverUsername: "bob", Text: "hi", Timestamp: ts},
		},
		ActiveAccountIndex: 0,
		LoggedIn:           true,
	}
}

func TestSnapshot_Clone(t *testing.T) {
	orig := sampleSnapshot()
	clone := orig.Clone()

	// Mutate every level of the clone.
	clone.Accounts[0].FollowingMap["carol"] = true
	clone.Accounts[0].RepostedVideoIDs[0] = "changed"
	clone.Accounts[0].Notifications[0].DisplayText = "changed"
	clone.Videos[0].LikedBy["bob"] = true
	clone.Videos[0].Comments[0].LikedBy["alice"] = true
	clone.Videos[0].Comments[0].Replies[0].Text = "changed"
	clone.Messages[0].Text = "changed"
	clone.LoggedIn = false

	alice := orig.Accounts[0]
	if alice.FollowingMap["carol"] {
		t.Error("FollowingMap shared between snapshot and clone")
	}
	if alice.RepostedVideoIDs[0] != "v1" {
		t.Error("RepostedVideoIDs shared between snapshot and clone")
	}
	if alice.Notifications[0].DisplayText != "" {
		t.Error("Notifications shared between snapshot and clone")
	}
	if orig.Videos[0].LikedBy["bob"] {
		t.Error("video LikedBy shared between snapshot and clone")
	}
	if orig.Videos[0].Comments[0].LikedBy["alice"] != true {
		t.Error("comment LikedBy lost in clone source")
	}
	if orig.Videos[0].Comments[0].Replies[0].Text != "thanks" {
		t.Error("reply shared between snapshot and clone")
	}
	if orig.Messages[0].Text != "hi" {
		t.Error("messages shared between snapshot and clone")
	}
	if !orig.LoggedIn {
		t.Error("session flag shared between snapshot and clone")
	}
}

func TestSnapshot_Find(t *testing.T) {
	snap := sampleSnapshot()

	t.Run("account by username", func(t *testing.T) {
		if a := snap.FindAccount("alice"); a == nil || a.DisplayName != "Alice" {
			t.Errorf("FindAccount(alice) = %v", a)
		}
		if a := snap.FindAccount("nobody"); a != nil {
			t.Errorf("FindAccount(nobody) = %v, want nil", a)
		}
	})

	t.Run("account by identifier matches email or username", func(t *testing.T) {
		snap.Accounts[0].Email = "alice@example.com"
		if a := snap.FindAccountByIdentifier("alice@example.com"); a == nil {
			t.Error("FindAccountByIdentifier(email) = nil")
		}
		if a := snap.FindAccountByIdentifier("alice"); a == nil {
			t.Error("FindAccountByIdentifier(username) = nil")
		}
	})

	t.Run("video by id", func(t *testing.T) {
		if v := snap.FindVideo("v1"); v == nil || v.AuthorUsername != "bob" {
			t.Errorf("FindVideo(v1) = %v", v)
		}
		if v := snap.FindVideo("v9"); v != nil {
			t.Errorf("FindVideo(v9) = %v, want nil", v)
		}
	})

	t.Run("active account follows the index", func(t *testing.T) {
		if a := snap.ActiveAccount(); a == nil || a.Username != "alice" {
			t.Errorf("ActiveAccount() = %v, want alice", a)
		}
		snap.ActiveAccountIndex = -1
		if a := snap.ActiveAccount(); a != nil {
			t.Errorf("ActiveAccount() = %v with index -1, want nil", a)
		}
	})
}

func TestVideo_CommentCount(t *testing.T) {
	snap := sampleSnapshot()
	if got := snap.Videos[0].CommentCount(); got != 2 {
		t.Errorf("CommentCount() = %d, want 2 (one comment, one reply)", got)
	}
}
