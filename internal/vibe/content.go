package vibe

import (
	"fmt"
	"strings"

	"vibestream/internal/model"
)

// VideoStatsPatch is the administrative override for video counters and
// attributes. It bypasses the normal toggle semantics and is reserved for
// moderation tooling. Nil pointers mean "leave unchanged".
type VideoStatsPatch struct {
	Description      *string
	Music            *string
	Likes            *int
	Shares           *int
	Reposts          *int
	CommentsDisabled *bool
}

// ContentStore owns videos and their comment trees. Aggregate counters
// (likes, reposts, shares) are maintained incrementally alongside the
// per-viewer relationship state.
type ContentStore struct {
	clock Clock
	idgen IDGenerator
}

func NewContentStore(clock Clock, idgen IDGenerator) *ContentStore {
	return &ContentStore{clock: clock, idgen: idgen}
}

// Publish prepends a new video to the global feed (newest first).
func (c *ContentStore) Publish(snap *model.Snapshot, authorUsername, mediaRef, description, musicLabel string) (*model.Video, error) {
	if snap.FindAccount(authorUsername) == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, authorUsername)
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: empty description", ErrValidation)
	}

	video := &model.Video{
		ID:             c.idgen.New(),
		URL:            mediaRef,
		AuthorUsername: authorUsername,
		Description:    description,
		Music:          musicLabel,
		Timestamp:      c.clock.Now(),
		Comments:       []*model.Comment{},
	}
	snap.Videos = append([]*model.Video{video}, snap.Videos...)
	return video, nil
}

// ToggleLike flips the viewer's like flag on a video and moves the shared
// counter by one. The video author's received-likes counter moves with it.
// Returns the video and whether the viewer now likes it.
func (c *ContentStore) ToggleLike(snap *model.Snapshot, videoID, viewerUsername string) (*model.Video, bool, error) {
	video := snap.FindVideo(videoID)
	if video == nil {
		return nil, false, fmt.Errorf("%w: video %s", ErrNotFound, videoID)
	}
	author := snap.FindAccount(video.AuthorUsername)

	if video.LikedBy[viewerUsername] {
		delete(video.LikedBy, viewerUsername)
		if video.Likes > 0 {
			video.Likes--
		}
		if author != nil && author.LikesReceived > 0 {
			author.LikesReceived--
		}
		return video, false, nil
	}

	if video.LikedBy == nil {
		video.LikedBy = make(map[string]bool)
	}
	video.LikedBy[viewerUsername] = true
	video.Likes++
	if author != nil {
		author.LikesReceived++
	}
	return video, true, nil
}

// ToggleRepost flips membership of the video in the viewer's reposted set
// and moves the video's repost counter by one. Returns whether the viewer
// now reposts it.
func (c *ContentStore) ToggleRepost(snap *model.Snapshot, videoID, viewerUsername string) (bool, error) {
	video := snap.FindVideo(videoID)
	if video == nil {
		return false, fmt.Errorf("%w: video %s", ErrNotFound, videoID)
	}
	viewer := snap.FindAccount(viewerUsername)
	if viewer == nil {
		return false, fmt.Errorf("%w: %s", ErrNotFound, viewerUsername)
	}

	if viewer.HasReposted(videoID) {
		kept := viewer.RepostedVideoIDs[:0]
		for _, id := range viewer.RepostedVideoIDs {
			if id != videoID {
				kept = append(kept, id)
			}
		}
		viewer.RepostedVideoIDs = kept
		if video.Reposts > 0 {
			video.Reposts--
		}
		return false, nil
	}

	viewer.RepostedVideoIDs = append(viewer.RepostedVideoIDs, videoID)
	video.Reposts++
	return true, nil
}

// RecordShare increments the share counter. Sharing is a counter-only event
// with no per-viewer state.
func (c *ContentStore) RecordShare(snap *model.Snapshot, videoID string) (*model.Video, error) {
	video := snap.FindVideo(videoID)
	if video == nil {
		return nil, fmt.Errorf("%w: video %s", ErrNotFound, videoID)
	}
	video.Shares++
	return video, nil
}

// AddComment inserts a comment. With a parent id it must resolve to an
// existing top-level comment and the reply is appended oldest-first;
// otherwise the comment is prepended at the top level. Replying to a reply
// fails with ErrParentNotFound.
func (c *ContentStore) AddComment(snap *model.Snapshot, videoID, authorUsername, text, parentCommentID string) (*model.Comment, error) {
	video := snap.FindVideo(videoID)
	if video == nil {
		return nil, fmt.Errorf("%w: video %s", ErrNotFound, videoID)
	}
	if video.CommentsDisabled {
		return nil, fmt.Errorf("%w: comments are disabled on this video", ErrForbidden)
	}
	if snap.FindAccount(authorUsername) == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, authorUsername)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty comment", ErrValidation)
	}

	comment := &model.Comment{
		ID:             c.idgen.New(),
		AuthorUsername: authorUsername,
		Text:           text,
		Timestamp:      c.clock.Now(),
	}

	if parentCommentID == "" {
		comment.Replies = []*model.Comment{}
		video.Comments = append([]*model.Comment{comment}, video.Comments...)
		return comment, nil
	}

	for _, parent := range video.Comments {
		if parent.ID == parentCommentID {
			parent.Replies = append(parent.Replies, comment)
			return comment, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrParentNotFound, parentCommentID)
}

// FindComment locates a comment on a video, searching top-level comments and
// their replies. parent is nil for top-level comments.
func (c *ContentStore) FindComment(video *model.Video, commentID string) (comment, parent *model.Comment) {
	for _, top := range video.Comments {
		if top.ID == commentID {
			return top, nil
		}
		for _, reply := range top.Replies {
			if reply.ID == commentID {
				return reply, top
			}
		}
	}
	return nil, nil
}

// DeleteComment removes a comment. A top-level comment takes its replies
// with it; a reply only leaves its parent's list. Only the comment's author
// or the video's owner may delete.
func (c *ContentStore) DeleteComment(snap *model.Snapshot, videoID, commentID, requesterUsername string) error {
	video := snap.FindVideo(videoID)
	if video == nil {
		return fmt.Errorf("%w: video %s", ErrNotFound, videoID)
	}
	comment, parent := c.FindComment(video, commentID)
	if comment == nil {
		return fmt.Errorf("%w: comment %s", ErrNotFound, commentID)
	}
	if requesterUsername != comment.AuthorUsername && requesterUsername != video.AuthorUsername {
		return fmt.Errorf("%w: only the comment author or video owner may delete", ErrForbidden)
	}

	if parent == nil {
		for i, top := range video.Comments {
			if top == comment {
				video.Comments = append(video.Comments[:i], video.Comments[i+1:]...)
				break
			}
		}
		return nil
	}
	for i, reply := range parent.Replies {
		if reply == comment {
			parent.Replies = append(parent.Replies[:i], parent.Replies[i+1:]...)
			break
		}
	}
	return nil
}

// ToggleCommentLike flips the viewer's like flag on a comment (top-level or
// reply) and moves its counter by one.
func (c *ContentStore) ToggleCommentLike(snap *model.Snapshot, videoID, commentID, viewerUsername string) (*model.Comment, bool, error) {
	video := snap.FindVideo(videoID)
	if video == nil {
		return nil, false, fmt.Errorf("%w: video %s", ErrNotFound, videoID)
	}
	comment, _ := c.FindComment(video, commentID)
	if comment == nil {
		return nil, false, fmt.Errorf("%w: comment %s", ErrNotFound, commentID)
	}

	if comment.LikedBy[viewerUsername] {
		delete(comment.LikedBy, viewerUsername)
		if comment.Likes > 0 {
			comment.Likes--
		}
		return comment, false, nil
	}
	if comment.LikedBy == nil {
		comment.LikedBy = make(map[string]bool)
	}
	comment.LikedBy[viewerUsername] = true
	comment.Likes++
	return comment, true, nil
}

// DeleteVideo removes a video from the feed and strips its id from every
// account's reposted set.
func (c *ContentStore) DeleteVideo(snap *model.Snapshot, videoID string) error {
	found := false
	for i, v := range snap.Videos {
		if v.ID == videoID {
			snap.Videos = append(snap.Videos[:i], snap.Videos[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: video %s", ErrNotFound, videoID)
	}

	for _, a := range snap.Accounts {
		kept := a.RepostedVideoIDs[:0]
		for _, id := range a.RepostedVideoIDs {
			if id != videoID {
				kept = append(kept, id)
			}
		}
		a.RepostedVideoIDs = kept
	}
	return nil
}

// UpdateVideoStats applies an administrative override to a video's counters
// and attributes.
func (c *ContentStore) UpdateVideoStats(snap *model.Snapshot, videoID string, patch VideoStatsPatch) (*model.Video, error) {
	video := snap.FindVideo(videoID)
	if video == nil {
		return nil, fmt.Errorf("%w: video %s", ErrNotFound, videoID)
	}

	if patch.Description != nil {
		video.Description = *patch.Description
	}
	if patch.Music != nil {
		video.Music = *patch.Music
	}
	if patch.Likes != nil {
		if *patch.Likes < 0 {
			return nil, fmt.Errorf("%w: likes cannot be negative", ErrValidation)
		}
		video.Likes = *patch.Likes
	}
	if patch.Shares != nil {
		if *patch.Shares < 0 {
			return nil, fmt.Errorf("%w: shares cannot be negative", ErrValidation)
		}
		video.Shares = *patch.Shares
	}
	if patch.Reposts != nil {
		if *patch.Reposts < 0 {
			return nil, fmt.Errorf("%w: reposts cannot be negative", ErrValidation)
		}
		video.Reposts = *patch.Reposts
	}
	if patch.CommentsDisabled != nil {
		video.CommentsDisabled = *patch.CommentsDisabled
	}
	return video, nil
}
