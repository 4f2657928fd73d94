package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"vibestream/internal/app"
	"vibestream/internal/config"
	"vibestream/internal/model"
	"vibestream/internal/vibe"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a VibeApp. The caller must defer
// app.Close(). operation identifies the CLI command being run.
func newApp(operation string) (*app.VibeApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewVibeApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// readPassword prompts for a password without echoing it.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(data), nil
}

// readLine prompts for a single line on stdin.
func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// warnIfStale prints a warning when a mutation applied in memory but could
// not be persisted.
func warnIfStale(err error) error {
	if errors.Is(err, vibe.ErrPersistence) {
		fmt.Fprintln(os.Stderr, "warning: changes could not be saved; a restart may roll them back")
		return nil
	}
	return err
}

var rootCmd = &cobra.Command{
	Use:   "vibestream",
	Short: "Local-first short video feed",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		cfg.MasterAdminEmail, _ = cmd.Flags().GetString("master-email")

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Store:      %s\n", cfg.Store.Type)
		fmt.Printf("Encryption: %s\n", cfg.Encryption.Type)
		return nil
	},
}

// register command
var registerCmd = &cobra.Command{
	Use:   "register EMAIL",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Register")
		if err != nil {
			return err
		}
		defer a.Close()

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		var seed *vibe.ProfileSeed
		username, _ := cmd.Flags().GetString("username")
		displayName, _ := cmd.Flags().GetString("display-name")
		if username != "" || displayName != "" {
			seed = &vibe.ProfileSeed{Username: username, DisplayName: displayName}
		}

		account, err := a.Service().Register(args[0], password, seed)
		if err := warnIfStale(err); err != nil {
			return err
		}

		fmt.Printf("Welcome, @%s!\n", account.Username)
		return nil
	},
}

// login command
var loginCmd = &cobra.Command{
	Use:   "login IDENTIFIER",
	Short: "Sign in with an email or @username",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Login")
		if err != nil {
			return err
		}
		defer a.Close()

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		account, err := a.Service().Login(args[0], password)
		if errors.Is(err, vibe.ErrBanned) {
			return fmt.Errorf("this account is banned: %w", err)
		}
		if errors.Is(err, vibe.ErrChallengeRequired) {
			return confirmChallenge(a.Service())
		}
		if err := warnIfStale(err); err != nil {
			return err
		}

		fmt.Printf("Signed in as @%s\n", account.Username)
		return nil
	},
}

// confirmChallenge drives the interactive one-time-code exchange. The code
// was delivered as a security notification; "resend" regenerates it.
func confirmChallenge(svc *vibe.Service) error {
	fmt.Println("Two-factor protection is on. A security notification carries your code.")
	for {
		input, err := readLine("Code (or 'resend'): ")
		if err != nil {
			return err
		}
		if input == "resend" {
			if err := warnIfStale(svc.ResendChallenge()); err != nil {
				return err
			}
			fmt.Println("A new code has been issued.")
			continue
		}

		account, err := svc.ConfirmChallenge(input)
		if errors.Is(err, vibe.ErrInvalidCredential) {
			fmt.Println("Wrong code, try again.")
			continue
		}
		if err := warnIfStale(err); err != nil {
			return err
		}
		fmt.Printf("Signed in as @%s\n", account.Username)
		return nil
	}
}

// logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session (accounts stay on this device)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Logout")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := warnIfStale(a.Service().Logout()); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

// accounts command
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List accounts on this device",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Accounts")
		if err != nil {
			return err
		}
		defer a.Close()

		active, _ := a.Service().ActiveAccount()
		for _, acc := range a.Service().Roster() {
			marker := " "
			if active != nil && acc.Username == active.Username {
				marker = "*"
			}
			flags := accountFlags(acc)
			fmt.Printf("%s @%-20s %s%s\n", marker, acc.Username, acc.DisplayName, flags)
		}
		return nil
	},
}

func accountFlags(acc *model.Account) string {
	var flags []string
	if acc.IsAdmin {
		flags = append(flags, "admin")
	}
	if acc.IsVerified {
		flags = append(flags, "verified")
	}
	if acc.IsBanned {
		flags = append(flags, "banned")
	}
	if len(flags) == 0 {
		return ""
	}
	return "  [" + strings.Join(flags, ",") + "]"
}

// switch command
var switchCmd = &cobra.Command{
	Use:   "switch USERNAME",
	Short: "Switch the active account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SwitchAccount")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := warnIfStale(a.Service().SwitchAccount(args[0])); err != nil {
			return err
		}
		fmt.Printf("Active account is now @%s\n", vibe.NormalizeIdentifier(args[0]))
		return nil
	},
}

// whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the active account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("WhoAmI")
		if err != nil {
			return err
		}
		defer a.Close()

		account, err := a.Service().ActiveAccount()
		if err != nil {
			return err
		}
		fmt.Printf("@%s (%s)\n", account.Username, account.DisplayName)
		return nil
	},
}

// post command
var postCmd = &cobra.Command{
	Use:   "post DESCRIPTION",
	Short: "Publish a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Publish")
		if err != nil {
			return err
		}
		defer a.Close()

		mediaRef, _ := cmd.Flags().GetString("media")
		music, _ := cmd.Flags().GetString("music")

		video, err := a.Service().Publish(mediaRef, args[0], music)
		if err := warnIfStale(err); err != nil {
			return err
		}
		fmt.Printf("Published video %s\n", video.ID)
		return nil
	},
}

// feed command
var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "View the video feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		followingOnly, _ := cmd.Flags().GetBool("following")

		a, err := newApp("Feed")
		if err != nil {
			return err
		}
		defer a.Close()

		videos, err := a.Service().Feed(followingOnly)
		if err != nil {
			return err
		}
		if len(videos) == 0 {
			fmt.Println("Nothing here yet.")
			return nil
		}

		for _, v := range videos {
			fmt.Printf("%s  @%s: %s\n", v.ID, v.AuthorUsername, v.Description)
			fmt.Printf("    %d likes  %d comments  %d reposts  %d shares  | %s\n",
				v.Likes, v.CommentCount(), v.Reposts, v.Shares, v.Music)
		}
		return nil
	},
}

// like command
var likeCmd = &cobra.Command{
	Use:   "like VIDEO",
	Short: "Toggle a like on a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ToggleLike")
		if err != nil {
			return err
		}
		defer a.Close()

		liked, err := a.Service().ToggleLike(args[0])
		if err := warnIfStale(err); err != nil {
			return err
		}
		if liked {
			fmt.Println("Liked.")
		} else {
			fmt.Println("Like removed.")
		}
		return nil
	},
}

// repost command
var repostCmd = &cobra.Command{
	Use:   "repost VIDEO",
	Short: "Toggle a repost of a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ToggleRepost")
		if err != nil {
			return err
		}
		defer a.Close()

		reposted, err := a.Service().ToggleRepost(args[0])
		if err := warnIfStale(err); err != nil {
			return err
		}
		if reposted {
			fmt.Println("Reposted.")
		} else {
			fmt.Println("Repost removed.")
		}
		return nil
	},
}

// share command
var shareCmd = &cobra.Command{
	Use:   "share VIDEO",
	Short: "Record a share of a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Share")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := warnIfStale(a.Service().Share(args[0])); err != nil {
			return err
		}
		fmt.Println("Shared.")
		return nil
	},
}

// comment commands
var commentCmd = &cobra.Command{
	Use:   "comment VIDEO TEXT",
	Short: "Comment on a video",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		replyTo, _ := cmd.Flags().GetString("reply-to")

		a, err := newApp("AddComment")
		if err != nil {
			return err
		}
		defer a.Close()

		comment, err := a.Service().AddComment(args[0], args[1], replyTo)
		if err := warnIfStale(err); err != nil {
			return err
		}
		fmt.Printf("Comment %s added\n", comment.ID)
		return nil
	},
}

var uncommentCmd = &cobra.Command{
	Use:   "uncomment VIDEO COMMENT",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteComment")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := warnIfStale(a.Service().DeleteComment(args[0], args[1])); err != nil {
			return err
		}
		fmt.Println("Comment deleted.")
		return nil
	},
}

var likeCommentCmd = &cobra.Command{
	Use:   "like-comment VIDEO COMMENT",
	Short: "Toggle a like on a comment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ToggleCommentLike")
		if err != nil {
			return err
		}
		defer a.Close()

		liked, err := a.Service().ToggleCommentLike(args[0], args[1])
		if err := warnIfStale(err); err != nil {
			return err
		}
		if liked {
			fmt.Println("Liked.")
		} else {
			fmt.Println("Like removed.")
		}
		return nil
	},
}

// comments command
var commentsCmd = &cobra.Command{
	Use:   "comments VIDEO",
	Short: "View a video's comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Comments")
		if err != nil {
			return err
		}
		defer a.Close()

		video := a.Service().Snapshot().FindVideo(args[0])
		if video == nil {
			return fmt.Errorf("video not found: %s", args[0])
		}

		for _, c := range video.Comments {
			fmt.Printf("%s  @%s: %s  (%d likes)\n", c.ID, c.AuthorUsername, c.Text, c.Likes)
			for _, r := range c.Replies {
				fmt.Printf("    %s  @%s: %s  (%d likes)\n", r.ID, r.AuthorUsername, r.Text, r.Likes)
			}
		}
		return nil
	},
}

// delete-video command
var deleteVideoCmd = &cobra.Command{
	Use:   "delete-video VIDEO",
	Short: "Delete a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteVideo")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := warnIfStale(a.Service().DeleteVideo(args[0])); err != nil {
			return err
		}
		fmt.Println("Video deleted.")
		return nil
	},
}

// follow command
var followCmd = &cobra.Command{
	Use:   "follow USERNAME",
	Short: "Toggle following a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ToggleFollow")
		if err != nil {
			return err
		}
		defer a.Close()

		counts, err := a.Service().ToggleFollow(args[0])
		if err := warnIfStale(err); err != nil {
			return err
		}
		if counts.NowFollowing {
			fmt.Printf("Following @%s (%d followers)\n", vibe.NormalizeIdentifier(args[0]), counts.TargetFollowers)
		} else {
			fmt.Printf("Unfollowed @%s\n", vibe.NormalizeIdentifier(args[0]))
		}
		return nil
	},
}

// followers / following commands
var followersCmd = &cobra.Command{
	Use:   "followers USERNAME",
	Short: "List a user's followers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListFollowers")
		if err != nil {
			return err
		}
		defer a.Close()

		followers, err := a.Service().ListFollowers(args[0])
		if err != nil {
			return err
		}
		for _, acc := range followers {
			fmt.Printf("@%s  %s\n", acc.Username, acc.DisplayName)
		}
		return nil
	},
}

var followingCmd = &cobra.Command{
	Use:   "following USERNAME",
	Short: "List who a user follows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListFollowing")
		if err != nil {
			return err
		}
		defer a.Close()

		following, err := a.Service().ListFollowing(args[0])
		if err != nil {
			return err
		}
		for _, acc := range following {
			fmt.Printf("@%s  %s\n", acc.Username, acc.DisplayName)
		}
		return nil
	},
}

// profile command
var profileCmd = &cobra.Command{
	Use:   "profile [USERNAME]",
	Short: "View a profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Profile")
		if err != nil {
			return err
		}
		defer a.Close()

		var account *model.Account
		if len(args) > 0 {
			account, err = a.Service().Profile(args[0])
		} else {
			account, err = a.Service().ActiveAccount()
		}
		if err != nil {
			return err
		}

		fmt.Printf("@%s  %s%s\n", account.Username, account.DisplayName, accountFlags(account))
		if account.Bio != "" {
			fmt.Println(account.Bio)
		}
		fmt.Printf("%d followers  %d following  %d likes\n",
			account.Followers, account.Following, account.LikesReceived)
		return nil
	},
}

// edit-profile command
var editProfileCmd = &cobra.Command{
	Use:   "edit-profile",
	Short: "Edit the active account's profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("UpdateProfile")
		if err != nil {
			return err
		}
		defer a.Close()

		account, err := a.Service().ActiveAccount()
		if err != nil {
			return err
		}

		var patch vibe.ProfilePatch
		if cmd.Flags().Changed("display-name") {
			v, _ := cmd.Flags().GetString("display-name")
			patch.DisplayName = &v
		}
		if cmd.Flags().Changed("bio") {
			v, _ := cmd.Flags().GetString("bio")
			patch.Bio = &v
		}
		if cmd.Flags().Changed("avatar") {
			v, _ := cmd.Flags().GetString("avatar")
			patch.Avatar = &v
		}
		if cmd.Flags().Changed("banner") {
			v, _ := cmd.Flags().GetString("banner")
			patch.Banner = &v
		}
		if cmd.Flags().Changed("email") {
			v, _ := cmd.Flags().GetString("email")
			patch.Email = &v
		}
		if cmd.Flags().Changed("two-factor") {
			v, _ := cmd.Flags().GetBool("two-factor")
			patch.TwoFactorEnabled = &v
		}
		if changePassword, _ := cmd.Flags().GetBool("password"); changePassword {
			current, err := readPassword("Current password: ")
			if err != nil {
				return err
			}
			next, err := readPassword("New password: ")
			if err != nil {
				return err
			}
			patch.CurrentPassword = current
			patch.NewPassword = next
		}

		if _, err := a.Service().UpdateProfile(account.Username, patch); err != nil {
			if err := warnIfStale(err); err != nil {
				return err
			}
		}
		fmt.Println("Profile updated.")
		return nil
	},
}

// notifications command
var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "View notifications, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Notifications")
		if err != nil {
			return err
		}
		defer a.Close()

		notifications, err := a.Service().Notifications()
		if err != nil {
			return err
		}
		if len(notifications) == 0 {
			fmt.Println("No notifications.")
			return nil
		}
		for _, n := range notifications {
			fmt.Printf("%s  [%s]  %s\n",
				n.Timestamp.Format("2006-01-02 15:04"), n.Type, n.DisplayText)
		}
		return nil
	},
}

// msg commands
var msgCmd = &cobra.Command{
	Use:   "msg",
	Short: "Direct messages",
}

var msgSendCmd = &cobra.Command{
	Use:   "send USERNAME TEXT",
	Short: "Send a direct message",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SendMessage")
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.Service().SendMessage(args[0], args[1]); err != nil {
			if err := warnIfStale(err); err != nil {
				return err
			}
		}
		fmt.Println("Sent.")
		return nil
	},
}

var msgListCmd = &cobra.Command{
	Use:   "list [USERNAME]",
	Short: "List conversations, or one conversation",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListMessages")
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 0 {
			partners, err := a.Service().ListPartners()
			if err != nil {
				return err
			}
			if len(partners) == 0 {
				fmt.Println("No conversations.")
				return nil
			}
			for _, p := range partners {
				fmt.Printf("@%s\n", p)
			}
			return nil
		}

		msgs, err := a.Service().Conversation(args[0])
		if err != nil {
			return err
		}
		for _, m := range msgs {
			fmt.Printf("%s  @%s: %s\n",
				m.Timestamp.Format("2006-01-02 15:04"), m.SenderUsername, m.Text)
		}
		return nil
	},
}

// admin commands
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Moderation tools",
}

var adminBanCmd = &cobra.Command{
	Use:   "ban USERNAME REASON",
	Short: "Ban an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("BanAccount")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := warnIfStale(a.Service().BanAccount(args[0], args[1])); err != nil {
			return err
		}
		fmt.Printf("@%s banned\n", vibe.NormalizeIdentifier(args[0]))
		return nil
	},
}

var adminUnbanCmd = &cobra.Command{
	Use:   "unban USERNAME",
	Short: "Lift a ban",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("UnbanAccount")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := warnIfStale(a.Service().UnbanAccount(args[0])); err != nil {
			return err
		}
		fmt.Printf("@%s unbanned\n", vibe.NormalizeIdentifier(args[0]))
		return nil
	},
}

var adminRemoveCmd = &cobra.Command{
	Use:   "remove USERNAME",
	Short: "Remove an account from this device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("RemoveAccount")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := warnIfStale(a.Service().RemoveAccount(args[0])); err != nil {
			return err
		}
		fmt.Printf("@%s removed\n", vibe.NormalizeIdentifier(args[0]))
		return nil
	},
}

var adminVideoStatsCmd = &cobra.Command{
	Use:   "video-stats VIDEO",
	Short: "Override a video's counters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("UpdateVideoStats")
		if err != nil {
			return err
		}
		defer a.Close()

		var patch vibe.VideoStatsPatch
		if cmd.Flags().Changed("likes") {
			v, _ := cmd.Flags().GetInt("likes")
			patch.Likes = &v
		}
		if cmd.Flags().Changed("shares") {
			v, _ := cmd.Flags().GetInt("shares")
			patch.Shares = &v
		}
		if cmd.Flags().Changed("reposts") {
			v, _ := cmd.Flags().GetInt("reposts")
			patch.Reposts = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			patch.Description = &v
		}
		if cmd.Flags().Changed("music") {
			v, _ := cmd.Flags().GetString("music")
			patch.Music = &v
		}
		if cmd.Flags().Changed("disable-comments") {
			v, _ := cmd.Flags().GetBool("disable-comments")
			patch.CommentsDisabled = &v
		}

		if err := warnIfStale(a.Service().UpdateVideoStats(args[0], patch)); err != nil {
			return err
		}
		fmt.Println("Video updated.")
		return nil
	},
}

// suggestion commands
var suggestCaptionCmd = &cobra.Command{
	Use:   "suggest-caption DESCRIPTION",
	Short: "Draft a repost caption",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SuggestCaption")
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Println(a.Assistant().GenerateCaption(context.Background(), args[0]))
		return nil
	},
}

var suggestCommentCmd = &cobra.Command{
	Use:   "suggest-comment VIDEO",
	Short: "Draft a comment for a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SuggestComment")
		if err != nil {
			return err
		}
		defer a.Close()

		video := a.Service().Snapshot().FindVideo(args[0])
		if video == nil {
			return fmt.Errorf("video not found: %s", args[0])
		}
		fmt.Println(a.Assistant().SuggestComment(context.Background(), video.Description))
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().String("master-email", "", "Reserved master administrator email")

	// msg subcommands
	msgCmd.AddCommand(msgSendCmd)
	msgCmd.AddCommand(msgListCmd)

	// admin subcommands
	adminCmd.AddCommand(adminBanCmd)
	adminCmd.AddCommand(adminUnbanCmd)
	adminCmd.AddCommand(adminRemoveCmd)
	adminCmd.AddCommand(adminVideoStatsCmd)
	adminVideoStatsCmd.Flags().Int("likes", 0, "Set the like counter")
	adminVideoStatsCmd.Flags().Int("shares", 0, "Set the share counter")
	adminVideoStatsCmd.Flags().Int("reposts", 0, "Set the repost counter")
	adminVideoStatsCmd.Flags().String("description", "", "Replace the description")
	adminVideoStatsCmd.Flags().String("music", "", "Replace the music label")
	adminVideoStatsCmd.Flags().Bool("disable-comments", false, "Disable or enable comments")

	// flags
	registerCmd.Flags().String("username", "", "Username (random identity when omitted)")
	registerCmd.Flags().String("display-name", "", "Display name")
	postCmd.Flags().String("media", "", "Media reference (URL or path)")
	postCmd.Flags().String("music", "", "Music label")
	feedCmd.Flags().Bool("following", false, "Only videos from accounts you follow")
	commentCmd.Flags().String("reply-to", "", "Reply to a top-level comment id")
	editProfileCmd.Flags().String("display-name", "", "Display name")
	editProfileCmd.Flags().String("bio", "", "Bio")
	editProfileCmd.Flags().String("avatar", "", "Avatar reference")
	editProfileCmd.Flags().String("banner", "", "Banner reference")
	editProfileCmd.Flags().String("email", "", "Email")
	editProfileCmd.Flags().Bool("two-factor", false, "Enable or disable two-factor protection")
	editProfileCmd.Flags().Bool("password", false, "Change the password (prompts)")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(repostCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(commentsCmd)
	rootCmd.AddCommand(uncommentCmd)
	rootCmd.AddCommand(likeCommentCmd)
	rootCmd.AddCommand(deleteVideoCmd)
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(followersCmd)
	rootCmd.AddCommand(followingCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(editProfileCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(msgCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(suggestCaptionCmd)
	rootCmd.AddCommand(suggestCommentCmd)
}
