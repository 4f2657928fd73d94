package vibe

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"vibestream/internal/model"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 4

// ProfileSeed carries the initial profile attributes for a new account.
// When empty, a random identity is generated.
type ProfileSeed struct {
	Username    string
	DisplayName string
	Bio         string
	Avatar      string
}

// ProfilePatch enumerates exactly the fields a profile edit may touch.
// Nil pointers mean "leave unchanged".
type ProfilePatch struct {
	DisplayName      *string
	Bio              *string
	Avatar           *string
	Banner           *string
	Email            *string
	TwoFactorEnabled *bool

	// Password changes require the current password.
	CurrentPassword string
	NewPassword     string
}

// IdentityStore owns the set of registered accounts and their credentials.
// It operates on snapshots passed in by the session controller and never
// holds account state itself.
type IdentityStore struct {
	masterEmail string
	rng         *rand.Rand
}

// NewIdentityStore creates an identity store. masterEmail is the reserved
// master-administrator identity; rng seeds random identity generation and may
// be nil for the default source.
func NewIdentityStore(masterEmail string, rng *rand.Rand) *IdentityStore {
	return &IdentityStore{masterEmail: strings.ToLower(masterEmail), rng: rng}
}

// IsMaster reports whether the account is the reserved master administrator.
func (s *IdentityStore) IsMaster(a *model.Account) bool {
	return s.masterEmail != "" && a.Email == s.masterEmail
}

// NormalizeIdentifier lowercases, trims and strips a leading @ from an email
// or username entered by the user.
func NormalizeIdentifier(identifier string) string {
	return strings.TrimPrefix(strings.TrimSpace(strings.ToLower(identifier)), "@")
}

// Register creates a new account. The email must be well formed, the
// password at least MinPasswordLength characters, and both email and
// username unused. The master-administrator email always yields an admin,
// verified account regardless of registration path.
func (s *IdentityStore) Register(snap *model.Snapshot, email, password string, seed *ProfileSeed) (*model.Account, error) {
	email = NormalizeIdentifier(email)
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email %q", ErrValidation, email)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}

	var sd ProfileSeed
	if seed != nil {
		sd = *seed
	}
	if sd.Username == "" {
		sd.DisplayName, sd.Username = s.randomIdentity()
	}
	sd.Username = NormalizeIdentifier(sd.Username)
	if sd.Username == "" {
		return nil, fmt.Errorf("%w: empty username", ErrValidation)
	}
	if sd.DisplayName == "" {
		sd.DisplayName = sd.Username
	}

	if snap.FindAccountByIdentifier(email) != nil || snap.FindAccount(sd.Username) != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateIdentity, email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	master := s.masterEmail != "" && email == s.masterEmail
	account := &model.Account{
		Username:         sd.Username,
		DisplayName:      sd.DisplayName,
		Bio:              sd.Bio,
		Avatar:           sd.Avatar,
		Email:            email,
		PasswordHash:     string(hash),
		IsAdmin:          master,
		IsVerified:       master,
		FollowingMap:     make(map[string]bool),
		RepostedVideoIDs: []string{},
		Notifications:    []*model.Notification{},
	}
	snap.Accounts = append(snap.Accounts, account)
	return account, nil
}

// Authenticate matches an identifier (email or username) against the roster
// and verifies the password. Ban state and two-factor challenges are handled
// by the session controller on top of this.
func (s *IdentityStore) Authenticate(snap *model.Snapshot, identifier, password string) (*model.Account, error) {
	identifier = NormalizeIdentifier(identifier)
	account := snap.FindAccountByIdentifier(identifier)
	if account == nil {
		return nil, fmt.Errorf("%w: no account for %q", ErrNotFound, identifier)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: password mismatch", ErrInvalidCredential)
	}
	return account, nil
}

// UpdateProfile merges the patch into the named account. Password changes
// verify the current password first. The master administrator can never lose
// its admin flag through this path.
func (s *IdentityStore) UpdateProfile(snap *model.Snapshot, username string, patch ProfilePatch) (*model.Account, error) {
	account := snap.FindAccount(username)
	if account == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, username)
	}

	if patch.NewPassword != "" || patch.CurrentPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(patch.CurrentPassword)); err != nil {
			return nil, fmt.Errorf("%w: current password mismatch", ErrInvalidCredential)
		}
		if len(patch.NewPassword) < MinPasswordLength {
			return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(patch.NewPassword), 10)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		account.PasswordHash = string(hash)
	}

	if patch.DisplayName != nil {
		if strings.TrimSpace(*patch.DisplayName) == "" {
			return nil, fmt.Errorf("%w: display name cannot be empty", ErrValidation)
		}
		account.DisplayName = *patch.DisplayName
	}
	if patch.Bio != nil {
		account.Bio = *patch.Bio
	}
	if patch.Avatar != nil {
		account.Avatar = *patch.Avatar
	}
	if patch.Banner != nil {
		account.Banner = *patch.Banner
	}
	if patch.Email != nil {
		email := NormalizeIdentifier(*patch.Email)
		if !emailPattern.MatchString(email) {
			return nil, fmt.Errorf("%w: invalid email %q", ErrValidation, email)
		}
		if s.IsMaster(account) {
			return nil, fmt.Errorf("%w: master identity email is fixed", ErrProtectedAccount)
		}
		if other := snap.FindAccountByIdentifier(email); other != nil && other != account {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIdentity, email)
		}
		account.Email = email
	}
	if patch.TwoFactorEnabled != nil {
		account.TwoFactorEnabled = *patch.TwoFactorEnabled
	}

	s.Heal(account)
	return account, nil
}

// SetBanned toggles ban state. The master administrator cannot be banned.
func (s *IdentityStore) SetBanned(snap *model.Snapshot, username string, banned bool, reason string) error {
	account := snap.FindAccount(username)
	if account == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, username)
	}
	if banned && s.IsMaster(account) {
		return fmt.Errorf("%w: master identity cannot be banned", ErrProtectedAccount)
	}
	account.IsBanned = banned
	if banned {
		account.BanReason = reason
	} else {
		account.BanReason = ""
	}
	return nil
}

// Remove deletes an account and cascades: the account's videos leave the
// feed, their ids leave every reposted set, and every follow edge touching
// the account is unwound with its counters. The caller must re-point the
// active session before removing the active account.
func (s *IdentityStore) Remove(snap *model.Snapshot, username string) error {
	removed := snap.FindAccount(username)
	if removed == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, username)
	}
	if s.IsMaster(removed) {
		return fmt.Errorf("%w: master identity cannot be removed", ErrProtectedAccount)
	}

	// Unwind follow edges in both directions.
	for _, other := range snap.Accounts {
		if other == removed {
			continue
		}
		if other.FollowingMap[username] {
			delete(other.FollowingMap, username)
			if other.Following > 0 {
				other.Following--
			}
		}
		if removed.FollowingMap[other.Username] {
			if other.Followers > 0 {
				other.Followers--
			}
		}
	}

	// Drop the account's videos and strip them from reposted sets.
	var keep []*model.Video
	gone := make(map[string]bool)
	for _, v := range snap.Videos {
		if v.AuthorUsername == username {
			gone[v.ID] = true
			continue
		}
		keep = append(keep, v)
	}
	snap.Videos = keep
	if len(gone) > 0 {
		for _, other := range snap.Accounts {
			kept := other.RepostedVideoIDs[:0]
			for _, id := range other.RepostedVideoIDs {
				if !gone[id] {
					kept = append(kept, id)
				}
			}
			other.RepostedVideoIDs = kept
		}
	}

	for i, a := range snap.Accounts {
		if a == removed {
			snap.Accounts = append(snap.Accounts[:i], snap.Accounts[i+1:]...)
			break
		}
	}
	return nil
}

// Heal re-asserts the master administrator's privileges. Called on every
// load and profile edit so corrupted persisted state self-corrects.
func (s *IdentityStore) Heal(account *model.Account) {
	if s.IsMaster(account) {
		account.IsAdmin = true
		account.IsVerified = true
		account.IsBanned = false
		account.BanReason = ""
	}
}

var (
	identityAdjectives = []string{"Urban", "Neon", "Cool", "Cyber", "Vibe", "Hyper", "Flow", "Nova", "Swift", "Pulse", "Epic", "Glitch"}
	identityNouns      = []string{"User", "Rider", "Wave", "Star", "Viber", "Ghost", "Blade", "Soul", "Drift", "Pixel", "Hunter", "Edge"}
)

// randomIdentity generates a display name and username for accounts
// registered without a profile seed.
func (s *IdentityStore) randomIdentity() (displayName, username string) {
	intN := rand.IntN
	if s.rng != nil {
		intN = s.rng.IntN
	}
	adj := identityAdjectives[intN(len(identityAdjectives))]
	noun := identityNouns[intN(len(identityNouns))]
	displayName = adj + " " + noun
	username = strings.ToLower(adj) + "_" + strings.ToLower(noun) + "_" + fmt.Sprint(intN(999))
	return displayName, username
}
