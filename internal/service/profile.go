package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"strings"
	"time"
	"unicode"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/savorly/recommender/internal/cache"
	"github.com/savorly/recommender/internal/domain"
	"github.com/savorly/recommender/internal/logger"
	"github.com/savorly/recommender/internal/repository"
	"github.com/savorly/recommender/internal/storage"
)

const (
	maxAvatarSide  = 300
	maxAvatarBytes = 5 << 20
)

// ProfileService manages user profiles and avatars.
type ProfileService struct {
	profiles *repository.ProfileRepository
	users    *repository.UserRepository
	storage  storage.ObjectStorage
	cache    cache.Cache
	ttl      time.Duration
}

// NewProfileService creates a new profile service.
// Parameters:
//   - profiles: profile repository.
//   - users: user repository, used to seed new profiles.
//   - objectStorage: avatar storage; nil disables avatar uploads.
//   - c: computation cache.
//   - ttl: lifetime of profile_{user}.
//
// Returns:
//   - *ProfileService: initialized service.
func NewProfileService(
	profiles *repository.ProfileRepository,
	users *repository.UserRepository,
	objectStorage storage.ObjectStorage,
	c cache.Cache,
	ttl time.Duration,
) *ProfileService {
	return &ProfileService{profiles: profiles, users: users, storage: objectStorage, cache: c, ttl: ttl}
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
}

// Get returns a user's profile through profile_{user}.
// Returns domain.ErrNotFound if the user has no profile; absence is not cached.
func (s *ProfileService) Get(ctx context.Context, userID uint) (*domain.Profile, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.ProfileKey(userID), s.ttl,
		func(ctx context.Context) (*domain.Profile, error) {
			profile, err := s.profiles.GetByUserID(ctx, userID)
			if err != nil {
				return nil, err
			}
			s.attachAvatarURL(profile)
			return profile, nil
		})
}

// Update creates or updates the profile and drops profile_{user}.
func (s *ProfileService) Update(ctx context.Context, userID uint, upd ProfileUpdate) (*domain.Profile, error) {
	upd.FirstName = strings.TrimSpace(upd.FirstName)
	upd.Surname = strings.TrimSpace(upd.Surname)
	if upd.FirstName == "" && upd.Surname == "" {
		return nil, fmt.Errorf("first name or surname required: %w", domain.ErrInvalidInput)
	}

	profile, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.FirstName = upd.FirstName
	profile.Surname = upd.Surname
	profile.Slug = Slugify(upd.FirstName + " " + upd.Surname)
	profile.UpdatedAt = time.Now()

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, s.cache, cache.ProfileKey(userID))

	s.attachAvatarURL(profile)
	return profile, nil
}

// Delete removes the profile and its avatar, then drops profile_{user}.
func (s *ProfileService) Delete(ctx context.Context, userID uint) error {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.profiles.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	cache.Invalidate(ctx, s.cache, cache.ProfileKey(userID))

	s.deleteAvatar(ctx, profile.AvatarKey)
	return nil
}

// UpdateAvatar scales the uploaded image to fit within 300x300, stores it as
// JPEG and points the profile at it. The previous avatar is deleted afterwards.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: profile owner.
//   - r: encoded image (JPEG, PNG, GIF or WebP).
//
// Returns:
//   - *domain.Profile: updated profile with AvatarURL set.
//   - error: domain.ErrInvalidInput for undecodable or oversized input.
func (s *ProfileService) UpdateAvatar(ctx context.Context, userID uint, r io.Reader) (*domain.Profile, error) {
	if s.storage == nil {
		return nil, errors.New("avatar storage is not configured")
	}

	raw, err := io.ReadAll(io.LimitReader(r, maxAvatarBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read avatar: %w", err)
	}
	if len(raw) > maxAvatarBytes {
		return nil, fmt.Errorf("avatar exceeds %d bytes: %w", maxAvatarBytes, domain.ErrInvalidInput)
	}

	encoded, err := resizeAvatar(raw, maxAvatarSide)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
	}

	profile, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}
	oldKey := profile.AvatarKey
	newKey := storage.AvatarKey(userID)

	if err := s.storage.Upload(ctx, newKey, bytes.NewReader(encoded), int64(len(encoded)), "image/jpeg"); err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	profile.AvatarKey = newKey
	profile.UpdatedAt = time.Now()
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		s.deleteAvatar(ctx, newKey)
		return nil, err
	}
	cache.Invalidate(ctx, s.cache, cache.ProfileKey(userID))

	s.deleteAvatar(ctx, oldKey)
	s.attachAvatarURL(profile)
	return profile, nil
}

// loadOrNew returns the stored profile or a new one seeded from the user account.
func (s *ProfileService) loadOrNew(ctx context.Context, userID uint) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	return &domain.Profile{
		UserID:    userID,
		FirstName: user.FirstName,
		Surname:   user.Surname,
		Slug:      Slugify(user.FullName()),
		CreatedAt: time.Now(),
	}, nil
}

func (s *ProfileService) attachAvatarURL(profile *domain.Profile) {
	if profile.AvatarKey != "" && s.storage != nil {
		profile.AvatarURL = s.storage.GetURL(profile.AvatarKey)
	}
}

// deleteAvatar removes an avatar object; failures are logged only.
func (s *ProfileService) deleteAvatar(ctx context.Context, key string) {
	if key == "" || s.storage == nil {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("avatar_key", key).Warn("Failed to delete avatar")
	}
}

// resizeAvatar decodes raw and scales it down, keeping the aspect ratio, so
// that neither side exceeds maxSide. Smaller images keep their size.
func resizeAvatar(raw []byte, maxSide int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, errors.New("empty image")
	}
	if w > maxSide || h > maxSide {
		if w >= h {
			h = max(1, h*maxSide/w)
			w = maxSide
		} else {
			w = max(1, w*maxSide/h)
			h = maxSide
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return out.Bytes(), nil
}

// Slugify lowercases s and joins its letter and digit runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
