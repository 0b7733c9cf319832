package profile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/feirahub/profile-service/app/observability/metrics"
	"github.com/feirahub/profile-service/internal/api"
	"github.com/feirahub/profile-service/internal/media"
	"github.com/feirahub/profile-service/internal/types"
)

var _ ProfileService = (*ProfileServiceImpl)(nil)

// ProfileService defines the business logic contract for the profile page.
type ProfileService interface {
	// GetProfile loads the caller's profile, media links normalized,
	// populating the cache entry for the profile.
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error)

	// UpdateProfile applies the full edited field set, enforcing the
	// 30-day restricted-field policy, and invalidates the cache entry
	// on success.
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) error

	// UpdateAvatar and UpdateCover replace a single media link from a
	// pasted URL. Neither is subject to the restricted-field policy.
	UpdateAvatar(ctx context.Context, userID uuid.UUID, link string) error
	UpdateCover(ctx context.Context, userID uuid.UUID, link string) error
}

// ProfileServiceImpl provides the implementation for ProfileService.
type ProfileServiceImpl struct {
	logger *slog.Logger
	repo   ProfileRepo
	cache  *cache.Cache
	group  singleflight.Group
}

// NewProfileService creates a new profile service. cacheTTL bounds how long
// a loaded profile may be served without touching the store.
func NewProfileService(repo ProfileRepo, cacheTTL time.Duration, logger *slog.Logger) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(cacheTTL, 10*time.Minute),
	}
}

func cacheKey(userID uuid.UUID) string {
	return "profile:" + userID.String()
}

// GetProfile loads a profile through the cache. Concurrent misses for the
// same member are collapsed into a single store read.
func (s *ProfileServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	ctx, span := otel.Tracer("ProfileService").Start(ctx, "GetProfile", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetProfile"), slog.String("userID", userID.String()))

	key := cacheKey(userID)
	if cached, found := s.cache.Get(key); found {
		if p, ok := cached.(*types.Profile); ok {
			metrics.Get().ProfileCacheHitsTotal.Add(ctx, 1)
			span.SetStatus(codes.Ok, "Profile served from cache")
			return p, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		p, err := s.repo.GetProfileByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		normalizeProfileLinks(p)
		s.cache.Set(key, p, cache.DefaultExpiration)
		return p, nil
	})
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch profile")
		return nil, fmt.Errorf("error fetching profile: %w", err)
	}

	metrics.Get().ProfileReadsTotal.Add(ctx, 1)
	span.SetStatus(codes.Ok, "Profile fetched")
	return v.(*types.Profile), nil
}

// UpdateProfile validates the restricted-field policy, writes the full
// field set and invalidates the cached profile on success.
func (s *ProfileServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) error {
	ctx, span := otel.Tracer("ProfileService").Start(ctx, "UpdateProfile", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateProfile"), slog.String("userID", userID.String()))

	params.AvatarURL = media.NormalizeLink(params.AvatarURL)
	params.CoverURL = media.NormalizeLink(params.CoverURL)

	current, err := s.currentProfile(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load current profile for diff", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load current profile")
		return fmt.Errorf("error loading current profile: %w", err)
	}

	var personalInfoStamp *time.Time
	if restrictedFieldsChanged(current, params) {
		span.SetAttributes(attribute.Bool("update.restricted_fields", true))

		allowed, err := s.repo.CanUpdatePersonalInfo(ctx, userID)
		if err != nil {
			l.ErrorContext(ctx, "Eligibility check failed", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Eligibility check failed")
			return fmt.Errorf("error checking update eligibility: %w", err)
		}
		if !allowed {
			metrics.Get().CooldownDenialsTotal.Add(ctx, 1)
			l.WarnContext(ctx, "Restricted-field update denied by cooldown")
			span.SetStatus(codes.Error, "Cooldown denial")
			return fmt.Errorf("restricted field update rejected: %w", api.ErrUpdateWindow)
		}

		now := time.Now()
		personalInfoStamp = &now
	}

	if err := s.repo.UpdateProfile(ctx, userID, params, personalInfoStamp); err != nil {
		l.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update profile")
		return fmt.Errorf("error updating profile: %w", err)
	}

	s.cache.Delete(cacheKey(userID))
	metrics.Get().ProfileUpdatesTotal.Add(ctx, 1)

	l.InfoContext(ctx, "Profile updated successfully",
		slog.Bool("restricted_fields_stamped", personalInfoStamp != nil))
	span.SetStatus(codes.Ok, "Profile updated")
	return nil
}

// UpdateAvatar replaces the avatar link from a pasted URL.
func (s *ProfileServiceImpl) UpdateAvatar(ctx context.Context, userID uuid.UUID, link string) error {
	return s.updateMediaLink(ctx, userID, MediaAvatar, link)
}

// UpdateCover replaces the cover link from a pasted URL.
func (s *ProfileServiceImpl) UpdateCover(ctx context.Context, userID uuid.UUID, link string) error {
	return s.updateMediaLink(ctx, userID, MediaCover, link)
}

func (s *ProfileServiceImpl) updateMediaLink(ctx context.Context, userID uuid.UUID, kind MediaKind, link string) error {
	l := s.logger.With(slog.String("method", "updateMediaLink"),
		slog.String("userID", userID.String()), slog.String("kind", string(kind)))

	normalized := media.NormalizeLink(link)
	if err := s.repo.UpdateMediaLink(ctx, userID, kind, normalized); err != nil {
		l.ErrorContext(ctx, "Failed to update media link", slog.Any("error", err))
		return fmt.Errorf("error updating media link: %w", err)
	}

	s.cache.Delete(cacheKey(userID))
	l.InfoContext(ctx, "Media link updated")
	return nil
}

// currentProfile prefers the cached row so an unchanged submit needs no
// store read; a miss falls back to the repository.
func (s *ProfileServiceImpl) currentProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	if cached, found := s.cache.Get(cacheKey(userID)); found {
		if p, ok := cached.(*types.Profile); ok {
			return p, nil
		}
	}
	p, err := s.repo.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	normalizeProfileLinks(p)
	return p, nil
}

// restrictedFieldsChanged reports whether the submitted username or phone
// differs from the stored profile.
func restrictedFieldsChanged(current *types.Profile, params types.UpdateProfileParams) bool {
	return params.Username != deref(current.Username) || params.Phone != deref(current.Phone)
}

func normalizeProfileLinks(p *types.Profile) {
	if p.AvatarURL != nil {
		normalized := media.NormalizeLink(*p.AvatarURL)
		p.AvatarURL = &normalized
	}
	if p.CoverURL != nil {
		normalized := media.NormalizeLink(*p.CoverURL)
		p.CoverURL = &normalized
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
