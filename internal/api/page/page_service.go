package page

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/feirahub/profile-service/internal/api/locations"
	"github.com/feirahub/profile-service/internal/api/products"
	"github.com/feirahub/profile-service/internal/api/profile"
	"github.com/feirahub/profile-service/internal/types"
)

// ProfilePage is the assembled page payload. Each section carries its own
// error so one failed fetch never blanks the others.
type ProfilePage struct {
	View    ViewMode `json:"view"`
	Actions []Action `json:"actions"`

	Profile       *types.Profile       `json:"profile,omitempty"`
	PublicProfile *types.PublicProfile `json:"public_profile,omitempty"`
	ProfileError  string               `json:"profile_error,omitempty"`

	Products      []types.Product `json:"products"`
	ProductsError string          `json:"products_error,omitempty"`

	Locations      []types.Location `json:"locations"`
	LocationsError string           `json:"locations_error,omitempty"`

	ShareLink string `json:"share_link,omitempty"`
}

var _ PageService = (*PageServiceImpl)(nil)

// PageService assembles the profile page for the authenticated member.
type PageService interface {
	GetPage(ctx context.Context, userID uuid.UUID, view ViewMode) (*ProfilePage, error)
	BuildShareLink(ctx context.Context, userID uuid.UUID) (string, error)
}

type PageServiceImpl struct {
	logger           *slog.Logger
	profileService   profile.ProfileService
	productsService  products.ProductsService
	locationsService locations.LocationsService
	publicOrigin     string
}

func NewPageService(
	profileService profile.ProfileService,
	productsService products.ProductsService,
	locationsService locations.LocationsService,
	publicOrigin string,
	logger *slog.Logger,
) *PageServiceImpl {
	return &PageServiceImpl{
		logger:           logger,
		profileService:   profileService,
		productsService:  productsService,
		locationsService: locationsService,
		publicOrigin:     publicOrigin,
	}
}

// GetPage fetches the profile, product and location sections concurrently.
// The fetches are independent: none blocks another and a failed section is
// reported inside the page rather than failing it.
func (s *PageServiceImpl) GetPage(ctx context.Context, userID uuid.UUID, view ViewMode) (*ProfilePage, error) {
	l := s.logger.With(slog.String("method", "GetPage"), slog.String("userID", userID.String()))

	pg := &ProfilePage{
		View:    view,
		Actions: view.Actions(),
	}

	var (
		wg   sync.WaitGroup
		prof *types.Profile

		profErr, prodErr, locErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		prof, profErr = s.profileService.GetProfile(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		pg.Products, prodErr = s.productsService.ListByOwner(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		pg.Locations, locErr = s.locationsService.ListAll(ctx)
	}()
	wg.Wait()

	if profErr != nil {
		l.ErrorContext(ctx, "Profile section failed", slog.Any("error", profErr))
		pg.ProfileError = "failed to load profile"
	} else if view == ViewVisitor {
		public := prof.Public()
		pg.PublicProfile = &public
	} else {
		pg.Profile = prof
	}

	if prodErr != nil {
		l.WarnContext(ctx, "Products section failed", slog.Any("error", prodErr))
		pg.ProductsError = "failed to load products"
	}
	if locErr != nil {
		l.WarnContext(ctx, "Locations section failed", slog.Any("error", locErr))
		pg.LocationsError = "failed to load locations"
	}

	if view == ViewNormal && profErr == nil && prof.Username != nil {
		pg.ShareLink = ShareLink(s.publicOrigin, *prof.Username)
	}

	return pg, nil
}

// BuildShareLink constructs the shareable URL for the caller's profile.
func (s *PageServiceImpl) BuildShareLink(ctx context.Context, userID uuid.UUID) (string, error) {
	prof, err := s.profileService.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	username := ""
	if prof.Username != nil {
		username = *prof.Username
	}
	return ShareLink(s.publicOrigin, username), nil
}
