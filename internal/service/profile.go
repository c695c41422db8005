package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/pantry-chef/backend/internal/model"
	"github.com/pageza/pantry-chef/backend/internal/repository"
	"github.com/pageza/pantry-chef/backend/internal/types"
)

// AvatarUploadExpiry is how long a presigned avatar upload URL stays valid
const AvatarUploadExpiry = 15 * time.Minute

// ErrAvatarStorageUnavailable is returned when no object storage is configured
var ErrAvatarStorageUnavailable = errors.New("avatar storage is not configured")

var avatarExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

// AvatarUpload is a presigned PUT target for a new avatar
type AvatarUpload struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
	ExpiresIn int    `json:"expires_in"`
}

// ProfileService handles user profile operations
type ProfileService struct {
	repo      repository.Repository
	presigner AvatarPresigner
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance. presigner may be nil.
func NewProfileService(repo repository.Repository, presigner AvatarPresigner) *ProfileService {
	return &ProfileService{repo: repo, presigner: presigner}
}

// GetProfile retrieves a user's profile, or nil when none has been saved yet
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// UpdateProfile applies a partial update, creating the profile if needed
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req *types.UpdateProfileRequest) (*model.Profile, error) {
	return s.repo.UpsertProfile(ctx, userID, req)
}

// CreateAvatarUpload returns a presigned URL the client can PUT an avatar image to
func (s *ProfileService) CreateAvatarUpload(ctx context.Context, userID, contentType string) (*AvatarUpload, error) {
	if s.presigner == nil {
		return nil, ErrAvatarStorageUnavailable
	}
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("unsupported avatar content type %q", contentType)
	}

	key := fmt.Sprintf("avatars/%s/%s.%s", userID, uuid.NewString(), ext)
	url, err := s.presigner.PresignUpload(ctx, key, contentType, AvatarUploadExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign avatar upload: %w", err)
	}
	return &AvatarUpload{
		UploadURL: url,
		ObjectKey: key,
		ExpiresIn: int(AvatarUploadExpiry.Seconds()),
	}, nil
}
