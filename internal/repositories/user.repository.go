package repositories

import (
	"context"
	"time"

	"lunchlog/internal/database"
	. "lunchlog/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

const (
	USER_CACHE_EXPIRY            = 7 * 24 * time.Hour
	USER_CACHE_PREFIX            = "user"
	SUBJECT_MAPPING_CACHE_PREFIX = "subject"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetBySubject(ctx context.Context, subject string) (*User, error)
	FindOrCreate(ctx context.Context, subject, email, name string) (*User, error)
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	if r.getCached(ctx, USER_CACHE_PREFIX, id.String(), &user) {
		return &user, nil
	}

	if err := r.db.SQLWithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get user by id", err, "id", id)
	}

	r.addUserToCache(ctx, &user)
	return &user, nil
}

func (r *userRepository) GetBySubject(ctx context.Context, subject string) (*User, error) {
	log := r.log.Function("GetBySubject")

	var userID string
	if r.getCached(ctx, SUBJECT_MAPPING_CACHE_PREFIX, subject, &userID) {
		var cachedUser User
		if r.getCached(ctx, USER_CACHE_PREFIX, userID, &cachedUser) {
			return &cachedUser, nil
		}
	}

	var user User
	if err := r.db.SQLWithContext(ctx).First(&user, "subject = ?", subject).Error; err != nil {
		return nil, log.Err("failed to get user by subject", err, "subject", subject)
	}

	r.addUserToCache(ctx, &user)
	return &user, nil
}

// FindOrCreate returns the user for a token subject, creating it on first
// sight and refreshing profile claims otherwise.
func (r *userRepository) FindOrCreate(
	ctx context.Context,
	subject, email, name string,
) (*User, error) {
	log := r.log.Function("FindOrCreate")

	user, err := r.GetBySubject(ctx, subject)
	if err == nil {
		if r.profileChanged(user, email, name) {
			user.UpdateFromClaims(email, name)
			if err := r.db.SQLWithContext(ctx).Save(user).Error; err != nil {
				log.Warn("failed to refresh user profile", "userID", user.ID, "error", err)
			}
			r.addUserToCache(ctx, user)
		}
		return user, nil
	}

	user = &User{Subject: subject, IsActive: true}
	user.UpdateFromClaims(email, name)

	if err := r.db.SQLWithContext(ctx).Create(user).Error; err != nil {
		return nil, log.Err("failed to create user", err, "subject", subject)
	}

	log.Info("Created user from token claims", "userID", user.ID)
	r.addUserToCache(ctx, user)
	return user, nil
}

func (r *userRepository) profileChanged(user *User, email, name string) bool {
	if email != "" && (user.Email == nil || *user.Email != email) {
		return true
	}
	return name != "" && user.DisplayName != name
}

func (r *userRepository) getCached(ctx context.Context, prefix, key string, result any) bool {
	if r.db.Cache.User == nil {
		return false
	}

	found, err := database.NewCacheBuilder(r.db.Cache.User, key).
		WithHash(prefix).
		WithContext(ctx).
		Get(result)
	if err != nil {
		r.log.Function("getCached").Warn("failed to read user cache", "key", key, "error", err)
		return false
	}

	return found
}

func (r *userRepository) addUserToCache(ctx context.Context, user *User) {
	if r.db.Cache.User == nil {
		return
	}
	log := r.log.Function("addUserToCache")

	if err := database.NewCacheBuilder(r.db.Cache.User, user.ID).
		WithHash(USER_CACHE_PREFIX).
		WithStruct(user).
		WithTTL(USER_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}

	if err := database.NewCacheBuilder(r.db.Cache.User, user.Subject).
		WithHash(SUBJECT_MAPPING_CACHE_PREFIX).
		WithStruct(user.ID.String()).
		WithTTL(USER_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to cache subject mapping", "userID", user.ID, "error", err)
	}
}
