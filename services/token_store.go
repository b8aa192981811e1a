package services

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"ninjapark-backend/models"
	"ninjapark-backend/utils"
)

// TokenStore remembers issued refresh tokens so they can be rotated and revoked.
type TokenStore interface {
	Save(ctx context.Context, token string, adminID uint, ttl time.Duration) error
	// Consume deletes the token and returns its owner, or ErrInvalidToken.
	Consume(ctx context.Context, token string) (uint, error)
	Revoke(ctx context.Context, token string) error
}

type RedisTokenStore struct {
	Client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{Client: client}
}

func redisKey(token string) string {
	return "refresh:" + utils.HashToken(token)
}

func (s *RedisTokenStore) Save(ctx context.Context, token string, adminID uint, ttl time.Duration) error {
	return s.Client.Set(ctx, redisKey(token), strconv.FormatUint(uint64(adminID), 10), ttl).Err()
}

func (s *RedisTokenStore) Consume(ctx context.Context, token string) (uint, error) {
	val, err := s.Client.GetDel(ctx, redisKey(token)).Result()
	if err == redis.Nil {
		return 0, ErrInvalidToken
	}
	if err != nil {
		return 0, errors.Wrap(err, "consume refresh token")
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	return s.Client.Del(ctx, redisKey(token)).Err()
}

// DBTokenStore keeps refresh tokens in the refresh_tokens table.
type DBTokenStore struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewDBTokenStore(db *gorm.DB) *DBTokenStore {
	return &DBTokenStore{DB: db, Now: time.Now}
}

func (s *DBTokenStore) Save(ctx context.Context, token string, adminID uint, ttl time.Duration) error {
	row := models.RefreshToken{
		TokenHash: utils.HashToken(token),
		AdminID:   adminID,
		ExpiresAt: s.Now().Add(ttl),
	}
	return errors.Wrap(s.DB.WithContext(ctx).Create(&row).Error, "save refresh token")
}

func (s *DBTokenStore) Consume(ctx context.Context, token string) (uint, error) {
	var row models.RefreshToken
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token_hash = ?", utils.HashToken(token)).Limit(1).Find(&row).Error; err != nil {
			return err
		}
		if row.ID == 0 {
			return nil
		}
		return tx.Delete(&row).Error
	})
	if err != nil {
		return 0, errors.Wrap(err, "consume refresh token")
	}
	if row.ID == 0 || row.ExpiresAt.Before(s.Now()) {
		return 0, ErrInvalidToken
	}
	return row.AdminID, nil
}

func (s *DBTokenStore) Revoke(ctx context.Context, token string) error {
	return errors.Wrap(s.DB.WithContext(ctx).Where("token_hash = ?", utils.HashToken(token)).
		Delete(&models.RefreshToken{}).Error, "revoke refresh token")
}

// PurgeExpired drops expired rows; serve runs it at startup.
func (s *DBTokenStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.DB.WithContext(ctx).Where("expires_at < ?", s.Now()).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}
