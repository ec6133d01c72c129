package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	userRepo "itinera/database/repository/user"
	"itinera/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// JWTAuthUserMiddleware accepts a bearer token whose subject is a known user and
// sets "userID" on the context. Known token hashes are remembered in the auth
// cache so repeat requests skip the user lookup; a nil cache always looks up.
func JWTAuthUserMiddleware(users userRepo.UserRepository, authCache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := zap.L()

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(c, "Insufficient authorization")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			unauthorized(c, "Insufficient authorization")
			return
		}

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			logger.Debug("Rejected token", zap.Error(err))
			unauthorized(c, "Insufficient authorization")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		tokenHash := utils.HashToken(tokenString)
		cacheKey := utils.AuthCachePrefix + userID
		if authCache != nil {
			cached, err := authCache.Get(ctx, cacheKey).Result()
			switch {
			case err == nil && cached == tokenHash:
				_ = authCache.Expire(ctx, cacheKey, utils.AuthCacheTTL).Err()
				c.Set("userID", userID)
				c.Next()
				return
			case err != nil && err != redis.Nil:
				logger.Warn("Auth cache unavailable, falling back to user lookup", zap.Error(err))
			}
		}

		if _, err := users.GetByID(userID); err != nil {
			if !errors.Is(err, userRepo.ErrNotFound) {
				logger.Error("User lookup failed during authentication", zap.String("userId", userID), zap.Error(err))
			}
			unauthorized(c, "Authentication error")
			return
		}

		if authCache != nil {
			_ = authCache.Set(ctx, cacheKey, tokenHash, utils.AuthCacheTTL).Err()
		}

		c.Set("userID", userID)
		c.Next()
	}
}
