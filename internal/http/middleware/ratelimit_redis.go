package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// Общий клиент обоих лимитеров. Если Redis не настроен или недоступен,
// клиент остаётся nil и лимитеры пропускают трафик (fail-open): каталог
// важнее лимитов.
var redisClient *redis.Client

// InitRedisRateLimiter подключает Redis для лимитеров. Пустой addr или
// неудачный ping оставляют redisClient равным nil.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return
	}
	redisClient = client
}

// fixedWindowIncr - один шаг фиксированного окна: INCR счётчика и TTL
// на первом попадании в окно. Возвращает номер запроса внутри окна.
func fixedWindowIncr(ctx context.Context, key string, window time.Duration) (int64, error) {
	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 {
		redisClient.Expire(ctx, key, window)
	}
	return val, nil
}

// RedisRateLimit лимитирует запросы по IP клиента.
// Ключ: rl:<окно_в_секундах>:<ip>.
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		val, err := fixedWindowIncr(context.Background(), key, window)
		if err != nil {
			// ошибка Redis не валит запрос
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
