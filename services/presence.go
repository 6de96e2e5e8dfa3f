package services

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"artist-marketplace-server/config"
)

const presenceKey = "presence:online_users"

// PresenceService tracks which users currently hold at least one live
// connection. Backed by a Redis set when REDIS_ADDR is configured so
// presence survives restarts and is shared across instances; otherwise it
// degrades to an in-process map. Presence is an eventually-consistent
// convenience signal for chat indicators, never a correctness input.
type PresenceService struct {
	client *redis.Client

	mu    sync.RWMutex
	local map[uint]struct{}
}

// NewPresenceService connects to Redis when configured and falls back to
// the in-memory tracker when it isn't (or the ping fails).
func NewPresenceService() *PresenceService {
	ps := &PresenceService{local: make(map[uint]struct{})}

	addr := ""
	if config.AppConfig != nil {
		addr = config.AppConfig.Redis.Addr
	}
	if addr == "" {
		log.Printf("⚠️ REDIS_ADDR not set; presence tracking is in-memory only")
		return ps
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.AppConfig.Redis.Password,
		DB:       config.AppConfig.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis unreachable (%v); presence tracking is in-memory only", err)
		return ps
	}

	log.Printf("✅ Presence tracking backed by Redis at %s", addr)
	ps.client = client
	return ps
}

// MarkOnline records that a user gained their first live connection.
func (ps *PresenceService) MarkOnline(userID uint) {
	if ps.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := ps.client.SAdd(ctx, presenceKey, userID).Err(); err != nil {
			log.Printf("⚠️ Failed to mark user %d online: %v", userID, err)
		}
		return
	}

	ps.mu.Lock()
	ps.local[userID] = struct{}{}
	ps.mu.Unlock()
}

// MarkOffline records that a user lost their last live connection.
func (ps *PresenceService) MarkOffline(userID uint) {
	if ps.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := ps.client.SRem(ctx, presenceKey, userID).Err(); err != nil {
			log.Printf("⚠️ Failed to mark user %d offline: %v", userID, err)
		}
		return
	}

	ps.mu.Lock()
	delete(ps.local, userID)
	ps.mu.Unlock()
}

// GetOnlineUsers returns the ids of all users with live connections.
func (ps *PresenceService) GetOnlineUsers() ([]uint, error) {
	if ps.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		members, err := ps.client.SMembers(ctx, presenceKey).Result()
		if err != nil {
			return nil, err
		}
		users := make([]uint, 0, len(members))
		for _, m := range members {
			id, err := strconv.ParseUint(m, 10, 64)
			if err != nil {
				continue
			}
			users = append(users, uint(id))
		}
		return users, nil
	}

	ps.mu.RLock()
	defer ps.mu.RUnlock()
	users := make([]uint, 0, len(ps.local))
	for id := range ps.local {
		users = append(users, id)
	}
	return users, nil
}

// IsOnline reports whether a user has at least one live connection.
func (ps *PresenceService) IsOnline(userID uint) bool {
	if ps.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		online, err := ps.client.SIsMember(ctx, presenceKey, userID).Result()
		if err != nil {
			return false
		}
		return online
	}

	ps.mu.RLock()
	defer ps.mu.RUnlock()
	_, ok := ps.local[userID]
	return ok
}
