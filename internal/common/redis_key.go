package common

import (
	"fmt"
)

// RedisPrefix namespaces every key the dashboard writes to a shared redis.
const RedisPrefix = "dashboard:"

func CacheKeyGuildList(accessToken string) string {
	return fmt.Sprintf("guilds:%s", Hash([]byte(accessToken)))
}

func CacheKeyBotPresence(guildID, userID string) string {
	return fmt.Sprintf("presence:%s:%s", guildID, userID)
}

func CacheKeyBotGuilds(botID string) string {
	return fmt.Sprintf("botguilds:%s", botID)
}
