package redis

import (
	"fmt"

	"github.com/quizrally/quizrally-go/internal/model"
)

// Key prefix for all quiz-related data
const keyPrefix = "quizrally"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// sessionKey returns the Redis key for a Session
func sessionKey(code model.SessionCode) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, code)
}

// questionSetKey returns the Redis key for a QuestionSet
func questionSetKey(name string) string {
	return fmt.Sprintf("%s:question_set:%s", keyPrefix, name)
}
