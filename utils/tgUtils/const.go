package tgUtils

const (
	MaxMessageLength = 4096

	ErrReactionInvalid = "Bad Request: REACTION_INVALID"
)
