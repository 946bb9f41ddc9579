package model

type PrefixService interface {
	Add(chatID int64, prefix string) error
	// Prefixes returns the command prefixes of a chat, longest first.
	Prefixes(chatID int64) ([]string, error)
	Remove(chatID int64, prefix string) error
}
