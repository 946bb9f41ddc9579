package prefix

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/genericbot/genericbot/logger"
	"github.com/genericbot/genericbot/model"
	"github.com/genericbot/genericbot/plugin"
	"github.com/genericbot/genericbot/utils"
	"github.com/rs/xid"
)

var log = logger.New("prefix")

const maxPrefixLength = 8

type Plugin struct {
	prefixService model.PrefixService
}

func New(prefixService model.PrefixService) *Plugin {
	return &Plugin{
		prefixService: prefixService,
	}
}

func (p *Plugin) Name() string {
	return "prefix"
}

func (p *Plugin) Commands() []gotgbot.BotCommand {
	return []gotgbot.BotCommand{
		{
			Command:     "prefixes",
			Description: "List the command prefixes of this chat",
		},
	}
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/prefixes(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: p.onList,
			GroupOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/prefix_add(?:@%s)?\s+(?P<prefix>\S+)$`, botInfo.Username)),
			HandlerFunc: p.onAdd,
			AdminOnly:   true,
			GroupOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/prefix_remove(?:@%s)?\s+(?P<prefix>\S+)$`, botInfo.Username)),
			HandlerFunc: p.onRemove,
			AdminOnly:   true,
			GroupOnly:   true,
		},
	}
}

func validatePrefix(prefix string) error {
	if utf8.RuneCountInString(prefix) > maxPrefixLength {
		return fmt.Errorf("a prefix can be at most %d characters long", maxPrefixLength)
	}
	if strings.HasPrefix(prefix, "/") {
		return errors.New("a prefix can't start with a slash")
	}
	if strings.IndexFunc(prefix, unicode.IsLetter) == 0 {
		return errors.New("a prefix can't start with a letter")
	}
	return nil
}

func formatPrefixes(prefixes []string) string {
	if len(prefixes) == 0 {
		return "💡 This chat has no prefixes, only /commands work."
	}

	var sb strings.Builder
	sb.WriteString("<b>Command prefixes in this chat:</b>\n")
	for _, prefix := range prefixes {
		sb.WriteString(fmt.Sprintf("• <code>%s</code>\n", utils.Escape(prefix)))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (p *Plugin) onList(b *gotgbot.Bot, c plugin.GobotContext) error {
	prefixes, err := p.prefixService.Prefixes(c.EffectiveChat.Id)
	if err != nil {
		guid := xid.New().String()
		log.Err(err).
			Str("guid", guid).
			Int64("chat_id", c.EffectiveChat.Id).
			Msg("Failed to get prefixes")
		_, err := c.EffectiveMessage.Reply(b, fmt.Sprintf("❌ Could not get the prefixes.%s", utils.EmbedGUID(guid)), utils.DefaultSendOptions())
		return err
	}

	_, err = c.EffectiveMessage.Reply(b, formatPrefixes(prefixes), utils.DefaultSendOptions())
	return err
}

func (p *Plugin) onAdd(b *gotgbot.Bot, c plugin.GobotContext) error {
	prefix := c.NamedMatches["prefix"]
	if err := validatePrefix(prefix); err != nil {
		_, err := c.EffectiveMessage.Reply(b, "❌ "+utils.Escape(err.Error())+".", utils.DefaultSendOptions())
		return err
	}

	err := p.prefixService.Add(c.EffectiveChat.Id, prefix)
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			_, err := c.EffectiveMessage.Reply(b, "💡 That prefix already exists.", utils.DefaultSendOptions())
			return err
		}

		guid := xid.New().String()
		log.Err(err).
			Str("guid", guid).
			Int64("chat_id", c.EffectiveChat.Id).
			Str("prefix", prefix).
			Msg("Failed to add prefix")
		_, err := c.EffectiveMessage.Reply(b, fmt.Sprintf("❌ Could not add the prefix.%s", utils.EmbedGUID(guid)), utils.DefaultSendOptions())
		return err
	}

	_, err = c.EffectiveMessage.Reply(b, fmt.Sprintf("✅ Commands can now start with <code>%s</code>.", utils.Escape(prefix)), utils.DefaultSendOptions())
	return err
}

func (p *Plugin) onRemove(b *gotgbot.Bot, c plugin.GobotContext) error {
	prefix := c.NamedMatches["prefix"]

	err := p.prefixService.Remove(c.EffectiveChat.Id, prefix)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			_, err := c.EffectiveMessage.Reply(b, "❌ That prefix doesn't exist.", utils.DefaultSendOptions())
			return err
		}

		guid := xid.New().String()
		log.Err(err).
			Str("guid", guid).
			Int64("chat_id", c.EffectiveChat.Id).
			Str("prefix", prefix).
			Msg("Failed to remove prefix")
		_, err := c.EffectiveMessage.Reply(b, fmt.Sprintf("❌ Could not remove the prefix.%s", utils.EmbedGUID(guid)), utils.DefaultSendOptions())
		return err
	}

	_, err = c.EffectiveMessage.Reply(b, "✅ Prefix removed.", utils.DefaultSendOptions())
	return err
}
