package allow

import (
	"fmt"
	"regexp"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/genericbot/genericbot/logger"
	"github.com/genericbot/genericbot/model"
	"github.com/genericbot/genericbot/plugin"
	"github.com/genericbot/genericbot/utils"
	"github.com/genericbot/genericbot/utils/tgUtils"
	"github.com/rs/xid"
)

var log = logger.New("allow")

type (
	Plugin struct {
		allowService model.AllowService
	}
)

func New(service model.AllowService) *Plugin {
	return &Plugin{
		allowService: service,
	}
}

func (*Plugin) Name() string {
	return "allow"
}

func (p *Plugin) Commands() []gotgbot.BotCommand {
	return nil // Only for the bot admin
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/allow(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: p.onAllow,
			AdminOnly:   true,
			GroupOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/deny(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: p.onDeny,
			AdminOnly:   true,
			GroupOnly:   true,
		},
	}
}

func confirm(b *gotgbot.Bot, c plugin.GobotContext, fallback string) error {
	return tgUtils.AddRectionWithFallback(b, c.EffectiveMessage, "👍", &tgUtils.ReactionFallbackOpts{
		Fallback: fallback,
	})
}

func fail(b *gotgbot.Bot, c plugin.GobotContext, err error, msg string) error {
	guid := xid.New().String()
	log.Err(err).
		Str("guid", guid).
		Int64("chat_id", c.EffectiveChat.Id).
		Msg(msg)
	_, err = c.EffectiveMessage.Reply(b, fmt.Sprintf("❌ Something went wrong.%s", utils.EmbedGUID(guid)), utils.DefaultSendOptions())
	return err
}

// replyTarget returns the author of the replied-to message, if any. Bots
// can't be put on the allow list.
func replyTarget(c plugin.GobotContext) (user *gotgbot.User, isBot bool) {
	if !tgUtils.IsReply(c.EffectiveMessage) || c.EffectiveMessage.ReplyToMessage.From == nil {
		return nil, false
	}
	user = c.EffectiveMessage.ReplyToMessage.From
	return user, user.IsBot
}

func (p *Plugin) onAllow(b *gotgbot.Bot, c plugin.GobotContext) error {
	user, isBot := replyTarget(c)
	if isBot {
		_, err := c.EffectiveMessage.Reply(b, "🤖🤖🤖", utils.DefaultSendOptions())
		return err
	}

	if user != nil {
		name := utils.Escape(user.FirstName)
		if p.allowService.IsUserAllowed(user) {
			return confirm(b, c, fmt.Sprintf("✅ <b>%s</b> can already use the bot everywhere.", name))
		}
		if err := p.allowService.AllowUser(user); err != nil {
			return fail(b, c, err, "Failed to allow user")
		}
		return confirm(b, c, fmt.Sprintf("✅ <b>%s</b> can now use the bot everywhere.", name))
	}

	if p.allowService.IsChatAllowed(c.EffectiveChat) {
		return confirm(b, c, "✅ This chat can already use the bot.")
	}
	if err := p.allowService.AllowChat(c.EffectiveChat); err != nil {
		return fail(b, c, err, "Failed to allow chat")
	}
	return confirm(b, c, "✅ This chat can now use the bot.")
}

func (p *Plugin) onDeny(b *gotgbot.Bot, c plugin.GobotContext) error {
	user, isBot := replyTarget(c)
	if isBot {
		_, err := c.EffectiveMessage.Reply(b, "🤖🤖🤖", utils.DefaultSendOptions())
		return err
	}

	if user != nil {
		name := utils.Escape(user.FirstName)
		if !p.allowService.IsUserAllowed(user) {
			return confirm(b, c, fmt.Sprintf("✅ <b>%s</b> isn't on the allow list.", name))
		}
		if err := p.allowService.DenyUser(user); err != nil {
			return fail(b, c, err, "Failed to deny user")
		}
		return confirm(b, c, fmt.Sprintf("✅ <b>%s</b> can no longer use the bot everywhere.", name))
	}

	if !p.allowService.IsChatAllowed(c.EffectiveChat) {
		return confirm(b, c, "✅ This chat isn't on the allow list.")
	}
	if err := p.allowService.DenyChat(c.EffectiveChat); err != nil {
		return fail(b, c, err, "Failed to deny chat")
	}
	return confirm(b, c, "✅ This chat can no longer use the bot.")
}
