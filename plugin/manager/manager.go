package manager

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/genericbot/genericbot/logger"
	"github.com/genericbot/genericbot/model"
	"github.com/genericbot/genericbot/plugin"
	"github.com/genericbot/genericbot/utils"
	"github.com/rs/xid"
	"golang.org/x/exp/slices"
)

var log = logger.New("manager")

type (
	Plugin struct {
		managerService model.ManagerService
	}
)

func New(service model.ManagerService) *Plugin {
	return &Plugin{
		managerService: service,
	}
}

func (*Plugin) Name() string {
	return "manager"
}

func (p *Plugin) Commands() []gotgbot.BotCommand {
	return nil // Only for the bot admin
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/plugins(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: p.onList,
			AdminOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/enable(?:@%s)? (?P<plugin>.+)$`, botInfo.Username)),
			HandlerFunc: p.onEnable,
			AdminOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/disable(?:@%s)? (?P<plugin>.+)$`, botInfo.Username)),
			HandlerFunc: p.onDisable,
			AdminOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/enable_chat(?:@%s)? (?P<plugin>.+)$`, botInfo.Username)),
			HandlerFunc: p.onEnableInChat,
			AdminOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/disable_chat(?:@%s)? (?P<plugin>.+)$`, botInfo.Username)),
			HandlerFunc: p.onDisableInChat,
			AdminOnly:   true,
		},
	}
}

func reply(b *gotgbot.Bot, c plugin.GobotContext, text string) error {
	_, err := c.EffectiveMessage.Reply(b, text, utils.DefaultSendOptions())
	return err
}

func replyError(b *gotgbot.Bot, c plugin.GobotContext, err error, pluginName string, msg string) error {
	guid := xid.New().String()
	log.Err(err).
		Str("guid", guid).
		Str("plugin", pluginName).
		Int64("chat_id", c.EffectiveChat.Id).
		Msg(msg)
	return reply(b, c, fmt.Sprintf("❌ Something went wrong.%s", utils.EmbedGUID(guid)))
}

func (p *Plugin) pluginList(chat *gotgbot.Chat) string {
	names := make([]string, 0, len(p.managerService.Plugins()))
	for _, plg := range p.managerService.Plugins() {
		var state string
		switch {
		case !p.managerService.IsPluginEnabled(plg.Name()):
			state = " (disabled)"
		case p.managerService.IsPluginDisabledForChat(chat, plg.Name()):
			state = " (disabled here)"
		}
		names = append(names, fmt.Sprintf("• <code>%s</code>%s", utils.Escape(plg.Name()), state))
	}
	slices.Sort(names)
	return "<b>Plugins:</b>\n" + strings.Join(names, "\n")
}

func (p *Plugin) onList(b *gotgbot.Bot, c plugin.GobotContext) error {
	return reply(b, c, p.pluginList(c.EffectiveChat))
}

func (p *Plugin) onEnable(b *gotgbot.Bot, c plugin.GobotContext) error {
	pluginName := c.NamedMatches["plugin"]

	if p.managerService.IsPluginEnabled(pluginName) {
		return reply(b, c, "💡 Plugin is already enabled.")
	}

	err := p.managerService.EnablePlugin(pluginName)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return reply(b, c, "❌ Plugin doesn't exist.")
		}
		return replyError(b, c, err, pluginName, "Failed to enable plugin")
	}
	return reply(b, c, "✅ Plugin enabled.")
}

func (p *Plugin) onEnableInChat(b *gotgbot.Bot, c plugin.GobotContext) error {
	pluginName := c.NamedMatches["plugin"]

	if !p.managerService.IsPluginDisabledForChat(c.EffectiveChat, pluginName) {
		return reply(b, c, "💡 Plugin is already enabled in this chat.")
	}

	err := p.managerService.EnablePluginForChat(c.EffectiveChat, pluginName)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return reply(b, c, "❌ Plugin doesn't exist.")
		}
		return replyError(b, c, err, pluginName, "Failed to enable plugin in chat")
	}
	return reply(b, c, "✅ Plugin enabled in this chat again.")
}

func (p *Plugin) onDisable(b *gotgbot.Bot, c plugin.GobotContext) error {
	pluginName := c.NamedMatches["plugin"]

	if pluginName == p.Name() {
		return reply(b, c, "❌ The manager can't be disabled.")
	}

	if !p.managerService.IsPluginEnabled(pluginName) {
		return reply(b, c, "💡 Plugin is not enabled.")
	}

	err := p.managerService.DisablePlugin(pluginName)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return reply(b, c, "❌ Plugin doesn't exist.")
		}
		return replyError(b, c, err, pluginName, "Failed to disable plugin")
	}
	return reply(b, c, "✅ Plugin disabled.")
}

func (p *Plugin) onDisableInChat(b *gotgbot.Bot, c plugin.GobotContext) error {
	pluginName := c.NamedMatches["plugin"]

	if pluginName == p.Name() {
		return reply(b, c, "❌ The manager can't be disabled.")
	}

	if p.managerService.IsPluginDisabledForChat(c.EffectiveChat, pluginName) {
		return reply(b, c, "💡 Plugin is already disabled in this chat.")
	}

	err := p.managerService.DisablePluginForChat(c.EffectiveChat, pluginName)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return reply(b, c, "❌ Plugin doesn't exist.")
		}
		return replyError(b, c, err, pluginName, "Failed to disable plugin in chat")
	}
	return reply(b, c, "✅ Plugin disabled in this chat.")
}
