package interactions

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
	"github.com/genericbot/genericbot/utils/tgUtils"
)

var log = logger.New("interactions")

type (
	Plugin struct {
		memberService MemberFinder
	}

	MemberFinder interface {
		FindMember(chatID int64, query string) (model.User, error)
	}

	// interaction is a command aimed at other chat members. format receives
	// the sender and the joined targets.
	interaction struct {
		command     string
		description string
		format      string
		nobody      string
	}
)

var interactions = []interaction{
	{
		command:     "hug",
		description: "<user...> - Hug someone",
		format:      "%s hugs %s!",
		nobody:      "You can't hug nobody!",
	},
	{
		command:     "slap",
		description: "<user...> - Slap someone",
		format:      "%s slaps %s! B..Baka!!!",
		nobody:      "Go slap yourself you baka",
	},
	{
		command:     "kiss",
		description: "<user...> - Kiss someone",
		format:      "%s Kisses %s! Chuuuu!",
		nobody:      "DW anon you'll find someone to love some day!",
	},
}

func (i interaction) text(sender string, targets []string) string {
	if len(targets) == 0 {
		return i.nobody
	}
	return fmt.Sprintf(i.format, sender, strings.Join(targets, ", "))
}

func New(memberService MemberFinder) *Plugin {
	return &Plugin{
		memberService: memberService,
	}
}

func (p *Plugin) Name() string {
	return "interactions"
}

func (p *Plugin) Commands() []gotgbot.BotCommand {
	commands := make([]gotgbot.BotCommand, 0, len(interactions))
	for _, i := range interactions {
		commands = append(commands, gotgbot.BotCommand{
			Command:     i.command,
			Description: i.description,
		})
	}
	return commands
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	handlers := make([]plugin.Handler, 0, len(interactions))
	for _, i := range interactions {
		handlers = append(handlers, &plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?is)^/%s(?:@%s)?(?:\s+(?P<args>.+))?$`, i.command, botInfo.Username)),
			HandlerFunc: p.onInteraction(i),
			GroupOnly:   true,
		})
	}
	return handlers
}

// resolve turns every argument into a mention of a known chat member.
// Arguments nobody matches are dropped.
func (p *Plugin) resolve(chatID int64, args []string) []string {
	mentions := make([]string, 0, len(args))
	for _, arg := range args {
		user, err := p.memberService.FindMember(chatID, arg)
		if err != nil {
			if !errors.Is(err, model.ErrNotFound) {
				log.Err(err).
					Int64("chat_id", chatID).
					Str("query", arg).
					Msg("Failed to look up chat member")
			}
			continue
		}
		mentions = append(mentions, tgUtils.Mention(user.ID, user.GetFullName()))
	}
	return mentions
}

func (p *Plugin) onInteraction(i interaction) plugin.GobotHandlerFunc {
	return func(b *gotgbot.Bot, c plugin.GobotContext) error {
		var mentions []string

		if tgUtils.IsReply(c.EffectiveMessage) && c.EffectiveMessage.ReplyToMessage.From != nil {
			target := c.EffectiveMessage.ReplyToMessage.From
			mentions = append(mentions, tgUtils.Mention(target.Id, utils.FullName(target.FirstName, target.LastName)))
		}

		mentions = append(mentions, p.resolve(c.EffectiveChat.Id, utils.SplitArgs(c.NamedMatches["args"]))...)

		sender := tgUtils.Mention(c.EffectiveUser.Id, utils.FullName(c.EffectiveUser.FirstName, c.EffectiveUser.LastName))
		_, err := c.EffectiveMessage.Reply(b, i.text(sender, mentions), utils.DefaultSendOptions())
		return err
	}
}
