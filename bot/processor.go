package bot

import (
	"fmt"
	"math"
	"os"
	"regexp"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/genericbot/genericbot/logger"
	"github.com/genericbot/genericbot/model"
	"github.com/genericbot/genericbot/plugin"
	"github.com/genericbot/genericbot/utils"
	"github.com/genericbot/genericbot/utils/tgUtils"
	"github.com/rs/xid"
)

var log = logger.New("bot")

type (
	Processor struct {
		allowService      model.AllowService
		chatService       model.ChatService
		chatsUsersService model.ChatsUsersService
		managerService    model.ManagerService
		prefixService     model.PrefixService
		userService       model.UserService
		rateLimiter       *RateLimiter
		allowEveryone     bool
		printMessages     bool
	}

	matchedHandler struct {
		plugin       plugin.Plugin
		handler      *plugin.CommandHandler
		matches      []string
		namedMatches map[string]string
	}
)

func NewProcessor(
	allowService model.AllowService,
	chatService model.ChatService,
	chatsUsersService model.ChatsUsersService,
	managerService model.ManagerService,
	prefixService model.PrefixService,
	userService model.UserService,
	rateLimiter *RateLimiter,
) *Processor {
	_, allowEveryone := os.LookupEnv("ALLOW_EVERYONE")
	_, printMessages := os.LookupEnv("PRINT_MSGS")

	return &Processor{
		allowService:      allowService,
		chatService:       chatService,
		chatsUsersService: chatsUsersService,
		managerService:    managerService,
		prefixService:     prefixService,
		userService:       userService,
		rateLimiter:       rateLimiter,
		allowEveryone:     allowEveryone,
		printMessages:     printMessages,
	}
}

func (p *Processor) ProcessUpdate(d *ext.Dispatcher, b *gotgbot.Bot, ctx *ext.Context) error {
	if ctx.Message != nil {

		if ctx.Message.LeftChatMember != nil {
			return p.onUserLeft(ctx)
		}

		if ctx.Message.NewChatMembers != nil {
			return p.onUserJoined(ctx)
		}

		return p.onMessage(b, ctx)
	}

	if ctx.EditedMessage != nil {
		return p.onMessage(b, ctx)
	}

	return nil
}

func (p *Processor) isAllowed(ctx *ext.Context) bool {
	if p.allowEveryone {
		return true
	}

	isAllowed := p.allowService.IsUserAllowed(ctx.EffectiveUser)
	if tgUtils.FromGroup(ctx.EffectiveChat) && !isAllowed {
		isAllowed = p.allowService.IsChatAllowed(ctx.EffectiveChat)
	}
	return isAllowed
}

func (p *Processor) onMessage(b *gotgbot.Bot, ctx *ext.Context) error {
	msg := ctx.EffectiveMessage
	if ctx.EffectiveUser == nil {
		// Channel posts and anonymous admins
		return nil
	}
	isEdited := msg.EditDate != 0

	if p.printMessages {
		fmt.Println(formatMessage(msg))
	}

	if !p.isAllowed(ctx) {
		log.Debug().Int64("chat_id", ctx.EffectiveChat.Id).Msg("User/Chat is not allowed")
		return nil
	}

	if !isEdited {
		var err error
		if tgUtils.IsPrivate(ctx.EffectiveChat) {
			err = p.userService.Create(ctx.EffectiveUser)
		} else {
			err = p.chatsUsersService.Create(ctx.EffectiveChat, ctx.EffectiveUser)
		}
		if err != nil {
			return err
		}
	}

	text := tgUtils.AnyText(msg)
	if tgUtils.FromGroup(ctx.EffectiveChat) {
		prefixes, err := p.prefixService.Prefixes(ctx.EffectiveChat.Id)
		if err != nil {
			return err
		}
		text = applyPrefix(text, prefixes)
	}

	handlers := p.matchHandlers(b, ctx, text, isEdited)
	if len(handlers) == 0 {
		return nil
	}

	if p.rateLimiter != nil {
		if wait := p.rateLimiter.Wait(ctx.EffectiveUser.Id); wait > 0 {
			log.Debug().
				Int64("user_id", ctx.EffectiveUser.Id).
				Dur("wait", wait).
				Msg("User is rate limited")
			_, err := msg.Reply(b,
				fmt.Sprintf("🕒 You are ratelimited, try again in %d seconds.", int(math.Ceil(wait.Seconds()))),
				utils.DefaultSendOptions(),
			)
			return err
		}
	}

	for _, h := range handlers {
		go p.run(b, ctx, h)
	}

	if tgUtils.FromGroup(ctx.EffectiveChat) && !isEdited {
		if err := p.chatService.IncrementCommands(ctx.EffectiveChat.Id); err != nil {
			log.Err(err).Int64("chat_id", ctx.EffectiveChat.Id).Msg("Failed to count command")
		}
	}

	return nil
}

func (p *Processor) matchHandlers(b *gotgbot.Bot, ctx *ext.Context, text string, isEdited bool) []matchedHandler {
	var result []matchedHandler

	for _, plg := range p.managerService.Plugins() {
		for _, h := range plg.Handlers(&b.User) {
			handler, ok := h.(*plugin.CommandHandler)
			if !ok {
				continue
			}

			if isEdited && !handler.HandleEdits {
				continue
			}

			if !tgUtils.FromGroup(ctx.EffectiveChat) && handler.GroupOnly {
				continue
			}

			command, ok := handler.Command().(*regexp.Regexp)
			if !ok {
				panic(fmt.Sprintf("unsupported trigger type %T in plugin %s", handler.Trigger, plg.Name()))
			}

			matches := command.FindStringSubmatch(text)
			if len(matches) == 0 {
				continue
			}

			log.Debug().Msgf("Matched plugin '%s': %s", plg.Name(), command)

			if !p.managerService.IsPluginEnabled(plg.Name()) {
				log.Debug().Msgf("Plugin %s is disabled globally", plg.Name())
				continue
			}

			if tgUtils.FromGroup(ctx.EffectiveChat) && p.managerService.IsPluginDisabledForChat(ctx.EffectiveChat, plg.Name()) {
				log.Debug().Msgf("Plugin %s is disabled for this chat", plg.Name())
				continue
			}

			if handler.AdminOnly && !tgUtils.IsAdmin(ctx.EffectiveUser) {
				log.Debug().Msg("User is not an admin.")
				continue
			}

			namedMatches := make(map[string]string)
			for i, name := range command.SubexpNames() {
				if name != "" {
					namedMatches[name] = matches[i]
				}
			}

			result = append(result, matchedHandler{
				plugin:       plg,
				handler:      handler,
				matches:      matches,
				namedMatches: namedMatches,
			})
		}
	}

	return result
}

func (p *Processor) run(b *gotgbot.Bot, ctx *ext.Context, h matchedHandler) {
	defer func() {
		if r := recover(); r != nil {
			p.replyWithGUID(b, ctx, h.plugin.Name(), fmt.Errorf("panic: %v", r))
		}
	}()

	err := h.handler.Run(b, plugin.GobotContext{
		Context:      ctx,
		Matches:      h.matches,
		NamedMatches: h.namedMatches,
	})
	if err != nil {
		p.replyWithGUID(b, ctx, h.plugin.Name(), err)
	}
}

func (p *Processor) replyWithGUID(b *gotgbot.Bot, ctx *ext.Context, component string, err error) {
	guid := xid.New().String()
	log.Err(err).
		Str("guid", guid).
		Int64("chat_id", ctx.EffectiveChat.Id).
		Int64("user_id", ctx.EffectiveUser.Id).
		Str("text", ctx.EffectiveMessage.Text).
		Str("plugin", component).
		Send()

	_, replyErr := ctx.EffectiveMessage.Reply(b, fmt.Sprintf("❌ Something went wrong.%s", utils.EmbedGUID(guid)), utils.DefaultSendOptions())
	if replyErr != nil {
		log.Err(replyErr).Str("guid", guid).Msg("Failed to send error message")
	}
}

func (p *Processor) onUserJoined(ctx *ext.Context) error {
	return p.chatsUsersService.CreateBatch(ctx.EffectiveChat, ctx.Message.NewChatMembers)
}

func (p *Processor) onUserLeft(ctx *ext.Context) error {
	if ctx.Message.LeftChatMember.IsBot {
		return nil
	}
	return p.chatsUsersService.Leave(ctx.EffectiveChat, ctx.Message.LeftChatMember)
}

func OnDispatcherError(_ *gotgbot.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
	event := log.Err(err)
	if ctx.EffectiveChat != nil {
		event = event.Int64("chat_id", ctx.EffectiveChat.Id)
	}
	event.Msg("Error while handling update")
	return ext.DispatcherActionNoop
}
