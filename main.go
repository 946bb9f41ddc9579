package main

import (
	"os"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/genericbot/genericbot/bot"
	"github.com/genericbot/genericbot/logger"
	"github.com/genericbot/genericbot/model/sql"
	"github.com/genericbot/genericbot/plugin"
	"github.com/genericbot/genericbot/plugin/allow"
	"github.com/genericbot/genericbot/plugin/interactions"
	"github.com/genericbot/genericbot/plugin/manager"
	"github.com/genericbot/genericbot/plugin/misc"
	"github.com/genericbot/genericbot/plugin/prefix"
	"github.com/genericbot/genericbot/plugin/reminders"
	"github.com/genericbot/genericbot/utils"
	_ "github.com/joho/godotenv/autoload"
)

var log = logger.New("main")

func main() {
	versionInfo, err := utils.ReadVersionInfo()
	if err != nil {
		log.Warn().Err(err).Msg("Could not read version info")
	} else {
		log.Info().Msgf("genericbot-%s (%s), built with %s", versionInfo.Revision, versionInfo.LastCommit, versionInfo.GoVersion)
	}

	db, err := sql.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	userService := sql.NewUserService(db)
	chatService := sql.NewChatService(db)
	chatsUsersService := sql.NewChatsUsersService(db, chatService, userService)
	pluginService := sql.NewPluginService(db)
	chatsPluginsService := sql.NewChatsPluginsService(db, chatService, pluginService)
	prefixService := sql.NewPrefixService(db)
	reminderService := sql.NewReminderService(db)

	allowService, err := sql.NewAllowService(chatService, userService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load allow list")
	}

	managerService, err := bot.NewManagerService(chatsPluginsService, pluginService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load plugin states")
	}

	b, err := gotgbot.NewBot(os.Getenv("BOT_TOKEN"), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	log.Info().Msgf("Logged in as @%s (%d)", b.Username, b.Id)

	plugins := []plugin.Plugin{
		allow.New(allowService),
		interactions.New(chatsUsersService),
		manager.New(managerService),
		misc.New(chatService, userService, reminderService, versionInfo),
		prefix.New(prefixService),
		reminders.New(b, reminderService),
	}
	managerService.SetPlugins(plugins)

	var commands []gotgbot.BotCommand
	for _, plg := range plugins {
		commands = append(commands, plg.Commands()...)
	}
	if _, err := b.SetMyCommands(commands, nil); err != nil {
		log.Err(err).Msg("Failed to set bot commands")
	}

	processor := bot.NewProcessor(
		allowService,
		chatService,
		chatsUsersService,
		managerService,
		prefixService,
		userService,
		bot.NewRateLimiterFromEnv(),
	)

	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Processor:   processor,
		Error:       bot.OnDispatcherError,
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)

	err = updater.StartPolling(b, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &gotgbot.GetUpdatesOpts{
			Timeout:        9,
			AllowedUpdates: []string{"message", "edited_message"},
			RequestOpts: &gotgbot.RequestOpts{
				Timeout: 10 * time.Second,
			},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start polling")
	}

	log.Info().Msg("Bot started")
	updater.Idle()
}
