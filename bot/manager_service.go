package bot

import (
	"sync"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/genericbot/genericbot/model"
	"github.com/genericbot/genericbot/plugin"
	"golang.org/x/exp/slices"
)

// managerService tracks which plugins are switched off, globally and per
// chat. Plugins are enabled unless switched off.
type managerService struct {
	mu                     sync.RWMutex
	chatsPluginsService    model.ChatsPluginsService
	pluginService          model.PluginService
	plugins                []plugin.Plugin
	disabledPlugins        []string
	disabledPluginsForChat map[int64][]string
}

func NewManagerService(
	chatsPluginsService model.ChatsPluginsService,
	pluginService model.PluginService,
) (*managerService, error) {
	disabledPlugins, err := pluginService.GetAllDisabled()
	if err != nil {
		return nil, err
	}

	disabledPluginsForChat, err := chatsPluginsService.GetAllDisabled()
	if err != nil {
		return nil, err
	}

	return &managerService{
		chatsPluginsService:    chatsPluginsService,
		pluginService:          pluginService,
		disabledPlugins:        disabledPlugins,
		disabledPluginsForChat: disabledPluginsForChat,
	}, nil
}

func (service *managerService) SetPlugins(plugins []plugin.Plugin) {
	service.mu.Lock()
	defer service.mu.Unlock()
	service.plugins = plugins
}

func (service *managerService) Plugins() []plugin.Plugin {
	service.mu.RLock()
	defer service.mu.RUnlock()
	return service.plugins
}

func (service *managerService) exists(name string) bool {
	return slices.ContainsFunc(service.plugins, func(plg plugin.Plugin) bool {
		return plg.Name() == name
	})
}

func (service *managerService) IsPluginEnabled(name string) bool {
	service.mu.RLock()
	defer service.mu.RUnlock()
	return !slices.Contains(service.disabledPlugins, name)
}

func (service *managerService) IsPluginDisabledForChat(chat *gotgbot.Chat, name string) bool {
	service.mu.RLock()
	defer service.mu.RUnlock()
	return slices.Contains(service.disabledPluginsForChat[chat.Id], name)
}

func (service *managerService) EnablePlugin(name string) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	if !service.exists(name) {
		return model.ErrNotFound
	}

	err := service.pluginService.Enable(name)
	if err != nil {
		return err
	}

	if index := slices.Index(service.disabledPlugins, name); index != -1 {
		service.disabledPlugins = slices.Delete(service.disabledPlugins, index, index+1)
	}
	return nil
}

func (service *managerService) DisablePlugin(name string) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	if !service.exists(name) {
		return model.ErrNotFound
	}

	err := service.pluginService.Disable(name)
	if err != nil {
		return err
	}

	if !slices.Contains(service.disabledPlugins, name) {
		service.disabledPlugins = append(service.disabledPlugins, name)
	}
	return nil
}

func (service *managerService) EnablePluginForChat(chat *gotgbot.Chat, name string) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	if !service.exists(name) {
		return model.ErrNotFound
	}

	err := service.chatsPluginsService.Enable(chat, name)
	if err != nil {
		return err
	}

	disabled := service.disabledPluginsForChat[chat.Id]
	if index := slices.Index(disabled, name); index != -1 {
		service.disabledPluginsForChat[chat.Id] = slices.Delete(disabled, index, index+1)
	}
	return nil
}

func (service *managerService) DisablePluginForChat(chat *gotgbot.Chat, name string) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	if !service.exists(name) {
		return model.ErrNotFound
	}

	err := service.chatsPluginsService.Disable(chat, name)
	if err != nil {
		return err
	}

	if !slices.Contains(service.disabledPluginsForChat[chat.Id], name) {
		service.disabledPluginsForChat[chat.Id] = append(service.disabledPluginsForChat[chat.Id], name)
	}
	return nil
}
