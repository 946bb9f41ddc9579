package misc

import (
	"fmt"
	"math/rand"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/genericbot/genericbot/logger"
	"github.com/genericbot/genericbot/plugin"
	"github.com/genericbot/genericbot/utils"
	"github.com/genericbot/genericbot/utils/tgUtils"
	"github.com/rs/xid"
	"github.com/sosodev/duration"
	"golang.org/x/crypto/blake2b"
)

var log = logger.New("misc")

const cpuSampleTime = 100 * time.Millisecond

type (
	Plugin struct {
		started         time.Time
		versionInfo     utils.VersionInfo
		chatStats       ChatStats
		userCounter     Counter
		reminderCounter Counter
	}

	Counter interface {
		Count() (int64, error)
	}

	ChatStats interface {
		Counter
		CountCommands() (int64, error)
	}
)

func New(chatStats ChatStats, userCounter Counter, reminderCounter Counter, versionInfo utils.VersionInfo) *Plugin {
	return &Plugin{
		started:         time.Now(),
		versionInfo:     versionInfo,
		chatStats:       chatStats,
		userCounter:     userCounter,
		reminderCounter: reminderCounter,
	}
}

func (p *Plugin) Name() string {
	return "misc"
}

func (p *Plugin) Commands() []gotgbot.BotCommand {
	return []gotgbot.BotCommand{
		{
			Command:     "stats",
			Description: "Bot stats",
		},
		{
			Command:     "q",
			Description: "<question> - Ask a yes/no question",
		},
		{
			Command:     "rate",
			Description: "<something> - Rate something",
		},
		{
			Command:     "message_owner",
			Description: "<text> - Send a message to the bot owner",
		},
	}
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/(?:stats|status)(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: p.onStats,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?is)^/q(?:@%s)?(?:\s+.*)?$`, botInfo.Username)),
			HandlerFunc: onQuestion,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?is)^/rate(?:@%s)?\s+(?P<thing>.+)$`, botInfo.Username)),
			HandlerFunc: onRate,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?is)^/message_owner(?:@%s)?\s+(?P<text>.+)$`, botInfo.Username)),
			HandlerFunc: onMessageOwner,
		},
	}
}

type statsSnapshot struct {
	uptime      time.Duration
	chats       int64
	users       int64
	commands    int64
	reminders   int64
	usage       *processUsage
	goroutines  int
	versionInfo utils.VersionInfo
}

func formatStats(s statsSnapshot) string {
	var sb strings.Builder

	sb.WriteString("📊 <b>Bot stats</b>\n")
	sb.WriteString(fmt.Sprintf("<b>Uptime:</b> %s\n", utils.HumanizeDuration(duration.FromTimeDuration(s.uptime.Truncate(time.Second)))))
	sb.WriteString(fmt.Sprintf("<b>Chats:</b> %s\n", utils.FormatThousand(s.chats)))
	sb.WriteString(fmt.Sprintf("<b>Users:</b> %s\n", utils.FormatThousand(s.users)))
	sb.WriteString(fmt.Sprintf("<b>Commands executed:</b> %s\n", utils.FormatThousand(s.commands)))
	sb.WriteString(fmt.Sprintf("<b>Pending reminders:</b> %s\n", utils.FormatThousand(s.reminders)))

	if s.usage != nil {
		sb.WriteString(fmt.Sprintf("<b>CPU usage:</b> %.1f%%\n", s.usage.cpuPercent))
		sb.WriteString(fmt.Sprintf("<b>Memory usage:</b> %.2f MB\n", float64(s.usage.maxRSSBytes)/1024/1024))
	}

	sb.WriteString(fmt.Sprintf("<b>Goroutines:</b> %d\n", s.goroutines))
	sb.WriteString(fmt.Sprintf("<code>%s %s/%s</code>", s.versionInfo.GoVersion, s.versionInfo.GoOS, s.versionInfo.GoArch))
	if s.versionInfo.Revision != "" {
		revision := s.versionInfo.Revision
		if len(revision) > 7 {
			revision = revision[:7]
		}
		sb.WriteString(fmt.Sprintf(", revision <code>%s</code>", revision))
		if s.versionInfo.DirtyBuild {
			sb.WriteString(" (dirty)")
		}
	}

	return sb.String()
}

func (p *Plugin) onStats(b *gotgbot.Bot, c plugin.GobotContext) error {
	snapshot := statsSnapshot{
		uptime:      time.Since(p.started),
		goroutines:  runtime.NumGoroutine(),
		versionInfo: p.versionInfo,
	}

	counts := []struct {
		target *int64
		count  func() (int64, error)
	}{
		{&snapshot.chats, p.chatStats.Count},
		{&snapshot.commands, p.chatStats.CountCommands},
		{&snapshot.users, p.userCounter.Count},
		{&snapshot.reminders, p.reminderCounter.Count},
	}

	var err error
	for _, counter := range counts {
		if *counter.target, err = counter.count(); err != nil {
			break
		}
	}
	if err != nil {
		guid := xid.New().String()
		log.Err(err).
			Str("guid", guid).
			Msg("Failed to get statistics")
		_, err := c.EffectiveMessage.Reply(b, fmt.Sprintf("❌ Could not get statistics.%s", utils.EmbedGUID(guid)), utils.DefaultSendOptions())
		return err
	}

	usage, err := measureUsage(cpuSampleTime)
	if err != nil {
		log.Debug().Err(err).Msg("Process usage not available")
	} else {
		snapshot.usage = &usage
	}

	_, err = c.EffectiveMessage.Reply(b, formatStats(snapshot), utils.DefaultSendOptions())
	return err
}

func onQuestion(b *gotgbot.Bot, c plugin.GobotContext) error {
	answer := "Yes"
	if rand.Intn(2) == 0 {
		answer = "No"
	}
	_, err := c.EffectiveMessage.Reply(b, answer, utils.DefaultSendOptions())
	return err
}

// rating is deterministic: the wrapping byte sum of the BLAKE2b-512 digest,
// modulo 12. Yes, that allows 11/10.
func rating(thing string) int {
	digest := blake2b.Sum512([]byte(thing))
	var sum uint8
	for _, b := range digest {
		sum += b
	}
	return int(sum % 12)
}

func onRate(b *gotgbot.Bot, c plugin.GobotContext) error {
	thing := strings.TrimSpace(c.NamedMatches["thing"])
	_, err := c.EffectiveMessage.Reply(b,
		fmt.Sprintf("I rate <b>%s</b>: %d/10", utils.Escape(thing), rating(thing)),
		utils.DefaultSendOptions(),
	)
	return err
}

func onMessageOwner(b *gotgbot.Bot, c plugin.GobotContext) error {
	ownerID := tgUtils.AdminID()
	if ownerID == 0 {
		_, err := c.EffectiveMessage.Reply(b, "❌ This bot has no owner configured.", utils.DefaultSendOptions())
		return err
	}

	text := fmt.Sprintf(
		"📨 Message from %s <code>[%d]</code>:\n%s",
		tgUtils.Mention(c.EffectiveUser.Id, utils.FullName(c.EffectiveUser.FirstName, c.EffectiveUser.LastName)),
		c.EffectiveUser.Id,
		utils.Escape(strings.TrimSpace(c.NamedMatches["text"])),
	)

	_, err := b.SendMessage(ownerID, text, &gotgbot.SendMessageOpts{
		LinkPreviewOptions: &gotgbot.LinkPreviewOptions{
			IsDisabled: true,
		},
		ParseMode: gotgbot.ParseModeHTML,
	})
	if err != nil {
		guid := xid.New().String()
		log.Err(err).
			Str("guid", guid).
			Int64("owner_id", ownerID).
			Msg("Failed to message owner")
		_, err := c.EffectiveMessage.Reply(b, fmt.Sprintf("❌ Could not deliver your message.%s", utils.EmbedGUID(guid)), utils.DefaultSendOptions())
		return err
	}

	return tgUtils.AddRectionWithFallback(b, c.EffectiveMessage, "👍", &tgUtils.ReactionFallbackOpts{
		Fallback: "✅ Sent your message to the owner.",
	})
}
