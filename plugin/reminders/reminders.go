package reminders

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/genericbot/genericbot/logger"
	"github.com/genericbot/genericbot/model"
	"github.com/genericbot/genericbot/plugin"
	"github.com/genericbot/genericbot/utils"
	"github.com/genericbot/genericbot/utils/timeparse"
	"github.com/genericbot/genericbot/utils/tgUtils"
	"github.com/rs/xid"
)

var log = logger.New("reminders")

type (
	Plugin struct {
		reminderService Service
	}

	Service interface {
		DeleteReminderAt(userID int64, position int64) (bool, error)
		DeleteReminderByID(id int64) error
		GetAllReminders() ([]model.Reminder, error)
		GetReminderByID(id int64) (model.Reminder, error)
		GetReminders(userID int64) ([]model.Reminder, error)
		SaveReminder(userID int64, channelID int64, text string, createdAt time.Time, remindAt time.Time) (int64, error)
	}
)

func New(bot *gotgbot.Bot, service Service) *Plugin {
	p := &Plugin{
		reminderService: service,
	}

	reminders, err := service.GetAllReminders()
	if err != nil {
		log.Err(err).
			Msg("Failed to get all reminders")
	}

	for _, reminder := range reminders {
		p.schedule(bot, reminder.ID, reminder.RemindAt)
	}

	log.Debug().Int("count", len(reminders)).Msg("Scheduled stored reminders")

	return p
}

func (p *Plugin) Name() string {
	return "reminders"
}

func (p *Plugin) Commands() []gotgbot.BotCommand {
	return []gotgbot.BotCommand{
		{
			Command:     "remind",
			Description: "<time> <text> - Set a reminder, e.g. \"3 hours 20m\", tomorrow, friday, july 4",
		},
		{
			Command:     "reminders",
			Description: "List your reminders",
		},
		{
			Command:     "remind_delete",
			Description: "<number> - Delete a reminder from your list",
		},
	}
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?is)^/remind(?:@%s)?(?:\s+(?P<args>.+))?$`, botInfo.Username)),
			HandlerFunc: p.onRemind,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/(?:reminders|reminder_list|reminders_list|list_reminders)(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: p.onListReminders,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?is)^/(?:remind_delete|reminder_delete|reminders_delete|delete_reminder)(?:@%s)?(?:\s+(?P<position>.+))?$`, botInfo.Username)),
			HandlerFunc: p.onDeleteReminder,
		},
	}
}

// tokenCount is used to tell whether another word still adds to a time
// expression.
func tokenCount(expr timeparse.Expression) int {
	if expr.Kind == timeparse.NumericDelta {
		return len(expr.Deltas)
	}
	return 1
}

// splitTimeAndText separates the time expression from the reminder text. A
// quoted first argument is always the whole time expression. Otherwise
// leading words are taken for as long as they add to the expression, looking
// at most two words ahead. At least one word is left for the text.
func splitTimeAndText(args string) (timeText, text string) {
	if utils.HasQuotedFirstArg(args) {
		return utils.SplitFirstArg(args)
	}

	words := strings.Fields(args)
	if len(words) < 2 {
		return utils.SplitFirstArg(args)
	}

	best, bestScore := 0, 0
	for i := 1; i < len(words) && i <= best+2; i++ {
		expr, err := timeparse.Parse(strings.Join(words[:i], " "))
		if err != nil {
			continue
		}
		if score := tokenCount(expr); score > bestScore {
			best, bestScore = i, score
		}
	}

	if best == 0 {
		return utils.SplitFirstArg(args)
	}

	return strings.Join(words[:best], " "), strings.Join(words[best:], " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (p *Plugin) onRemind(b *gotgbot.Bot, c plugin.GobotContext) error {
	timeText, text := splitTimeAndText(c.NamedMatches["args"])
	if timeText == "" || text == "" {
		_, err := c.EffectiveMessage.Reply(b,
			"💡 Usage: <code>/remind \"3 hours 20m\" take out the trash</code>\n"+
				"Times can be deltas (<code>1y 2M 3w 4d 5h 6m 7s</code>), <code>tomorrow</code>, a weekday or a date like <code>july 4</code>.",
			utils.DefaultSendOptions(),
		)
		return err
	}

	now := time.Now().UTC().Truncate(time.Second)
	remindAt, err := timeparse.Recognise(now, timeText)
	if err != nil {
		var parseErr *timeparse.ParseError
		if errors.As(err, &parseErr) {
			_, err = c.EffectiveMessage.Reply(b, "❌ "+utils.Escape(capitalize(parseErr.Msg))+".", utils.DefaultSendOptions())
			return err
		}
		return err
	}

	id, err := p.reminderService.SaveReminder(c.EffectiveUser.Id, c.EffectiveChat.Id, text, now, remindAt)
	if err != nil {
		guid := xid.New().String()
		log.Err(err).
			Str("guid", guid).
			Int64("user_id", c.EffectiveUser.Id).
			Msg("Failed to save reminder")
		_, err := c.EffectiveMessage.Reply(b, fmt.Sprintf("❌ Something went wrong.%s", utils.EmbedGUID(guid)), utils.DefaultSendOptions())
		return err
	}

	p.schedule(b, id, remindAt)

	when := "right away"
	if remindAt.After(now) {
		when = "in " + utils.HumanTimeDelta(remindAt.Sub(now))
	}

	_, err = c.EffectiveMessage.Reply(b,
		fmt.Sprintf("🕒 Okay, I'll remind you about <b>%s</b> %s", utils.Escape(text), when),
		utils.DefaultSendOptions(),
	)
	return err
}

// formatReminderList renders reminders as aligned rows. Rows that would push
// the text past maxLength are left out.
func formatReminderList(reminders []model.Reminder, maxLength int) string {
	var sb strings.Builder
	for i, reminder := range reminders {
		line := fmt.Sprintf(
			"%3d | %s | %s\n",
			i+1,
			reminder.RemindAt.UTC().Format(utils.NaiveTimeFormat),
			reminder.Text,
		)
		if sb.Len()+len(line) > maxLength {
			sb.WriteString("...\n")
			break
		}
		sb.WriteString(line)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (p *Plugin) onListReminders(b *gotgbot.Bot, c plugin.GobotContext) error {
	reminders, err := p.reminderService.GetReminders(c.EffectiveUser.Id)
	if err != nil {
		guid := xid.New().String()
		log.Err(err).
			Str("guid", guid).
			Int64("user_id", c.EffectiveUser.Id).
			Msg("Failed to get reminders")
		_, err := c.EffectiveMessage.Reply(b, fmt.Sprintf("❌ Something went wrong.%s", utils.EmbedGUID(guid)), utils.DefaultSendOptions())
		return err
	}

	if len(reminders) == 0 {
		_, err := c.EffectiveMessage.Reply(b, "💡 You have no reminders.", utils.DefaultSendOptions())
		return err
	}

	var sb strings.Builder
	sb.WriteString(tgUtils.Mention(c.EffectiveUser.Id, c.EffectiveUser.FirstName))
	sb.WriteString(", your reminders:\n<pre>")
	// Leave room for the mention and escaping.
	sb.WriteString(utils.Escape(formatReminderList(reminders, tgUtils.MaxMessageLength/2)))
	sb.WriteString("</pre>")

	_, err = c.EffectiveMessage.Reply(b, sb.String(), utils.DefaultSendOptions())
	return err
}

func (p *Plugin) onDeleteReminder(b *gotgbot.Bot, c plugin.GobotContext) error {
	position, err := strconv.ParseInt(strings.TrimSpace(c.NamedMatches["position"]), 10, 64)
	if err != nil {
		_, err := c.EffectiveMessage.Reply(b,
			"💡 Usage: <code>/remind_delete 1</code>, the number comes from /reminders.",
			utils.DefaultSendOptions(),
		)
		return err
	}

	deleted, err := p.reminderService.DeleteReminderAt(c.EffectiveUser.Id, position)
	if err != nil {
		guid := xid.New().String()
		log.Err(err).
			Str("guid", guid).
			Int64("user_id", c.EffectiveUser.Id).
			Int64("position", position).
			Msg("Failed to delete reminder")
		_, err := c.EffectiveMessage.Reply(b, fmt.Sprintf("❌ Something went wrong.%s", utils.EmbedGUID(guid)), utils.DefaultSendOptions())
		return err
	}

	if !deleted {
		_, err = c.EffectiveMessage.Reply(b, "❌ That reminder didn't exist.", utils.DefaultSendOptions())
		return err
	}

	_, err = c.EffectiveMessage.Reply(b, "✅ Deleted that reminder.", utils.DefaultSendOptions())
	return err
}

// schedule delivers the reminder at remindAt. Overdue reminders fire
// immediately.
func (p *Plugin) schedule(bot *gotgbot.Bot, id int64, remindAt time.Time) {
	time.AfterFunc(time.Until(remindAt), func() {
		p.sendReminder(bot, id)
	})
}

func formatDelivery(reminder model.Reminder) string {
	name := reminder.FirstName
	if name == "" {
		name = "Hey"
	}
	return fmt.Sprintf(
		"🔔 %s, you asked me to remind you: <b>%s</b>",
		tgUtils.Mention(reminder.UserID, name),
		utils.Escape(reminder.Text),
	)
}

func (p *Plugin) sendReminder(bot *gotgbot.Bot, id int64) {
	log.Debug().
		Int64("id", id).
		Msg("Sending reminder")

	reminder, err := p.reminderService.GetReminderByID(id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			log.Debug().
				Int64("id", id).
				Msg("Reminder not found, probably deleted")
			return
		}
		log.Err(err).
			Int64("id", id).
			Msg("Failed to get reminder")
		return
	}

	_, err = bot.SendMessage(reminder.ChannelID, formatDelivery(reminder), &gotgbot.SendMessageOpts{
		LinkPreviewOptions: &gotgbot.LinkPreviewOptions{
			IsDisabled: true,
		},
		ParseMode: gotgbot.ParseModeHTML,
	})

	if err != nil && !tgUtils.IsForbiddenError(err) {
		log.Err(err).
			Int64("id", id).
			Int64("channel_id", reminder.ChannelID).
			Msg("Failed to send reminder")
		return
	}
	if err != nil {
		log.Debug().Err(err).
			Int64("id", id).
			Msg("Reminder can't be delivered anymore, deleting it")
	}

	err = p.reminderService.DeleteReminderByID(id)
	if err != nil {
		log.Err(err).
			Int64("id", id).
			Msg("Failed to delete reminder")
	}
}
