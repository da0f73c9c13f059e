// Package notification provides implementations for various notification services
package notification

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/raykavin/tutor/pkg/core"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	tb "gopkg.in/tucnak/telebot.v2"
)

const recentLogs = 10

// Monitor is the part of the training monitor the bot reports on
type Monitor interface {
	Epoch() int
	MetricNames() []string
	Series(name string) (core.Series[float64], error)
	Logs() []string
	Backups() []core.BackupSummary
	Backup(ctx context.Context) (core.BackupSummary, error)
}

// Telegram implements the core.NotifierWithStart interface
type telegram struct {
	settings    *core.Settings
	monitor     Monitor
	defaultMenu *tb.ReplyMarkup
	client      *tb.Bot
}

// Option is a function that configures a telegram instance
type Option func(telegram *telegram)

// NewTelegram creates and initializes a new Telegram service
func NewTelegram(monitor Monitor, settings *core.Settings, options ...Option) (core.NotifierWithStart, error) {
	menu := &tb.ReplyMarkup{ResizeReplyKeyboard: true}
	poller := &tb.LongPoller{Timeout: 10 * time.Second}

	client, err := tb.NewBot(tb.Settings{
		ParseMode: tb.ModeMarkdown,
		Token:     settings.Telegram.Token,
		Poller:    createAuthMiddleware(poller, settings),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	setupKeyboard(menu)
	if err := setupCommands(client); err != nil {
		return nil, fmt.Errorf("failed to set commands: %w", err)
	}

	bot := &telegram{
		monitor:     monitor,
		client:      client,
		settings:    settings,
		defaultMenu: menu,
	}

	for _, option := range options {
		option(bot)
	}

	registerHandlers(client, bot)

	return bot, nil
}

// createAuthMiddleware creates a middleware to validate authorized users
func createAuthMiddleware(poller *tb.LongPoller, settings *core.Settings) *tb.MiddlewarePoller {
	return tb.NewMiddlewarePoller(poller, func(u *tb.Update) bool {
		return authorized(settings, u)
	})
}

func authorized(settings *core.Settings, u *tb.Update) bool {
	if u.Message == nil || u.Message.Sender == nil {
		log.Error("message or sender is nil ", u)
		return false
	}

	if slices.Contains(settings.Telegram.Users, int(u.Message.Sender.ID)) {
		return true
	}

	log.Error("unauthorized user ", u.Message.Sender.ID)
	return false
}

func setupKeyboard(menu *tb.ReplyMarkup) {
	var (
		statusBtn  = menu.Text("/status")
		logsBtn    = menu.Text("/logs")
		backupsBtn = menu.Text("/backups")
		backupBtn  = menu.Text("/backup")
	)

	menu.Reply(
		menu.Row(statusBtn, logsBtn),
		menu.Row(backupsBtn, backupBtn),
	)
}

func setupCommands(client *tb.Bot) error {
	return client.SetCommands([]tb.Command{
		{Text: "/help", Description: "Display help instructions"},
		{Text: "/status", Description: "Current epoch and last metric values"},
		{Text: "/logs", Description: "Most recent training logs"},
		{Text: "/backups", Description: "List stored backups"},
		{Text: "/backup", Description: "Back up the training state now"},
	})
}

func registerHandlers(client *tb.Bot, bot *telegram) {
	client.Handle("/help", bot.HelpHandle)
	client.Handle("/status", bot.StatusHandle)
	client.Handle("/logs", bot.LogsHandle)
	client.Handle("/backups", bot.BackupsHandle)
	client.Handle("/backup", bot.BackupHandle)
}

// Start begins the Telegram bot and notifies all authorized users
func (t *telegram) Start() {
	go t.client.Start()
	t.sendMessageWithOptions("Training monitor initialized.", t.defaultMenu)
}

// Notify sends a message to all authorized users
func (t *telegram) Notify(text string) {
	for _, user := range t.settings.Telegram.Users {
		_, err := t.client.Send(&tb.User{ID: int64(user)}, text)
		if err != nil {
			log.WithError(err).Error("failed to send notification")
		}
	}
}

func (t *telegram) sendMessageWithOptions(text string, options ...interface{}) {
	for _, user := range t.settings.Telegram.Users {
		_, err := t.client.Send(&tb.User{ID: int64(user)}, text, options...)
		if err != nil {
			log.WithError(err).Error("failed to send notification with options")
		}
	}
}

func (t *telegram) sendMessage(to *tb.User, text string, options ...interface{}) {
	_, err := t.client.Send(to, text, options...)
	if err != nil {
		log.WithError(err).Error("failed to send message")
	}
}

// HelpHandle displays available commands
func (t *telegram) HelpHandle(m *tb.Message) {
	commands, err := t.client.GetCommands()
	if err != nil {
		log.WithError(err).Error("failed to get commands")
		t.OnError(err)
		return
	}

	lines := make([]string, 0, len(commands))
	for _, command := range commands {
		lines = append(lines, fmt.Sprintf("/%s - %s", command.Text, command.Description))
	}

	t.sendMessage(m.Sender, strings.Join(lines, "\n"))
}

// StatusHandle shows the epoch and the last value of every metric
func (t *telegram) StatusHandle(m *tb.Message) {
	t.sendMessage(m.Sender, formatStatus(t.monitor), t.defaultMenu)
}

// LogsHandle shows the most recent logs
func (t *telegram) LogsHandle(m *tb.Message) {
	t.sendMessage(m.Sender, formatLogs(t.monitor.Logs(), recentLogs))
}

// BackupsHandle lists stored backups
func (t *telegram) BackupsHandle(m *tb.Message) {
	t.sendMessage(m.Sender, formatBackups(t.monitor.Backups()))
}

// BackupHandle backs up the training state
func (t *telegram) BackupHandle(m *tb.Message) {
	summary, err := t.monitor.Backup(context.Background())
	if err != nil {
		t.OnError(err)
		return
	}

	log.Info("[TELEGRAM]: BACKUP CREATED: ", summary.ID)
	t.sendMessage(m.Sender, fmt.Sprintf("Backup `%d` created at epoch `%d`.", summary.ID, summary.Epoch))
}

// OnError notifies users about errors
func (t *telegram) OnError(err error) {
	var sb strings.Builder
	sb.WriteString("🛑 ERROR\n")
	sb.WriteString("-----\n")
	sb.WriteString(err.Error())

	t.Notify(sb.String())
}

func formatStatus(monitor Monitor) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*EPOCH* `%d`\n", monitor.Epoch())

	for _, name := range monitor.MetricNames() {
		series, err := monitor.Series(name)
		if err != nil || series.Length() == 0 {
			fmt.Fprintf(&sb, "%s: `-`\n", name)
			continue
		}
		fmt.Fprintf(&sb, "%s: `%.4f` (%d samples)\n", name, series.Last(0), series.Length())
	}

	return sb.String()
}

func formatLogs(logs []string, limit int) string {
	if len(logs) == 0 {
		return "No logs registered."
	}
	if len(logs) > limit {
		logs = logs[len(logs)-limit:]
	}
	return strings.Join(logs, "\n")
}

func formatBackups(backups []core.BackupSummary) string {
	if len(backups) == 0 {
		return "No backups registered."
	}

	var sb strings.Builder
	sb.WriteString("*BACKUPS*\n")
	for _, backup := range backups {
		fmt.Fprintf(&sb, "`%d` epoch `%d`", backup.ID, backup.Epoch)
		names := lo.Keys(backup.Metrics)
		slices.Sort(names)
		for _, name := range names {
			fmt.Fprintf(&sb, " %s=`%.4f`", name, backup.Metrics[name])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
