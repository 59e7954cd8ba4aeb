// Package bot реализует диалоговый фронтенд в Telegram: команды, меню
// на inline-кнопках и пошаговые сценарии ввода. Пакет только
// маршрутизирует события чата в сервис жизненного цикла подписки и
// отрисовывает результаты; бизнес-правил здесь нет.
//
// Платформа доставляет по одному событию за раз (Synchronous), поэтому
// каждый обработчик, включая синхронную запись снимка, завершается до
// следующего события.
package bot

import (
	"fmt"
	"log/slog"
	"strconv"

	tele "gopkg.in/telebot.v3"

	"github.com/mrwasif-dev/telegram-subs-bot/internal/cache"
	"github.com/mrwasif-dev/telegram-subs-bot/internal/config"
	"github.com/mrwasif-dev/telegram-subs-bot/internal/lib/sl"
	services "github.com/mrwasif-dev/telegram-subs-bot/internal/services/subscription"
)

// Bot связывает telebot с сервисом подписок.
type Bot struct {
	tb       *tele.Bot
	cfg      *config.Config
	service  *services.SubscriptionService
	sessions *Sessions
	log      *slog.Logger
}

// New создаёт и настраивает бота с long-poll доставкой обновлений.
func New(cfg *config.Config, service *services.SubscriptionService, sessionCache cache.Cache, log *slog.Logger) (*Bot, error) {
	const op = "bot.New"

	tb, err := tele.NewBot(tele.Settings{
		Token:       cfg.Token,
		Poller:      &tele.LongPoller{Timeout: cfg.PollTimeout},
		Synchronous: true,
		OnError: func(err error, _ tele.Context) {
			log.Error("telegram handler error", sl.Err(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b := &Bot{
		tb:       tb,
		cfg:      cfg,
		service:  service,
		sessions: NewSessions(sessionCache),
		log:      log,
	}
	b.registerHandlers()
	return b, nil
}

func (b *Bot) registerHandlers() {
	b.tb.Handle("/start", b.handleStart)
	b.tb.Handle("/help", b.handleHelp)
	b.tb.Handle("/dashboard", b.handleDashboard)
	b.tb.Handle("/plans", b.handlePlans)
	b.tb.Handle("/register", b.handleRegister)
	b.tb.Handle("/settings", b.handleSettings)

	b.tb.Handle("/admin", b.adminOnly(b.handleAdminPanel))
	b.tb.Handle("/users", b.adminOnly(b.handleAdminUsers))
	b.tb.Handle("/stats", b.adminOnly(b.handleAdminStats))
	b.tb.Handle("/announce", b.adminOnly(b.handleAdminAnnounce))

	b.tb.Handle(&btnMainMenu, b.deleteThen(b.handleStart))
	b.tb.Handle(&btnDashboard, b.deleteThen(b.handleDashboard))
	b.tb.Handle(&btnPlans, b.deleteThen(b.handlePlans))
	b.tb.Handle(&btnRegister, b.deleteThen(b.handleRegister))
	b.tb.Handle(&btnSettings, b.deleteThen(b.handleSettings))
	b.tb.Handle(&btnSubscribe, b.handleSubscribe)
	b.tb.Handle(&btnConfirmPayment, b.handleConfirmPayment)

	b.tb.Handle(&btnSettingName, b.handleSettingName)
	b.tb.Handle(&btnSettingWhatsApp, b.handleSettingWhatsApp)
	b.tb.Handle(&btnSettingPassword, b.handleSettingPassword)
	b.tb.Handle(&btnSettingDelete, b.handleSettingDelete)

	b.tb.Handle(&btnAdminPanel, b.adminOnly(b.deleteThen(b.handleAdminPanel)))
	b.tb.Handle(&btnAdminUsers, b.adminOnly(b.deleteThen(b.handleAdminUsers)))
	b.tb.Handle(&btnAdminViewUser, b.adminOnly(b.handleAdminViewUser))
	b.tb.Handle(&btnAdminPlans, b.adminOnly(b.deleteThen(b.handleAdminPlans)))
	b.tb.Handle(&btnAdminAddPlan, b.adminOnly(b.handleAdminAddPlan))
	b.tb.Handle(&btnAdminEditPlan, b.adminOnly(b.handleAdminEditPlan))
	b.tb.Handle(&btnAdminDeletePlan, b.adminOnly(b.handleAdminDeletePlan))
	b.tb.Handle(&btnAdminPending, b.adminOnly(b.deleteThen(b.handleAdminPending)))
	b.tb.Handle(&btnAdminVerify, b.adminOnly(b.handleAdminVerify))
	b.tb.Handle(&btnAdminReject, b.adminOnly(b.handleAdminReject))
	b.tb.Handle(&btnAdminDeleteUser, b.adminOnly(b.handleAdminDeleteUser))
	b.tb.Handle(&btnAdminStats, b.adminOnly(b.deleteThen(b.handleAdminStats)))
	b.tb.Handle(&btnAdminAnnounce, b.adminOnly(b.handleAdminAnnounce))

	b.tb.Handle(tele.OnText, b.handleText)
}

// Start запускает long-poll цикл. Блокирует до Stop.
func (b *Bot) Start() {
	b.log.Info("telegram bot starting",
		slog.Int64("admin_id", b.cfg.AdminID),
		slog.String("env", b.cfg.Env))
	b.tb.Start()
}

// Stop останавливает доставку обновлений.
func (b *Bot) Stop() {
	b.tb.Stop()
}

// senderID возвращает идентификатор чата отправителя строкой — ключ
// записи пользователя в хранилище.
func senderID(c tele.Context) string {
	return strconv.FormatInt(c.Sender().ID, 10)
}

func (b *Bot) isAdmin(c tele.Context) bool {
	return c.Sender().ID == b.cfg.AdminID
}

// adminOnly пропускает событие только от администратора.
func (b *Bot) adminOnly(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !b.isAdmin(c) {
			return c.Send("❌ Unauthorized access.")
		}
		return next(c)
	}
}

// deleteThen убирает сообщение с нажатой кнопкой и открывает следующий
// экран новым сообщением.
func (b *Bot) deleteThen(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Callback() != nil {
			if err := c.Delete(); err != nil {
				b.log.Debug("failed to delete message", sl.Err(err))
			}
		}
		return next(c)
	}
}

// parseChatID преобразует ключ записи пользователя обратно в
// числовой идентификатор чата Telegram.
func parseChatID(userID string) (int64, error) {
	return strconv.ParseInt(userID, 10, 64)
}

// notify отправляет сообщение произвольному пользователю. Доставка
// best-effort: ошибка логируется и не прерывает операцию.
func (b *Bot) notify(userID string, text string) {
	id, err := parseChatID(userID)
	if err != nil {
		b.log.Warn("invalid user id for notification", sl.UserID(userID), sl.Err(err))
		return
	}
	_, err = b.tb.Send(&tele.User{ID: id}, text, tele.ModeMarkdown)
	if err != nil {
		b.log.Warn("failed to notify user", sl.UserID(userID), sl.Err(err))
	}
}

// notifyAdmin отправляет сообщение администратору, опционально с
// клавиатурой. Тоже best-effort.
func (b *Bot) notifyAdmin(text string, markup *tele.ReplyMarkup) {
	var err error
	if markup != nil {
		_, err = b.tb.Send(&tele.User{ID: b.cfg.AdminID}, text, tele.ModeMarkdown, markup)
	} else {
		_, err = b.tb.Send(&tele.User{ID: b.cfg.AdminID}, text, tele.ModeMarkdown)
	}
	if err != nil {
		b.log.Warn("failed to notify admin", sl.Err(err))
	}
}
