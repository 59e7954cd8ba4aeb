package bot

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/mrwasif-dev/telegram-subs-bot/internal/lib/sl"
	services "github.com/mrwasif-dev/telegram-subs-bot/internal/services/subscription"
)

func (b *Bot) handleAdminPanel(c tele.Context) error {
	return c.Send("👨‍💼 *Admin Panel*\n\nChoose an action:",
		tele.ModeMarkdown, adminPanelKeyboard())
}

func (b *Bot) handleAdminUsers(c tele.Context) error {
	users := b.service.Users()
	if len(users) == 0 {
		return c.Send("👥 No registered users yet.", backToAdminKeyboard())
	}

	ids := make([]string, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	m := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, id := range ids {
		u := users[id]
		label := u.Name
		if u.HasPlan() {
			label = fmt.Sprintf("%s — %s", u.Name, u.PlanName)
		}
		rows = append(rows, m.Row(m.Data(label, btnAdminViewUser.Unique, id)))
	}
	rows = append(rows, m.Row(m.Data("🔙 Back to Admin Panel", btnAdminPanel.Unique)))
	m.Inline(rows...)

	return c.Send(fmt.Sprintf("👥 *All Users* (%d)\n\nSelect a user for details:", len(ids)),
		tele.ModeMarkdown, m)
}

func (b *Bot) handleAdminViewUser(c tele.Context) error {
	userID := c.Data()
	view, err := b.service.View(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Send("❌ User not found.")
		}
		return err
	}
	return c.Send(adminUserText(view), tele.ModeMarkdown, adminUserKeyboard(userID))
}

func (b *Bot) handleAdminDeleteUser(c tele.Context) error {
	userID := c.Data()
	if err := b.service.DeleteUser(userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Send("❌ User not found.")
		}
		return err
	}
	return c.Send("🗑️ User deleted.", backToAdminKeyboard())
}

func (b *Bot) handleAdminPlans(c tele.Context) error {
	plans := b.service.ListPlans(false)

	m := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, p := range plans {
		status := "✅"
		if !p.Active {
			status = "🚫"
		}
		rows = append(rows, m.Row(
			m.Data(fmt.Sprintf("✏️ %s %s", status, p.Name), btnAdminEditPlan.Unique, p.ID),
			m.Data("🗑️", btnAdminDeletePlan.Unique, p.ID),
		))
	}
	rows = append(rows,
		m.Row(m.Data("➕ Add New Plan", btnAdminAddPlan.Unique)),
		m.Row(m.Data("🔙 Back to Admin Panel", btnAdminPanel.Unique)),
	)
	m.Inline(rows...)

	var sb strings.Builder
	sb.WriteString("📋 *Manage Plans*\n\n")
	if len(plans) == 0 {
		sb.WriteString("No plans configured yet.")
	} else {
		for _, p := range plans {
			sb.WriteString(planText(p))
			if !p.Active {
				sb.WriteString("🚫 Inactive\n")
			}
			sb.WriteString("\n")
		}
	}
	return c.Send(sb.String(), tele.ModeMarkdown, m)
}

func (b *Bot) handleAdminAddPlan(c tele.Context) error {
	id := senderID(c)
	if err := b.sessions.Start(id, flowAddPlan, stepPlanID); err != nil {
		return err
	}
	return c.Send("➕ *New Plan*\n\nEnter a unique plan id (e.g. plan_750):", tele.ModeMarkdown)
}

func (b *Bot) handleAdminEditPlan(c tele.Context) error {
	id := senderID(c)
	planID := c.Data()

	if _, err := b.service.GetPlan(planID); err != nil {
		return c.Send("❌ Plan not found.")
	}

	sess := Session{
		Flow: flowEditPlan,
		Step: stepPlanField,
		Data: map[string]string{"plan_id": planID},
	}
	if err := b.sessions.Update(id, sess); err != nil {
		return err
	}
	return c.Send("✏️ Which field do you want to change?\n\n" +
		"Type one of: name, price, duration, devices, features, active")
}

func (b *Bot) handleAdminDeletePlan(c tele.Context) error {
	planID := c.Data()
	if err := b.service.RemovePlan(planID); err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			return c.Send("❌ Plan not found.")
		}
		return err
	}
	return c.Send("🗑️ Plan deleted. Existing subscriptions keep their terms.", backToAdminKeyboard())
}

func (b *Bot) handleAdminPending(c tele.Context) error {
	pending := b.service.PendingPayments()
	if len(pending) == 0 {
		return c.Send("✅ No pending payments.", backToAdminKeyboard())
	}

	for _, v := range pending {
		if err := c.Send(adminUserText(v), tele.ModeMarkdown, verifyRejectKeyboard(v.ID)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) handleAdminStats(c tele.Context) error {
	return c.Send(statsText(b.service.Stats()), tele.ModeMarkdown, backToAdminKeyboard())
}

func (b *Bot) handleAdminAnnounce(c tele.Context) error {
	id := senderID(c)
	if err := b.sessions.Start(id, flowAnnounce, stepMessage); err != nil {
		return err
	}
	return c.Send("📢 Type the announcement to broadcast to all users:")
}

// broadcast рассылает объявление всем пользователям. Доставка
// best-effort, возвращает число успешных отправок.
func (b *Bot) broadcast(text string) int {
	users := b.service.Users()
	sent := 0
	for id := range users {
		rid, err := parseChatID(id)
		if err != nil {
			continue
		}
		if _, err := b.tb.Send(&tele.User{ID: rid}, "📢 *Announcement*\n\n"+text, tele.ModeMarkdown); err != nil {
			b.log.Warn("broadcast delivery failed", sl.UserID(id), sl.Err(err))
			continue
		}
		sent++
	}
	return sent
}
