package bot

import (
	"errors"

	tele "gopkg.in/telebot.v3"

	services "github.com/mrwasif-dev/telegram-subs-bot/internal/services/subscription"
)

func (b *Bot) handleStart(c tele.Context) error {
	id := senderID(c)
	b.sessions.Clear(id)

	view, err := b.service.View(id)
	registered := err == nil
	name := ""
	if registered {
		name = view.User.Name
	}
	return c.Send(welcomeText(name, registered),
		tele.ModeMarkdown, b.mainMenuKeyboard(registered, b.isAdmin(c)))
}

func (b *Bot) handleHelp(c tele.Context) error {
	return c.Send(helpText(b.isAdmin(c)), tele.ModeMarkdown)
}

func (b *Bot) handleDashboard(c tele.Context) error {
	id := senderID(c)
	view, err := b.service.View(id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Send("❌ You are not registered yet. Use /register to create an account.")
		}
		return err
	}
	renewable := view.User.HasPlan() && view.Expired
	return c.Send(dashboardText(view), tele.ModeMarkdown, dashboardKeyboard(renewable))
}

func (b *Bot) handlePlans(c tele.Context) error {
	id := senderID(c)
	if _, err := b.service.View(id); err != nil {
		return c.Send("❌ You are not registered yet. Use /register to create an account.")
	}
	plans := b.service.ListPlans(true)
	return c.Send(plansText(plans), tele.ModeMarkdown, plansKeyboard(plans))
}

func (b *Bot) handleRegister(c tele.Context) error {
	id := senderID(c)
	if _, err := b.service.View(id); err == nil {
		return c.Send("✅ You are already registered! Use /dashboard to view your account.")
	}
	if err := b.sessions.Start(id, flowRegister, stepName); err != nil {
		return err
	}
	return c.Send("📝 *Registration*\n\nPlease enter your full name:", tele.ModeMarkdown)
}

func (b *Bot) handleSettings(c tele.Context) error {
	id := senderID(c)
	if _, err := b.service.View(id); err != nil {
		return c.Send("❌ You are not registered yet. Use /register to create an account.")
	}
	return c.Send("⚙️ *Settings*\n\nWhat would you like to update?",
		tele.ModeMarkdown, settingsKeyboard())
}

func (b *Bot) handleSettingName(c tele.Context) error {
	id := senderID(c)
	if err := b.sessions.Start(id, flowEditName, stepName); err != nil {
		return err
	}
	return c.Send("✏️ Enter your new name:")
}

func (b *Bot) handleSettingWhatsApp(c tele.Context) error {
	id := senderID(c)
	if err := b.sessions.Start(id, flowEditWhatsApp, stepWhatsApp); err != nil {
		return err
	}
	return c.Send("📞 Enter your new WhatsApp number (e.g. 0300-1234567):")
}

func (b *Bot) handleSettingPassword(c tele.Context) error {
	id := senderID(c)
	if err := b.sessions.Start(id, flowEditPassword, stepPassword); err != nil {
		return err
	}
	return c.Send("🔑 Enter your new password (min 8 characters, with uppercase, lowercase and a digit):")
}

func (b *Bot) handleSettingDelete(c tele.Context) error {
	id := senderID(c)
	if err := b.service.DeleteUser(id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Send("❌ Account not found.")
		}
		return err
	}
	b.sessions.Clear(id)
	return c.Send("🗑️ Your account has been deleted. Use /register to start again.")
}
