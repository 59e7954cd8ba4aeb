package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/mrwasif-dev/telegram-subs-bot/internal/lib/validation"
	"github.com/mrwasif-dev/telegram-subs-bot/internal/models"
	services "github.com/mrwasif-dev/telegram-subs-bot/internal/services/subscription"
)

// handleText принимает свободный текст: продвигает активный пошаговый
// сценарий либо, для администратора, достраивает отклонение оплаты
// причиной.
func (b *Bot) handleText(c tele.Context) error {
	id := senderID(c)
	text := strings.TrimSpace(c.Text())

	if sess, ok := b.sessions.Get(id); ok {
		return b.advanceFlow(c, id, sess, text)
	}

	if b.isAdmin(c) {
		if target, ok := b.service.PendingRejectionTarget(); ok {
			return b.finishRejection(c, target, text)
		}
	}

	return c.Send("🤔 I didn't understand that. Use /start to open the menu.")
}

func (b *Bot) advanceFlow(c tele.Context, id string, sess Session, text string) error {
	switch sess.Flow {
	case flowRegister:
		return b.advanceRegistration(c, id, sess, text)
	case flowAddPlan:
		return b.advanceAddPlan(c, id, sess, text)
	case flowEditPlan:
		return b.advanceEditPlan(c, id, sess, text)
	case flowAnnounce:
		b.sessions.Clear(id)
		sent := b.broadcast(text)
		return c.Send(fmt.Sprintf("📢 Announcement delivered to %d user(s).", sent))
	case flowEditName:
		b.sessions.Clear(id)
		if err := b.service.UpdateName(id, text); err != nil {
			if errors.Is(err, services.ErrValidationFailed) {
				return c.Send("❌ Name cannot be empty. Try again from /settings.")
			}
			return err
		}
		return c.Send("✅ Name updated.")
	case flowEditWhatsApp:
		if err := b.service.UpdateWhatsApp(id, text); err != nil {
			if errors.Is(err, services.ErrValidationFailed) {
				return c.Send("❌ Invalid WhatsApp number. It must contain 10 to 13 digits. Try again:")
			}
			return err
		}
		b.sessions.Clear(id)
		return c.Send("✅ WhatsApp number updated.")
	case flowEditPassword:
		if err := b.service.UpdatePassword(id, text); err != nil {
			if errors.Is(err, services.ErrValidationFailed) {
				return c.Send("❌ Weak password. Use at least 8 characters with uppercase, lowercase and a digit. Try again:")
			}
			return err
		}
		b.sessions.Clear(id)
		return c.Send("✅ Password changed.")
	}

	b.sessions.Clear(id)
	return c.Send("Session expired. Use /start to open the menu.")
}

func (b *Bot) advanceRegistration(c tele.Context, id string, sess Session, text string) error {
	switch sess.Step {
	case stepName:
		if text == "" {
			return c.Send("❌ Name cannot be empty. Please enter your full name:")
		}
		sess.Data["name"] = text
		sess.Step = stepWhatsApp
		if err := b.sessions.Update(id, sess); err != nil {
			return err
		}
		return c.Send("📞 Enter your WhatsApp number (e.g. 0300-1234567), or type *skip*:",
			tele.ModeMarkdown)
	case stepWhatsApp:
		if !strings.EqualFold(text, "skip") {
			if !validation.WhatsAppNumber(text) {
				return c.Send("❌ Invalid WhatsApp number. It must contain 10 to 13 digits. Try again or type *skip*:",
					tele.ModeMarkdown)
			}
			sess.Data["whatsapp"] = text
		}
		sess.Step = stepPassword
		if err := b.sessions.Update(id, sess); err != nil {
			return err
		}
		return c.Send("🔑 Choose a password (min 8 characters, with uppercase, lowercase and a digit):")
	case stepPassword:
		if !validation.Password(text) {
			return c.Send("❌ Weak password. Use at least 8 characters with uppercase, lowercase and a digit. Try again:")
		}
		view, err := b.service.Register(id, sess.Data["name"], sess.Data["whatsapp"], text)
		if err != nil {
			b.sessions.Clear(id)
			if errors.Is(err, services.ErrAlreadyRegistered) {
				return c.Send("✅ You are already registered! Use /dashboard to view your account.")
			}
			return err
		}
		b.sessions.Clear(id)
		return c.Send(fmt.Sprintf("🎉 *Registration Complete!*\n\nWelcome, *%s*! Now pick a plan to get started.",
			view.User.Name), tele.ModeMarkdown, b.mainMenuKeyboard(true, b.isAdmin(c)))
	}
	b.sessions.Clear(id)
	return c.Send("Session expired. Use /register to start again.")
}

func (b *Bot) advanceAddPlan(c tele.Context, id string, sess Session, text string) error {
	switch sess.Step {
	case stepPlanID:
		if text == "" || strings.ContainsAny(text, " \t") {
			return c.Send("❌ Plan id must be a single word. Try again:")
		}
		sess.Data["id"] = text
		sess.Step = stepPlanName
		if err := b.sessions.Update(id, sess); err != nil {
			return err
		}
		return c.Send("Enter the plan name:")
	case stepPlanName:
		if text == "" {
			return c.Send("❌ Name cannot be empty. Try again:")
		}
		sess.Data["name"] = text
		sess.Step = stepPlanPrice
		if err := b.sessions.Update(id, sess); err != nil {
			return err
		}
		return c.Send("Enter the price in PKR:")
	case stepPlanPrice:
		if !validation.Price(text) {
			return c.Send("❌ Price must be a whole number greater than zero. Try again:")
		}
		sess.Data["price"] = text
		sess.Step = stepPlanDuration
		if err := b.sessions.Update(id, sess); err != nil {
			return err
		}
		return c.Send("Enter the duration in days:")
	case stepPlanDuration:
		if !validation.Duration(text) {
			return c.Send("❌ Duration must be a whole number of days greater than zero. Try again:")
		}
		sess.Data["duration"] = text
		sess.Step = stepPlanDevices
		if err := b.sessions.Update(id, sess); err != nil {
			return err
		}
		return c.Send("Enter the device limit (1-5):")
	case stepPlanDevices:
		if !validation.Devices(text) {
			return c.Send("❌ Device limit must be between 1 and 5. Try again:")
		}
		sess.Data["devices"] = text
		sess.Step = stepPlanFeatures
		if err := b.sessions.Update(id, sess); err != nil {
			return err
		}
		return c.Send("Describe the plan features (one line):")
	case stepPlanFeatures:
		price, _ := strconv.Atoi(sess.Data["price"])
		duration, _ := strconv.Atoi(sess.Data["duration"])
		devices, _ := strconv.Atoi(sess.Data["devices"])
		req := models.DummyPlan{
			ID:           sess.Data["id"],
			Name:         sess.Data["name"],
			Price:        price,
			DurationDays: duration,
			Features:     text,
			DeviceLimit:  devices,
			Active:       true,
		}
		b.sessions.Clear(id)
		if err := b.service.AddPlan(req); err != nil {
			if errors.Is(err, services.ErrValidationFailed) {
				return c.Send("❌ Could not add the plan: a plan with this id already exists or a field is invalid.")
			}
			return err
		}
		return c.Send(fmt.Sprintf("✅ Plan *%s* added.", req.Name),
			tele.ModeMarkdown, backToAdminKeyboard())
	}
	b.sessions.Clear(id)
	return c.Send("Session expired. Use /admin to start again.")
}

func (b *Bot) advanceEditPlan(c tele.Context, id string, sess Session, text string) error {
	switch sess.Step {
	case stepPlanField:
		field := strings.ToLower(text)
		switch field {
		case "name", "price", "duration", "devices", "features", "active":
		default:
			return c.Send("❌ Unknown field. Type one of: name, price, duration, devices, features, active")
		}
		sess.Data["field"] = field
		sess.Step = stepPlanValue
		if err := b.sessions.Update(id, sess); err != nil {
			return err
		}
		if field == "active" {
			return c.Send("Enter the new value (yes/no):")
		}
		return c.Send("Enter the new value:")
	case stepPlanValue:
		patch, err := buildPlanPatch(sess.Data["field"], text)
		if err != nil {
			return c.Send("❌ " + err.Error() + " Try again:")
		}
		planID := sess.Data["plan_id"]
		b.sessions.Clear(id)
		if err := b.service.UpdatePlan(planID, patch); err != nil {
			switch {
			case errors.Is(err, services.ErrPlanNotFound):
				return c.Send("❌ Plan not found.")
			case errors.Is(err, services.ErrValidationFailed):
				return c.Send("❌ Invalid value for this field.")
			}
			return err
		}
		return c.Send("✅ Plan updated.", backToAdminKeyboard())
	}
	b.sessions.Clear(id)
	return c.Send("Session expired. Use /admin to start again.")
}

// buildPlanPatch собирает частичное обновление тарифа из пары полей
// "поле, значение", введённой администратором.
func buildPlanPatch(field, value string) (models.PlanPatch, error) {
	var patch models.PlanPatch
	switch field {
	case "name":
		if value == "" {
			return patch, errors.New("name cannot be empty.")
		}
		patch.Name = &value
	case "features":
		patch.Features = &value
	case "price":
		if !validation.Price(value) {
			return patch, errors.New("price must be a whole number greater than zero.")
		}
		n, _ := strconv.Atoi(value)
		patch.Price = &n
	case "duration":
		if !validation.Duration(value) {
			return patch, errors.New("duration must be a whole number of days greater than zero.")
		}
		n, _ := strconv.Atoi(value)
		patch.DurationDays = &n
	case "devices":
		if !validation.Devices(value) {
			return patch, errors.New("device limit must be between 1 and 5.")
		}
		n, _ := strconv.Atoi(value)
		patch.DeviceLimit = &n
	case "active":
		switch strings.ToLower(value) {
		case "yes", "y", "true", "on":
			v := true
			patch.Active = &v
		case "no", "n", "false", "off":
			v := false
			patch.Active = &v
		default:
			return patch, errors.New("answer yes or no.")
		}
	default:
		return patch, errors.New("unknown field.")
	}
	return patch, nil
}
