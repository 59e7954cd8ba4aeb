package bot

import (
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v3"

	services "github.com/mrwasif-dev/telegram-subs-bot/internal/services/subscription"
)

func (b *Bot) handleSubscribe(c tele.Context) error {
	planID := c.Data()
	plan, err := b.service.GetPlan(planID)
	if err != nil {
		return c.Send("❌ This plan is no longer available. Use /plans to see current plans.")
	}

	text := fmt.Sprintf("You selected *%s* (%d PKR, %d days).\n\nProceed with payment?",
		plan.Name, plan.Price, plan.DurationDays)
	return c.Send(text, tele.ModeMarkdown, paymentConfirmKeyboard(plan.ID))
}

func (b *Bot) handleConfirmPayment(c tele.Context) error {
	id := senderID(c)
	planID := c.Data()

	claim, err := b.service.SelectPlan(id, planID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return c.Send("❌ You are not registered yet. Use /register to create an account.")
		case errors.Is(err, services.ErrPlanNotFound):
			return c.Send("❌ This plan is no longer available. Use /plans to see current plans.")
		}
		return err
	}

	b.notifyAdmin(paymentClaimAdminText(claim), verifyRejectKeyboard(claim.UserID))

	return c.Send(paymentInstructionsText(claim), tele.ModeMarkdown)
}

func (b *Bot) handleAdminVerify(c tele.Context) error {
	userID := c.Data()

	view, err := b.service.VerifyPayment(userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return c.Send("❌ User not found.")
		case errors.Is(err, services.ErrInvalidState):
			return c.Send("❌ This user has no pending payment to verify.")
		}
		return err
	}

	b.notify(userID, fmt.Sprintf(
		"🎉 *Payment Verified!*\n\nYour *%s* subscription is now active.\n⏰ Valid until: %s",
		view.User.PlanName, view.User.ExpiryDate))

	return c.Send(fmt.Sprintf("✅ Payment verified for %s. Subscription active until %s.",
		view.User.Name, view.User.ExpiryDate))
}

func (b *Bot) handleAdminReject(c tele.Context) error {
	userID := c.Data()

	if err := b.service.StartRejection(userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Send("❌ User not found.")
		}
		return err
	}

	// Следующее текстовое сообщение администратора — причина отклонения,
	// активный сценарий её перехватил бы.
	b.sessions.Clear(senderID(c))

	return c.Send("❌ Please type the reason for rejecting this payment:")
}

// finishRejection завершает двухшаговое отклонение: администратор
// прислал текст причины.
func (b *Bot) finishRejection(c tele.Context, userID, reason string) error {
	res, err := b.service.RejectPayment(userID, reason)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Send("❌ User not found.")
		}
		return err
	}

	planName := res.PriorPlanName
	if planName == "" {
		planName = "subscription"
	}
	b.notify(res.UserID, fmt.Sprintf(
		"❌ *Payment Rejected*\n\nYour payment for *%s* was rejected.\n📝 Reason: %s\n\nPlease contact the admin or try again.",
		planName, res.Reason))

	return c.Send(fmt.Sprintf("✅ Payment rejected for %s. The user has been notified.", res.UserName))
}
