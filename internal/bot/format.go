package bot

import (
	"fmt"
	"strings"

	"github.com/mrwasif-dev/telegram-subs-bot/internal/models"
)

// Текстовые блоки экранов. Вынесены из обработчиков, чтобы их можно
// было проверить тестами без запуска бота.

func welcomeText(name string, registered bool) string {
	var sb strings.Builder
	sb.WriteString("👋 *Welcome to WhatsApp Link Service!*\n\n")
	if registered {
		fmt.Fprintf(&sb, "Hello, *%s*!\n\n", name)
		sb.WriteString("Use the menu below to manage your subscription.")
	} else {
		sb.WriteString("To get started, please register an account.")
	}
	return sb.String()
}

func helpText(admin bool) string {
	var sb strings.Builder
	sb.WriteString("ℹ️ *Available Commands*\n\n")
	sb.WriteString("/start - Main menu\n")
	sb.WriteString("/register - Create an account\n")
	sb.WriteString("/dashboard - Your subscription status\n")
	sb.WriteString("/plans - Available plans\n")
	sb.WriteString("/settings - Account settings\n")
	if admin {
		sb.WriteString("\n*Admin Commands*\n")
		sb.WriteString("/admin - Admin panel\n")
		sb.WriteString("/users - List all users\n")
		sb.WriteString("/stats - Service statistics\n")
		sb.WriteString("/announce - Broadcast a message\n")
	}
	return sb.String()
}

func stateLabel(state models.SubscriptionState) string {
	switch state {
	case models.StateActive:
		return "✅ Active"
	case models.StatePendingPayment:
		return "⏳ Pending Payment Verification"
	case models.StateExpired:
		return "❌ Expired"
	default:
		return "➖ No Plan Selected"
	}
}

func dashboardText(v models.UserView) string {
	u := v.User
	var sb strings.Builder
	sb.WriteString("📊 *Your Dashboard*\n\n")
	fmt.Fprintf(&sb, "👤 Name: %s\n", u.Name)
	if u.WhatsAppNumber != "" {
		fmt.Fprintf(&sb, "📞 WhatsApp: %s\n", u.WhatsAppNumber)
	}
	fmt.Fprintf(&sb, "📅 Registered: %s\n\n", u.RegisterDate)

	fmt.Fprintf(&sb, "Status: %s\n", stateLabel(v.State))
	if u.HasPlan() {
		fmt.Fprintf(&sb, "📋 Plan: %s\n", u.PlanName)
		fmt.Fprintf(&sb, "📱 Devices: %d\n", u.DeviceLimit)
	}
	switch v.State {
	case models.StateActive:
		fmt.Fprintf(&sb, "⏰ Expires: %s\n", u.ExpiryDate)
	case models.StateExpired:
		fmt.Fprintf(&sb, "⏰ Expired on: %s\n", u.ExpiryDate)
		sb.WriteString("\nPlease renew your plan to continue using the service.")
	case models.StatePendingPayment:
		fmt.Fprintf(&sb, "🧾 Claimed: %s\n", u.PaymentDate)
		sb.WriteString("\nYour payment is awaiting admin verification.")
	case models.StateNoPlan:
		sb.WriteString("\nChoose a plan to activate your subscription.")
	}
	return sb.String()
}

func planText(p models.Plan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*\n", p.Name)
	fmt.Fprintf(&sb, "💰 Price: %d PKR\n", p.Price)
	fmt.Fprintf(&sb, "⏰ Duration: %d days\n", p.DurationDays)
	fmt.Fprintf(&sb, "📱 Devices: %d\n", p.DeviceLimit)
	if p.Features != "" {
		fmt.Fprintf(&sb, "✨ Features: %s\n", p.Features)
	}
	return sb.String()
}

func plansText(plans []models.Plan) string {
	if len(plans) == 0 {
		return "😕 No plans are available right now. Please check back later."
	}
	var sb strings.Builder
	sb.WriteString("📋 *Available Plans*\n\n")
	for _, p := range plans {
		sb.WriteString(planText(p))
		sb.WriteString("\n")
	}
	sb.WriteString("Select a plan below to subscribe:")
	return sb.String()
}

func paymentInstructionsText(claim models.PaymentClaim) string {
	p := claim.Plan
	var sb strings.Builder
	sb.WriteString("💳 *Payment Instructions*\n\n")
	fmt.Fprintf(&sb, "Plan: *%s*\n", p.Name)
	fmt.Fprintf(&sb, "Amount: *%d PKR*\n", p.Price)
	fmt.Fprintf(&sb, "Transaction ID: `%s`\n\n", claim.TransactionID)
	sb.WriteString("Please transfer the amount to:\n")
	sb.WriteString("🏦 EasyPaisa / JazzCash: 0300-0000000\n\n")
	sb.WriteString("After payment, press *Confirm Payment* and send the ")
	sb.WriteString("screenshot with your transaction ID to the admin.")
	return sb.String()
}

func paymentClaimAdminText(claim models.PaymentClaim) string {
	var sb strings.Builder
	sb.WriteString("💰 *New Payment Claim*\n\n")
	fmt.Fprintf(&sb, "👤 User: %s (`%s`)\n", claim.UserName, claim.UserID)
	fmt.Fprintf(&sb, "📋 Plan: %s\n", claim.Plan.Name)
	fmt.Fprintf(&sb, "💵 Amount: %d PKR\n", claim.Plan.Price)
	fmt.Fprintf(&sb, "🧾 Transaction ID: `%s`\n", claim.TransactionID)
	return sb.String()
}

func adminUserText(v models.UserView) string {
	u := v.User
	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 *%s* (`%s`)\n", u.Name, v.ID)
	if u.WhatsAppNumber != "" {
		fmt.Fprintf(&sb, "📞 WhatsApp: %s\n", u.WhatsAppNumber)
	}
	fmt.Fprintf(&sb, "📅 Registered: %s\n", u.RegisterDate)
	fmt.Fprintf(&sb, "Status: %s\n", stateLabel(v.State))
	if u.HasPlan() {
		fmt.Fprintf(&sb, "📋 Plan: %s\n", u.PlanName)
	}
	if !u.PaymentDate.IsZero() {
		fmt.Fprintf(&sb, "🧾 Payment claimed: %s\n", u.PaymentDate)
	}
	if !u.VerifiedDate.IsZero() {
		fmt.Fprintf(&sb, "✅ Verified: %s\n", u.VerifiedDate)
	}
	if !u.ExpiryDate.IsZero() {
		fmt.Fprintf(&sb, "⏰ Expires: %s\n", u.ExpiryDate)
	}
	return sb.String()
}

func statsText(st models.Stats) string {
	var sb strings.Builder
	sb.WriteString("📊 *Service Statistics*\n\n")
	fmt.Fprintf(&sb, "👥 Total users: %d\n", st.TotalUsers)
	fmt.Fprintf(&sb, "✅ Active subscriptions: %d\n", st.ActiveSubs)
	fmt.Fprintf(&sb, "⏳ Pending payments: %d\n", st.PendingPayments)
	fmt.Fprintf(&sb, "💰 Revenue: %d PKR\n", st.Revenue)
	fmt.Fprintf(&sb, "📋 Plans: %d\n", st.PlanCount)
	return sb.String()
}
