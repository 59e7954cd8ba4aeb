package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v3"

	"github.com/mrwasif-dev/telegram-subs-bot/internal/models"
)

// Уникальные идентификаторы callback-кнопок. Обработчики вешаются на
// Unique, полезная нагрузка (идентификатор тарифа или пользователя)
// передаётся в данных кнопки.
var (
	btnMainMenu       = tele.Btn{Unique: "back_to_main"}
	btnDashboard      = tele.Btn{Unique: "user_dashboard"}
	btnPlans          = tele.Btn{Unique: "user_plans"}
	btnRegister       = tele.Btn{Unique: "user_register"}
	btnSettings       = tele.Btn{Unique: "user_settings"}
	btnSubscribe      = tele.Btn{Unique: "user_subscribe"}
	btnConfirmPayment = tele.Btn{Unique: "confirm_payment"}

	btnSettingName     = tele.Btn{Unique: "setting_update_name"}
	btnSettingWhatsApp = tele.Btn{Unique: "setting_update_whatsapp"}
	btnSettingPassword = tele.Btn{Unique: "setting_update_password"}
	btnSettingDelete   = tele.Btn{Unique: "setting_delete_account"}

	btnAdminPanel      = tele.Btn{Unique: "admin_panel"}
	btnAdminUsers      = tele.Btn{Unique: "admin_view_users"}
	btnAdminViewUser   = tele.Btn{Unique: "admin_view_user"}
	btnAdminPlans      = tele.Btn{Unique: "admin_manage_plans"}
	btnAdminAddPlan    = tele.Btn{Unique: "admin_add_plan"}
	btnAdminEditPlan   = tele.Btn{Unique: "admin_edit_plan"}
	btnAdminDeletePlan = tele.Btn{Unique: "admin_delete_plan"}
	btnAdminPending    = tele.Btn{Unique: "admin_verify_payments"}
	btnAdminVerify     = tele.Btn{Unique: "admin_verify"}
	btnAdminReject     = tele.Btn{Unique: "admin_reject"}
	btnAdminDeleteUser = tele.Btn{Unique: "admin_delete_user"}
	btnAdminStats      = tele.Btn{Unique: "admin_stats"}
	btnAdminAnnounce   = tele.Btn{Unique: "admin_send_announcement"}
)

func (b *Bot) mainMenuKeyboard(registered, admin bool) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	var rows []tele.Row

	if registered {
		rows = append(rows,
			m.Row(m.Data("📊 Dashboard", btnDashboard.Unique)),
			m.Row(m.Data("📋 View Plans", btnPlans.Unique)),
			m.Row(m.Data("⚙️ Settings", btnSettings.Unique)),
		)
	} else {
		rows = append(rows, m.Row(m.Data("📝 Register", btnRegister.Unique)))
	}
	if admin {
		rows = append(rows, m.Row(m.Data("👨‍💼 Admin Panel", btnAdminPanel.Unique)))
	}
	m.Inline(rows...)
	return m
}

func dashboardKeyboard(renewable bool) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	rows := []tele.Row{
		m.Row(m.Data("🔄 Refresh", btnDashboard.Unique)),
		m.Row(m.Data("📋 View Plans", btnPlans.Unique)),
	}
	if renewable {
		rows = append(rows, m.Row(m.Data("🔄 Renew/Update Plan", btnPlans.Unique)))
	}
	rows = append(rows, m.Row(m.Data("🔙 Back to Main Menu", btnMainMenu.Unique)))
	m.Inline(rows...)
	return m
}

func plansKeyboard(plans []models.Plan) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, p := range plans {
		rows = append(rows, m.Row(
			m.Data(fmt.Sprintf("📝 Subscribe to %s", p.Name), btnSubscribe.Unique, p.ID),
		))
	}
	rows = append(rows, m.Row(m.Data("🔙 Back to Main Menu", btnMainMenu.Unique)))
	m.Inline(rows...)
	return m
}

func paymentConfirmKeyboard(planID string) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(m.Row(
		m.Data("✅ Confirm Payment", btnConfirmPayment.Unique, planID),
		m.Data("❌ Cancel", btnPlans.Unique),
	))
	return m
}

func settingsKeyboard() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(
		m.Row(m.Data("✏️ Update Name", btnSettingName.Unique)),
		m.Row(m.Data("📞 Update WhatsApp", btnSettingWhatsApp.Unique)),
		m.Row(m.Data("🔑 Change Password", btnSettingPassword.Unique)),
		m.Row(m.Data("🗑️ Delete Account", btnSettingDelete.Unique)),
		m.Row(m.Data("🔙 Back to Dashboard", btnDashboard.Unique)),
	)
	return m
}

func adminPanelKeyboard() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(
		m.Row(m.Data("👥 View All Users", btnAdminUsers.Unique)),
		m.Row(m.Data("📋 Manage Plans", btnAdminPlans.Unique)),
		m.Row(m.Data("💰 Verify Payments", btnAdminPending.Unique)),
		m.Row(m.Data("📢 Send Announcement", btnAdminAnnounce.Unique)),
		m.Row(m.Data("📊 Statistics", btnAdminStats.Unique)),
		m.Row(m.Data("🔙 Back to Main Menu", btnMainMenu.Unique)),
	)
	return m
}

func adminUserKeyboard(userID string) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(
		m.Row(
			m.Data("✅ Verify Payment", btnAdminVerify.Unique, userID),
			m.Data("❌ Reject Payment", btnAdminReject.Unique, userID),
		),
		m.Row(m.Data("🗑️ Delete User", btnAdminDeleteUser.Unique, userID)),
		m.Row(m.Data("🔙 Back to Users List", btnAdminUsers.Unique)),
	)
	return m
}

func verifyRejectKeyboard(userID string) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(m.Row(
		m.Data("✅ Verify Payment", btnAdminVerify.Unique, userID),
		m.Data("❌ Reject Payment", btnAdminReject.Unique, userID),
	))
	return m
}

func backToAdminKeyboard() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(m.Row(m.Data("🔙 Back to Admin Panel", btnAdminPanel.Unique)))
	return m
}
