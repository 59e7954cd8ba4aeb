package bot

import (
	"fmt"
	"time"

	"github.com/mrwasif-dev/telegram-subs-bot/internal/cache"
)

// Сценарии пошагового ввода текста.
const (
	flowRegister     = "register"
	flowAddPlan      = "add_plan"
	flowEditPlan     = "edit_plan"
	flowAnnounce     = "announce"
	flowEditName     = "edit_name"
	flowEditWhatsApp = "edit_whatsapp"
	flowEditPassword = "edit_password"
)

// Шаги сценариев.
const (
	stepName         = "name"
	stepWhatsApp     = "whatsapp"
	stepPassword     = "password"
	stepPlanID       = "plan_id"
	stepPlanName     = "plan_name"
	stepPlanPrice    = "plan_price"
	stepPlanDuration = "plan_duration"
	stepPlanDevices  = "plan_devices"
	stepPlanFeatures = "plan_features"
	stepPlanField    = "plan_field"
	stepPlanValue    = "plan_value"
	stepMessage      = "message"
)

// sessionTTL — время жизни незавершённого сценария.
const sessionTTL = 30 * time.Minute

// Session — состояние пошагового сценария одного чата. Хранится в
// кеше и не переживает его очистку, что для диалогового состояния
// приемлемо.
type Session struct {
	Flow string            `json:"flow"`
	Step string            `json:"step"`
	Data map[string]string `json:"data,omitempty"`
}

// Sessions хранит состояния диалогов поверх кеша.
type Sessions struct {
	cache cache.Cache
}

// NewSessions создаёт хранилище сессий.
func NewSessions(c cache.Cache) *Sessions {
	return &Sessions{cache: c}
}

func sessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}

// Get возвращает активную сессию чата, если она есть.
func (s *Sessions) Get(userID string) (Session, bool) {
	var sess Session
	found, err := s.cache.Get(sessionKey(userID), &sess)
	if err != nil || !found {
		return Session{}, false
	}
	return sess, true
}

// Start открывает новый сценарий, затирая предыдущий.
func (s *Sessions) Start(userID, flow, step string) error {
	return s.cache.Set(sessionKey(userID), Session{
		Flow: flow,
		Step: step,
		Data: make(map[string]string),
	}, sessionTTL)
}

// Update сохраняет продвижение сценария.
func (s *Sessions) Update(userID string, sess Session) error {
	return s.cache.Set(sessionKey(userID), sess, sessionTTL)
}

// Clear завершает сценарий.
func (s *Sessions) Clear(userID string) {
	_ = s.cache.Invalidate(sessionKey(userID))
}
