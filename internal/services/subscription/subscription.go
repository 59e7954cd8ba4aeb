// Package services содержит бизнес-логику жизненного цикла подписки:
// регистрацию, выбор тарифа, подтверждение и отклонение оплаты,
// расчёт даты окончания. Состояния пользователя: без тарифа → ожидание
// оплаты → активна | отклонена (возврат к "без тарифа"); истечение
// вычисляется по текущей дате и не хранится.
package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/mrwasif-dev/telegram-subs-bot/internal/lib/dates"
	"github.com/mrwasif-dev/telegram-subs-bot/internal/lib/password"
	"github.com/mrwasif-dev/telegram-subs-bot/internal/lib/validation"
	"github.com/mrwasif-dev/telegram-subs-bot/internal/metrics"
	"github.com/mrwasif-dev/telegram-subs-bot/internal/models"
	"github.com/mrwasif-dev/telegram-subs-bot/internal/storage"
)

// Типизированные ошибки ожидаемых отказов. Фронтенд переводит их в
// текст для пользователя, за границу сервиса они не "пролетают"
// незавёрнутыми.
var (
	// ErrUserNotFound — пользователь с таким идентификатором не зарегистрирован.
	ErrUserNotFound = errors.New("user not found")
	// ErrPlanNotFound — тариф с таким идентификатором не существует.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrInvalidState — операция запрещена в текущем состоянии подписки.
	ErrInvalidState = errors.New("invalid subscription state")
	// ErrValidationFailed — ввод не прошёл проверку.
	ErrValidationFailed = errors.New("validation failed")
	// ErrAlreadyRegistered — повторная регистрация того же чата.
	ErrAlreadyRegistered = errors.New("user already registered")
)

// Store определяет методы хранилища, нужные жизненному циклу подписки.
type Store interface {
	User(id string) (models.User, bool)
	SaveUser(id string, u models.User)
	DeleteUser(id string)
	Users() map[string]models.User

	Plan(id string) (models.Plan, bool)
	PlanByName(name string) (models.Plan, bool)
	ActivePlans() []models.Plan
	Plans() []models.Plan
	AddPlan(p models.Plan)
	UpdatePlan(id string, patch models.PlanPatch) bool
	DeletePlan(id string) bool

	PendingRejection(id string) (string, bool)
	PendingRejections() map[string]string
	SetPendingRejection(id, reason string)
	DeletePendingRejection(id string)
}

// SubscriptionService реализует операции жизненного цикла подписки
// поверх хранилища записей.
type SubscriptionService struct {
	store    Store
	log      *slog.Logger
	validate *validator.Validate
	today    func() dates.Date
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
// offsetHours — фиксированное смещение часового пояса для всей
// календарной арифметики.
func NewSubscriptionService(store Store, log *slog.Logger, offsetHours int) *SubscriptionService {
	return &SubscriptionService{
		store:    store,
		log:      log,
		validate: validator.New(),
		today:    func() dates.Date { return dates.Today(offsetHours) },
	}
}

// Register создаёт запись пользователя без тарифа. Номер WhatsApp
// опционален, пароль обязателен и хранится bcrypt-хешем.
func (s *SubscriptionService) Register(id, name, whatsapp, plainPassword string) (models.UserView, error) {
	const op = "services.subscription.Register"

	if _, exists := s.store.User(id); exists {
		return models.UserView{}, fmt.Errorf("%s: %w", op, ErrAlreadyRegistered)
	}
	if name == "" {
		return models.UserView{}, fmt.Errorf("%s: empty name: %w", op, ErrValidationFailed)
	}
	if whatsapp != "" && !validation.WhatsAppNumber(whatsapp) {
		return models.UserView{}, fmt.Errorf("%s: whatsapp number: %w", op, ErrValidationFailed)
	}
	if !validation.Password(plainPassword) {
		return models.UserView{}, fmt.Errorf("%s: weak password: %w", op, ErrValidationFailed)
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return models.UserView{}, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Name:           name,
		WhatsAppNumber: whatsapp,
		PasswordHash:   hash,
		RegisterDate:   s.today(),
	}
	s.store.SaveUser(id, user)
	metrics.Registrations.Inc()
	s.log.Info("registered new user", slog.String("user_id", id))

	return s.view(id, user), nil
}

// View возвращает запись пользователя с вычисленным состоянием подписки.
func (s *SubscriptionService) View(id string) (models.UserView, error) {
	const op = "services.subscription.View"
	user, ok := s.store.User(id)
	if !ok {
		return models.UserView{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return s.view(id, user), nil
}

// IsExpired сообщает, истекла ли подписка: дата окончания не
// установлена либо строго раньше сегодняшнего дня. Никогда не
// подписывавшийся пользователь считается истёкшим.
func (s *SubscriptionService) IsExpired(u models.User) bool {
	if u.ExpiryDate.IsZero() {
		return true
	}
	return u.ExpiryDate.Before(s.today())
}

func (s *SubscriptionService) view(id string, u models.User) models.UserView {
	expired := s.IsExpired(u)
	state := models.StateNoPlan
	switch {
	case u.HasPlan() && u.PaymentVerified && !expired:
		state = models.StateActive
	case u.HasPlan() && u.PaymentVerified && expired:
		state = models.StateExpired
	case u.HasPlan():
		state = models.StatePendingPayment
	}
	return models.UserView{ID: id, User: u, State: state, Expired: expired}
}

// ListPlans возвращает тарифы: только активные либо все.
func (s *SubscriptionService) ListPlans(activeOnly bool) []models.Plan {
	if activeOnly {
		return s.store.ActivePlans()
	}
	return s.store.Plans()
}

// GetPlan возвращает тариф по идентификатору, включая неактивные.
func (s *SubscriptionService) GetPlan(id string) (models.Plan, error) {
	const op = "services.subscription.GetPlan"
	plan, ok := s.store.Plan(id)
	if !ok {
		return models.Plan{}, fmt.Errorf("%s: %w", op, ErrPlanNotFound)
	}
	return plan, nil
}

// SelectPlan оформляет заявку на оплату: копирует название тарифа и
// лимит устройств в запись пользователя, сбрасывает подтверждение и
// дату окончания, ставит дату заявки. Возвращает заявку с
// идентификатором транзакции для скриншота оплаты.
func (s *SubscriptionService) SelectPlan(userID, planID string) (models.PaymentClaim, error) {
	const op = "services.subscription.SelectPlan"

	user, ok := s.store.User(userID)
	if !ok {
		return models.PaymentClaim{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	plan, ok := s.store.Plan(planID)
	if !ok {
		return models.PaymentClaim{}, fmt.Errorf("%s: %w", op, ErrPlanNotFound)
	}

	user.PlanName = plan.Name
	user.DeviceLimit = plan.DeviceLimit
	user.PaymentVerified = false
	user.PaymentDate = s.today()
	user.ExpiryDate = dates.Date{}
	s.store.SaveUser(userID, user)

	metrics.PaymentClaims.Inc()
	s.log.Info("plan selected, payment pending",
		slog.String("user_id", userID), slog.String("plan_id", planID))

	return models.PaymentClaim{
		TransactionID: "TXN-" + uuid.New().String(),
		UserID:        userID,
		UserName:      user.Name,
		Plan:          plan,
	}, nil
}

// VerifyPayment подтверждает оплату: разрешает тариф по сохранённому
// названию, считает дату окончания и помечает подписку активной.
// Срок отсчитывается от даты заявки, поэтому не зависит от времени
// суток подтверждения; если подтверждение пришло уже за пределами
// оплаченного окна, отсчёт идёт от сегодняшнего дня, чтобы дата
// окончания не оказалась в прошлом.
func (s *SubscriptionService) VerifyPayment(userID string) (models.UserView, error) {
	const op = "services.subscription.VerifyPayment"

	user, ok := s.store.User(userID)
	if !ok {
		return models.UserView{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if !user.HasPlan() {
		return models.UserView{}, fmt.Errorf("%s: no plan selected: %w", op, ErrInvalidState)
	}
	plan, ok := s.store.PlanByName(user.PlanName)
	if !ok {
		return models.UserView{}, fmt.Errorf("%s: plan %q no longer exists: %w", op, user.PlanName, ErrInvalidState)
	}

	today := s.today()
	anchor := user.PaymentDate
	if anchor.IsZero() {
		anchor = today
	}
	expiry := anchor.AddDays(plan.DurationDays)
	if expiry.Before(today) {
		expiry = today.AddDays(plan.DurationDays)
	}

	user.PaymentVerified = true
	user.VerifiedDate = today
	user.ExpiryDate = expiry
	s.store.SaveUser(userID, user)

	metrics.PaymentsVerified.Inc()
	s.log.Info("payment verified",
		slog.String("user_id", userID),
		slog.String("plan", plan.Name),
		slog.String("expiry", expiry.String()))

	return s.view(userID, user), nil
}

// StartRejection начинает двухшаговое отклонение оплаты: запоминает
// маркер "ожидается причина" для пользователя.
func (s *SubscriptionService) StartRejection(userID string) error {
	const op = "services.subscription.StartRejection"
	if _, ok := s.store.User(userID); !ok {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	s.store.SetPendingRejection(userID, storage.RejectionPending)
	return nil
}

// PendingRejectionTarget возвращает пользователя, для которого
// администратор ещё не ввёл причину отклонения.
func (s *SubscriptionService) PendingRejectionTarget() (string, bool) {
	for userID, reason := range s.store.PendingRejections() {
		if reason == storage.RejectionPending {
			return userID, true
		}
	}
	return "", false
}

// RejectResult — результат отклонения оплаты. PriorPlanName снимается
// до очистки полей, чтобы уведомление пользователю называло тариф,
// который был отклонён.
type RejectResult struct {
	UserID        string
	UserName      string
	PriorPlanName string
	Reason        string
}

// RejectPayment отклоняет оплату: сбрасывает тариф, подтверждение,
// дату окончания и лимит устройств независимо от предыдущего
// состояния. Пользователь возвращается в состояние "без тарифа".
func (s *SubscriptionService) RejectPayment(userID, reason string) (RejectResult, error) {
	const op = "services.subscription.RejectPayment"

	user, ok := s.store.User(userID)
	if !ok {
		return RejectResult{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	result := RejectResult{
		UserID:        userID,
		UserName:      user.Name,
		PriorPlanName: user.PlanName,
		Reason:        reason,
	}

	user.PlanName = ""
	user.PaymentVerified = false
	user.ExpiryDate = dates.Date{}
	user.DeviceLimit = 0
	s.store.SaveUser(userID, user)
	s.store.DeletePendingRejection(userID)

	metrics.PaymentsRejected.Inc()
	s.log.Info("payment rejected",
		slog.String("user_id", userID), slog.String("reason", reason))

	return result, nil
}

// DeleteUser удаляет запись пользователя.
func (s *SubscriptionService) DeleteUser(userID string) error {
	const op = "services.subscription.DeleteUser"
	if _, ok := s.store.User(userID); !ok {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	s.store.DeleteUser(userID)
	s.store.DeletePendingRejection(userID)
	s.log.Info("user deleted", slog.String("user_id", userID))
	return nil
}

// UpdateName меняет имя пользователя.
func (s *SubscriptionService) UpdateName(userID, name string) error {
	const op = "services.subscription.UpdateName"
	user, ok := s.store.User(userID)
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if name == "" {
		return fmt.Errorf("%s: empty name: %w", op, ErrValidationFailed)
	}
	user.Name = name
	s.store.SaveUser(userID, user)
	return nil
}

// UpdateWhatsApp меняет номер WhatsApp после проверки формы номера.
func (s *SubscriptionService) UpdateWhatsApp(userID, number string) error {
	const op = "services.subscription.UpdateWhatsApp"
	user, ok := s.store.User(userID)
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if !validation.WhatsAppNumber(number) {
		return fmt.Errorf("%s: whatsapp number: %w", op, ErrValidationFailed)
	}
	user.WhatsAppNumber = number
	s.store.SaveUser(userID, user)
	return nil
}

// UpdatePassword меняет пароль после проверки стойкости.
func (s *SubscriptionService) UpdatePassword(userID, plainPassword string) error {
	const op = "services.subscription.UpdatePassword"
	user, ok := s.store.User(userID)
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if !validation.Password(plainPassword) {
		return fmt.Errorf("%s: weak password: %w", op, ErrValidationFailed)
	}
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	user.PasswordHash = hash
	s.store.SaveUser(userID, user)
	return nil
}

// Users возвращает все записи пользователей для административных
// операций: списка пользователей и рассылки объявлений.
func (s *SubscriptionService) Users() map[string]models.User {
	return s.store.Users()
}

// AddPlan добавляет новый тариф после валидации полей и проверки
// уникальности идентификатора.
func (s *SubscriptionService) AddPlan(req models.DummyPlan) error {
	const op = "services.subscription.AddPlan"

	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%s: %v: %w", op, err, ErrValidationFailed)
	}
	if _, exists := s.store.Plan(req.ID); exists {
		return fmt.Errorf("%s: duplicate plan id %q: %w", op, req.ID, ErrValidationFailed)
	}

	s.store.AddPlan(models.Plan{
		ID:           req.ID,
		Name:         req.Name,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		Features:     req.Features,
		DeviceLimit:  req.DeviceLimit,
		Active:       req.Active,
	})
	s.log.Info("plan added", slog.String("plan_id", req.ID))
	return nil
}

// UpdatePlan накладывает частичное обновление на тариф: заданные поля
// перезаписываются, остальные сохраняются.
func (s *SubscriptionService) UpdatePlan(planID string, patch models.PlanPatch) error {
	const op = "services.subscription.UpdatePlan"

	if patch.Price != nil && *patch.Price <= 0 {
		return fmt.Errorf("%s: price: %w", op, ErrValidationFailed)
	}
	if patch.DurationDays != nil && *patch.DurationDays <= 0 {
		return fmt.Errorf("%s: duration: %w", op, ErrValidationFailed)
	}
	if patch.DeviceLimit != nil && (*patch.DeviceLimit < 1 || *patch.DeviceLimit > 5) {
		return fmt.Errorf("%s: device limit: %w", op, ErrValidationFailed)
	}
	if !s.store.UpdatePlan(planID, patch) {
		return fmt.Errorf("%s: %w", op, ErrPlanNotFound)
	}
	s.log.Info("plan updated", slog.String("plan_id", planID))
	return nil
}

// RemovePlan удаляет тариф. Уже оформленные подписки не затрагиваются:
// запись пользователя хранит копию условий.
func (s *SubscriptionService) RemovePlan(planID string) error {
	const op = "services.subscription.RemovePlan"
	if !s.store.DeletePlan(planID) {
		return fmt.Errorf("%s: %w", op, ErrPlanNotFound)
	}
	s.log.Info("plan removed", slog.String("plan_id", planID))
	return nil
}

// Stats собирает сводку для административной панели. Выручка
// оценивается по текущим ценам тарифов подтверждённых подписок.
func (s *SubscriptionService) Stats() models.Stats {
	users := s.store.Users()
	stats := models.Stats{
		TotalUsers: len(users),
		PlanCount:  len(s.store.Plans()),
	}
	for _, u := range users {
		switch {
		case u.PaymentVerified:
			stats.ActiveSubs++
			if plan, ok := s.store.PlanByName(u.PlanName); ok {
				stats.Revenue += plan.Price
			}
		case u.HasPlan():
			stats.PendingPayments++
		}
	}
	return stats
}

// PendingPayments возвращает пользователей с выбранным тарифом и
// неподтверждённой оплатой — очередь проверки для администратора.
func (s *SubscriptionService) PendingPayments() []models.UserView {
	var pending []models.UserView
	for id, u := range s.store.Users() {
		if u.HasPlan() && !u.PaymentVerified {
			pending = append(pending, s.view(id, u))
		}
	}
	return pending
}
