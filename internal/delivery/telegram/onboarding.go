package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/service"
	"github.com/aliskhannn/investnyou-bot/internal/storage"
)

type OnboardingStep int

const (
	StepWelcome OnboardingStep = iota
	StepLearningMode
	StepDailyTime
	StepAccount
)

func (s OnboardingStep) Message() string {
	switch s {
	case StepWelcome:
		return onboardingWelcomeMessage()
	case StepLearningMode:
		return onboardingModeMessage()
	case StepDailyTime:
		return onboardingTimeMessage()
	case StepAccount:
		return onboardingAccountMessage()
	}

	return ""
}

func (s OnboardingStep) Keyboard() tgbotapi.InlineKeyboardMarkup {
	switch s {
	case StepLearningMode:
		return buildLearningModeKeyboard(buildOnboardingModeCallback)
	case StepDailyTime:
		return buildDailyTimeKeyboard(buildOnboardingTimeCallback)
	case StepAccount:
		return buildAccountKeyboard()
	}
	return buildWelcomeKeyboard()
}

func onboardingWelcomeMessage() string {
	var sb strings.Builder

	sb.WriteString("👋 <b>Welcome to InvestNYou!</b>\n\n")
	sb.WriteString("I'll help you build money skills a few minutes a day:\n")
	sb.WriteString("💡 A new financial fact every day\n")
	sb.WriteString("📚 Short courses with quizzes\n")
	sb.WriteString("🤖 An AI assistant for your questions\n")
	sb.WriteString("💼 A practice portfolio with $10,000 of play money\n\n")
	sb.WriteString("Let's set things up in 3 quick steps ⬇️")

	return sb.String()
}

func onboardingModeMessage() string {
	return "<i>Step 1 of 3</i>\n\n" +
		"<b>How would you like to learn?</b>\n\n" +
		"💡 <b>Daily facts</b>: one bite-sized fact a day\n" +
		"📚 <b>Structured courses</b>: lessons and quizzes in order"
}

func onboardingTimeMessage() string {
	return "<i>Step 2 of 3</i>\n\n" +
		"<b>When should I send your daily fact?</b>\n\n" +
		"You can change the time and your timezone later in /settings."
}

func onboardingAccountMessage() string {
	return "<i>Step 3 of 3</i>\n\n" +
		"<b>Save your progress</b>\n\n" +
		"Continue as a guest to start right away, or create an account to keep your progress across devices."
}

func (h *Handler) handleStart(ctx context.Context, chatID int64) error {
	st, err := h.sessions.Load(ctx, chatID)
	if err != nil {
		return err
	}
	if st.IsOnboarded && h.svc.Auth.IsAuthenticated(ctx, chatID) {
		return h.showDashboard(ctx, chatID, 0)
	}

	msg := newHTMLMessage(chatID, StepWelcome.Message())
	msg.ReplyMarkup = StepWelcome.Keyboard()
	return h.send(msg)
}

func (h *Handler) handleOnboardingCallback(ctx context.Context, chatID int64, messageID int, cd callbackData) error {
	showStep := func(step OnboardingStep) error {
		kb := step.Keyboard()
		return h.sendOrEdit(chatID, messageID, step.Message(), &kb)
	}

	switch cd.param(0) {
	case onboardingBegin:
		return showStep(StepLearningMode)

	case onboardingMode:
		if _, err := h.svc.Settings.SetLearningMode(ctx, chatID, cd.param(1)); err != nil {
			return err
		}
		return showStep(StepDailyTime)

	case onboardingTime:
		if _, err := h.svc.Settings.SetDailyFactTime(ctx, chatID, decodeClock(cd.param(1))); err != nil {
			return err
		}
		return showStep(StepAccount)

	case onboardingAccount:
		return h.startAccount(ctx, chatID, messageID, cd.param(1))
	}

	return nil
}

// startAccount finishes onboarding with the chosen kind of account.
func (h *Handler) startAccount(ctx context.Context, chatID int64, messageID int, choice string) error {
	switch choice {
	case accountGuest:
		return h.signInGuest(ctx, chatID, messageID)
	case accountSignup:
		h.pending.Expect(chatID, storage.InputSignupName)
		return h.sendOrEdit(chatID, messageID, "📝 <b>Create account</b>\n\nWhat's your name?", nil)
	case accountLogin:
		h.pending.Expect(chatID, storage.InputLoginEmail)
		return h.sendOrEdit(chatID, messageID, "🔑 <b>Log in</b>\n\nSend your email address.", nil)
	}
	return nil
}

func (h *Handler) signInGuest(ctx context.Context, chatID int64, messageID int) error {
	prefs, err := h.svc.Settings.Get(ctx, chatID)
	if err != nil {
		return err
	}

	profile := apiclient.DefaultGuest()
	if prefs.LearningMode != "" {
		profile.LearningMode = prefs.LearningMode
	}

	if _, err := h.svc.Auth.Guest(ctx, chatID, profile); err != nil {
		return err
	}
	if err := h.sendOrEdit(chatID, messageID, "✅ You're in! Progress is saved to a guest account.", nil); err != nil {
		return err
	}
	return h.showDashboard(ctx, chatID, 0)
}

// handleSignupInput walks through name, email and password.
func (h *Handler) handleSignupInput(ctx context.Context, chatID int64, p storage.PendingInput, text string) error {
	text = strings.TrimSpace(text)

	switch p.Kind {
	case storage.InputSignupName:
		if err := service.ValidateName(text); err != nil {
			return err
		}
		h.pending.Put(chatID, "name", text)
		h.pending.Expect(chatID, storage.InputSignupEmail)
		return h.send(newHTMLMessage(chatID, fmt.Sprintf("Nice to meet you, %s! Now send your email address.", esc(text))))

	case storage.InputSignupEmail:
		if err := service.ValidateEmail(text); err != nil {
			return err
		}
		h.pending.Put(chatID, "email", text)
		h.pending.Expect(chatID, storage.InputSignupPass)
		return h.send(newHTMLMessage(chatID, "Choose a password, at least 6 characters."))

	case storage.InputSignupPass:
		if err := service.ValidatePassword(text); err != nil {
			return err
		}
		prefs, err := h.svc.Settings.Get(ctx, chatID)
		if err != nil {
			return err
		}
		req := apiclient.RegisterRequest{
			Name:          p.Values["name"],
			Email:         p.Values["email"],
			Password:      text,
			AgeRange:      apiclient.DefaultGuest().AgeRange,
			FinancialGoal: apiclient.DefaultGuest().FinancialGoal,
			LearningMode:  prefs.LearningMode,
		}
		h.pending.Delete(chatID)
		if _, err := h.svc.Auth.Register(ctx, chatID, req); err != nil {
			return err
		}
		if err := h.send(newHTMLMessage(chatID, "🎉 Account created!")); err != nil {
			return err
		}
		return h.showDashboard(ctx, chatID, 0)
	}

	return nil
}

// handleLoginInput collects email then password.
func (h *Handler) handleLoginInput(ctx context.Context, chatID int64, p storage.PendingInput, text string) error {
	text = strings.TrimSpace(text)

	switch p.Kind {
	case storage.InputLoginEmail:
		if err := service.ValidateEmail(text); err != nil {
			return err
		}
		h.pending.Put(chatID, "email", text)
		h.pending.Expect(chatID, storage.InputLoginPassword)
		return h.send(newHTMLMessage(chatID, "Now send your password."))

	case storage.InputLoginPassword:
		h.pending.Delete(chatID)
		if _, err := h.svc.Auth.Login(ctx, chatID, p.Values["email"], text); err != nil {
			return err
		}
		if err := h.send(newHTMLMessage(chatID, "✅ Logged in.")); err != nil {
			return err
		}
		return h.showDashboard(ctx, chatID, 0)
	}

	return nil
}
