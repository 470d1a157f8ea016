package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionOnboarding = "onb"
	actionDashboard  = "dash"
	actionProgress   = "prog"
	actionFact       = "fact"
	actionCourses    = "courses"
	actionCourse     = "course"
	actionLesson     = "lesson"
	actionLessonDone = "ldone"
	actionQuizStart  = "qs"
	actionQuizAnswer = "qa"
	actionQuizGoTo   = "qg"
	actionQuizNav    = "qn"
	actionPortfolio  = "pf"
	actionSettings   = "set"
	actionAsk        = "ask"
	actionStock      = "stock"
	actionWatch      = "watch"
	actionReset      = "reset"
	actionDelete     = "delacct"
	actionProfile    = "prof"
)

// Onboarding sub-actions.
const (
	onboardingBegin   = "begin"
	onboardingMode    = "mode"
	onboardingTime    = "time"
	onboardingAccount = "acct"
)

// Account choices at the end of onboarding.
const (
	accountGuest  = "guest"
	accountSignup = "signup"
	accountLogin  = "login"
)

// Fact sub-actions.
const (
	factToday    = "today"
	factComplete = "done"
	factOpen     = "open"
	factPage     = "page"
	factSearch   = "search"
)

// Quiz navigation sub-actions.
const (
	quizNext   = "next"
	quizPrev   = "prev"
	quizSubmit = "submit"
	quizCancel = "cancel"
)

// Portfolio sub-actions.
const (
	portfolioView         = "view"
	portfolioTransactions = "tx"
	portfolioChart        = "chart"
	portfolioExport       = "export"
)

// Settings sub-actions.
const (
	settingsMenu          = "menu"
	settingsLearningMode  = "mode"
	settingsDailyTime     = "time"
	settingsTimezone      = "tz"
	settingsNotifications = "notif"
)

// Ask sub-actions.
const (
	askNew        = "new"
	askSuggestion = "sug"
)

// Watchlist sub-actions.
const (
	watchAdd    = "add"
	watchRemove = "rm"
	watchList   = "list"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or "".
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// intParam returns the i-th parameter as a number.
func (cd callbackData) intParam(i int) (int, bool) {
	n, err := strconv.Atoi(cd.param(i))
	if err != nil {
		return 0, false
	}
	return n, true
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func build(action string, params ...string) string {
	return callbackData{Action: action, Params: params}.encode()
}

// encodeClock drops the colon from "HH:MM" since it separates params.
func encodeClock(clock string) string {
	return strings.ReplaceAll(clock, ":", "")
}

func decodeClock(s string) string {
	if len(s) != 4 {
		return s
	}
	return s[:2] + ":" + s[2:]
}

func buildOnboardingBeginCallback() string {
	return build(actionOnboarding, onboardingBegin)
}

func buildOnboardingModeCallback(mode string) string {
	return build(actionOnboarding, onboardingMode, mode) // facts/courses
}

func buildOnboardingTimeCallback(clock string) string {
	return build(actionOnboarding, onboardingTime, encodeClock(clock))
}

func buildOnboardingAccountCallback(choice string) string {
	return build(actionOnboarding, onboardingAccount, choice) // guest/signup/login
}

func buildDashboardCallback() string {
	return actionDashboard
}

func buildProgressCallback() string {
	return actionProgress
}

func buildFactTodayCallback() string {
	return build(actionFact, factToday)
}

func buildFactCompleteCallback(id entities.ID) string {
	return build(actionFact, factComplete, id.String())
}

func buildFactOpenCallback(id entities.ID) string {
	return build(actionFact, factOpen, id.String())
}

// buildFactPageCallback pages through facts, optionally in one category.
func buildFactPageCallback(page int, category string) string {
	if category == "" {
		return build(actionFact, factPage, strconv.Itoa(page))
	}
	return build(actionFact, factPage, strconv.Itoa(page), category)
}

func buildFactSearchCallback() string {
	return build(actionFact, factSearch)
}

func buildCoursesCallback() string {
	return actionCourses
}

func buildCourseCallback(id entities.ID) string {
	return build(actionCourse, id.String())
}

func buildLessonCallback(courseID, lessonID entities.ID) string {
	return build(actionLesson, courseID.String(), lessonID.String())
}

func buildLessonDoneCallback(courseID, lessonID entities.ID) string {
	return build(actionLessonDone, courseID.String(), lessonID.String())
}

// buildQuizStartCallback refers to the lesson, not the quiz, so the data
// stays under Telegram's 64 byte limit. The quiz id is looked up again.
func buildQuizStartCallback(courseID, lessonID entities.ID) string {
	return build(actionQuizStart, courseID.String(), lessonID.String())
}

func buildQuizAnswerCallback(index, option int) string {
	return build(actionQuizAnswer, strconv.Itoa(index), strconv.Itoa(option))
}

func buildQuizGoToCallback(index int) string {
	return build(actionQuizGoTo, strconv.Itoa(index))
}

func buildQuizNavCallback(sub string) string {
	return build(actionQuizNav, sub)
}

func buildPortfolioCallback(sub string, params ...string) string {
	return build(actionPortfolio, append([]string{sub}, params...)...)
}

func buildTransactionsCallback(page int) string {
	return buildPortfolioCallback(portfolioTransactions, strconv.Itoa(page))
}

func buildSettingsCallback(sub string, value ...string) string {
	return build(actionSettings, append([]string{sub}, value...)...)
}

func buildAskCallback() string {
	return build(actionAsk, askNew)
}

func buildAskSuggestionCallback(i int) string {
	return build(actionAsk, askSuggestion, strconv.Itoa(i))
}

func buildStockCallback(symbol string) string {
	return build(actionStock, symbol)
}

func buildWatchCallback(sub, symbol string) string {
	if symbol == "" {
		return build(actionWatch, sub)
	}
	return build(actionWatch, sub, symbol)
}

func buildProfileNameCallback() string {
	return build(actionProfile, "name")
}

func buildResetConfirmCallback() string {
	return build(actionReset, resetConfirm)
}

func buildResetCancelCallback() string {
	return build(actionReset, resetCancel)
}

func buildDeleteAccountConfirmCallback() string {
	return build(actionDelete, resetConfirm)
}

func buildDeleteAccountCancelCallback() string {
	return build(actionDelete, resetCancel)
}
