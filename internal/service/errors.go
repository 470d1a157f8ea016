package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrSessionExpired      = errors.New("session expired")
	ErrOneFactPerDay       = errors.New("only one fact per day")
	ErrAlreadyCompleted    = errors.New("lesson already completed")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrNoActiveQuiz        = errors.New("no active quiz")
	ErrEmptyQuestion       = errors.New("question is empty")
	ErrPortfolioLocked     = errors.New("portfolio locked")
	ErrInvalidPrice        = errors.New("invalid stock price")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientShares  = errors.New("insufficient shares")
	ErrInvalidSymbol       = errors.New("invalid symbol")
)

// MissingAnswersError lists the 1-based numbers of unanswered questions.
type MissingAnswersError struct {
	Numbers []int
}

func (e *MissingAnswersError) Error() string {
	nums := make([]string, len(e.Numbers))
	for i, n := range e.Numbers {
		nums[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("Please answer all questions before submitting. Missing: Questions %s", strings.Join(nums, ", "))
}
