package services

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Parse failures. Callers log and drop; nothing here touches I/O or state.
var (
	ErrAmountNotFound = errors.New("no amount found in notification text")
	ErrInvalidAmount  = errors.New("parsed amount is not positive")
)

// UnknownDepositor is substituted when no depositor name can be extracted.
const UnknownDepositor = "미상"

// DepositEvent is the structured result of parsing one bank notification.
type DepositEvent struct {
	DepositorName string
	Amount        int64
	SourceApp     string
}

var (
	// First run of digits, optionally comma-grouped in threes.
	amountPattern = regexp.MustCompile(`(\d{1,3}(?:,\d{3})+|\d+)`)
	// Leading run of Han, Hangul or Latin letters.
	namePattern = regexp.MustCompile(`^[\x{4E00}-\x{9FFF}\x{AC00}-\x{D7AF}A-Za-z]+`)
	newlines    = strings.NewReplacer("\n", " ", "\r", " ")
)

// ParseNotification extracts a deposit event from free-form vendor text.
// This is a best-effort heuristic; false positives are tolerated downstream.
func ParseNotification(title, body, subtitle, packageName string) (*DepositEvent, error) {
	sourceApp := packageName
	if sourceApp == "" {
		sourceApp = "unknown"
	}

	parts := make([]string, 0, 3)
	for _, s := range []string{body, title, subtitle} {
		if s = strings.TrimSpace(newlines.Replace(s)); s != "" {
			parts = append(parts, s)
		}
	}
	fullText := strings.Join(parts, " ")

	amountStr := amountPattern.FindString(fullText)
	if amountStr == "" {
		return nil, ErrAmountNotFound
	}
	amount, err := strconv.ParseInt(strings.ReplaceAll(amountStr, ",", ""), 10, 64)
	if err != nil || amount <= 0 {
		return nil, ErrInvalidAmount
	}

	name := namePattern.FindString(fullText)
	if name == "" {
		name = UnknownDepositor
	}
	name = strings.Join(strings.Fields(name), "")

	return &DepositEvent{
		DepositorName: name,
		Amount:        amount,
		SourceApp:     sourceApp,
	}, nil
}
