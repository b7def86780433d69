package usecase

import (
	"fmt"
	"time"

	"github.com/ArjunDas2003/ai-chatbot/domain"
)

// Clock supplies the wall-clock reading for time and date commands. Injected
// so dispatch stays deterministic under test.
type Clock func() time.Time

const (
	clockLayout    = "03:04 PM"
	fullDateLayout = "Monday, January 02, 2006"
	isoDateLayout  = "2006-01-02"
)

func timeConfirmation(now time.Time) string {
	return fmt.Sprintf("The current time is %s.", now.Format(clockLayout))
}

func dateConfirmation(now time.Time, kind domain.DateKind) string {
	switch kind {
	case domain.DateFull:
		return fmt.Sprintf("Today is %s.", now.Format(fullDateLayout))
	case domain.DateYear:
		return fmt.Sprintf("The current year is %d.", now.Year())
	case domain.DateLastYear:
		return fmt.Sprintf("Last year was %d.", now.Year()-1)
	default:
		return fmt.Sprintf("The date today is %s.", now.Format(isoDateLayout))
	}
}
