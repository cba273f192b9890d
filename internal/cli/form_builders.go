package cli

import "github.com/charmbracelet/huh"

// entryForm collects the fields of a time entry. Empty values are filled in;
// values already set by flags are shown for confirmation.
func entryForm(date, clockIn, clockOut *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Placeholder("2024-03-04").
				Value(date).
				Validate(validateDate),
			huh.NewInput().
				Title("Clock in").
				Placeholder("09:00").
				Value(clockIn).
				Validate(validateClock),
			huh.NewInput().
				Title("Clock out").
				Placeholder("17:00").
				Value(clockOut).
				Validate(validateClock),
		),
	).WithTheme(ledgerHuhTheme()).WithShowHelp(false)
}
