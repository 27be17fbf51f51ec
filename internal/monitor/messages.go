package monitor

import (
	"fmt"
	"strings"

	"github.com/example/toyoko-monitor/internal/config"
)

// hotelLabel renders "Name (code)", or just the code when the name is
// unknown or redundant.
func hotelLabel(code string, directory map[string]string) string {
	name := directory[code]
	if name == "" || name == code {
		return code
	}
	return fmt.Sprintf("%s (%s)", name, code)
}

func buildAvailabilityMessage(cfg *config.Config, targetLabel string, checked int, availableCodes []string, directory map[string]string) string {
	lines := []string{
		"Toyoko Inn availability update",
		"Target   : " + targetLabel,
		"Check-in : " + config.LocalDate(cfg.Search.CheckinDate),
		"Check-out: " + config.LocalDate(cfg.Search.CheckoutDate),
		fmt.Sprintf("Guests/rooms: %d / %d", cfg.Search.People, cfg.Search.Rooms),
		fmt.Sprintf("Hotels checked: %d", checked),
	}
	if len(availableCodes) > 0 {
		lines = append(lines, fmt.Sprintf("Rooms available at %d hotel(s):", len(availableCodes)))
		for _, code := range availableCodes {
			lines = append(lines, "  - "+hotelLabel(code, directory))
		}
	} else {
		lines = append(lines, "No rooms available right now")
	}
	return strings.Join(lines, "\n")
}

func buildErrorMessage(targetLabel string, err error) string {
	return fmt.Sprintf("[ERROR] Toyoko Inn monitor check failed\nTarget: %s\n%v", targetLabel, err)
}
