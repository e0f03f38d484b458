package profile

import (
	"strings"

	"company_profiler/pkg/core/registry"
	"company_profiler/pkg/models"
)

// =============================================================================
// MASTER RECORD EXTRACTION
// =============================================================================

// ExtractBasicInfo reads the identity block. IsDeleted is left false; it is
// decided from the history by the compliance step.
func ExtractBasicInfo(rec *registry.MasterRecord) models.BasicInfo {
	info := models.BasicInfo{CompanyNumber: rec.CompanyNumber()}
	if len(rec.Firma.Names) > 0 && len(rec.Firma.Names[0].Designation) > 0 {
		info.CompanyName = optional(rec.Firma.Names[0].Designation[0])
	}
	if len(rec.Firma.LegalForms) > 0 {
		info.LegalForm = optional(rec.Firma.LegalForms[0].Text)
	}
	if len(rec.EUID) > 0 {
		info.EuropeanID = optional(rec.EUID[0].EUID)
	}
	return info
}

// ExtractLocation returns the first registered address. Without one it
// falls back to the seat, which only names a city. Nil when neither exists.
func ExtractLocation(rec *registry.MasterRecord) *models.Address {
	if len(rec.Firma.Addresses) > 0 {
		a := rec.Firma.Addresses[0]
		var street []string
		for _, s := range append(append([]string{}, a.Street...), a.Place...) {
			if s = strings.TrimSpace(s); s != "" {
				street = append(street, s)
			}
		}
		return &models.Address{
			Street:      strings.Join(street, ", "),
			HouseNumber: strings.TrimSpace(a.HouseNumber),
			PostalCode:  strings.TrimSpace(a.PostalCode),
			City:        strings.TrimSpace(a.City),
			Country:     strings.TrimSpace(a.Country),
		}
	}
	for _, seat := range rec.Firma.Seats {
		city := strings.TrimSpace(seat.Seat)
		if city == "" {
			city = strings.TrimSpace(seat.PlaceText)
		}
		if city != "" {
			return &models.Address{City: city}
		}
	}
	return nil
}

// ExtractManagement joins every function to the person with the same PNR.
// Functions whose person is missing from the extract are skipped.
func ExtractManagement(rec *registry.MasterRecord) []models.ManagementEntry {
	persons := make(map[string]*registry.PersonDetails, len(rec.Persons))
	for i := range rec.Persons {
		p := &rec.Persons[i]
		if len(p.Details) == 0 {
			continue
		}
		if _, ok := persons[p.PNR()]; !ok {
			persons[p.PNR()] = &p.Details[0]
		}
	}

	out := make([]models.ManagementEntry, 0, len(rec.Functions))
	for i := range rec.Functions {
		fn := &rec.Functions[i]
		details, ok := persons[fn.PNR()]
		if !ok {
			continue
		}
		entry := models.ManagementEntry{
			PNR:         fn.PNR(),
			Name:        personName(details),
			DateOfBirth: lenientDate(details.BirthDate),
			Role:        strings.TrimSpace(fn.Text),
		}
		if len(fn.Periods) > 0 {
			entry.AppointedOn = lenientDate(fn.Periods[0].From)
		}
		out = append(out, entry)
	}
	return out
}

// ExtractHistory copies the register entries in register order.
func ExtractHistory(rec *registry.MasterRecord) []models.HistoryEvent {
	out := make([]models.HistoryEvent, 0, len(rec.History))
	for i := range rec.History {
		h := &rec.History[i]
		ev := models.HistoryEvent{
			EventNumber: h.VNR(),
			EventDate:   lenientDate(h.CompletedOn),
			Court:       h.Court,
			FiledDate:   lenientDate(h.ReceivedOn),
		}
		if len(h.Texts) > 0 {
			ev.EventText = h.Texts[0]
		}
		out = append(out, ev)
	}
	return out
}

func personName(d *registry.PersonDetails) string {
	if n := firstText(d.FormattedName); n != "" {
		return n
	}
	if n := firstText(d.Designation); n != "" {
		return n
	}
	return strings.TrimSpace(strings.TrimSpace(d.FirstName) + " " + strings.TrimSpace(d.LastName))
}

func firstText(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// lenientDate drops dates the register sent in an unknown layout.
func lenientDate(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		return models.Date{}
	}
	return d
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
