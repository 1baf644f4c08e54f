package scheduling

import "time"

// TimeSlot é derivado a cada consulta; nunca persistido nem cacheado.
type TimeSlot struct {
	Label     string    `json:"label"` // "09:30" no timezone da barbearia
	Date      string    `json:"date"`  // "2006-01-02"
	StartsAt  time.Time `json:"starts_at"`
	Available bool      `json:"available"`

	AppointmentID *uint  `json:"appointment_id,omitempty"`
	Blocked       bool   `json:"blocked,omitempty"`
	BlockReason   string `json:"block_reason,omitempty"`

	// true apenas na grade de fallback: o slot não foi validado
	// contra a agenda real e precisa de re-validação na escrita.
	Unverified bool `json:"unverified,omitempty"`
}

// Busy é um intervalo ocupado por um agendamento não cancelado.
type Busy struct {
	AppointmentID uint
	Start         time.Time
	End           time.Time
}

// Overlaps é o teste de interseção de intervalos usado em toda parte:
// bordas encostadas não conflitam.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// BuildSlots cruza a grade candidata com os intervalos ocupados.
// Um candidato fica indisponível se [start, start+duração) cruza
// qualquer agendamento existente.
func BuildSlots(grid []time.Time, serviceMinutes int, busy []Busy) []TimeSlot {
	dur := time.Duration(serviceMinutes) * time.Minute

	slots := make([]TimeSlot, 0, len(grid))
	for _, start := range grid {
		end := start.Add(dur)

		slot := TimeSlot{
			Label:     start.Format("15:04"),
			Date:      start.Format("2006-01-02"),
			StartsAt:  start.UTC(),
			Available: true,
		}

		for i := range busy {
			if Overlaps(start, end, busy[i].Start, busy[i].End) {
				slot.Available = false
				id := busy[i].AppointmentID
				slot.AppointmentID = &id
				break
			}
		}

		slots = append(slots, slot)
	}

	return slots
}

// ClampToWindow corta a lista à janela de exibição (ex.: 08:00–18:00).
func ClampToWindow(slots []TimeSlot, date time.Time, startHM, endHM string, loc *time.Location) []TimeSlot {
	winStart := AtDate(date, startHM, loc)
	winEnd := AtDate(date, endHM, loc)

	out := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		local := s.StartsAt.In(loc)
		if local.Before(winStart) || !local.Before(winEnd) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// FallbackGrid é a grade sintética servida quando a fonte de dados está
// fora do ar: passo fixo, janela fixa, tudo disponível e não verificado.
// Quem criar agendamento a partir dela passa obrigatoriamente pela
// re-validação do caminho de escrita.
func FallbackGrid(date time.Time, startHM, endHM string, slotMinutes int, now time.Time, loc *time.Location) []TimeSlot {
	start := AtDate(date, startHM, loc)
	end := AtDate(date, endHM, loc)
	step := time.Duration(slotMinutes) * time.Minute

	var slots []TimeSlot
	for cur := start; cur.Before(end); cur = cur.Add(step) {
		if cur.Before(now) {
			continue
		}
		slots = append(slots, TimeSlot{
			Label:      cur.Format("15:04"),
			Date:       cur.Format("2006-01-02"),
			StartsAt:   cur.UTC(),
			Available:  true,
			Unverified: true,
		})
	}
	return slots
}
