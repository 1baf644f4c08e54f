package scheduling

import (
	"time"

	"github.com/NavalhaApps/agenda-api/internal/httperr"
)

// GridInput descreve um dia civil no timezone da barbearia.
type GridInput struct {
	Date        time.Time
	Day         WorkingDay
	SlotMinutes int

	// Datas "2006-01-02" sem atendimento
	Holidays map[string]bool

	// Relógio injetado (determinismo nos testes)
	Now time.Time
}

// GenerateGrid enumera os inícios candidatos de [start,end) no passo de
// SlotMinutes, pulando a pausa e qualquer instante já no passado.
// Função pura: nenhum acesso a banco ou relógio global.
func GenerateGrid(in GridInput) ([]time.Time, error) {
	if in.SlotMinutes <= 0 {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidSlotMinutes)
	}

	if !in.Day.Open {
		return []time.Time{}, nil
	}

	if in.Holidays[in.Date.Format("2006-01-02")] {
		return []time.Time{}, nil
	}

	if err := in.Day.Validate(); err != nil {
		return []time.Time{}, nil
	}

	loc := in.Date.Location()
	dayStart := AtDate(in.Date, in.Day.Start, loc)
	dayEnd := AtDate(in.Date, in.Day.End, loc)

	hasBreak := in.Day.HasBreak()
	var breakStart, breakEnd time.Time
	if hasBreak {
		breakStart = AtDate(in.Date, in.Day.BreakStart, loc)
		breakEnd = AtDate(in.Date, in.Day.BreakEnd, loc)
	}

	step := time.Duration(in.SlotMinutes) * time.Minute
	var grid []time.Time

	for cur := dayStart; cur.Before(dayEnd); cur = cur.Add(step) {
		// pausa (almoço)
		if hasBreak && !cur.Before(breakStart) && cur.Before(breakEnd) {
			continue
		}

		// passado estrito é excluído
		if cur.Before(in.Now) {
			continue
		}

		grid = append(grid, cur)
	}

	return grid, nil
}
