package models

import "time"

// Feriado/folga: dia inteiro sem atendimento para a barbearia
type Holiday struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index:idx_shop_holiday,unique" json:"barbershop_id"`

	// Data no formato 2006-01-02, interpretada no timezone da barbearia
	Date  string `gorm:"size:10;index:idx_shop_holiday,unique" json:"date"`
	Label string `gorm:"size:100" json:"label"`

	CreatedAt time.Time `json:"created_at"`
}
